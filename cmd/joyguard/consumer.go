package main

import (
	"context"
	"strings"
	"unicode/utf16"

	"github.com/joyguard/joyguard/guard"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const groupGreeting = "👋 SpringtrapSilent активен!\n\n" +
	"📝 Команды:\n" +
	"• Ответьте на сообщение пользователя командой 'Спринг стоп' для блокировки\n" +
	"• 'Спринг стоп' + текст для установки персонального автоответчика\n" +
	"• 'Спринг список' для просмотра блокировок в чате\n\n" +
	"⚠️ Бот должен быть администратором с правом удаления сообщений!"

const deleteFailedWarning = "⚠️ Не удалось удалить сообщение. Убедитесь, что бот является администратором с правом удаления сообщений."

// Run consumes the telegram long-poll update stream until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := s.bot.GetUpdatesChan(cfg)

	s.logger.Info("starting update consumer", "bot", s.bot.Self.UserName)
	for {
		select {
		case <-ctx.Done():
			s.bot.StopReceivingUpdates()
			return nil
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			go s.handleUpdate(ctx, upd)
		}
	}
}

func (s *Server) handleUpdate(ctx context.Context, upd tgbotapi.Update) {
	// updates are handled concurrently; don't let one bad update take the
	// consumer down
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("update handling panicked", "err", r)
		}
	}()

	switch {
	case upd.CallbackQuery != nil:
		updatesReceived.WithLabelValues("callback").Inc()
		s.handleCallback(ctx, upd.CallbackQuery)
	case upd.MyChatMember != nil:
		updatesReceived.WithLabelValues("chat-member").Inc()
		s.handleMembershipChange(upd.MyChatMember)
	case upd.Message != nil:
		m := upd.Message
		if m.From == nil || m.From.IsBot {
			return
		}
		if m.Chat.IsPrivate() {
			updatesReceived.WithLabelValues("private-message").Inc()
			s.handlePrivateMessage(ctx, m)
		} else if m.Chat.IsGroup() || m.Chat.IsSuperGroup() {
			updatesReceived.WithLabelValues("group-message").Inc()
			s.handleGroupMessage(ctx, m)
		}
	}
}

// handleMembershipChange greets the chat when the bot is first added.
func (s *Server) handleMembershipChange(ev *tgbotapi.ChatMemberUpdated) {
	wasIn := ev.OldChatMember.Status == "member" || ev.OldChatMember.Status == "administrator"
	isIn := ev.NewChatMember.Status == "member" || ev.NewChatMember.Status == "administrator"
	if wasIn || !isIn {
		return
	}
	greeting := "👋 Спасибо за добавление SpringtrapSilent!\n\n" +
		"📝 Доступные команды:\n" +
		"• Ответьте на сообщение пользователя командой 'Спринг стоп' для блокировки\n" +
		"• 'Спринг стоп' + текст для установки персонального автоответчика\n" +
		"• 'Спринг список' для просмотра блокировок в чате\n\n" +
		"⚠️ ВАЖНО: Сделайте бота администратором с правом удаления сообщений!\n\n" +
		"💬 Напишите мне в личку для настройки глобального автоответчика."
	if _, err := s.sendText(ev.Chat.ID, greeting); err != nil {
		s.logger.Warn("failed to send group greeting", "chat", ev.Chat.ID, "err", err)
	}
}

func (s *Server) handleGroupMessage(ctx context.Context, m *tgbotapi.Message) {
	if m.IsCommand() && m.Command() == "start" {
		s.reply(m, groupGreeting)
		return
	}

	msg := convertMessage(m)
	vrd, err := s.engine.HandleGroupMessage(ctx, msg)
	if err != nil {
		s.logger.Error("group message handling failed", "chat", m.Chat.ID, "err", err)
		return
	}

	switch vrd.Action {
	case guard.ActionCommandResult:
		s.reply(m, vrd.Text)
	case guard.ActionDeleteAndNotify:
		if err := s.deleteMessage(m.Chat.ID, m.MessageID); err != nil {
			s.logger.Warn("failed to delete suppressed message", "chat", m.Chat.ID, "err", err)
			if _, warned := s.warnedChats.LoadOrStore(m.Chat.ID, true); !warned {
				s.reply(m, deleteFailedWarning)
			}
			return
		}
		sent, err := s.sendHTML(m.Chat.ID, mentionHTML(m.From)+", "+vrd.Text)
		if err != nil {
			s.logger.Warn("failed to post suppression notice", "chat", m.Chat.ID, "err", err)
			return
		}
		s.deleteLater(m.Chat.ID, sent.MessageID, noticeTTL)
	}
}

// convertMessage maps a telegram message into the engine's neutral shape,
// lifting mention entities out of the text.
func convertMessage(m *tgbotapi.Message) *guard.Message {
	msg := &guard.Message{
		ChatID:    m.Chat.ID,
		MessageID: m.MessageID,
		Sender:    userRef(m.From),
		Text:      m.Text,
	}
	if msg.Text == "" {
		msg.Text = m.Caption
	}
	if m.ReplyToMessage != nil && m.ReplyToMessage.From != nil {
		ref := userRef(m.ReplyToMessage.From)
		msg.ReplyTo = &ref
	}

	entities := m.Entities
	if len(entities) == 0 {
		entities = m.CaptionEntities
	}
	for _, e := range entities {
		switch e.Type {
		case "text_mention":
			if e.User == nil {
				continue
			}
			ref := userRef(e.User)
			msg.Mentions = append(msg.Mentions, guard.Mention{User: &ref})
		case "mention":
			name := strings.TrimPrefix(entitySlice(msg.Text, e.Offset, e.Length), "@")
			if name != "" {
				msg.Mentions = append(msg.Mentions, guard.Mention{Username: name})
			}
		}
	}
	return msg
}

// entitySlice cuts an entity out of message text. Telegram entity offsets
// count UTF-16 code units, not bytes or runes.
func entitySlice(text string, offset, length int) string {
	units := utf16.Encode([]rune(text))
	if offset < 0 || length <= 0 || offset+length > len(units) {
		return ""
	}
	return string(utf16.Decode(units[offset : offset+length]))
}
