package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/joyguard/joyguard/guard/session"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	btnAutoresponder = "✍️ Глобальный автоответчик"
	btnSupport       = "👨‍🔧 Тех.поддержка"
	btnHelp          = "❓ Помощь"
)

const privateGreeting = "👋 Добро пожаловать в SpringtrapSilent!\n\n" +
	"Здесь вы можете настроить свой глобальный автоответчик при персональном муте пользователя " +
	"(он будет использоваться, если вы не указали персональный) "

const helpText = "❓ Помощь по JoyGuard\n\n" +
	"📝 Команды в групповых чатах:\n\n" +
	"1️⃣ Спринг стоп\n" +
	"Ответьте на сообщение пользователя этой командой, чтобы заблокировать/разблокировать ему возможность отвечать на ваши сообщения.\n\n" +
	"2️⃣ Спринг стоп + текст\n" +
	"Напишите команду 'Спринг стоп' и с новой строки ваш текст автоответчика. " +
	"Этот текст будет показываться заблокированному пользователю при попытке ответить вам.\n\n" +
	"3️⃣ Спринг список\n" +
	"Показывает список всех блокировок в текущем чате.\n\n" +
	"⚙️ Настройки в личных сообщениях:\n\n" +
	"• Глобальный автоответчик - текст по умолчанию для всех блокировок\n" +
	"• Тех.поддержка - связь с администраторами\n" +
	"• Помощь - это сообщение\n\n" +
	"⚠️ Важно: Бот должен быть администратором чата с правом удаления сообщений!"

func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAutoresponder),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSupport),
			tgbotapi.NewKeyboardButton(btnHelp),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func (s *Server) sendMenu(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = mainKeyboard()
	if _, err := s.bot.Send(msg); err != nil {
		s.logger.Warn("failed to send private message", "chat", chatID, "err", err)
	}
}

func (s *Server) handlePrivateMessage(ctx context.Context, m *tgbotapi.Message) {
	userID := m.From.ID

	if m.IsCommand() {
		switch m.Command() {
		case "start":
			s.sessions.Cancel(userID)
			s.sendMenu(m.Chat.ID, privateGreeting)
		case "cancel":
			s.sessions.Cancel(userID)
			s.sendMenu(m.Chat.ID, "❌ Отменено.")
		}
		return
	}

	// menu buttons take priority over any pending session state
	switch m.Text {
	case btnAutoresponder:
		s.sessions.Cancel(userID)
		s.openAutoresponderMenu(ctx, m)
		return
	case btnSupport:
		s.sessions.Cancel(userID)
		s.sessions.Set(userID, session.State{Kind: session.KindAwaitingSupport})
		if _, err := s.sendText(m.Chat.ID,
			"👨‍🔧 Тех.поддержка\n\n"+
				"Опишите вашу проблему или вопрос, и я передам его администраторам.\n\n"+
				"Отправьте /cancel для отмены."); err != nil {
			s.logger.Warn("failed to send private message", "chat", m.Chat.ID, "err", err)
		}
		return
	case btnHelp:
		s.sessions.Cancel(userID)
		s.sendMenu(m.Chat.ID, helpText)
		return
	}

	switch s.sessions.Get(userID).Kind {
	case session.KindAwaitingAutoresponder:
		s.saveAutoresponder(ctx, m)
	case session.KindAwaitingSupport:
		s.submitSupportTicket(ctx, m)
	case session.KindAwaitingAdminReply:
		s.sendAdminReply(ctx, m)
	}
}

func (s *Server) openAutoresponderMenu(ctx context.Context, m *tgbotapi.Message) {
	current, err := s.engine.Store.GetAutoresponder(ctx, m.From.ID)
	if err != nil {
		s.logger.Error("failed to read autoresponder", "user", m.From.ID, "err", err)
	}

	text := "✍️ Глобальный автоответчик\n\n"
	if current != "" {
		text += fmt.Sprintf("Текущий автоответчик:\n\"%s\"\n\n", current)
	} else {
		text += "У вас пока не установлен глобальный автоответчик.\n\n"
	}
	text += "Отправьте мне новый текст автоответчика или /cancel для отмены."

	if _, err := s.sendText(m.Chat.ID, text); err != nil {
		s.logger.Warn("failed to send private message", "chat", m.Chat.ID, "err", err)
	}
	s.sessions.Set(m.From.ID, session.State{Kind: session.KindAwaitingAutoresponder})
}

func (s *Server) saveAutoresponder(ctx context.Context, m *tgbotapi.Message) {
	s.sessions.Cancel(m.From.ID)
	if err := s.engine.Store.SetAutoresponder(ctx, m.From.ID, m.Text); err != nil {
		s.logger.Error("failed to save autoresponder", "user", m.From.ID, "err", err)
		s.sendMenu(m.Chat.ID, "❌ Не удалось сохранить автоответчик, попробуйте ещё раз.")
		return
	}
	s.sendMenu(m.Chat.ID, "✅ Глобальный автоответчик успешно установлен!")
}

func (s *Server) submitSupportTicket(ctx context.Context, m *tgbotapi.Message) {
	s.sessions.Cancel(m.From.ID)

	ok, retryAfter, err := s.engine.Store.TouchSupportCooldown(ctx, m.From.ID, supportCooldown)
	if err != nil {
		s.logger.Error("support cooldown check failed", "user", m.From.ID, "err", err)
		return
	}
	if !ok {
		s.sendMenu(m.Chat.ID, fmt.Sprintf(
			"⏰ Пожалуйста, подождите %d сек. перед отправкой следующего сообщения.",
			int(retryAfter.Seconds())+1))
		return
	}

	if err := s.engine.Store.SaveSupportMessage(ctx, m.From.ID, m.Text); err != nil {
		s.logger.Error("failed to save support message", "user", m.From.ID, "err", err)
	}

	if s.adminID == 0 {
		s.sendMenu(m.Chat.ID, "✅ Ваше сообщение сохранено в базу данных!\n"+
			"Для прямой отправки администратору добавьте ADMIN_ID в .env файл.")
		return
	}

	userInfo := "От: " + m.From.FirstName
	if m.From.UserName != "" {
		userInfo += " (@" + m.From.UserName + ")"
	}
	userInfo += fmt.Sprintf("\nID: %d", m.From.ID)

	ticket := tgbotapi.NewMessage(s.adminID, fmt.Sprintf(
		"📩 Новое сообщение в тех.поддержку:\n\n%s\n\nСообщение:\n%s", userInfo, m.Text))
	ticket.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💬 Ответить", fmt.Sprintf("reply_%d", m.From.ID)),
		),
	)
	if _, err := s.bot.Send(ticket); err != nil {
		s.logger.Error("failed to forward support message", "admin", s.adminID, "err", err)
		s.sendMenu(m.Chat.ID, "✅ Ваше сообщение сохранено!\n"+
			"Администраторы увидят его при следующей проверке.")
		return
	}
	s.sendMenu(m.Chat.ID, "✅ Ваше сообщение отправлено администратору!\n"+
		"Он свяжется с вами в ближайшее время.")
}

func (s *Server) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	rest, found := strings.CutPrefix(cq.Data, "reply_")
	if !found {
		s.answerCallback(tgbotapi.NewCallback(cq.ID, ""))
		return
	}
	if s.adminID == 0 || cq.From.ID != s.adminID {
		s.answerCallback(tgbotapi.NewCallbackWithAlert(cq.ID, "У вас нет прав администратора"))
		return
	}
	recipientID, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		s.answerCallback(tgbotapi.NewCallback(cq.ID, ""))
		return
	}

	s.sessions.Set(cq.From.ID, session.State{
		Kind:        session.KindAwaitingAdminReply,
		RecipientID: recipientID,
	})
	if _, err := s.sendText(cq.From.ID, fmt.Sprintf(
		"✏️ Напишите ваш ответ пользователю %d:\n\nОтправьте /cancel для отмены.", recipientID)); err != nil {
		s.logger.Warn("failed to send private message", "chat", cq.From.ID, "err", err)
	}
	s.answerCallback(tgbotapi.NewCallback(cq.ID, ""))
}

func (s *Server) answerCallback(cfg tgbotapi.CallbackConfig) {
	if _, err := s.bot.Request(cfg); err != nil {
		s.logger.Debug("failed to answer callback", "err", err)
	}
}

func (s *Server) sendAdminReply(ctx context.Context, m *tgbotapi.Message) {
	state := s.sessions.Get(m.From.ID)
	s.sessions.Cancel(m.From.ID)

	if state.RecipientID == 0 {
		s.sendMenu(m.Chat.ID, "❌ Ошибка: ID пользователя не найден.")
		return
	}

	if _, err := s.sendText(state.RecipientID,
		"💬 Ответ от администратора:\n\n"+m.Text); err != nil {
		s.logger.Error("failed to deliver admin reply", "recipient", state.RecipientID, "err", err)
		s.sendMenu(m.Chat.ID, fmt.Sprintf("❌ Ошибка при отправке: %v", err))
		return
	}
	s.sendMenu(m.Chat.ID, fmt.Sprintf(
		"✅ Ответ отправлен пользователю %d!\n\nТекст ответа:\n%s", state.RecipientID, m.Text))
}
