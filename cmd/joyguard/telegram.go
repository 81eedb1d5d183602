package main

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/joyguard/joyguard/guard"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// telegramPlatform adapts the bot API to the engine's username lookup
// interface. Telegram only resolves usernames through getChat, which works
// for any public @username the bot can see.
type telegramPlatform struct {
	bot *tgbotapi.BotAPI
}

func (p *telegramPlatform) FetchUserByUsername(ctx context.Context, username string) (*guard.UserRef, error) {
	chat, err := p.bot.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{
			SuperGroupUsername: "@" + strings.TrimPrefix(username, "@"),
		},
	})
	if err != nil {
		var tgErr *tgbotapi.Error
		if errors.As(err, &tgErr) && strings.Contains(tgErr.Message, "not found") {
			return nil, guard.ErrUserNotFound
		}
		return nil, err
	}
	if !chat.IsPrivate() {
		// username belongs to a group or channel, not an account
		return nil, guard.ErrUserNotFound
	}
	return &guard.UserRef{
		ID:        chat.ID,
		Username:  chat.UserName,
		FirstName: chat.FirstName,
		LastName:  chat.LastName,
	}, nil
}

func userRef(u *tgbotapi.User) guard.UserRef {
	if u == nil {
		return guard.UserRef{}
	}
	return guard.UserRef{
		ID:        u.ID,
		Username:  u.UserName,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func mentionHTML(u *tgbotapi.User) string {
	name := u.FirstName
	if name == "" {
		name = u.UserName
	}
	if name == "" {
		name = fmt.Sprintf("ID%d", u.ID)
	}
	return fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, u.ID, html.EscapeString(name))
}

func (s *Server) sendText(chatID int64, text string) (tgbotapi.Message, error) {
	return s.bot.Send(tgbotapi.NewMessage(chatID, text))
}

func (s *Server) sendHTML(chatID int64, text string) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return s.bot.Send(msg)
}

func (s *Server) reply(to *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(to.Chat.ID, text)
	msg.ReplyToMessageID = to.MessageID
	if _, err := s.bot.Send(msg); err != nil {
		s.logger.Warn("failed to send reply", "chat", to.Chat.ID, "err", err)
	}
}

func (s *Server) deleteMessage(chatID int64, messageID int) error {
	_, err := s.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	return err
}

// deleteLater removes a message after the given delay, swallowing errors
// (the chat may have beaten us to it).
func (s *Server) deleteLater(chatID int64, messageID int, delay time.Duration) {
	go func() {
		time.Sleep(delay)
		if err := s.deleteMessage(chatID, messageID); err != nil {
			s.logger.Debug("scheduled notice delete failed", "chat", chatID, "err", err)
		}
	}()
}
