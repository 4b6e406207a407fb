package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/terraincognita07/cyclemate/internal/logger"
	tele "gopkg.in/telebot.v3"
)

var ErrTelegramNotConfigured = errors.New("telegram bot token and chat id are required")

type TelegramSettings struct {
	Token  string
	ChatID int64
	// APIURL overrides the Bot API endpoint. Empty means the public one.
	APIURL string
}

// TelegramNotifier pushes daily digests to a single chat.
type TelegramNotifier struct {
	bot  *tele.Bot
	chat tele.ChatID
}

func NewTelegramNotifier(settings TelegramSettings) (*TelegramNotifier, error) {
	if settings.Token == "" || settings.ChatID == 0 {
		return nil, ErrTelegramNotConfigured
	}

	bot, err := tele.NewBot(tele.Settings{
		URL:     settings.APIURL,
		Token:   settings.Token,
		Offline: true,
		OnError: func(err error, _ tele.Context) {
			logger.Log.WithError(err).Error("notify: telegram error")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chat: tele.ChatID(settings.ChatID)}, nil
}

func (notifier *TelegramNotifier) Notify(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := notifier.bot.Send(notifier.chat, message, &tele.SendOptions{DisableWebPagePreview: true}); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
