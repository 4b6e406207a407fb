package notify

import (
	"context"

	"github.com/terraincognita07/cyclemate/internal/logger"
)

// LogNotifier writes notifications to the application log. It is used when
// no Telegram chat is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, message string) error {
	logger.Log.WithField("channel", "log").Info(message)
	return nil
}
