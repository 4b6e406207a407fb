package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/cyclemate/internal/i18n"
	"github.com/terraincognita07/cyclemate/internal/logger"
	"github.com/terraincognita07/cyclemate/internal/models"
)

type Notifier interface {
	Notify(ctx context.Context, message string) error
}

type StateReader interface {
	Snapshot() models.AppState
}

type NotificationService struct {
	state                  StateReader
	notifier               Notifier
	options                DigestOptions
	location               *time.Location
	i18n                   *i18n.Manager
	language               string
	mu                     sync.Mutex
	sentDailyNotifications map[string]time.Time
}

func NewNotificationService(state StateReader, notifier Notifier, options DigestOptions, location *time.Location, manager *i18n.Manager, language string) *NotificationService {
	if location == nil {
		location = time.Local
	}
	if manager == nil {
		manager = i18n.Default()
	}
	return &NotificationService{
		state:                  state,
		notifier:               notifier,
		options:                options,
		location:               location,
		i18n:                   manager,
		language:               language,
		sentDailyNotifications: make(map[string]time.Time),
	}
}

// RunDailyCheck evaluates today's digest and sends at most one notification
// per calendar day. It reports whether a message went out.
func (service *NotificationService) RunDailyCheck(ctx context.Context, now time.Time) (bool, error) {
	localNow := now.In(service.location)
	today := DateOnly(localNow)

	digest := BuildDailyDigest(service.state.Snapshot(), localNow, service.options)
	if !digest.Due {
		logger.Log.WithField("date", FormatDate(today)).Debug("notifications: nothing due today")
		return false, nil
	}

	key := fmt.Sprintf("digest:%s", FormatDate(today))
	if !service.shouldSend(key, today) {
		return false, nil
	}

	message := digest.Message(service.i18n, service.language)
	if err := service.notifier.Notify(ctx, message); err != nil {
		service.forget(key)
		return false, fmt.Errorf("send daily digest: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"date":    FormatDate(today),
		"reasons": len(digest.Reasons),
	}).Info("notifications: daily digest sent")
	return true, nil
}

func (service *NotificationService) shouldSend(key string, today time.Time) bool {
	service.mu.Lock()
	defer service.mu.Unlock()

	if sentOn, ok := service.sentDailyNotifications[key]; ok && sameDay(sentOn, today) {
		return false
	}

	service.sentDailyNotifications[key] = today
	if len(service.sentDailyNotifications) > 500 {
		service.sentDailyNotifications = map[string]time.Time{key: today}
	}
	return true
}

func (service *NotificationService) forget(key string) {
	service.mu.Lock()
	defer service.mu.Unlock()
	delete(service.sentDailyNotifications, key)
}
