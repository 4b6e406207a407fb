package services

import (
	"strings"
	"time"

	"github.com/terraincognita07/cyclemate/internal/i18n"
	"github.com/terraincognita07/cyclemate/internal/models"
)

type DigestReasonKind string

const (
	DigestReasonReminder      DigestReasonKind = "reminder"
	DigestReasonImportantDate DigestReasonKind = "important_date"
	DigestReasonPrePeriod     DigestReasonKind = "pre_period"
)

type DigestOptions struct {
	PrePeriodAlertDays    int
	ImportantDateLeadDays int
}

type DigestReason struct {
	Kind      DigestReasonKind    `json:"kind"`
	Reminder  models.ReminderType `json:"reminder,omitempty"`
	Name      string              `json:"name,omitempty"`
	DaysUntil int                 `json:"days_until"`
}

type DailyDigest struct {
	Date    time.Time      `json:"date"`
	Due     bool           `json:"due"`
	Reasons []DigestReason `json:"reasons"`
}

// BuildDailyDigest answers whether anything deserves attention today.
func BuildDailyDigest(state models.AppState, now time.Time, options DigestOptions) DailyDigest {
	today := DateOnly(now)
	digest := DailyDigest{Date: today, Reasons: []DigestReason{}}

	for _, kind := range models.ReminderTypes {
		record, ok := state.Reminders[kind]
		if !ok {
			continue
		}
		if DueForTodayBanner(kind, record, now) {
			digest.Reasons = append(digest.Reasons, DigestReason{Kind: DigestReasonReminder, Reminder: kind})
		}
	}

	if options.ImportantDateLeadDays >= 0 {
		for _, important := range state.ImportantDates {
			next, ok := NextImportantDateOccurrence(important, today)
			if !ok {
				continue
			}
			daysUntil := DaysBetween(today, next)
			if daysUntil <= options.ImportantDateLeadDays {
				digest.Reasons = append(digest.Reasons, DigestReason{
					Kind:      DigestReasonImportantDate,
					Name:      important.Name,
					DaysUntil: daysUntil,
				})
			}
		}
	}

	if options.PrePeriodAlertDays > 0 && state.Cycle.ExpectedNextStart != nil {
		if DaysBetween(today, *state.Cycle.ExpectedNextStart) == options.PrePeriodAlertDays {
			digest.Reasons = append(digest.Reasons, DigestReason{
				Kind:      DigestReasonPrePeriod,
				DaysUntil: options.PrePeriodAlertDays,
			})
		}
	}

	digest.Due = len(digest.Reasons) > 0
	return digest
}

// Message renders the digest as a notification body, one reason per line.
func (digest DailyDigest) Message(manager *i18n.Manager, language string) string {
	if manager == nil {
		manager = i18n.Default()
	}
	lines := []string{manager.Translate(language, "notification.title")}
	for _, reason := range digest.Reasons {
		switch reason.Kind {
		case DigestReasonReminder:
			name := manager.Translate(language, "reminder.name."+string(reason.Reminder))
			lines = append(lines, manager.Translatef(language, "notification.reminder_due", name))
		case DigestReasonImportantDate:
			if reason.DaysUntil == 0 {
				lines = append(lines, manager.Translatef(language, "notification.important_date_today", reason.Name))
			} else {
				lines = append(lines, manager.Plural(language, "notification.important_date_soon", reason.DaysUntil, reason.Name))
			}
		case DigestReasonPrePeriod:
			lines = append(lines, manager.Plural(language, "notification.pre_period", reason.DaysUntil))
		}
	}
	return strings.Join(lines, "\n")
}
