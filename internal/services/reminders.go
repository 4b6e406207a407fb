package services

import (
	"sort"
	"time"

	"github.com/terraincognita07/cyclemate/internal/i18n"
	"github.com/terraincognita07/cyclemate/internal/models"
)

const (
	quietHoursStart = 21
	quietHoursEnd   = 6
)

type ReminderStatus struct {
	Type        models.ReminderType       `json:"type"`
	Status      models.ReminderStatusKind `json:"status"`
	MessageKey  string                    `json:"message_key"`
	Message     string                    `json:"message"`
	DaysSince   *int                      `json:"days_since,omitempty"`
	DaysUntil   *int                      `json:"days_until,omitempty"`
	DaysOverdue *int                      `json:"days_overdue,omitempty"`
	PlannedDate *time.Time                `json:"planned_date,omitempty"`
	IsDueToday  bool                      `json:"is_due_today"`

	count  int
	plural bool
}

// Localize renders the status message in the requested language.
func (status ReminderStatus) Localize(manager *i18n.Manager, language string) ReminderStatus {
	if manager == nil {
		return status
	}
	if status.plural {
		status.Message = manager.Plural(language, status.MessageKey, status.count)
	} else {
		status.Message = manager.Translate(language, status.MessageKey)
	}
	return status
}

// LastEventDate is the most recent recorded completion, falling back to LastDone.
func LastEventDate(record models.ReminderRecord) *time.Time {
	var latest *time.Time
	for index := range record.Events {
		event := record.Events[index]
		if latest == nil || event.After(*latest) {
			latest = &event
		}
	}
	if latest != nil {
		return datePtr(*latest)
	}
	if record.LastDone != nil {
		return datePtr(*record.LastDone)
	}
	return nil
}

func DaysSince(record models.ReminderRecord, now time.Time) (int, bool) {
	last := LastEventDate(record)
	if last == nil {
		return 0, false
	}
	return DaysBetween(*last, now), true
}

func BuildReminderStatus(kind models.ReminderType, record models.ReminderRecord, now time.Time) ReminderStatus {
	status := deriveReminderStatus(kind, record, now)
	status.IsDueToday = dueForToday(kind, record, status, now)
	return status.Localize(i18n.Default(), i18n.LangEN)
}

func BuildReminderStatuses(reminders map[models.ReminderType]models.ReminderRecord, now time.Time) []ReminderStatus {
	statuses := make([]ReminderStatus, 0, len(models.ReminderTypes))
	for _, kind := range models.ReminderTypes {
		record, ok := reminders[kind]
		if !ok {
			record = models.NewReminderRecord(kind)
		}
		statuses = append(statuses, BuildReminderStatus(kind, record, now))
	}
	return statuses
}

func deriveReminderStatus(kind models.ReminderType, record models.ReminderRecord, now time.Time) ReminderStatus {
	policy := reminderPolicy(kind)
	status := ReminderStatus{Type: kind}
	today := DateOnly(now)

	if !record.Enabled {
		status.Status = models.StatusDisabled
		status.MessageKey = "reminder.disabled"
		return status
	}

	if policy.SupportsPlannedDates {
		if planned := NextPlannedDate(record.PlannedDates, today); planned != nil {
			status.PlannedDate = planned
			daysUntil := DaysBetween(today, *planned)
			switch {
			case daysUntil > 0:
				status.Status = models.StatusPlanned
				status.DaysUntil = &daysUntil
				status.withCount("reminder.planned", daysUntil)
			case daysUntil == 0:
				status.Status = models.StatusPlannedToday
				status.DaysUntil = &daysUntil
				status.MessageKey = "reminder.planned_today"
			default:
				overdue := -daysUntil
				status.Status = models.StatusPlannedOverdue
				status.DaysOverdue = &overdue
				status.withCount("reminder.planned_overdue", overdue)
			}
			return status
		}
	}

	daysSince, ok := DaysSince(record, today)
	if !ok {
		status.Status = models.StatusPending
		status.MessageKey = "reminder.pending"
		return status
	}
	status.DaysSince = &daysSince

	if !policy.FrequencyDriven {
		status.Status = models.StatusOK
		if daysSince <= 0 {
			status.MessageKey = "reminder.general_today"
		} else {
			status.withCount("reminder.general_days_ago", daysSince)
		}
		return status
	}

	frequency := record.Frequency
	if frequency <= 0 {
		frequency = policy.DefaultFrequency
	}

	if daysSince >= frequency {
		overdue := daysSince - frequency
		status.Status = models.StatusDue
		status.DaysOverdue = &overdue
		if overdue == 0 {
			status.MessageKey = "reminder.due_today"
		} else {
			status.withCount("reminder.due_days_ago", overdue)
		}
		return status
	}

	daysUntil := frequency - daysSince
	status.Status = models.StatusOK
	status.DaysUntil = &daysUntil
	status.withCount("reminder.due_in_days", daysUntil)
	return status
}

func (status *ReminderStatus) withCount(key string, count int) {
	status.MessageKey = key
	status.count = count
	status.plural = true
}

// DueForTodayBanner decides whether the reminder belongs in today's banner.
// It is stricter than the due status: cooldown reminders wait out their
// cooldown and quiet hours, and nothing else shows before the morning.
func DueForTodayBanner(kind models.ReminderType, record models.ReminderRecord, now time.Time) bool {
	return dueForToday(kind, record, deriveReminderStatus(kind, record, now), now)
}

func dueForToday(kind models.ReminderType, record models.ReminderRecord, status ReminderStatus, now time.Time) bool {
	if !record.Enabled {
		return false
	}
	policy := reminderPolicy(kind)

	if policy.Cooldown > 0 {
		if record.LastDone == nil {
			return !inQuietHours(now)
		}
		eligibleAt := deferPastQuietHours(record.LastDone.In(now.Location()).Add(policy.Cooldown))
		return !now.Before(eligibleAt)
	}

	if now.Hour() < quietHoursEnd {
		return false
	}
	if status.Status == models.StatusDue {
		return true
	}
	if policy.SupportsPlannedDates {
		today := DateOnly(now)
		for _, planned := range record.PlannedDates {
			if !DateOnly(planned).After(today) {
				return true
			}
		}
	}
	return false
}

func inQuietHours(moment time.Time) bool {
	hour := moment.Hour()
	return hour >= quietHoursStart || hour < quietHoursEnd
}

// deferPastQuietHours moves an instant that lands in quiet hours to the next 06:00.
func deferPastQuietHours(moment time.Time) time.Time {
	year, month, day := moment.Date()
	switch {
	case moment.Hour() >= quietHoursStart:
		return time.Date(year, month, day+1, quietHoursEnd, 0, 0, 0, moment.Location())
	case moment.Hour() < quietHoursEnd:
		return time.Date(year, month, day, quietHoursEnd, 0, 0, 0, moment.Location())
	default:
		return moment
	}
}

// MarkDone records a completion on date. Reminders that keep an event history
// store the date once; LastDone moves forward only.
func MarkDone(kind models.ReminderType, record models.ReminderRecord, date time.Time, now time.Time) models.ReminderRecord {
	policy := reminderPolicy(kind)
	updated := cloneReminderRecord(record)
	day := DateOnly(date)

	completedAt := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())
	if sameDay(day, DateOnly(now)) {
		completedAt = now
	}

	if policy.RecordsEvents && !containsDate(updated.Events, day) {
		updated.Events = append(updated.Events, day)
		sortDatesDescending(updated.Events)
	}
	if updated.LastDone == nil || completedAt.After(*updated.LastDone) {
		updated.LastDone = &completedAt
	}
	if policy.SupportsPlannedDates {
		updated.PlannedDates = PrunePlannedDatesThrough(updated.PlannedDates, day)
	}
	return updated
}

// ClearDone removes the completion on date and rolls LastDone back when it
// pointed at that day.
func ClearDone(record models.ReminderRecord, date time.Time, now time.Time) models.ReminderRecord {
	updated := cloneReminderRecord(record)
	day := DateOnly(date)

	events := make([]time.Time, 0, len(updated.Events))
	for _, event := range updated.Events {
		if !sameDay(event, day) {
			events = append(events, event)
		}
	}
	updated.Events = events

	if updated.LastDone != nil && sameDay(*updated.LastDone, day) {
		if len(updated.Events) == 0 {
			updated.LastDone = nil
		} else {
			latest := DateOnly(updated.Events[0])
			rollback := time.Date(latest.Year(), latest.Month(), latest.Day(), 0, 0, 0, 0, now.Location())
			updated.LastDone = &rollback
		}
	}
	return updated
}

func ToggleReminder(record models.ReminderRecord) models.ReminderRecord {
	updated := cloneReminderRecord(record)
	updated.Enabled = !updated.Enabled
	return updated
}

func SetReminderFrequency(record models.ReminderRecord, frequency int) models.ReminderRecord {
	updated := cloneReminderRecord(record)
	updated.Frequency = clampInt(frequency, 1, 365)
	return updated
}

// PlanReminder adds a planned date for reminders that support plans.
func PlanReminder(kind models.ReminderType, record models.ReminderRecord, date time.Time) models.ReminderRecord {
	if !reminderPolicy(kind).SupportsPlannedDates {
		return record
	}
	updated := cloneReminderRecord(record)
	updated.PlannedDates = AddPlannedDate(updated.PlannedDates, date)
	return updated
}

func reminderPolicy(kind models.ReminderType) models.ReminderPolicy {
	if policy, ok := models.ReminderPolicyFor(kind); ok {
		return policy
	}
	return models.ReminderPolicy{DefaultFrequency: 1, FrequencyDriven: true, RecordsEvents: true}
}

func cloneReminderRecord(record models.ReminderRecord) models.ReminderRecord {
	cloned := record
	cloned.Events = copyDates(record.Events)
	cloned.PlannedDates = copyDates(record.PlannedDates)
	cloned.Notes = append([]models.ReminderNote{}, record.Notes...)
	if record.LastDone != nil {
		lastDone := *record.LastDone
		cloned.LastDone = &lastDone
	}
	return cloned
}

func containsDate(values []time.Time, day time.Time) bool {
	for _, value := range values {
		if sameDay(value, day) {
			return true
		}
	}
	return false
}

func sortDatesDescending(values []time.Time) {
	sort.Slice(values, func(i, j int) bool {
		return values[i].After(values[j])
	})
}
