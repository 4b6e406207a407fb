package services

import (
	"time"

	"github.com/terraincognita07/cyclemate/internal/models"
)

type CalendarDayState struct {
	Date        time.Time    `json:"date"`
	DateString  string       `json:"date_string"`
	Day         int          `json:"day"`
	InMonth     bool         `json:"in_month"`
	IsToday     bool         `json:"is_today"`
	IsPeriod    bool         `json:"is_period"`
	IsPredicted bool         `json:"is_predicted"`
	CycleDay    int          `json:"cycle_day,omitempty"`
	Phase       models.Phase `json:"phase,omitempty"`
}

// BuildCalendarDayStates returns the Sunday-aligned grid of weeks covering the
// month that contains monthStart.
func BuildCalendarDayStates(monthStart time.Time, state models.CycleState, now time.Time) []CalendarDayState {
	first := DateOnly(monthStart)
	first = time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := first.AddDate(0, 1, -1)
	gridStart := first.AddDate(0, 0, -int(first.Weekday()))
	gridEnd := monthEnd.AddDate(0, 0, 6-int(monthEnd.Weekday()))

	durationOffset := AveragePeriodDurationOffset(state.Periods)
	today := DateOnly(now)

	days := make([]CalendarDayState, 0, 42)
	for day := gridStart; !day.After(gridEnd); day = day.AddDate(0, 0, 1) {
		entry := CalendarDayState{
			Date:       day,
			DateString: FormatDate(day),
			Day:        day.Day(),
			InMonth:    day.Month() == first.Month(),
			IsToday:    day.Equal(today),
			IsPeriod:   IsInPastPeriod(day, state.Periods),
		}
		entry.IsPredicted = IsInFuturePeriod(day, state.ExpectedNextStart, state.CycleLength, durationOffset, state.Periods)
		if cycleDay, ok := CycleDay(day, state); ok {
			entry.CycleDay = cycleDay
			entry.Phase, _ = PhaseFromCycleDay(cycleDay, state.CycleLength)
		}
		days = append(days, entry)
	}

	return days
}
