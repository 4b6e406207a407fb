package services

import (
	"time"

	"github.com/terraincognita07/cyclemate/internal/models"
)

type DayInfo struct {
	Date           time.Time    `json:"date"`
	CycleDay       int          `json:"cycle_day,omitempty"`
	Phase          models.Phase `json:"phase,omitempty"`
	InPastPeriod   bool         `json:"in_past_period"`
	InFuturePeriod bool         `json:"in_future_period"`
}

// CycleDay resolves the 1-based cycle day of date. Recorded periods win; dates
// from the expected next start onwards fall back to forecast cycles.
func CycleDay(date time.Time, state models.CycleState) (int, bool) {
	if state.CycleLength <= 0 || date.IsZero() {
		return 0, false
	}
	day := DateOnly(date)
	starts := sortedStarts(state.Periods)

	for i := len(starts) - 1; i >= 0; i-- {
		start := starts[i]
		if start.After(day) {
			continue
		}

		if i+1 < len(starts) {
			if day.Before(starts[i+1]) {
				return DaysBetween(start, day) + 1, true
			}
			break
		}
		if state.ExpectedNextStart == nil || day.Before(DateOnly(*state.ExpectedNextStart)) {
			return DaysBetween(start, day) + 1, true
		}
		break
	}

	return forecastCycleDay(day, state.ExpectedNextStart, state.CycleLength)
}

func forecastCycleDay(day time.Time, expectedNextStart *time.Time, cycleLength int) (int, bool) {
	if expectedNextStart == nil || cycleLength <= 0 {
		return 0, false
	}
	anchor := DateOnly(*expectedNextStart)
	if day.Before(anchor) || DaysBetween(anchor, day) > models.ForecastHorizonDays {
		return 0, false
	}

	cycleStart := anchor
	for !AddDays(cycleStart, cycleLength).After(day) {
		cycleStart = AddDays(cycleStart, cycleLength)
	}
	return DaysBetween(cycleStart, day) + 1, true
}

// PhaseFromCycleDay maps a cycle day onto the fixed phase bands after folding
// it into a single cycle.
func PhaseFromCycleDay(day int, cycleLength int) (models.Phase, bool) {
	if cycleLength <= 0 || day < 1 {
		return "", false
	}
	normalized := ((day - 1) % cycleLength) + 1
	for _, band := range models.PhaseTable {
		if normalized < band.FirstDay {
			continue
		}
		if band.LastDay == 0 || normalized <= band.LastDay {
			return band.Phase, true
		}
	}
	return "", false
}

func IsInPastPeriod(date time.Time, periods []models.Period) bool {
	day := DateOnly(date)
	offset := AveragePeriodDurationOffset(periods)
	for _, period := range periods {
		if betweenInclusive(day, DateOnly(period.StartDate), periodEnd(period, offset)) {
			return true
		}
	}
	return false
}

// IsInFuturePeriod reports whether date sits in the forecast period window of
// the forecast cycle containing it. A recorded period at or after that
// forecast start supersedes it.
func IsInFuturePeriod(date time.Time, expectedNextStart *time.Time, cycleLength int, durationOffset int, periods []models.Period) bool {
	if expectedNextStart == nil || cycleLength <= 0 || durationOffset < 0 {
		return false
	}
	day := DateOnly(date)
	anchor := DateOnly(*expectedNextStart)
	elapsed := DaysBetween(anchor, day)
	if elapsed < 0 || elapsed > models.ForecastHorizonDays {
		return false
	}

	occurrence := AddDays(anchor, (elapsed/cycleLength)*cycleLength)
	if DaysBetween(occurrence, day) > durationOffset {
		return false
	}
	if IsInPastPeriod(day, periods) {
		return false
	}
	for _, period := range periods {
		start := DateOnly(period.StartDate)
		if start.Equal(occurrence) {
			return false
		}
		if start.After(occurrence) && !start.After(day) {
			return false
		}
	}
	return true
}

func DescribeDay(date time.Time, state models.CycleState) DayInfo {
	day := DateOnly(date)
	info := DayInfo{
		Date:         day,
		InPastPeriod: IsInPastPeriod(day, state.Periods),
	}
	info.InFuturePeriod = IsInFuturePeriod(
		day,
		state.ExpectedNextStart,
		state.CycleLength,
		AveragePeriodDurationOffset(state.Periods),
		state.Periods,
	)
	if cycleDay, ok := CycleDay(day, state); ok {
		info.CycleDay = cycleDay
		if phase, ok := PhaseFromCycleDay(cycleDay, state.CycleLength); ok {
			info.Phase = phase
		}
	}
	return info
}
