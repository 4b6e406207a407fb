package services

import (
	"math"
	"time"

	"github.com/terraincognita07/cyclemate/internal/models"
)

// AddPeriodStart records a period starting on date. A new period whose
// projected span would overlap an existing one is ignored. A date shortly after
// the latest, still editable period moves that period's start instead of
// opening a second one.
func AddPeriodStart(periods []models.Period, date time.Time) []models.Period {
	day := DateOnly(date)
	offset := AveragePeriodDurationOffset(periods)

	if index, ok := mostRecentPeriodIndex(periods); ok {
		latest := periods[index]
		gap := DaysBetween(latest.StartDate, day)
		if gap >= 1 && gap <= models.PeriodShiftToleranceDays && latest.Editable() {
			updated := clonePeriods(periods)
			end := AddDays(day, offset)
			updated[index] = models.Period{StartDate: day, EndDate: &end, AutoEnd: true}
			return updated
		}
	}

	end := AddDays(day, offset)
	for _, period := range periods {
		if spansOverlap(day, end, DateOnly(period.StartDate), periodEnd(period, offset)) {
			return periods
		}
	}

	updated := clonePeriods(periods)
	return append(updated, models.Period{StartDate: day, EndDate: &end, AutoEnd: true})
}

// AddPeriodEnd closes the most recent period that started on or before date.
func AddPeriodEnd(periods []models.Period, date time.Time) []models.Period {
	day := DateOnly(date)

	index := -1
	for i, period := range periods {
		start := DateOnly(period.StartDate)
		if start.After(day) {
			continue
		}
		if index < 0 || start.After(DateOnly(periods[index].StartDate)) {
			index = i
		}
	}

	updated := clonePeriods(periods)
	end := day
	if index < 0 {
		return append(updated, models.Period{StartDate: day, EndDate: &end})
	}
	updated[index].EndDate = &end
	updated[index].AutoEnd = false
	return updated
}

func RemovePeriod(periods []models.Period, date time.Time) []models.Period {
	day := DateOnly(date)
	updated := make([]models.Period, 0, len(periods))
	for _, period := range periods {
		if sameDay(period.StartDate, day) {
			continue
		}
		if period.EndDate != nil && sameDay(*period.EndDate, day) {
			continue
		}
		updated = append(updated, period)
	}
	return updated
}

// AveragePeriodDurationOffset is the typical number of days between a period's
// start and its user-confirmed end.
func AveragePeriodDurationOffset(periods []models.Period) int {
	total := 0
	samples := 0
	for _, period := range periods {
		if period.AutoEnd || period.EndDate == nil {
			continue
		}
		duration := DaysBetween(period.StartDate, *period.EndDate)
		if duration < 0 || duration > models.MaxPeriodLengthDays {
			continue
		}
		total += duration
		samples++
	}
	if samples == 0 {
		return models.DefaultPeriodDurationOffset
	}

	offset := int(math.Round(float64(total) / float64(samples)))
	return clampInt(offset, 0, models.MaxPeriodLengthDays)
}

func periodEnd(period models.Period, offset int) time.Time {
	if period.EndDate != nil {
		return DateOnly(*period.EndDate)
	}
	return AddDays(period.StartDate, offset)
}

func spansOverlap(startA time.Time, endA time.Time, startB time.Time, endB time.Time) bool {
	return !startA.After(endB) && !startB.After(endA)
}

func mostRecentPeriodIndex(periods []models.Period) (int, bool) {
	index := -1
	for i, period := range periods {
		if index < 0 || period.StartDate.After(periods[index].StartDate) {
			index = i
		}
	}
	return index, index >= 0
}

func clonePeriods(periods []models.Period) []models.Period {
	cloned := make([]models.Period, 0, len(periods)+1)
	for _, period := range periods {
		if period.EndDate != nil {
			end := *period.EndDate
			period.EndDate = &end
		}
		cloned = append(cloned, period)
	}
	return cloned
}

func clampInt(value int, lower int, upper int) int {
	if value < lower {
		return lower
	}
	if value > upper {
		return upper
	}
	return value
}
