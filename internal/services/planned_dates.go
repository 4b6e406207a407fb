package services

import (
	"sort"
	"time"
)

// AddPlannedDate inserts date keeping the list ascending and free of duplicates.
func AddPlannedDate(list []time.Time, date time.Time) []time.Time {
	day := DateOnly(date)
	for _, existing := range list {
		if sameDay(existing, day) {
			return list
		}
	}

	updated := append(copyDates(list), day)
	sort.Slice(updated, func(i, j int) bool {
		return updated[i].Before(updated[j])
	})
	return updated
}

func RemovePlannedDate(list []time.Time, date time.Time) []time.Time {
	updated := make([]time.Time, 0, len(list))
	for _, existing := range list {
		if !sameDay(existing, date) {
			updated = append(updated, existing)
		}
	}
	return updated
}

// NextPlannedDate returns the first plan on or after today, or the last plan
// when every plan is already in the past.
func NextPlannedDate(list []time.Time, today time.Time) *time.Time {
	if len(list) == 0 {
		return nil
	}
	day := DateOnly(today)
	for _, existing := range list {
		if !DateOnly(existing).Before(day) {
			return datePtr(existing)
		}
	}
	return datePtr(list[len(list)-1])
}

// PrunePlannedDatesAfter drops every plan strictly after cutoff.
func PrunePlannedDatesAfter(list []time.Time, cutoff time.Time) []time.Time {
	limit := DateOnly(cutoff)
	updated := make([]time.Time, 0, len(list))
	for _, existing := range list {
		if !DateOnly(existing).After(limit) {
			updated = append(updated, existing)
		}
	}
	return updated
}

// PrunePlannedDatesThrough drops every plan on or before cutoff.
func PrunePlannedDatesThrough(list []time.Time, cutoff time.Time) []time.Time {
	limit := DateOnly(cutoff)
	updated := make([]time.Time, 0, len(list))
	for _, existing := range list {
		if DateOnly(existing).After(limit) {
			updated = append(updated, existing)
		}
	}
	return updated
}
