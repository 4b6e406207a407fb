package services

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// DateOnly returns the calendar date of value as a UTC-midnight time. All engine
// dates use this representation so day arithmetic never crosses a DST boundary.
func DateOnly(value time.Time) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateAtLocation returns the calendar date of value as observed in location.
func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	return DateOnly(value.In(location))
}

func DaysBetween(from time.Time, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)).Hours() / 24)
}

func AddDays(date time.Time, days int) time.Time {
	return DateOnly(date).AddDate(0, 0, days)
}

func ParseDate(raw string) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false
	}
	if len(trimmed) > len(dateLayout) {
		if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
			return DateOnly(parsed), true
		}
	}
	parsed, err := time.Parse(dateLayout, trimmed)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

func FormatDate(date time.Time) string {
	return DateOnly(date).Format(dateLayout)
}

func sameDay(a time.Time, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

func betweenInclusive(day time.Time, start time.Time, end time.Time) bool {
	return !day.Before(start) && !day.After(end)
}

func datePtr(date time.Time) *time.Time {
	day := DateOnly(date)
	return &day
}

func copyDates(values []time.Time) []time.Time {
	result := make([]time.Time, len(values))
	copy(result, values)
	return result
}
