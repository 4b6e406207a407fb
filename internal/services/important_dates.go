package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/cyclemate/internal/models"
)

// NextImportantDateOccurrence returns the first yearly occurrence on or after
// today. Feb 29 falls back to Feb 28 in common years.
func NextImportantDateOccurrence(date models.ImportantDate, today time.Time) (time.Time, bool) {
	if !validImportantDate(date.Month, date.Day) {
		return time.Time{}, false
	}
	day := DateOnly(today)
	candidate := occurrenceInYear(date, day.Year())
	if candidate.Before(day) {
		candidate = occurrenceInYear(date, day.Year()+1)
	}
	return candidate, true
}

func AddImportantDate(list []models.ImportantDate, name string, month time.Month, day int) ([]models.ImportantDate, models.ImportantDate, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || !validImportantDate(month, day) {
		return list, models.ImportantDate{}, false
	}
	entry := models.ImportantDate{
		ID:    uuid.NewString(),
		Name:  trimmed,
		Month: month,
		Day:   day,
	}
	updated := append(append([]models.ImportantDate{}, list...), entry)
	return updated, entry, true
}

func RemoveImportantDate(list []models.ImportantDate, id string) []models.ImportantDate {
	updated := make([]models.ImportantDate, 0, len(list))
	for _, entry := range list {
		if entry.ID != id {
			updated = append(updated, entry)
		}
	}
	return updated
}

func occurrenceInYear(date models.ImportantDate, year int) time.Time {
	day := date.Day
	if last := daysInMonth(year, date.Month); day > last {
		day = last
	}
	return time.Date(year, date.Month, day, 0, 0, 0, 0, time.UTC)
}

func validImportantDate(month time.Month, day int) bool {
	if month < time.January || month > time.December || day < 1 {
		return false
	}
	// 2024 is a leap year, so Feb 29 is accepted.
	return day <= daysInMonth(2024, month)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
