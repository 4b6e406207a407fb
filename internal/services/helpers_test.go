package services

import (
	"testing"
	"time"

	"github.com/terraincognita07/cyclemate/internal/models"
)

func mustParseDay(t *testing.T, raw string) time.Time {
	t.Helper()
	parsed, ok := ParseDate(raw)
	if !ok {
		t.Fatalf("parse day %q", raw)
	}
	return parsed
}

func dayPtr(t *testing.T, raw string) *time.Time {
	t.Helper()
	day := mustParseDay(t, raw)
	return &day
}

func userPeriod(t *testing.T, start string, end string) models.Period {
	t.Helper()
	return models.Period{StartDate: mustParseDay(t, start), EndDate: dayPtr(t, end)}
}

func autoPeriod(t *testing.T, start string, end string) models.Period {
	t.Helper()
	return models.Period{StartDate: mustParseDay(t, start), EndDate: dayPtr(t, end), AutoEnd: true}
}

func formatPeriods(periods []models.Period) []string {
	result := make([]string, 0, len(periods))
	for _, period := range periods {
		end := "-"
		if period.EndDate != nil {
			end = FormatDate(*period.EndDate)
		}
		marker := ""
		if period.AutoEnd {
			marker = "*"
		}
		result = append(result, FormatDate(period.StartDate)+".."+end+marker)
	}
	return result
}
