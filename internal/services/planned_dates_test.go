package services

import (
	"reflect"
	"testing"
	"time"
)

func formatDates(values []time.Time) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		result = append(result, FormatDate(value))
	}
	return result
}

func plannedList(t *testing.T, raw ...string) []time.Time {
	t.Helper()
	var list []time.Time
	for _, value := range raw {
		list = AddPlannedDate(list, mustParseDay(t, value))
	}
	return list
}

func TestAddPlannedDateKeepsOrderAndUniqueness(t *testing.T) {
	list := plannedList(t, "2024-03-12", "2024-03-05", "2024-03-12", "2024-03-08")

	want := []string{"2024-03-05", "2024-03-08", "2024-03-12"}
	if got := formatDates(list); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRemovePlannedDate(t *testing.T) {
	list := plannedList(t, "2024-03-05", "2024-03-08")

	want := []string{"2024-03-08"}
	if got := formatDates(RemovePlannedDate(list, mustParseDay(t, "2024-03-05"))); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNextPlannedDate(t *testing.T) {
	list := plannedList(t, "2024-03-05", "2024-03-08")

	if next := NextPlannedDate(list, mustParseDay(t, "2024-03-06")); next == nil || FormatDate(*next) != "2024-03-08" {
		t.Fatalf("expected 2024-03-08, got %v", next)
	}
	if next := NextPlannedDate(list, mustParseDay(t, "2024-03-08")); next == nil || FormatDate(*next) != "2024-03-08" {
		t.Fatalf("expected plan on today, got %v", next)
	}
	if next := NextPlannedDate(list, mustParseDay(t, "2024-03-20")); next == nil || FormatDate(*next) != "2024-03-08" {
		t.Fatalf("expected latest overdue plan, got %v", next)
	}
	if NextPlannedDate(nil, mustParseDay(t, "2024-03-20")) != nil {
		t.Fatal("expected nil without plans")
	}
}

func TestPrunePlannedDatesBoundaries(t *testing.T) {
	list := plannedList(t, "2024-03-09", "2024-03-10", "2024-03-11")
	cutoff := mustParseDay(t, "2024-03-10")

	if got, want := formatDates(PrunePlannedDatesAfter(list, cutoff)), []string{"2024-03-09", "2024-03-10"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after: expected %v, got %v", want, got)
	}
	if got, want := formatDates(PrunePlannedDatesThrough(list, cutoff)), []string{"2024-03-11"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("through: expected %v, got %v", want, got)
	}
	if len(list) != 3 {
		t.Fatalf("expected input untouched, got %v", formatDates(list))
	}
}
