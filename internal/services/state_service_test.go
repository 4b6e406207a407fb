package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/terraincognita07/cyclemate/internal/models"
)

type recordingSaver struct {
	mu        sync.Mutex
	snapshots []models.AppState
}

func (saver *recordingSaver) Schedule(state models.AppState) {
	saver.mu.Lock()
	defer saver.mu.Unlock()
	saver.snapshots = append(saver.snapshots, state)
}

func (saver *recordingSaver) count() int {
	saver.mu.Lock()
	defer saver.mu.Unlock()
	return len(saver.snapshots)
}

func TestStateServicePeriodMutationsSchedulePersistence(t *testing.T) {
	saver := &recordingSaver{}
	service := NewStateService(models.NewAppState(), saver)

	cycle, changed := service.MarkPeriodStart(mustParseDay(t, "2024-01-01"))
	if !changed || len(cycle.Periods) != 1 {
		t.Fatalf("expected period added, got %+v (changed=%v)", cycle.Periods, changed)
	}
	if cycle.ExpectedNextStart == nil || FormatDate(*cycle.ExpectedNextStart) != "2024-01-29" {
		t.Fatalf("expected next start recomputed, got %v", cycle.ExpectedNextStart)
	}

	if _, changed := service.MarkPeriodStart(mustParseDay(t, "2024-01-01")); changed {
		t.Fatal("expected duplicate start to be a no-op")
	}
	if saver.count() != 1 {
		t.Fatalf("expected one scheduled save, got %d", saver.count())
	}

	cycle, changed = service.MarkPeriodEnd(mustParseDay(t, "2024-01-04"))
	if !changed || formatPeriods(cycle.Periods)[0] != "2024-01-01..2024-01-04" {
		t.Fatalf("expected period closed, got %v", formatPeriods(cycle.Periods))
	}

	cycle, changed = service.RemovePeriod(mustParseDay(t, "2024-01-01"))
	if !changed || len(cycle.Periods) != 0 {
		t.Fatalf("expected period removed, got %v", formatPeriods(cycle.Periods))
	}
}

func TestStateServiceSnapshotIsIsolated(t *testing.T) {
	service := NewStateService(models.NewAppState(), nil)
	service.MarkPeriodStart(mustParseDay(t, "2024-01-01"))

	snapshot := service.Snapshot()
	snapshot.Cycle.Periods[0].AutoEnd = false
	record := snapshot.Reminders[models.ReminderFlowers]
	record.Enabled = false
	snapshot.Reminders[models.ReminderFlowers] = record

	fresh := service.Snapshot()
	if !fresh.Cycle.Periods[0].AutoEnd || !fresh.Reminders[models.ReminderFlowers].Enabled {
		t.Fatal("expected snapshot mutations not to leak into service state")
	}
}

func TestStateServiceReminderActions(t *testing.T) {
	service := NewStateService(models.NewAppState(), &recordingSaver{})
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	record, err := service.MarkReminderDone(models.ReminderFlowers, now, now)
	if err != nil || len(record.Events) != 1 {
		t.Fatalf("expected event recorded, got %+v err=%v", record, err)
	}

	record, err = service.ClearReminderDone(models.ReminderFlowers, now, now)
	if err != nil || record.LastDone != nil {
		t.Fatalf("expected completion cleared, got %+v err=%v", record, err)
	}

	record, err = service.SetReminderFrequency(models.ReminderSurprises, 21)
	if err != nil || record.Frequency != 21 {
		t.Fatalf("expected frequency 21, got %+v err=%v", record, err)
	}
	if _, err := service.SetReminderFrequency(models.ReminderSurprises, 0); !errors.Is(err, ErrReminderFrequencyTooLow) {
		t.Fatalf("expected frequency error, got %v", err)
	}

	record, err = service.ToggleReminder(models.ReminderGeneral)
	if err != nil || record.Enabled {
		t.Fatalf("expected general disabled, got %+v err=%v", record, err)
	}

	if _, err := service.ToggleReminder(models.ReminderType("candles")); !errors.Is(err, ErrUnknownReminderType) {
		t.Fatalf("expected unknown type error, got %v", err)
	}
}

func TestStateServicePlannedDates(t *testing.T) {
	service := NewStateService(models.NewAppState(), nil)

	if _, err := service.AddPlannedDate(models.ReminderFlowers, mustParseDay(t, "2024-03-12")); !errors.Is(err, ErrPlansNotSupported) {
		t.Fatalf("expected plans unsupported for flowers, got %v", err)
	}

	for _, raw := range []string{"2024-03-12", "2024-03-20", "2024-03-05"} {
		if _, err := service.AddPlannedDate(models.ReminderDateNights, mustParseDay(t, raw)); err != nil {
			t.Fatalf("add plan %s: %v", raw, err)
		}
	}

	record, err := service.RemovePlannedDate(models.ReminderDateNights, mustParseDay(t, "2024-03-05"))
	if err != nil || len(record.PlannedDates) != 2 {
		t.Fatalf("expected two plans, got %v err=%v", formatDates(record.PlannedDates), err)
	}

	record, err = service.PrunePlannedDatesAfter(models.ReminderDateNights, mustParseDay(t, "2024-03-15"))
	if err != nil || len(record.PlannedDates) != 1 || FormatDate(record.PlannedDates[0]) != "2024-03-12" {
		t.Fatalf("expected only 2024-03-12, got %v err=%v", formatDates(record.PlannedDates), err)
	}
}

func TestStateServiceNotesAndImportantDates(t *testing.T) {
	service := NewStateService(models.NewAppState(), nil)

	note, err := service.AddReminderNote(models.ReminderSurprises, "gift", "pottery class")
	if err != nil || note.ID == "" {
		t.Fatalf("expected note, got %+v err=%v", note, err)
	}
	if _, err := service.AddReminderNote(models.ReminderSurprises, "gift", " "); !errors.Is(err, ErrReminderNoteInvalid) {
		t.Fatalf("expected invalid note error, got %v", err)
	}
	if _, err := service.RemoveReminderNote(models.ReminderSurprises, note.ID); err != nil {
		t.Fatalf("remove note: %v", err)
	}
	if _, err := service.RemoveReminderNote(models.ReminderSurprises, note.ID); !errors.Is(err, ErrReminderNoteNotFound) {
		t.Fatalf("expected note not found, got %v", err)
	}

	entry, err := service.AddImportantDate("Anniversary", time.June, 1)
	if err != nil || entry.ID == "" {
		t.Fatalf("expected important date, got %+v err=%v", entry, err)
	}
	if _, err := service.AddImportantDate("Anniversary", time.June, 31); !errors.Is(err, ErrImportantDateInvalid) {
		t.Fatalf("expected invalid date error, got %v", err)
	}
	if err := service.RemoveImportantDate(entry.ID); err != nil {
		t.Fatalf("remove important date: %v", err)
	}
	if err := service.RemoveImportantDate(entry.ID); !errors.Is(err, ErrImportantDateNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
