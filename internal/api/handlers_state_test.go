package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/terraincognita07/cyclemate/internal/models"
)

var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func TestHealthz(t *testing.T) {
	t.Parallel()

	harness := newTestApp(t, models.NewAppState(), testNow)
	response := harness.do(t, http.MethodGet, "/healthz", "")
	assertStatus(t, response, http.StatusOK)
	if payload := decodeJSON(t, response); payload["ok"] != true {
		t.Fatalf("expected ok=true, got %#v", payload)
	}
}

func TestPeriodStartThenDayAndStats(t *testing.T) {
	t.Parallel()

	harness := newTestApp(t, models.NewAppState(), testNow)

	response := harness.do(t, http.MethodPost, "/api/periods/start", `{"date":"2026-03-01"}`)
	assertStatus(t, response, http.StatusOK)
	payload := decodeJSON(t, response)
	if payload["changed"] != true {
		t.Fatalf("expected changed=true, got %#v", payload)
	}

	response = harness.do(t, http.MethodGet, "/api/days/2026-03-03", "")
	assertStatus(t, response, http.StatusOK)
	day := decodeJSON(t, response)
	if day["cycle_day"] != float64(3) {
		t.Fatalf("expected cycle day 3, got %#v", day["cycle_day"])
	}
	if day["phase"] != string(models.PhasePeriod) {
		t.Fatalf("expected period phase, got %#v", day["phase"])
	}

	response = harness.do(t, http.MethodGet, "/api/stats", "")
	assertStatus(t, response, http.StatusOK)
	stats := decodeJSON(t, response)
	if stats["period_count"] != float64(1) {
		t.Fatalf("expected one period, got %#v", stats["period_count"])
	}
}

func TestPeriodStartRejectsInvalidDate(t *testing.T) {
	t.Parallel()

	harness := newTestApp(t, models.NewAppState(), testNow)

	for _, body := range []string{`{}`, `{"date":"03/01/2026"}`, `not json`} {
		response := harness.do(t, http.MethodPost, "/api/periods/start", body)
		assertStatus(t, response, http.StatusBadRequest)
	}
	if len(harness.state.Snapshot().Cycle.Periods) != 0 {
		t.Fatal("expected no periods after rejected input")
	}
}

func TestDeletePeriod(t *testing.T) {
	t.Parallel()

	harness := newTestApp(t, models.NewAppState(), testNow)
	harness.state.MarkPeriodStart(mustDate(t, "2026-03-01"))

	response := harness.do(t, http.MethodDelete, "/api/periods/2026-02-01", "")
	assertStatus(t, response, http.StatusNotFound)

	response = harness.do(t, http.MethodDelete, "/api/periods/2026-03-01", "")
	assertStatus(t, response, http.StatusOK)
	if len(harness.state.Snapshot().Cycle.Periods) != 0 {
		t.Fatal("expected period to be removed")
	}
}

func TestCalendarMonth(t *testing.T) {
	t.Parallel()

	harness := newTestApp(t, models.NewAppState(), testNow)

	response := harness.do(t, http.MethodGet, "/api/calendar?month=2026-02", "")
	assertStatus(t, response, http.StatusOK)
	payload := decodeJSON(t, response)
	if payload["month"] != "2026-02" {
		t.Fatalf("expected month 2026-02, got %#v", payload["month"])
	}
	days, ok := payload["days"].([]any)
	if !ok || len(days)%7 != 0 || len(days) == 0 {
		t.Fatalf("expected whole weeks, got %d days", len(days))
	}

	response = harness.do(t, http.MethodGet, "/api/calendar?month=february", "")
	assertStatus(t, response, http.StatusBadRequest)
}

func TestGetStateIncludesTodayAndReminders(t *testing.T) {
	t.Parallel()

	harness := newTestApp(t, models.NewAppState(), testNow)

	response := harness.do(t, http.MethodGet, "/api/state", "")
	assertStatus(t, response, http.StatusOK)
	payload := decodeJSON(t, response)

	reminders, ok := payload["reminders"].([]any)
	if !ok || len(reminders) != len(models.ReminderTypes) {
		t.Fatalf("expected %d reminder statuses, got %#v", len(models.ReminderTypes), payload["reminders"])
	}
	if _, ok := payload["today"].(map[string]any); !ok {
		t.Fatalf("expected today object, got %#v", payload["today"])
	}
}
