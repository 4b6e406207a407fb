package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/terraincognita07/cyclemate/internal/models"
)

var (
	ErrStateDocumentInvalid    = errors.New("state document invalid")
	ErrStateVersionUnsupported = errors.New("state document version unsupported")
)

type documentUpgrade func(doc map[string]any) map[string]any

// stateUpgrades maps a schema version to the step that lifts it to the next one.
var stateUpgrades = map[int]documentUpgrade{
	0: upgradeStateV0ToV1,
	1: upgradeStateV1ToV2,
}

// UpgradeState decodes a persisted document of any known schema version into
// a fully defaulted AppState.
func UpgradeState(raw []byte) (models.AppState, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return models.NewAppState(), nil
	}

	doc := map[string]any{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return models.AppState{}, fmt.Errorf("%w: %v", ErrStateDocumentInvalid, err)
	}

	version := intValue(doc["schemaVersion"])
	if version < 0 || version > models.CurrentSchemaVersion {
		return models.AppState{}, fmt.Errorf("%w: %d", ErrStateVersionUnsupported, version)
	}
	for version < models.CurrentSchemaVersion {
		doc = stateUpgrades[version](doc)
		version++
		doc["schemaVersion"] = version
	}

	encoded, err := json.Marshal(doc)
	if err != nil {
		return models.AppState{}, fmt.Errorf("%w: %v", ErrStateDocumentInvalid, err)
	}
	state := models.AppState{}
	if err := json.Unmarshal(encoded, &state); err != nil {
		return models.AppState{}, fmt.Errorf("%w: %v", ErrStateDocumentInvalid, err)
	}
	return NormalizeState(state), nil
}

// NormalizeState fills absent fields with defaults and restores the ordering
// invariants of periods, events and plans.
func NormalizeState(state models.AppState) models.AppState {
	state.SchemaVersion = models.CurrentSchemaVersion

	periods := make([]models.Period, 0, len(state.Cycle.Periods))
	for _, period := range state.Cycle.Periods {
		if period.StartDate.IsZero() {
			continue
		}
		period.StartDate = DateOnly(period.StartDate)
		if period.EndDate != nil {
			if period.EndDate.Before(period.StartDate) {
				period.EndDate = nil
			} else {
				period.EndDate = datePtr(*period.EndDate)
			}
		}
		periods = append(periods, period)
	}
	state.Cycle.Periods = periods
	state.Cycle = RecomputeCycleState(state.Cycle)

	if state.Reminders == nil {
		state.Reminders = map[models.ReminderType]models.ReminderRecord{}
	}
	for kind := range state.Reminders {
		if _, known := models.ReminderPolicyFor(kind); !known {
			delete(state.Reminders, kind)
		}
	}
	for _, kind := range models.ReminderTypes {
		record, ok := state.Reminders[kind]
		if !ok {
			state.Reminders[kind] = models.NewReminderRecord(kind)
			continue
		}
		state.Reminders[kind] = normalizeReminderRecord(kind, record)
	}

	if state.ImportantDates == nil {
		state.ImportantDates = []models.ImportantDate{}
	}
	return state
}

func normalizeReminderRecord(kind models.ReminderType, record models.ReminderRecord) models.ReminderRecord {
	policy := reminderPolicy(kind)
	if record.Frequency <= 0 {
		record.Frequency = policy.DefaultFrequency
	}
	if record.Notes == nil {
		record.Notes = []models.ReminderNote{}
	}

	events := []time.Time{}
	for _, event := range record.Events {
		if !event.IsZero() && !containsDate(events, event) {
			events = append(events, DateOnly(event))
		}
	}
	sortDatesDescending(events)
	record.Events = events

	plans := []time.Time{}
	if policy.SupportsPlannedDates {
		for _, planned := range record.PlannedDates {
			if !planned.IsZero() {
				plans = AddPlannedDate(plans, planned)
			}
		}
	}
	record.PlannedDates = plans

	if len(events) > 0 && (record.LastDone == nil || DateOnly(*record.LastDone).Before(events[0])) {
		latest := events[0]
		record.LastDone = &latest
	}
	return record
}

func upgradeStateV0ToV1(doc map[string]any) map[string]any {
	periods := []any{}
	for _, raw := range asSlice(doc["periods"]) {
		entry := asMap(raw)
		start := firstPresent(entry, "startDate", "start")
		startValue, ok := normalizeDateValue(start)
		if !ok {
			continue
		}
		period := map[string]any{"startDate": startValue, "endDate": nil, "autoEnd": false}
		if endValue, ok := normalizeDateValue(firstPresent(entry, "endDate", "end")); ok {
			period["endDate"] = endValue
		}
		if autoEnd, ok := entry["autoEnd"].(bool); ok {
			period["autoEnd"] = autoEnd
		}
		periods = append(periods, period)
	}
	if len(periods) == 0 {
		if startValue, ok := normalizeDateValue(doc["lastPeriodStart"]); ok {
			periods = append(periods, map[string]any{"startDate": startValue, "endDate": nil, "autoEnd": false})
		}
	}
	doc["cycle"] = map[string]any{"periods": periods}
	delete(doc, "periods")
	delete(doc, "lastPeriodStart")
	delete(doc, "cycleLength")

	reminders := asMap(doc["reminders"])
	for kind, raw := range reminders {
		record := asMap(raw)
		if _, ok := record["enabled"]; !ok {
			record["enabled"] = true
		}
		lastDone, hasLastDone := normalizeTimestampValue(record["lastDone"])
		record["lastDone"] = nil
		if hasLastDone {
			record["lastDone"] = lastDone
		}

		if _, ok := record["events"]; !ok {
			events := []any{}
			if hasLastDone {
				events = append(events, lastDone)
			}
			record["events"] = events
		} else {
			record["events"] = normalizeDateList(record["events"])
		}

		plans := normalizeDateList(record["plannedDates"])
		if planned, ok := normalizeDateValue(record["plannedDate"]); ok {
			plans = append(plans, planned)
		}
		record["plannedDates"] = plans
		delete(record, "plannedDate")
		reminders[kind] = record
	}
	doc["reminders"] = reminders
	return doc
}

func upgradeStateV1ToV2(doc map[string]any) map[string]any {
	reminders := asMap(doc["reminders"])
	for kind, raw := range reminders {
		record := asMap(raw)
		if _, ok := record["notes"]; !ok {
			record["notes"] = []any{}
		}
		reminders[kind] = record
	}
	if _, ok := reminders[string(models.ReminderGeneral)]; !ok {
		reminders[string(models.ReminderGeneral)] = reminderRecordDocument(models.NewReminderRecord(models.ReminderGeneral))
	}
	doc["reminders"] = reminders

	if _, ok := doc["importantDates"]; !ok {
		doc["importantDates"] = []any{}
	}
	return doc
}

func reminderRecordDocument(record models.ReminderRecord) map[string]any {
	encoded, err := json.Marshal(record)
	if err != nil {
		return map[string]any{}
	}
	doc := map[string]any{}
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return map[string]any{}
	}
	return doc
}

// normalizeDateValue accepts a date string or timestamp and returns the
// RFC 3339 form of its calendar date.
func normalizeDateValue(value any) (string, bool) {
	parsed, ok := parseLegacyTime(value)
	if !ok {
		return "", false
	}
	return DateOnly(parsed).Format(time.RFC3339), true
}

func normalizeTimestampValue(value any) (string, bool) {
	parsed, ok := parseLegacyTime(value)
	if !ok {
		return "", false
	}
	return parsed.Format(time.RFC3339Nano), true
}

func parseLegacyTime(value any) (time.Time, bool) {
	switch typed := value.(type) {
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, typed); err == nil {
			return parsed, true
		}
		return ParseDate(typed)
	case float64:
		if typed <= 0 {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(typed)).UTC(), true
	default:
		return time.Time{}, false
	}
}

func normalizeDateList(value any) []any {
	seen := map[string]struct{}{}
	result := []any{}
	for _, raw := range asSlice(value) {
		normalized, ok := normalizeDateValue(raw)
		if !ok {
			continue
		}
		if _, duplicate := seen[normalized]; duplicate {
			continue
		}
		seen[normalized] = struct{}{}
		result = append(result, normalized)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].(string) < result[j].(string)
	})
	return result
}

func firstPresent(entry map[string]any, keys ...string) any {
	for _, key := range keys {
		if value, ok := entry[key]; ok && value != nil {
			return value
		}
	}
	return nil
}

func asMap(value any) map[string]any {
	if typed, ok := value.(map[string]any); ok {
		return typed
	}
	return map[string]any{}
}

func asSlice(value any) []any {
	if typed, ok := value.([]any); ok {
		return typed
	}
	return nil
}

func intValue(value any) int {
	switch typed := value.(type) {
	case float64:
		return int(typed)
	case int:
		return typed
	default:
		return 0
	}
}
