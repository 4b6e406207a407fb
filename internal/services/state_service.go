package services

import (
	"errors"
	"sync"
	"time"

	"github.com/terraincognita07/cyclemate/internal/models"
)

var (
	ErrUnknownReminderType     = errors.New("unknown reminder type")
	ErrPlansNotSupported       = errors.New("reminder type does not support planned dates")
	ErrReminderNoteInvalid     = errors.New("reminder note invalid")
	ErrReminderNoteNotFound    = errors.New("reminder note not found")
	ErrImportantDateInvalid    = errors.New("important date invalid")
	ErrImportantDateNotFound   = errors.New("important date not found")
	ErrReminderFrequencyTooLow = errors.New("reminder frequency must be at least one day")
)

// StateSaver receives every new snapshot. Implementations must not block.
type StateSaver interface {
	Schedule(state models.AppState)
}

// StateService owns the live AppState for the running process. Every mutation
// goes through the pure engine functions and then hands the result to the saver.
type StateService struct {
	mu    sync.RWMutex
	state models.AppState
	saver StateSaver
}

func NewStateService(initial models.AppState, saver StateSaver) *StateService {
	return &StateService{
		state: NormalizeState(cloneAppState(initial)),
		saver: saver,
	}
}

func (service *StateService) Snapshot() models.AppState {
	service.mu.RLock()
	defer service.mu.RUnlock()
	return cloneAppState(service.state)
}

func (service *StateService) MarkPeriodStart(date time.Time) (models.CycleState, bool) {
	return service.updatePeriods(func(periods []models.Period) []models.Period {
		return AddPeriodStart(periods, date)
	})
}

func (service *StateService) MarkPeriodEnd(date time.Time) (models.CycleState, bool) {
	return service.updatePeriods(func(periods []models.Period) []models.Period {
		return AddPeriodEnd(periods, date)
	})
}

func (service *StateService) RemovePeriod(date time.Time) (models.CycleState, bool) {
	return service.updatePeriods(func(periods []models.Period) []models.Period {
		return RemovePeriod(periods, date)
	})
}

func (service *StateService) ToggleReminder(kind models.ReminderType) (models.ReminderRecord, error) {
	return service.updateReminder(kind, func(record models.ReminderRecord) (models.ReminderRecord, error) {
		return ToggleReminder(record), nil
	})
}

func (service *StateService) SetReminderFrequency(kind models.ReminderType, frequency int) (models.ReminderRecord, error) {
	if frequency < 1 {
		return models.ReminderRecord{}, ErrReminderFrequencyTooLow
	}
	return service.updateReminder(kind, func(record models.ReminderRecord) (models.ReminderRecord, error) {
		return SetReminderFrequency(record, frequency), nil
	})
}

func (service *StateService) MarkReminderDone(kind models.ReminderType, date time.Time, now time.Time) (models.ReminderRecord, error) {
	return service.updateReminder(kind, func(record models.ReminderRecord) (models.ReminderRecord, error) {
		return MarkDone(kind, record, date, now), nil
	})
}

func (service *StateService) ClearReminderDone(kind models.ReminderType, date time.Time, now time.Time) (models.ReminderRecord, error) {
	return service.updateReminder(kind, func(record models.ReminderRecord) (models.ReminderRecord, error) {
		return ClearDone(record, date, now), nil
	})
}

func (service *StateService) AddPlannedDate(kind models.ReminderType, date time.Time) (models.ReminderRecord, error) {
	return service.updatePlans(kind, func(plans []time.Time) []time.Time {
		return AddPlannedDate(plans, date)
	})
}

func (service *StateService) RemovePlannedDate(kind models.ReminderType, date time.Time) (models.ReminderRecord, error) {
	return service.updatePlans(kind, func(plans []time.Time) []time.Time {
		return RemovePlannedDate(plans, date)
	})
}

func (service *StateService) PrunePlannedDatesAfter(kind models.ReminderType, cutoff time.Time) (models.ReminderRecord, error) {
	return service.updatePlans(kind, func(plans []time.Time) []time.Time {
		return PrunePlannedDatesAfter(plans, cutoff)
	})
}

func (service *StateService) AddReminderNote(kind models.ReminderType, noteType string, text string) (models.ReminderNote, error) {
	var added models.ReminderNote
	_, err := service.updateReminder(kind, func(record models.ReminderRecord) (models.ReminderRecord, error) {
		updated, note, ok := AddReminderNote(record, noteType, text)
		if !ok {
			return record, ErrReminderNoteInvalid
		}
		added = note
		return updated, nil
	})
	return added, err
}

func (service *StateService) RemoveReminderNote(kind models.ReminderType, noteID string) (models.ReminderRecord, error) {
	return service.updateReminder(kind, func(record models.ReminderRecord) (models.ReminderRecord, error) {
		updated := RemoveReminderNote(record, noteID)
		if len(updated.Notes) == len(record.Notes) {
			return record, ErrReminderNoteNotFound
		}
		return updated, nil
	})
}

func (service *StateService) AddImportantDate(name string, month time.Month, day int) (models.ImportantDate, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	updated, entry, ok := AddImportantDate(service.state.ImportantDates, name, month, day)
	if !ok {
		return models.ImportantDate{}, ErrImportantDateInvalid
	}
	service.state.ImportantDates = updated
	service.persistLocked()
	return entry, nil
}

func (service *StateService) RemoveImportantDate(id string) error {
	service.mu.Lock()
	defer service.mu.Unlock()

	updated := RemoveImportantDate(service.state.ImportantDates, id)
	if len(updated) == len(service.state.ImportantDates) {
		return ErrImportantDateNotFound
	}
	service.state.ImportantDates = updated
	service.persistLocked()
	return nil
}

func (service *StateService) updatePeriods(mutate func([]models.Period) []models.Period) (models.CycleState, bool) {
	service.mu.Lock()
	defer service.mu.Unlock()

	updated := mutate(service.state.Cycle.Periods)
	if periodsEqual(updated, service.state.Cycle.Periods) {
		return cloneCycleState(service.state.Cycle), false
	}

	service.state.Cycle.Periods = updated
	service.state.Cycle = RecomputeCycleState(service.state.Cycle)
	service.persistLocked()
	return cloneCycleState(service.state.Cycle), true
}

func (service *StateService) updateReminder(kind models.ReminderType, mutate func(models.ReminderRecord) (models.ReminderRecord, error)) (models.ReminderRecord, error) {
	if _, ok := models.ReminderPolicyFor(kind); !ok {
		return models.ReminderRecord{}, ErrUnknownReminderType
	}

	service.mu.Lock()
	defer service.mu.Unlock()

	record, ok := service.state.Reminders[kind]
	if !ok {
		record = models.NewReminderRecord(kind)
	}
	updated, err := mutate(record)
	if err != nil {
		return cloneReminderRecord(record), err
	}

	service.state.Reminders[kind] = updated
	service.persistLocked()
	return cloneReminderRecord(updated), nil
}

func (service *StateService) updatePlans(kind models.ReminderType, mutate func([]time.Time) []time.Time) (models.ReminderRecord, error) {
	policy, ok := models.ReminderPolicyFor(kind)
	if !ok {
		return models.ReminderRecord{}, ErrUnknownReminderType
	}
	if !policy.SupportsPlannedDates {
		return models.ReminderRecord{}, ErrPlansNotSupported
	}
	return service.updateReminder(kind, func(record models.ReminderRecord) (models.ReminderRecord, error) {
		updated := cloneReminderRecord(record)
		updated.PlannedDates = mutate(updated.PlannedDates)
		return updated, nil
	})
}

func (service *StateService) persistLocked() {
	if service.saver == nil {
		return
	}
	service.saver.Schedule(cloneAppState(service.state))
}

func periodsEqual(a []models.Period, b []models.Period) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].StartDate.Equal(b[i].StartDate) || a[i].AutoEnd != b[i].AutoEnd {
			return false
		}
		if (a[i].EndDate == nil) != (b[i].EndDate == nil) {
			return false
		}
		if a[i].EndDate != nil && !a[i].EndDate.Equal(*b[i].EndDate) {
			return false
		}
	}
	return true
}

func cloneCycleState(state models.CycleState) models.CycleState {
	cloned := state
	cloned.Periods = clonePeriods(state.Periods)
	if state.ExpectedNextStart != nil {
		next := *state.ExpectedNextStart
		cloned.ExpectedNextStart = &next
	}
	if state.Suggestions != nil {
		cloned.Suggestions = make(map[models.Phase]models.PhaseSuggestion, len(state.Suggestions))
		for phase, suggestion := range state.Suggestions {
			suggestion.Items = append([]string{}, suggestion.Items...)
			cloned.Suggestions[phase] = suggestion
		}
	}
	return cloned
}

func cloneAppState(state models.AppState) models.AppState {
	cloned := state
	cloned.Cycle = cloneCycleState(state.Cycle)
	if state.Reminders != nil {
		cloned.Reminders = make(map[models.ReminderType]models.ReminderRecord, len(state.Reminders))
		for kind, record := range state.Reminders {
			cloned.Reminders[kind] = cloneReminderRecord(record)
		}
	}
	cloned.ImportantDates = append([]models.ImportantDate{}, state.ImportantDates...)
	return cloned
}
