package models

import "time"

type ReminderType string

const (
	ReminderFlowers    ReminderType = "flowers"
	ReminderSurprises  ReminderType = "surprises"
	ReminderDateNights ReminderType = "dateNights"
	ReminderGeneral    ReminderType = "general"
)

// ReminderTypes is the fixed set of reminder types in display order.
var ReminderTypes = []ReminderType{
	ReminderFlowers,
	ReminderSurprises,
	ReminderDateNights,
	ReminderGeneral,
}

type ReminderStatusKind string

const (
	StatusDisabled       ReminderStatusKind = "disabled"
	StatusPending        ReminderStatusKind = "pending"
	StatusDue            ReminderStatusKind = "due"
	StatusOK             ReminderStatusKind = "ok"
	StatusPlanned        ReminderStatusKind = "planned"
	StatusPlannedToday   ReminderStatusKind = "planned-today"
	StatusPlannedOverdue ReminderStatusKind = "planned-overdue"
)

// ReminderPolicy captures the per-type behaviour differences of reminders.
type ReminderPolicy struct {
	DefaultFrequency int
	// FrequencyDriven is false for reminders that never become overdue.
	FrequencyDriven bool
	// Cooldown gates the due-today banner after a completion; quiet hours apply when set.
	Cooldown             time.Duration
	SupportsPlannedDates bool
	RecordsEvents        bool
}

var reminderPolicies = map[ReminderType]ReminderPolicy{
	ReminderFlowers: {
		DefaultFrequency: 14,
		FrequencyDriven:  true,
		RecordsEvents:    true,
	},
	ReminderSurprises: {
		DefaultFrequency: 30,
		FrequencyDriven:  true,
		RecordsEvents:    true,
	},
	ReminderDateNights: {
		DefaultFrequency:     14,
		FrequencyDriven:      true,
		SupportsPlannedDates: true,
		RecordsEvents:        true,
	},
	ReminderGeneral: {
		DefaultFrequency: 1,
		Cooldown:         time.Hour,
	},
}

func ReminderPolicyFor(kind ReminderType) (ReminderPolicy, bool) {
	policy, ok := reminderPolicies[kind]
	return policy, ok
}

func ParseReminderType(raw string) (ReminderType, bool) {
	for _, kind := range ReminderTypes {
		if string(kind) == raw {
			return kind, true
		}
	}
	return "", false
}

type ReminderNote struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text"`
}

type ReminderRecord struct {
	Enabled      bool           `json:"enabled"`
	Frequency    int            `json:"frequency"`
	LastDone     *time.Time     `json:"lastDone"`
	Events       []time.Time    `json:"events"`
	Notes        []ReminderNote `json:"notes"`
	PlannedDates []time.Time    `json:"plannedDates"`
}

func NewReminderRecord(kind ReminderType) ReminderRecord {
	policy, ok := ReminderPolicyFor(kind)
	if !ok {
		policy = ReminderPolicy{DefaultFrequency: 1}
	}
	return ReminderRecord{
		Enabled:      true,
		Frequency:    policy.DefaultFrequency,
		Events:       []time.Time{},
		Notes:        []ReminderNote{},
		PlannedDates: []time.Time{},
	}
}
