package models

import "time"

const CurrentSchemaVersion = 2

type ImportantDate struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

// AppState is the whole document owned by the persistence layer.
type AppState struct {
	SchemaVersion  int                             `json:"schemaVersion"`
	Cycle          CycleState                      `json:"cycle"`
	Reminders      map[ReminderType]ReminderRecord `json:"reminders"`
	ImportantDates []ImportantDate                 `json:"importantDates"`
}

func NewAppState() AppState {
	reminders := make(map[ReminderType]ReminderRecord, len(ReminderTypes))
	for _, kind := range ReminderTypes {
		reminders[kind] = NewReminderRecord(kind)
	}
	return AppState{
		SchemaVersion: CurrentSchemaVersion,
		Cycle: CycleState{
			Periods:     []Period{},
			CycleLength: DefaultCycleLength,
			Suggestions: DefaultPhaseSuggestions(),
		},
		Reminders:      reminders,
		ImportantDates: []ImportantDate{},
	}
}

// StateSnapshot is the single persisted row holding the serialized AppState.
type StateSnapshot struct {
	ID            uint      `gorm:"primaryKey"`
	SchemaVersion int       `gorm:"not null;default:0"`
	Payload       string    `gorm:"type:text;not null"`
	Checksum      string    `gorm:"not null;default:''"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (StateSnapshot) TableName() string {
	return "app_state"
}

type AppLock struct {
	ID           uint   `gorm:"primaryKey"`
	PasscodeHash string `gorm:"not null;default:''"`
	UpdatedAt    time.Time
}

func (AppLock) TableName() string {
	return "app_lock"
}
