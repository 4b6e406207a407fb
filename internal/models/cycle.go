package models

import "time"

const (
	DefaultCycleLength          = 28
	DefaultPeriodDurationOffset = 4
	MinCycleLengthDays          = 15
	MaxCycleLengthDays          = 90
	MaxPeriodLengthDays         = 14
	PeriodShiftToleranceDays    = 3
	ForecastHorizonDays         = 365
)

type Phase string

const (
	PhasePeriod       Phase = "period"
	PhasePostPeriod   Phase = "post-period"
	PhaseOvulation    Phase = "ovulation"
	PhaseTransitional Phase = "transitional"
	PhasePrePeriod    Phase = "pre-period"
)

// PhaseBand is an inclusive cycle-day range. LastDay 0 means open-ended.
type PhaseBand struct {
	Phase    Phase
	FirstDay int
	LastDay  int
}

// PhaseTable bands are absolute day ranges and do not scale with the cycle length.
var PhaseTable = []PhaseBand{
	{Phase: PhasePeriod, FirstDay: 1, LastDay: 5},
	{Phase: PhasePostPeriod, FirstDay: 6, LastDay: 9},
	{Phase: PhaseOvulation, FirstDay: 10, LastDay: 15},
	{Phase: PhaseTransitional, FirstDay: 16, LastDay: 20},
	{Phase: PhasePrePeriod, FirstDay: 21},
}

type Period struct {
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	AutoEnd   bool       `json:"autoEnd"`
}

// Editable reports whether the period end was never confirmed by the user.
func (period Period) Editable() bool {
	return period.EndDate == nil || period.AutoEnd
}

type PhaseSuggestion struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

type CycleState struct {
	Periods           []Period                  `json:"periods"`
	ExpectedNextStart *time.Time                `json:"expectedNextStart"`
	CycleLength       int                       `json:"cycleLength"`
	Suggestions       map[Phase]PhaseSuggestion `json:"suggestions"`
}

func DefaultPhaseSuggestions() map[Phase]PhaseSuggestion {
	return map[Phase]PhaseSuggestion{
		PhasePeriod: {
			Name: "Period",
			Items: []string{
				"Bring a hot water bottle and their favourite tea",
				"Take over chores without being asked",
				"Plan a quiet night in",
			},
		},
		PhasePostPeriod: {
			Name: "Post-period",
			Items: []string{
				"Suggest a walk or something active together",
				"Try a new recipe together",
			},
		},
		PhaseOvulation: {
			Name: "Ovulation",
			Items: []string{
				"Plan a date night",
				"Compliment them generously",
				"Go out with friends together",
			},
		},
		PhaseTransitional: {
			Name: "Transitional",
			Items: []string{
				"Keep plans flexible",
				"Check in on how their week is going",
			},
		},
		PhasePrePeriod: {
			Name: "Pre-period",
			Items: []string{
				"Stock up on snacks and comfort food",
				"Be patient and extra gentle",
				"Offer a massage",
			},
		},
	}
}
