package services

import (
	"math"
	"sort"
	"time"

	"github.com/terraincognita07/cyclemate/internal/models"
)

type CycleStats struct {
	PeriodCount         int        `json:"period_count"`
	CycleLength         int        `json:"cycle_length"`
	MedianCycleLength   int        `json:"median_cycle_length"`
	RecentCycleLengths  []int      `json:"recent_cycle_lengths"`
	PeriodDurationDays  int        `json:"period_duration_days"`
	LastPeriodStart     *time.Time `json:"last_period_start"`
	NextPeriodStart     *time.Time `json:"next_period_start"`
	DaysUntilNextPeriod *int       `json:"days_until_next_period,omitempty"`
}

// AverageCycleLength averages the plausible start-to-start gaps between
// recorded periods.
func AverageCycleLength(periods []models.Period) int {
	lengths := CycleLengths(periods)
	if len(lengths) == 0 {
		return models.DefaultCycleLength
	}
	return int(math.Round(averageInts(lengths)))
}

// CycleLengths returns start-to-start gaps in chronological order, skipping
// gaps that cannot be a single cycle.
func CycleLengths(periods []models.Period) []int {
	starts := sortedStarts(periods)
	if len(starts) < 2 {
		return nil
	}

	lengths := make([]int, 0, len(starts)-1)
	for i := 1; i < len(starts); i++ {
		gap := DaysBetween(starts[i-1], starts[i])
		if gap <= 0 || gap >= models.MaxCycleLengthDays {
			continue
		}
		lengths = append(lengths, gap)
	}
	return lengths
}

func NextExpectedStart(periods []models.Period, cycleLength int) *time.Time {
	if cycleLength <= 0 {
		return nil
	}
	index, ok := mostRecentPeriodIndex(periods)
	if !ok {
		return nil
	}
	next := AddDays(periods[index].StartDate, cycleLength)
	return &next
}

// RecomputeCycleState refreshes the fields derived from the recorded periods.
func RecomputeCycleState(state models.CycleState) models.CycleState {
	state.CycleLength = AverageCycleLength(state.Periods)
	state.ExpectedNextStart = NextExpectedStart(state.Periods, state.CycleLength)
	if state.Suggestions == nil {
		state.Suggestions = models.DefaultPhaseSuggestions()
	}
	return state
}

func BuildCycleStats(state models.CycleState, now time.Time) CycleStats {
	stats := CycleStats{
		PeriodCount:        len(state.Periods),
		CycleLength:        state.CycleLength,
		PeriodDurationDays: AveragePeriodDurationOffset(state.Periods) + 1,
	}

	lengths := CycleLengths(state.Periods)
	stats.RecentCycleLengths = tailInts(lengths, 6)
	stats.MedianCycleLength = medianInt(stats.RecentCycleLengths)

	if index, ok := mostRecentPeriodIndex(state.Periods); ok {
		stats.LastPeriodStart = datePtr(state.Periods[index].StartDate)
	}
	if state.ExpectedNextStart != nil {
		stats.NextPeriodStart = datePtr(*state.ExpectedNextStart)
		daysUntil := DaysBetween(now, *state.ExpectedNextStart)
		stats.DaysUntilNextPeriod = &daysUntil
	}
	return stats
}

func sortedStarts(periods []models.Period) []time.Time {
	starts := make([]time.Time, 0, len(periods))
	for _, period := range periods {
		starts = append(starts, DateOnly(period.StartDate))
	}
	sort.Slice(starts, func(i, j int) bool {
		return starts[i].Before(starts[j])
	})
	return starts
}

func tailInts(values []int, n int) []int {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

func averageInts(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	var total int
	for _, value := range values {
		total += value
	}
	return float64(total) / float64(len(values))
}

func medianInt(values []int) int {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]int, 0, len(values))
	sorted = append(sorted, values...)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}

	left := sorted[mid-1]
	right := sorted[mid]
	return int(float64(left+right)/2 + 0.5)
}
