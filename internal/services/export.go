package services

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/terraincognita07/cyclemate/internal/models"
)

var (
	ErrExportFromDateInvalid = errors.New("export invalid from date")
	ErrExportToDateInvalid   = errors.New("export invalid to date")
	ErrExportRangeInvalid    = errors.New("export invalid range")
)

var PeriodExportCSVHeaders = []string{
	"Start",
	"End",
	"Duration days",
	"Cycle length",
	"Auto ended",
}

type PeriodExportRow struct {
	Start        string `json:"start"`
	End          string `json:"end,omitempty"`
	DurationDays int    `json:"duration_days,omitempty"`
	CycleLength  int    `json:"cycle_length,omitempty"`
	AutoEnd      bool   `json:"auto_end"`
}

type ExportSummary struct {
	TotalPeriods int    `json:"total_periods"`
	HasData      bool   `json:"has_data"`
	DateFrom     string `json:"date_from,omitempty"`
	DateTo       string `json:"date_to,omitempty"`
}

// ParseExportRange parses optional YYYY-MM-DD bounds. Either bound may be empty.
func ParseExportRange(rawFrom string, rawTo string) (*time.Time, *time.Time, error) {
	var from *time.Time
	if fromRaw := strings.TrimSpace(rawFrom); fromRaw != "" {
		parsed, ok := ParseDate(fromRaw)
		if !ok {
			return nil, nil, ErrExportFromDateInvalid
		}
		from = &parsed
	}

	var to *time.Time
	if toRaw := strings.TrimSpace(rawTo); toRaw != "" {
		parsed, ok := ParseDate(toRaw)
		if !ok {
			return nil, nil, ErrExportToDateInvalid
		}
		to = &parsed
	}

	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, ErrExportRangeInvalid
	}
	return from, to, nil
}

// BuildPeriodExportRows lists recorded periods oldest first whose start falls in
// [from, to]. CycleLength is the gap to the following recorded start.
func BuildPeriodExportRows(periods []models.Period, from *time.Time, to *time.Time) []PeriodExportRow {
	sorted := clonePeriods(periods)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartDate.Before(sorted[j].StartDate)
	})

	rows := make([]PeriodExportRow, 0, len(sorted))
	for index, period := range sorted {
		start := DateOnly(period.StartDate)
		if from != nil && start.Before(DateOnly(*from)) {
			continue
		}
		if to != nil && start.After(DateOnly(*to)) {
			continue
		}

		row := PeriodExportRow{Start: FormatDate(start), AutoEnd: period.AutoEnd}
		if period.EndDate != nil {
			row.End = FormatDate(*period.EndDate)
			row.DurationDays = DaysBetween(start, *period.EndDate) + 1
		}
		if index+1 < len(sorted) {
			row.CycleLength = DaysBetween(start, sorted[index+1].StartDate)
		}
		rows = append(rows, row)
	}
	return rows
}

func BuildExportSummary(rows []PeriodExportRow) ExportSummary {
	if len(rows) == 0 {
		return ExportSummary{}
	}
	return ExportSummary{
		TotalPeriods: len(rows),
		HasData:      true,
		DateFrom:     rows[0].Start,
		DateTo:       rows[len(rows)-1].Start,
	}
}

func PeriodExportCSVRecord(row PeriodExportRow) []string {
	return []string{
		row.Start,
		row.End,
		optionalInt(row.DurationDays),
		optionalInt(row.CycleLength),
		strconv.FormatBool(row.AutoEnd),
	}
}

func optionalInt(value int) string {
	if value <= 0 {
		return ""
	}
	return strconv.Itoa(value)
}
