package dataset

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// Clean repairs the known data-quality issues of the raw table:
//
//   - duplicate timestamps are dropped, first occurrence wins
//   - weather_description is normalized (trimmed, lowercased), which
//     merges variants like "Sky is Clear" and "sky is clear"
//   - the holiday flag, recorded only on the first hour of a holiday,
//     is propagated to every hour of that date
//   - gaps in the hourly sequence are detected and reported as spans;
//     missing hours are never filled with synthetic rows
//
// The returned slice is sorted by timestamp. Cleaning never fails;
// everything it finds goes into the GapReport.
func Clean(ctx context.Context, logger *slog.Logger, rows []Observation) ([]Observation, GapReport) {
	report := GapReport{}

	// Stable sort keeps the first-seen duplicate in front
	sorted := make([]Observation, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	cleaned := make([]Observation, 0, len(sorted))
	for i, o := range sorted {
		if i > 0 && o.Timestamp.Equal(sorted[i-1].Timestamp) {
			report.DuplicatesDropped++
			continue
		}
		o.WeatherDesc = NormalizeDescription(o.WeatherDesc)
		o.WeatherMain = strings.TrimSpace(o.WeatherMain)
		cleaned = append(cleaned, o)
	}

	report.HolidaysPropagated = propagateHolidays(cleaned)
	report.Spans, report.MissingHours = findGaps(cleaned)

	logger.InfoContext(ctx, "cleaned observation table",
		slog.Int("rows_in", len(rows)),
		slog.Int("rows_out", len(cleaned)),
		slog.Int("duplicates_dropped", report.DuplicatesDropped),
		slog.Int("holidays_propagated", report.HolidaysPropagated),
		slog.Int("missing_hours", report.MissingHours),
		slog.Int("gap_spans", len(report.Spans)))

	return cleaned, report
}

// NormalizeDescription canonicalizes a weather description value
func NormalizeDescription(desc string) string {
	return strings.ToLower(strings.TrimSpace(desc))
}

// propagateHolidays copies a date's holiday flag onto all of its hours.
// The source records the flag only on the first observation of the day.
func propagateHolidays(rows []Observation) int {
	byDate := make(map[time.Time]string)
	for _, o := range rows {
		if o.Holiday != "" {
			byDate[o.Date()] = o.Holiday
		}
	}

	propagated := 0
	for i := range rows {
		if rows[i].Holiday == "" {
			if name, ok := byDate[rows[i].Date()]; ok {
				rows[i].Holiday = name
				propagated++
			}
		}
	}
	return propagated
}

// findGaps walks the sorted hourly sequence and records each run of
// missing timestamps as a span.
func findGaps(rows []Observation) ([]GapSpan, int) {
	var spans []GapSpan
	missing := 0

	for i := 1; i < len(rows); i++ {
		delta := rows[i].Timestamp.Sub(rows[i-1].Timestamp)
		if delta <= time.Hour {
			continue
		}
		hours := int(delta/time.Hour) - 1
		spans = append(spans, GapSpan{
			Start: rows[i-1].Timestamp.Add(time.Hour),
			End:   rows[i].Timestamp.Add(-time.Hour),
			Hours: hours,
		})
		missing += hours
	}

	return spans, missing
}
