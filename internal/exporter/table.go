package exporter

import (
	"fmt"
	"strconv"
	"time"

	"i94cli/internal/analysis"
)

// Table is a generic named table ready for CSV or workbook output
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// GroupsTable converts an aggregation result to a Table
func GroupsTable(name string, keyNames []string, valueName string, groups []analysis.Group) Table {
	t := Table{
		Name:    name,
		Columns: append(append([]string{}, keyNames...), "count", valueName),
	}
	for _, g := range groups {
		row := append([]string{}, g.Keys...)
		row = append(row, strconv.Itoa(g.Count), formatFloat(g.Value))
		t.Rows = append(t.Rows, row)
	}
	return t
}

// RankingTable converts a frequency ranking to a Table
func RankingTable(name string, ranking []analysis.RankEntry) Table {
	t := Table{Name: name, Columns: []string{"rank", "category", "count"}}
	for i, e := range ranking {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(i + 1), e.Category, strconv.Itoa(e.Count),
		})
	}
	return t
}

// SummaryTable renders day/night (or any labelled) descriptive stats
// side by side.
func SummaryTable(name string, labels []string, stats []analysis.SummaryStats) Table {
	t := Table{Name: name, Columns: append([]string{"statistic"}, labels...)}
	rows := []struct {
		label string
		of    func(s analysis.SummaryStats) string
	}{
		{"count", func(s analysis.SummaryStats) string { return strconv.Itoa(s.Count) }},
		{"mean", func(s analysis.SummaryStats) string { return formatFloat(s.Mean) }},
		{"std", func(s analysis.SummaryStats) string { return formatFloat(s.Std) }},
		{"min", func(s analysis.SummaryStats) string { return formatFloat(s.Min) }},
		{"25%", func(s analysis.SummaryStats) string { return formatFloat(s.Q1) }},
		{"50%", func(s analysis.SummaryStats) string { return formatFloat(s.Median) }},
		{"75%", func(s analysis.SummaryStats) string { return formatFloat(s.Q3) }},
		{"max", func(s analysis.SummaryStats) string { return formatFloat(s.Max) }},
	}
	for _, r := range rows {
		row := []string{r.label}
		for _, s := range stats {
			row = append(row, r.of(s))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// MonthlyComparisonTable renders the raw vs IQR-filtered monthly means
func MonthlyComparisonTable(name string, cmp []analysis.MonthlyComparison) Table {
	t := Table{Name: name, Columns: []string{"month", "count", "mean", "filtered_count", "filtered_mean"}}
	for _, c := range cmp {
		t.Rows = append(t.Rows, []string{
			fmt.Sprintf("%02d", int(c.Month)),
			strconv.Itoa(c.Count),
			formatFloat(c.Mean),
			strconv.Itoa(c.FilteredCount),
			formatFloat(c.FilteredMean),
		})
	}
	return t
}

// RobustnessTable renders the mean vs median robustness comparison
func RobustnessTable(name string, rows []analysis.MonthlyRobustness) Table {
	t := Table{Name: name, Columns: []string{
		"month", "raw_count", "raw_mean", "raw_median", "trim_count", "trim_mean", "trim_median",
	}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			fmt.Sprintf("%02d", int(r.Month)),
			strconv.Itoa(r.RawCount),
			formatFloat(r.RawMean),
			formatFloat(r.RawMedian),
			strconv.Itoa(r.TrimCount),
			formatFloat(r.TrimMean),
			formatFloat(r.TrimMedian),
		})
	}
	return t
}

// ACFTable renders autocorrelation values per lag
func ACFTable(name string, acf []float64) Table {
	t := Table{Name: name, Columns: []string{"lag", "acf"}}
	for lag, v := range acf {
		t.Rows = append(t.Rows, []string{strconv.Itoa(lag), formatFloat(v)})
	}
	return t
}

// DailySeriesTable renders a date-indexed series
func DailySeriesTable(name string, series analysis.DailySeries) Table {
	t := Table{Name: name, Columns: []string{"date", "value"}}
	for i, d := range series.Dates {
		t.Rows = append(t.Rows, []string{
			d.Format(time.DateOnly), formatFloat(series.Values[i]),
		})
	}
	return t
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
