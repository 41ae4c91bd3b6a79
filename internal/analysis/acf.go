package analysis

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"i94cli/internal/dataset"
)

// ACF computes the autocorrelation function of the series at lags
// 0..maxLag. A zero-variance series has no meaningful autocorrelation
// beyond lag 0: lag 0 reports 1, all later lags report NaN.
func ACF(series []float64, maxLag int) []float64 {
	n := len(series)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	mean := stat.Mean(series, nil)
	var denom float64
	for _, v := range series {
		d := v - mean
		denom += d * d
	}

	out := make([]float64, maxLag+1)
	out[0] = 1
	for lag := 1; lag <= maxLag; lag++ {
		if denom == 0 {
			out[lag] = math.NaN()
			continue
		}
		var num float64
		for t := lag; t < n; t++ {
			num += (series[t] - mean) * (series[t-lag] - mean)
		}
		out[lag] = num / denom
	}

	return out
}

// DailySeries is a date-indexed daily series, sorted ascending
type DailySeries struct {
	Dates  []time.Time `json:"dates"`
	Values []float64   `json:"values"`
}

// OneDayGapRatio is the share of adjacent observations exactly one day
// apart. A low ratio means lag 1 cannot be read as "the next day" and
// the ACF is only a rough independence check.
func (s DailySeries) OneDayGapRatio() float64 {
	if len(s.Dates) < 2 {
		return 0
	}
	oneDay := 0
	for i := 1; i < len(s.Dates); i++ {
		if s.Dates[i].Sub(s.Dates[i-1]) == 24*time.Hour {
			oneDay++
		}
	}
	return float64(oneDay) / float64(len(s.Dates)-1)
}

// BuildDailyMeanSeries builds the per-day mean traffic volume for one
// selected category. Rows pass through sel.Apply first, so the series
// describes exactly the subset (month range included) that the
// narrative claims. Days without an observation of the category are
// absent, not zero-filled.
func BuildDailyMeanSeries(rows []dataset.Observation, sel Selection, category string) (DailySeries, error) {
	narrowed, err := sel.Category(rows, category)
	if err != nil {
		return DailySeries{}, err
	}

	sums := make(map[time.Time]float64)
	counts := make(map[time.Time]int)
	for _, o := range narrowed {
		d := o.Date()
		sums[d] += float64(o.Volume)
		counts[d]++
	}

	return assembleSeries(sums, counts), nil
}

// BuildDailyCountSeries counts occurrences of the category per calendar
// day over the whole table, zero-filling days without any occurrence so
// the series is equally spaced and lag 1 means one day.
func BuildDailyCountSeries(rows []dataset.Observation, category string) DailySeries {
	counts := make(map[time.Time]int)
	var min, max time.Time
	for _, o := range rows {
		d := o.Date()
		if min.IsZero() || d.Before(min) {
			min = d
		}
		if max.IsZero() || d.After(max) {
			max = d
		}
		if o.WeatherDesc == category {
			counts[d]++
		}
	}

	var series DailySeries
	if min.IsZero() {
		return series
	}
	for d := min; !d.After(max); d = d.Add(24 * time.Hour) {
		series.Dates = append(series.Dates, d)
		series.Values = append(series.Values, float64(counts[d]))
	}
	return series
}

// Residuals subtracts the weekday-by-hour group mean from each
// observation's volume and returns the residuals in timestamp order.
// What is left is the variation not explained by the weekly rush-hour
// pattern, which is the right series to check for short-lag dependence.
func Residuals(rows []dataset.Observation) []float64 {
	type cell struct {
		weekday time.Weekday
		hour    int
	}

	sums := make(map[cell]float64)
	counts := make(map[cell]int)
	for _, o := range rows {
		c := cell{o.Weekday, o.Hour}
		sums[c] += float64(o.Volume)
		counts[c]++
	}

	ordered := make([]dataset.Observation, len(rows))
	copy(ordered, rows)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	out := make([]float64, len(ordered))
	for i, o := range ordered {
		c := cell{o.Weekday, o.Hour}
		mu := sums[c] / float64(counts[c])
		out[i] = float64(o.Volume) - mu
	}
	return out
}

// ResidualsForCategory returns the residual series restricted to one
// selected category. Group means are estimated on the full selected
// subset, then the category's residuals are picked out in time order.
func ResidualsForCategory(rows []dataset.Observation, sel Selection, category string) ([]float64, error) {
	selected := sel.Apply(rows)
	if _, err := sel.Category(rows, category); err != nil {
		return nil, err
	}

	type cell struct {
		weekday time.Weekday
		hour    int
	}
	sums := make(map[cell]float64)
	counts := make(map[cell]int)
	for _, o := range selected {
		c := cell{o.Weekday, o.Hour}
		sums[c] += float64(o.Volume)
		counts[c]++
	}

	ordered := make([]dataset.Observation, 0, len(selected))
	for _, o := range selected {
		if o.WeatherDesc == category {
			ordered = append(ordered, o)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	out := make([]float64, len(ordered))
	for i, o := range ordered {
		c := cell{o.Weekday, o.Hour}
		mu := sums[c] / float64(counts[c])
		out[i] = float64(o.Volume) - mu
	}
	return out, nil
}

func assembleSeries(sums map[time.Time]float64, counts map[time.Time]int) DailySeries {
	dates := make([]time.Time, 0, len(sums))
	for d := range sums {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	series := DailySeries{
		Dates:  dates,
		Values: make([]float64, len(dates)),
	}
	for i, d := range dates {
		series.Values[i] = sums[d] / float64(counts[d])
	}
	return series
}
