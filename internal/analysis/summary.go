package analysis

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"i94cli/internal/dataset"
)

// SummaryStats are the describe()-style descriptive statistics for one
// sample.
type SummaryStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// Summarize computes descriptive statistics over the values
func Summarize(values []float64) SummaryStats {
	if len(values) == 0 {
		return SummaryStats{}
	}

	s := make([]float64, len(values))
	copy(s, values)
	sort.Float64s(s)

	mean, variance := stat.MeanVariance(s, nil)
	return SummaryStats{
		Count:  len(s),
		Mean:   mean,
		Std:    math.Sqrt(variance),
		Min:    s[0],
		Q1:     stat.Quantile(0.25, stat.Empirical, s, nil),
		Median: stat.Quantile(0.5, stat.Empirical, s, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, s, nil),
		Max:    s[len(s)-1],
	}
}

// Volumes extracts the traffic volumes of the rows as floats
func Volumes(rows []dataset.Observation) []float64 {
	out := make([]float64, len(rows))
	for i, o := range rows {
		out[i] = float64(o.Volume)
	}
	return out
}

// MonthlyComparison compares the raw monthly mean with the mean after
// per-month IQR outlier removal.
type MonthlyComparison struct {
	Month         time.Month `json:"month"`
	Count         int        `json:"count"`
	Mean          float64    `json:"mean"`
	FilteredCount int        `json:"filtered_count"`
	FilteredMean  float64    `json:"filtered_mean"`
}

// MonthlyMeanWithIQRFilter computes, per month, the mean traffic volume
// before and after removing rows outside [Q1-k*IQR, Q3+k*IQR] of that
// month's distribution.
func MonthlyMeanWithIQRFilter(rows []dataset.Observation, k float64) []MonthlyComparison {
	byMonth := make(map[time.Month][]float64)
	for _, o := range rows {
		byMonth[o.Month] = append(byMonth[o.Month], float64(o.Volume))
	}

	months := make([]time.Month, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })

	out := make([]MonthlyComparison, 0, len(months))
	for _, m := range months {
		values := byMonth[m]
		sorted := make([]float64, len(values))
		copy(sorted, values)
		sort.Float64s(sorted)

		q1 := stat.Quantile(0.25, stat.Empirical, sorted, nil)
		q3 := stat.Quantile(0.75, stat.Empirical, sorted, nil)
		iqr := q3 - q1
		lo, hi := q1-k*iqr, q3+k*iqr

		var kept []float64
		for _, v := range values {
			if v >= lo && v <= hi {
				kept = append(kept, v)
			}
		}

		c := MonthlyComparison{
			Month: m,
			Count: len(values),
			Mean:  stat.Mean(values, nil),
		}
		if len(kept) > 0 {
			c.FilteredCount = len(kept)
			c.FilteredMean = stat.Mean(kept, nil)
		}
		out = append(out, c)
	}
	return out
}

// MonthlyRobustness compares mean against median per month, raw and
// after trimming above the global trim quantile. Agreement between the
// orderings is the robustness check behind the warm-season claim.
type MonthlyRobustness struct {
	Month      time.Month `json:"month"`
	RawCount   int        `json:"raw_count"`
	RawMean    float64    `json:"raw_mean"`
	RawMedian  float64    `json:"raw_median"`
	TrimCount  int        `json:"trim_count"`
	TrimMean   float64    `json:"trim_mean"`
	TrimMedian float64    `json:"trim_median"`
}

// MonthlyRobustnessTable builds the per-month mean/median comparison.
// trimQuantile is applied globally (e.g. 0.99 keeps values at or below
// the 99th percentile of the whole input).
func MonthlyRobustnessTable(rows []dataset.Observation, trimQuantile float64) []MonthlyRobustness {
	all := Volumes(rows)
	sorted := make([]float64, len(all))
	copy(sorted, all)
	sort.Float64s(sorted)
	cutoff := stat.Quantile(trimQuantile, stat.Empirical, sorted, nil)

	raw := make(map[time.Month][]float64)
	trimmed := make(map[time.Month][]float64)
	for _, o := range rows {
		v := float64(o.Volume)
		raw[o.Month] = append(raw[o.Month], v)
		if v <= cutoff {
			trimmed[o.Month] = append(trimmed[o.Month], v)
		}
	}

	months := make([]time.Month, 0, len(raw))
	for m := range raw {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })

	out := make([]MonthlyRobustness, 0, len(months))
	for _, m := range months {
		r := MonthlyRobustness{
			Month:     m,
			RawCount:  len(raw[m]),
			RawMean:   stat.Mean(raw[m], nil),
			RawMedian: median(raw[m]),
		}
		if len(trimmed[m]) > 0 {
			r.TrimCount = len(trimmed[m])
			r.TrimMean = stat.Mean(trimmed[m], nil)
			r.TrimMedian = median(trimmed[m])
		}
		out = append(out, r)
	}
	return out
}

// HeatmapGrid is a month-by-hour grid of relative frequencies
type HeatmapGrid struct {
	Category string       `json:"category"`
	Months   []time.Month `json:"months"`
	Hours    []int        `json:"hours"`
	// Rel[m][h] is the share of observations at (Months[m], Hours[h])
	// matching the category; NaN when the cell has no observations.
	Rel [][]float64 `json:"rel"`
}

// MonthHourRelativeFrequency builds the relative-frequency grid for one
// category over the given month range and the canonical daytime hours.
// The same months value must be the one behind the claim the heatmap
// illustrates; callers thread a single MonthRange through.
func MonthHourRelativeFrequency(rows []dataset.Observation, months MonthRange, category string) HeatmapGrid {
	grid := HeatmapGrid{Category: category}
	for m := months.First; m <= months.Last; m++ {
		grid.Months = append(grid.Months, m)
	}
	for h := dataset.DaytimeStartHour; h <= dataset.DaytimeEndHour; h++ {
		grid.Hours = append(grid.Hours, h)
	}

	type cell struct {
		month time.Month
		hour  int
	}
	base := make(map[cell]int)
	match := make(map[cell]int)
	for _, o := range rows {
		if !months.Contains(o.Month) || !o.IsDaytime() {
			continue
		}
		c := cell{o.Month, o.Hour}
		base[c]++
		if o.WeatherDesc == category {
			match[c]++
		}
	}

	grid.Rel = make([][]float64, len(grid.Months))
	for i, m := range grid.Months {
		grid.Rel[i] = make([]float64, len(grid.Hours))
		for j, h := range grid.Hours {
			c := cell{m, h}
			if base[c] == 0 {
				grid.Rel[i][j] = math.NaN()
				continue
			}
			grid.Rel[i][j] = float64(match[c]) / float64(base[c])
		}
	}
	return grid
}
