package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"i94cli/internal/dataset"
)

func TestSummarize(t *testing.T) {
	stats := Summarize([]float64{2, 4, 4, 4, 5, 5, 7, 9})

	assert.Equal(t, 8, stats.Count)
	assert.InDelta(t, 5, stats.Mean, 1e-12)
	assert.InDelta(t, 2.138, stats.Std, 0.001)
	assert.Equal(t, 2.0, stats.Min)
	assert.Equal(t, 9.0, stats.Max)
	assert.Equal(t, 4.0, stats.Median)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Zero(t, Summarize(nil))
}

func TestMonthlyMeanWithIQRFilter(t *testing.T) {
	var rows []dataset.Observation
	base := time.Date(2016, 7, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 20; i++ {
		rows = append(rows, hourlyObs(base.Add(time.Duration(i)*24*time.Hour), "mist", 1000+i))
	}
	// one extreme outlier in the same month
	rows = append(rows, hourlyObs(base.Add(21*24*time.Hour), "mist", 100000))

	cmp := MonthlyMeanWithIQRFilter(rows, 1.5)

	require.Len(t, cmp, 1)
	assert.Equal(t, time.July, cmp[0].Month)
	assert.Equal(t, 21, cmp[0].Count)
	assert.Equal(t, 20, cmp[0].FilteredCount, "outlier removed by the IQR fence")
	assert.Greater(t, cmp[0].Mean, cmp[0].FilteredMean)
	assert.InDelta(t, 1009.5, cmp[0].FilteredMean, 1e-9)
}

func TestMonthlyRobustnessTable(t *testing.T) {
	var rows []dataset.Observation
	base := time.Date(2016, 6, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 200; i++ {
		rows = append(rows, hourlyObs(base.Add(time.Duration(i)*time.Hour), "mist", 1000+i%50))
	}
	rows = append(rows, hourlyObs(base.Add(300*time.Hour), "mist", 90000))

	table := MonthlyRobustnessTable(rows, 0.99)

	require.Len(t, table, 1)
	r := table[0]
	assert.Equal(t, 201, r.RawCount)
	assert.Equal(t, 200, r.TrimCount, "p99 trim drops the extreme value")
	assert.Greater(t, r.RawMean, r.TrimMean)
	assert.InDelta(t, r.RawMedian, r.TrimMedian, 1.0, "median barely moves")
}

func TestMonthHourRelativeFrequency(t *testing.T) {
	var rows []dataset.Observation
	add := func(m time.Month, h int, desc string) {
		rows = append(rows, hourlyObs(time.Date(2016, m, 1, h, 0, 0, 0, time.UTC), desc, 1))
	}
	// April 09:00 has 1 mist out of 2 daytime observations
	add(time.April, 9, "mist")
	add(time.April, 9, "haze")
	// April 10:00 all mist
	add(time.April, 10, "mist")
	// nighttime and off-season rows must not count
	add(time.April, 3, "mist")
	add(time.December, 9, "mist")

	grid := MonthHourRelativeFrequency(rows, WarmSeason, "mist")

	assert.Equal(t, "mist", grid.Category)
	require.Len(t, grid.Months, 7)
	require.Len(t, grid.Hours, dataset.DaytimeEndHour-dataset.DaytimeStartHour+1)

	hourIdx := func(h int) int { return h - dataset.DaytimeStartHour }
	monthIdx := func(m time.Month) int { return int(m - WarmSeason.First) }

	assert.InDelta(t, 0.5, grid.Rel[monthIdx(time.April)][hourIdx(9)], 1e-12)
	assert.InDelta(t, 1.0, grid.Rel[monthIdx(time.April)][hourIdx(10)], 1e-12)
	assert.True(t, math.IsNaN(grid.Rel[monthIdx(time.May)][hourIdx(9)]), "empty cell is NaN, not zero")
}
