package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"i94cli/internal/dataset"
	"i94cli/internal/errors"
)

// monthlyWeather builds five noon observations with the given weather
// description in each listed month of 2016.
func monthlyWeather(desc string, months ...time.Month) []dataset.Observation {
	var rows []dataset.Observation
	for _, m := range months {
		for d := 1; d <= 5; d++ {
			ts := time.Date(2016, m, d, 12, 0, 0, 0, time.UTC)
			rows = append(rows, hourlyObs(ts, desc, 100))
		}
	}
	return rows
}

func TestBuildSelectionExcludesOffSeasonCategories(t *testing.T) {
	var rows []dataset.Observation
	rows = append(rows, monthlyWeather("sky is clear", time.April, time.May, time.June)...)
	rows = append(rows, monthlyWeather("mist", time.April, time.October)...)
	// only occurs outside the warm season
	rows = append(rows, monthlyWeather("freezing rain", time.January, time.December)...)

	sel := BuildSelection(rows, WarmSeason, 3)

	assert.Equal(t, WarmSeason, sel.Months)
	assert.Contains(t, sel.Categories, "sky is clear")
	assert.Contains(t, sel.Categories, "mist")
	assert.NotContains(t, sel.Categories, "freezing rain")
	require.Len(t, sel.Ranking, 2)
	assert.Equal(t, "sky is clear", sel.Ranking[0].Category)
	assert.Equal(t, 15, sel.Ranking[0].Count)
}

func TestNewSelectionRejectsRangeMismatch(t *testing.T) {
	_, err := NewSelection([]string{"mist"},
		MonthRange{time.April, time.October},
		MonthRange{time.January, time.December})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeFilterInconsistency))
}

func TestNewSelectionMatchingRanges(t *testing.T) {
	sel, err := NewSelection([]string{"mist"}, WarmSeason, WarmSeason)
	require.NoError(t, err)
	assert.Equal(t, WarmSeason, sel.Months)
	assert.True(t, sel.Contains("mist"))
}

func TestSelectionApplyIdempotent(t *testing.T) {
	var rows []dataset.Observation
	rows = append(rows, monthlyWeather("mist", time.March, time.April, time.July, time.November)...)
	rows = append(rows, monthlyWeather("haze", time.April, time.July)...)

	sel := BuildSelection(rows, WarmSeason, 1)

	once := sel.Apply(rows)
	twice := sel.Apply(once)
	assert.Equal(t, once, twice)

	for _, o := range once {
		assert.True(t, sel.Months.Contains(o.Month))
		assert.True(t, sel.Contains(o.WeatherDesc))
	}
}

func TestSelectionCategoryOutsideAllowList(t *testing.T) {
	rows := monthlyWeather("mist", time.April)
	sel := BuildSelection(rows, WarmSeason, 5)

	_, err := sel.Category(rows, "tornado")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeFilterInconsistency))
}

func TestSelectionCategoryAppliesMonthRange(t *testing.T) {
	var rows []dataset.Observation
	rows = append(rows, monthlyWeather("mist", time.April, time.December)...)
	sel := BuildSelection(rows, WarmSeason, 5)

	narrowed, err := sel.Category(rows, "mist")
	require.NoError(t, err)
	assert.Len(t, narrowed, 5, "December rows stay excluded")
	for _, o := range narrowed {
		assert.Equal(t, time.April, o.Month)
	}
}

func TestMonthRangeString(t *testing.T) {
	assert.Equal(t, "Apr-Oct", WarmSeason.String())
	assert.Equal(t, "Jan-Dec", MonthRange{time.January, time.December}.String())
}
