package analysis

import (
	"fmt"
	"time"

	"i94cli/internal/dataset"
	"i94cli/internal/errors"
)

// MonthRange is an inclusive month window within a year
type MonthRange struct {
	First time.Month `json:"first"`
	Last  time.Month `json:"last"`
}

// WarmSeason is the project convention for warm months
var WarmSeason = MonthRange{First: time.April, Last: time.October}

// Contains reports whether m falls inside the range
func (r MonthRange) Contains(m time.Month) bool {
	return m >= r.First && m <= r.Last
}

// String renders the range like "Apr-Oct"
func (r MonthRange) String() string {
	return fmt.Sprintf("%s-%s", r.First.String()[:3], r.Last.String()[:3])
}

// FilterMonths returns only the rows whose month falls inside the range
func FilterMonths(rows []dataset.Observation, months MonthRange) []dataset.Observation {
	var out []dataset.Observation
	for _, o := range rows {
		if months.Contains(o.Month) {
			out = append(out, o)
		}
	}
	return out
}

// Selection is a named weather-category subset bound to the month range
// that justified it. The allow-list and the range travel together, so
// every table derived "because of" the ranking re-applies the identical
// month filter. Selecting by category while silently widening the month
// window is unrepresentable.
type Selection struct {
	Categories []string    `json:"categories"`
	Months     MonthRange  `json:"months"`
	Ranking    []RankEntry `json:"ranking,omitempty"`
}

// BuildSelection ranks weather descriptions by frequency inside the
// month range and keeps the topN. The returned Selection carries both
// the allow-list and the range that produced it.
func BuildSelection(rows []dataset.Observation, months MonthRange, topN int) Selection {
	seasonal := FilterMonths(rows, months)
	ranking := RankByCount(seasonal, KeyWeatherDesc, topN)

	categories := make([]string, len(ranking))
	for i, e := range ranking {
		categories[i] = e.Category
	}

	return Selection{Categories: categories, Months: months, Ranking: ranking}
}

// NewSelection builds a Selection from a precomputed allow-list. The
// caller must state both the range the ranking was computed over and the
// range it intends to apply; a mismatch is a FILTER_INCONSISTENCY error,
// caught at construction rather than discovered in a skewed chart.
func NewSelection(categories []string, rankedOver, applyOver MonthRange) (Selection, error) {
	if rankedOver != applyOver {
		return Selection{}, errors.NewFilterInconsistencyError(
			"selection month range does not match the range that produced the allow-list",
			map[string]string{
				"ranked_over": rankedOver.String(),
				"apply_over":  applyOver.String(),
			})
	}
	return Selection{Categories: categories, Months: rankedOver}, nil
}

// Apply narrows rows to the selection: month range AND category
// allow-list, always both. Idempotent.
func (s Selection) Apply(rows []dataset.Observation) []dataset.Observation {
	allowed := make(map[string]bool, len(s.Categories))
	for _, c := range s.Categories {
		allowed[c] = true
	}

	var out []dataset.Observation
	for _, o := range rows {
		if s.Months.Contains(o.Month) && allowed[o.WeatherDesc] {
			out = append(out, o)
		}
	}
	return out
}

// Contains reports whether the category is in the allow-list
func (s Selection) Contains(category string) bool {
	for _, c := range s.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Category narrows rows to a single selected category, with the bound
// month range still applied. Asking for a category outside the
// allow-list is a FILTER_INCONSISTENCY error: the ranking never
// justified it.
func (s Selection) Category(rows []dataset.Observation, category string) ([]dataset.Observation, error) {
	if !s.Contains(category) {
		return nil, errors.NewFilterInconsistencyError(
			fmt.Sprintf("category %q is not part of the selection", category),
			map[string]interface{}{"category": category, "selection": s.Categories})
	}

	var out []dataset.Observation
	for _, o := range rows {
		if s.Months.Contains(o.Month) && o.WeatherDesc == category {
			out = append(out, o)
		}
	}
	return out, nil
}
