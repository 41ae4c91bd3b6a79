package analysis

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"i94cli/internal/dataset"
)

// KeyFunc extracts a grouping key from an observation. Key values are
// chosen so that a plain lexical sort yields the natural order (months
// and hours zero-padded, weekdays prefixed with their Monday-first
// index).
type KeyFunc struct {
	Name string
	Of   func(o dataset.Observation) string
}

var (
	KeyYear = KeyFunc{"year", func(o dataset.Observation) string {
		return fmt.Sprintf("%04d", o.Year)
	}}
	KeyMonth = KeyFunc{"month", func(o dataset.Observation) string {
		return fmt.Sprintf("%02d", int(o.Month))
	}}
	KeyDay = KeyFunc{"day", func(o dataset.Observation) string {
		return fmt.Sprintf("%02d", o.Day)
	}}
	KeyHour = KeyFunc{"hour", func(o dataset.Observation) string {
		return fmt.Sprintf("%02d", o.Hour)
	}}
	KeyWeekday = KeyFunc{"weekday", func(o dataset.Observation) string {
		return fmt.Sprintf("%d-%s", MondayIndex(o.Weekday), o.Weekday.String()[:3])
	}}
	KeyDate = KeyFunc{"date", func(o dataset.Observation) string {
		return o.Date().Format("2006-01-02")
	}}
	KeyWeatherMain = KeyFunc{"weather_main", func(o dataset.Observation) string {
		return o.WeatherMain
	}}
	KeyWeatherDesc = KeyFunc{"weather_description", func(o dataset.Observation) string {
		return o.WeatherDesc
	}}
)

// MondayIndex maps time.Weekday to the Monday-first convention
// (0=Mon .. 6=Sun) used throughout the weekday aggregates.
func MondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// Metric extracts the aggregated value from an observation
type Metric struct {
	Name string
	Of   func(o dataset.Observation) float64
}

var (
	MetricVolume = Metric{"traffic_volume", func(o dataset.Observation) float64 { return float64(o.Volume) }}
	MetricTemp   = Metric{"temp", func(o dataset.Observation) float64 { return o.Temp }}
)

// Op is the aggregation operator applied per group
type Op string

const (
	OpCount  Op = "count"
	OpMean   Op = "mean"
	OpMedian Op = "median"
	OpSum    Op = "sum"
)

// Group is one output row of an aggregation
type Group struct {
	Keys  []string `json:"keys"`
	Count int      `json:"count"`
	Value float64  `json:"value"`
}

const keySep = "\x1f"

// Aggregate groups rows by the ordered key sequence and applies op to
// the metric within each group. Output order is deterministic: groups
// sorted lexically by their composite key, which (by key-value design)
// is the natural calendar/category order. Input order never affects the
// result, and every input row lands in exactly one group.
func Aggregate(rows []dataset.Observation, keys []KeyFunc, metric Metric, op Op) []Group {
	values := make(map[string][]float64)
	counts := make(map[string]int)

	for _, o := range rows {
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k.Of(o)
		}
		ck := strings.Join(parts, keySep)
		counts[ck]++
		if op != OpCount {
			values[ck] = append(values[ck], metric.Of(o))
		}
	}

	composite := make([]string, 0, len(counts))
	for ck := range counts {
		composite = append(composite, ck)
	}
	sort.Strings(composite)

	groups := make([]Group, 0, len(composite))
	for _, ck := range composite {
		g := Group{
			Keys:  strings.Split(ck, keySep),
			Count: counts[ck],
		}
		switch op {
		case OpCount:
			g.Value = float64(g.Count)
		case OpMean:
			g.Value = stat.Mean(values[ck], nil)
		case OpMedian:
			g.Value = median(values[ck])
		case OpSum:
			for _, v := range values[ck] {
				g.Value += v
			}
		}
		groups = append(groups, g)
	}

	return groups
}

// RankEntry is one category in a frequency ranking
type RankEntry struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// RankByCount returns the topN categories of key by descending
// frequency. Ties are broken by first-seen order in the input, so the
// ranking is a strictly ordered, reproducible sequence.
func RankByCount(rows []dataset.Observation, key KeyFunc, topN int) []RankEntry {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)

	for i, o := range rows {
		k := key.Of(o)
		if _, ok := counts[k]; !ok {
			firstSeen[k] = i
		}
		counts[k]++
	}

	entries := make([]RankEntry, 0, len(counts))
	for k, c := range counts {
		entries = append(entries, RankEntry{Category: k, Count: c})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return firstSeen[entries[i].Category] < firstSeen[entries[j].Category]
	})

	if topN > 0 && len(entries) > topN {
		entries = entries[:topN]
	}
	return entries
}

func median(values []float64) float64 {
	s := make([]float64, len(values))
	copy(s, values)
	sort.Float64s(s)
	return stat.Quantile(0.5, stat.Empirical, s, nil)
}
