package dataset

import (
	"time"
)

// Observation represents one hour of recorded sensor data. The first
// seven fields come straight from the source file; the calendar fields
// are derived once by WithCalendar and never recomputed ad hoc.
type Observation struct {
	Timestamp   time.Time `json:"timestamp"`
	Holiday     string    `json:"holiday,omitempty"` // empty when not a holiday
	Temp        float64   `json:"temp"`              // Kelvin
	RainMM      float64   `json:"rain_1h"`           // mm in the hour
	SnowMM      float64   `json:"snow_1h"`           // mm in the hour
	CloudsPct   int       `json:"clouds_all"`        // percent cover 0-100
	WeatherMain string    `json:"weather_main"`
	WeatherDesc string    `json:"weather_description"`
	Volume      int       `json:"traffic_volume"`

	// Derived calendar fields (see calendar.go)
	Year    int          `json:"year"`
	Month   time.Month   `json:"month"`
	Day     int          `json:"day"`
	Weekday time.Weekday `json:"weekday"`
	Hour    int          `json:"hour"`
}

// Date returns the observation's calendar day at midnight
func (o Observation) Date() time.Time {
	return time.Date(o.Timestamp.Year(), o.Timestamp.Month(), o.Timestamp.Day(), 0, 0, 0, 0, o.Timestamp.Location())
}

// IsValid checks the physical plausibility bounds of the raw fields
func (o Observation) IsValid() bool {
	return !o.Timestamp.IsZero() &&
		o.Temp >= 0 && o.RainMM >= 0 && o.SnowMM >= 0 &&
		o.CloudsPct >= 0 && o.CloudsPct <= 100 &&
		o.Volume >= 0
}

// IsBusinessDay reports whether the observation falls on Monday-Friday
func (o Observation) IsBusinessDay() bool {
	return o.Weekday >= time.Monday && o.Weekday <= time.Friday
}

// GapSpan is a contiguous run of missing hours in the cleaned table
type GapSpan struct {
	Start time.Time `json:"start"` // first missing hour
	End   time.Time `json:"end"`   // last missing hour
	Hours int       `json:"hours"`
}

// GapReport summarizes the data-quality issues found while cleaning.
// Gaps are surfaced as metadata; no synthetic rows are ever invented.
type GapReport struct {
	DuplicatesDropped  int       `json:"duplicates_dropped"`
	HolidaysPropagated int       `json:"holidays_propagated"`
	MissingHours       int       `json:"missing_hours"`
	Spans              []GapSpan `json:"spans,omitempty"`
}
