package dataset

// Canonical daytime bounds, hours inclusive. This is the single
// definition of "daytime" in the codebase: every split, aggregate and
// chart that distinguishes day from night goes through IsDaytime, and
// nothing may restate the bounds with different numbers.
const (
	DaytimeStartHour = 6
	DaytimeEndHour   = 18
)

// WithCalendar returns a copy of the table with the derived calendar
// fields populated from each timestamp. Pure; the input is not modified.
func WithCalendar(rows []Observation) []Observation {
	out := make([]Observation, len(rows))
	for i, o := range rows {
		o.Year = o.Timestamp.Year()
		o.Month = o.Timestamp.Month()
		o.Day = o.Timestamp.Day()
		o.Weekday = o.Timestamp.Weekday()
		o.Hour = o.Timestamp.Hour()
		out[i] = o
	}
	return out
}

// IsDaytime is the canonical daytime predicate
func (o Observation) IsDaytime() bool {
	return o.Hour >= DaytimeStartHour && o.Hour <= DaytimeEndHour
}

// SplitDayNight partitions the table using the canonical predicate.
// Every row lands in exactly one half.
func SplitDayNight(rows []Observation) (day, night []Observation) {
	for _, o := range rows {
		if o.IsDaytime() {
			day = append(day, o)
		} else {
			night = append(night, o)
		}
	}
	return day, night
}

// Daytime returns only the daytime rows
func Daytime(rows []Observation) []Observation {
	day, _ := SplitDayNight(rows)
	return day
}
