package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithCalendar(t *testing.T) {
	rows := []Observation{
		{Timestamp: time.Date(2016, 7, 4, 17, 0, 0, 0, time.UTC)},
	}

	out := WithCalendar(rows)

	require.Len(t, out, 1)
	assert.Equal(t, 2016, out[0].Year)
	assert.Equal(t, time.July, out[0].Month)
	assert.Equal(t, 4, out[0].Day)
	assert.Equal(t, time.Monday, out[0].Weekday)
	assert.Equal(t, 17, out[0].Hour)

	// input untouched
	assert.Zero(t, rows[0].Year)
}

func TestIsDaytimeBounds(t *testing.T) {
	tests := []struct {
		hour string
		h    int
		want bool
	}{
		{"before dawn", 5, false},
		{"start hour inclusive", 6, true},
		{"midday", 12, true},
		{"end hour inclusive", 18, true},
		{"after dusk", 19, false},
		{"midnight", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.hour, func(t *testing.T) {
			o := Observation{Hour: tt.h}
			assert.Equal(t, tt.want, o.IsDaytime())
		})
	}
}

func TestSplitDayNightPartitions(t *testing.T) {
	var rows []Observation
	base := time.Date(2016, 7, 1, 0, 0, 0, 0, time.UTC)
	for h := 0; h < 48; h++ {
		rows = append(rows, Observation{Timestamp: base.Add(time.Duration(h) * time.Hour)})
	}
	rows = WithCalendar(rows)

	day, night := SplitDayNight(rows)

	assert.Equal(t, len(rows), len(day)+len(night), "every row lands in exactly one half")
	assert.Len(t, day, 2*(DaytimeEndHour-DaytimeStartHour+1))
	for _, o := range day {
		assert.True(t, o.IsDaytime())
	}
	for _, o := range night {
		assert.False(t, o.IsDaytime())
	}
}

// Moving the daytime start from 6 to 7 must change the daytime count by
// exactly the number of 06:00 rows. Guards against call sites restating
// the bounds with different numbers.
func TestDaytimeBoundSensitivity(t *testing.T) {
	var rows []Observation
	base := time.Date(2016, 7, 1, 0, 0, 0, 0, time.UTC)
	for h := 0; h < 24*7; h++ {
		rows = append(rows, Observation{Timestamp: base.Add(time.Duration(h) * time.Hour)})
	}
	rows = WithCalendar(rows)

	day := Daytime(rows)

	sixes := 0
	alt := 0
	for _, o := range rows {
		if o.Hour == DaytimeStartHour {
			sixes++
		}
		if o.Hour > DaytimeStartHour && o.Hour <= DaytimeEndHour {
			alt++
		}
	}
	assert.Equal(t, len(day)-sixes, alt)
}
