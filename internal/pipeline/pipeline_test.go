package pipeline

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"i94cli/internal/config"
)

// writeFixture generates 90 days of synthetic hourly observations with a
// deterministic rush-hour pattern, one duplicate timestamp, one gap and
// one holiday, gzip-compressed like the real input.
func writeFixture(t *testing.T) string {
	t.Helper()

	var sb strings.Builder
	sb.WriteString("holiday,temp,rain_1h,snow_1h,clouds_all,weather_main,weather_description,date_time,traffic_volume\n")

	descs := []string{"scattered clouds", "mist", "haze", "Sky is Clear"}
	mains := []string{"Clouds", "Mist", "Haze", "Clear"}

	start := time.Date(2016, 4, 1, 0, 0, 0, 0, time.UTC)
	for h := 0; h < 24*90; h++ {
		ts := start.Add(time.Duration(h) * time.Hour)
		if ts.Month() == time.April && ts.Day() == 15 && ts.Hour() == 3 {
			// one missing hour
			continue
		}

		wi := (ts.Day() + ts.Hour()) % len(descs)
		volume := 1000 + 300*((ts.Hour()+18)%24) + 100*int(ts.Weekday()) + 37*(h%13)
		temp := 270.0 + float64(ts.Hour()) + float64(ts.YearDay())/10

		holiday := "None"
		if ts.Month() == time.May && ts.Day() == 30 && ts.Hour() == 0 {
			holiday = "Memorial Day"
		}

		line := fmt.Sprintf("%s,%.2f,0,0,%d,%s,%s,%s,%d\n",
			holiday, temp, (wi*25)%101, mains[wi], descs[wi],
			ts.Format("2006-01-02 15:04:05"), volume)
		sb.WriteString(line)

		if ts.Month() == time.April && ts.Day() == 2 && ts.Hour() == 10 {
			// duplicate timestamp, second occurrence must be dropped
			sb.WriteString(line)
		}
	}

	path := filepath.Join(t.TempDir(), "traffic.csv.gz")
	file, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(file)
	_, err = gz.Write([]byte(sb.String()))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, file.Close())
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Input.Path = writeFixture(t)
	cfg.Output.Dir = filepath.Join(t.TempDir(), "out")
	cfg.Analysis.MaxLagDays = 30
	return cfg
}

func TestPipelineRun(t *testing.T) {
	cfg := testConfig(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := noop.NewTracerProvider().Tracer("test")

	manifest, err := New(cfg, logger, tracer).Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, manifest.RunID)
	assert.Equal(t, manifest.RowsLoaded-1, manifest.RowsCleaned, "one duplicate dropped")
	assert.Equal(t, 1, manifest.GapReport.DuplicatesDropped)
	assert.Equal(t, 1, manifest.GapReport.MissingHours)
	assert.Positive(t, manifest.GapReport.HolidaysPropagated)

	assert.Equal(t, "Apr-Oct", manifest.Selection.Months.String())
	assert.NotEmpty(t, manifest.Selection.Categories)
	assert.LessOrEqual(t, len(manifest.Selection.Categories), cfg.Analysis.TopWeatherCount)
	assert.Contains(t, manifest.Selection.Categories, "sky is clear", "description casing normalized before ranking")

	require.Len(t, manifest.WelchTests, 1, "default pair has enough daily samples")
	welch := manifest.WelchTests[0]
	assert.Equal(t, "scattered clouds", welch.CategoryA)
	assert.Equal(t, "mist", welch.CategoryB)
	assert.Equal(t, "Apr-Oct", welch.Months)
	assert.GreaterOrEqual(t, welch.Result.NA, cfg.Analysis.MinSampleSize)
	assert.Empty(t, manifest.SkippedTests)

	assert.InDelta(t, 1.0, manifest.GapRatios["daily_mean_mist"], 0.2, "near-daily coverage in the fixture")

	for _, name := range []string{
		"manifest.json",
		"tables.xlsx",
		filepath.Join("charts", "monthly_mean.png"),
		filepath.Join("charts", "hourly_profile.png"),
		filepath.Join("charts", "warm_season_weather_ranking.png"),
		filepath.Join("charts", "heatmap_mist.png"),
		filepath.Join("charts", "acf_daily_mean_scattered_clouds.png"),
		filepath.Join("tables", "day_night_summary.csv"),
		filepath.Join("tables", "warm_season_weather_ranking.csv"),
	} {
		_, err := os.Stat(filepath.Join(cfg.Output.Dir, name))
		assert.NoError(t, err, "expected artifact %s", name)
	}
}

func TestPipelineRunMissingInput(t *testing.T) {
	cfg := testConfig(t)
	cfg.Input.Path = filepath.Join(t.TempDir(), "absent.csv.gz")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := noop.NewTracerProvider().Tracer("test")

	_, err := New(cfg, logger, tracer).Run(context.Background())
	assert.Error(t, err)
}

func TestPipelineSkipsUnderMinSample(t *testing.T) {
	cfg := testConfig(t)
	cfg.Analysis.MinSampleSize = 10000
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := noop.NewTracerProvider().Tracer("test")

	manifest, err := New(cfg, logger, tracer).Run(context.Background())
	require.NoError(t, err, "insufficient samples skip the test, not the run")

	assert.Empty(t, manifest.WelchTests)
	require.NotEmpty(t, manifest.SkippedTests)
	assert.Equal(t, "INSUFFICIENT_SAMPLE", manifest.SkippedTests[0].Code)
}
