package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "data/raw/Metro_Interstate_Traffic_Volume.csv.gz", cfg.Input.Path)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.True(t, cfg.Output.WriteWorkbook)

	assert.Equal(t, time.April, cfg.Analysis.WarmSeasonFirst())
	assert.Equal(t, time.October, cfg.Analysis.WarmSeasonLast())
	assert.Equal(t, 10, cfg.Analysis.TopWeatherCount)
	assert.Equal(t, 30, cfg.Analysis.MinSampleSize)
	assert.Equal(t, 150, cfg.Analysis.MaxLagDays)
	assert.Equal(t, 1.5, cfg.Analysis.IQRMultiplier)
	assert.Equal(t, 0.99, cfg.Analysis.TrimQuantile)
	assert.Equal(t, "scattered clouds", cfg.Analysis.TestCategoryA)
	assert.Equal(t, "mist", cfg.Analysis.TestCategoryB)
	assert.Equal(t, []string{"scattered clouds", "haze", "mist"}, cfg.Analysis.HeatmapCategories)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "stdout", cfg.Logging.Output)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
input:
  path: /data/other.csv.gz
analysis:
  top_weather_count: 5
  test_category_a: haze
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/other.csv.gz", cfg.Input.Path)
	assert.Equal(t, 5, cfg.Analysis.TopWeatherCount)
	assert.Equal(t, "haze", cfg.Analysis.TestCategoryA)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// untouched fields keep their defaults
	assert.Equal(t, "mist", cfg.Analysis.TestCategoryB)
	assert.Equal(t, "out", cfg.Output.Dir)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.Output.Dir)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"warm season inverted", func(c *Config) {
			c.Analysis.WarmSeasonFirstMonth = 10
			c.Analysis.WarmSeasonLastMonth = 4
		}},
		{"month out of range", func(c *Config) {
			c.Analysis.WarmSeasonFirstMonth = 13
		}},
		{"trim quantile above one", func(c *Config) {
			c.Analysis.TrimQuantile = 1.5
		}},
		{"min sample below two", func(c *Config) {
			c.Analysis.MinSampleSize = 1
		}},
		{"bad log level", func(c *Config) {
			c.Logging.Level = "verbose"
		}},
		{"empty input path", func(c *Config) {
			c.Input.Path = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
