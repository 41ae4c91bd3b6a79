package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Input    InputConfig    `yaml:"input" envconfig:"INPUT"`
	Output   OutputConfig   `yaml:"output" envconfig:"OUTPUT"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
}

// InputConfig locates the source data file
type InputConfig struct {
	// Path to the gzip-compressed hourly traffic CSV (9-column schema)
	Path string `yaml:"path" envconfig:"PATH" default:"data/raw/Metro_Interstate_Traffic_Volume.csv.gz" validate:"required"`
}

// OutputConfig controls where run artifacts are written
type OutputConfig struct {
	Dir           string `yaml:"dir" envconfig:"DIR" default:"out" validate:"required"`
	ChartsSubdir  string `yaml:"charts_subdir" envconfig:"CHARTS_SUBDIR" default:"charts"`
	TablesSubdir  string `yaml:"tables_subdir" envconfig:"TABLES_SUBDIR" default:"tables"`
	WriteWorkbook bool   `yaml:"write_workbook" envconfig:"WRITE_WORKBOOK" default:"true"`
	TraceFile     string `yaml:"trace_file" envconfig:"TRACE_FILE" default:"trace.json"`
}

// AnalysisConfig holds the tunable analysis parameters. The daytime hour
// bounds are deliberately NOT configurable: they are the canonical
// constants in the dataset package and must not be redefined per call
// site.
type AnalysisConfig struct {
	WarmSeasonFirstMonth int     `yaml:"warm_season_first_month" envconfig:"WARM_SEASON_FIRST_MONTH" default:"4" validate:"min=1,max=12"`
	WarmSeasonLastMonth  int     `yaml:"warm_season_last_month" envconfig:"WARM_SEASON_LAST_MONTH" default:"10" validate:"min=1,max=12"`
	TopWeatherCount      int     `yaml:"top_weather_count" envconfig:"TOP_WEATHER_COUNT" default:"10" validate:"min=1"`
	MinSampleSize        int     `yaml:"min_sample_size" envconfig:"MIN_SAMPLE_SIZE" default:"30" validate:"min=2"`
	MaxLagDays           int     `yaml:"max_lag_days" envconfig:"MAX_LAG_DAYS" default:"150" validate:"min=1"`
	IQRMultiplier        float64 `yaml:"iqr_multiplier" envconfig:"IQR_MULTIPLIER" default:"1.5" validate:"gt=0"`
	TrimQuantile         float64 `yaml:"trim_quantile" envconfig:"TRIM_QUANTILE" default:"0.99" validate:"gt=0,lte=1"`
	TestCategoryA        string  `yaml:"test_category_a" envconfig:"TEST_CATEGORY_A" default:"scattered clouds" validate:"required"`
	TestCategoryB        string  `yaml:"test_category_b" envconfig:"TEST_CATEGORY_B" default:"mist" validate:"required"`
	// Categories rendered as month-by-hour frequency heatmaps
	HeatmapCategories []string `yaml:"heatmap_categories" envconfig:"HEATMAP_CATEGORIES" default:"scattered clouds,haze,mist"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/i94cli.log"`
}

// Load reads configuration in layers: struct-tag defaults and I94_*
// environment variables first, then the optional YAML file on top, then
// validation. A missing file is not an error; defaults apply. envconfig
// re-applies default tags on every pass, so it runs exactly once and the
// file overlays it.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process("I94", cfg); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks structural constraints beyond struct tags
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if c.Analysis.WarmSeasonFirstMonth > c.Analysis.WarmSeasonLastMonth {
		return fmt.Errorf("config validation failed: warm season first month %d after last month %d",
			c.Analysis.WarmSeasonFirstMonth, c.Analysis.WarmSeasonLastMonth)
	}

	return nil
}

// WarmSeasonFirst returns the first warm-season month as time.Month
func (c *AnalysisConfig) WarmSeasonFirst() time.Month {
	return time.Month(c.WarmSeasonFirstMonth)
}

// WarmSeasonLast returns the last warm-season month as time.Month
func (c *AnalysisConfig) WarmSeasonLast() time.Month {
	return time.Month(c.WarmSeasonLastMonth)
}
