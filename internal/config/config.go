package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "olistcli/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Report    ReportConfig    `yaml:"report" envconfig:"REPORT"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// DataConfig locates the raw dataset files
type DataConfig struct {
	Dir string `yaml:"dir" envconfig:"DIR" validate:"required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// ReportConfig tunes the analytics views built from the analytical table
type ReportConfig struct {
	TopCategories       int `yaml:"top_categories" envconfig:"TOP_CATEGORIES" validate:"min=1"`
	HighlightCategories int `yaml:"highlight_categories" envconfig:"HIGHLIGHT_CATEGORIES" validate:"min=0,ltefield=TopCategories"`
	SatisfactionMaxDays int `yaml:"satisfaction_max_days" envconfig:"SATISFACTION_MAX_DAYS" validate:"min=1"`
}

// TelemetryConfig contains tracing and metrics output configuration
type TelemetryConfig struct {
	Tracing     bool   `yaml:"tracing" envconfig:"TRACING"`
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load builds the configuration from defaults, an optional YAML file and
// OLIST_* environment variables, in increasing order of precedence.
// An empty configFile searches the usual locations; a missing explicit file
// is an error.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	} else if _, err := os.Stat(configFile); err != nil {
		return nil, apperrors.NewConfigError(fmt.Sprintf("config file %s", configFile), err)
	}

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err)
		}
	}

	// Fields without an OLIST_* variable keep their file or default value.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration against its struct constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"olist.yaml",
		"configs/olist.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// NewPathError reports a path that could not be resolved
func NewPathError(path string, cause error) error {
	return apperrors.NewConfigError(fmt.Sprintf("cannot resolve path %s", path), cause)
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Dir: DefaultDataDir,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   DefaultLogOutput,
			FilePath: DefaultLogFile,
		},
		Report: ReportConfig{
			TopCategories:       DefaultTopCategories,
			HighlightCategories: DefaultHighlightCategories,
			SatisfactionMaxDays: DefaultSatisfactionMaxDays,
		},
	}
}
