package config

import (
	"errors"
	"fmt"
	"strings"

	"alertscope/export"
	"alertscope/pipeline"
	"alertscope/sequence"
	"alertscope/summary"
	"alertscope/threat"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by LoadConfig
const EnvPrefix = "ALERTSCOPE"

// Config holds all configuration for an alertscope run
type Config struct {
	Input struct {
		// Path of the events document (ALERTSCOPE_INPUT_PATH)
		Path string `mapstructure:"path"`
		// EventsKey is the preferred key of the events array
		EventsKey string `mapstructure:"events_key"`
	} `mapstructure:"input"`

	Output struct {
		// Dir receives the CSV tables and the report (ALERTSCOPE_OUTPUT_DIR)
		Dir string `mapstructure:"dir" validate:"required"`
		// Format of the report document: json, yaml or msgpack
		Format string `mapstructure:"format"`
		// CSV enables the CSV tables
		CSV bool `mapstructure:"csv"`
		// IncludeEvents embeds annotated events in the report
		IncludeEvents bool `mapstructure:"include_events"`
	} `mapstructure:"output"`

	Analysis struct {
		WindowLengths []int  `mapstructure:"window_lengths" validate:"min=1,dive,gt=0"`
		PatternSource string `mapstructure:"pattern_source"`
		TopN          int    `mapstructure:"top_n" validate:"gte=1"`
		CacheSize     int    `mapstructure:"cache_size" validate:"gte=0"`
		DisableCache  bool   `mapstructure:"disable_cache"`
	} `mapstructure:"analysis"`

	Logging struct {
		Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	} `mapstructure:"logging"`
}

func setDefaults() {
	viper.SetDefault("input.path", "events.json")
	viper.SetDefault("input.events_key", "events")

	viper.SetDefault("output.dir", "output")
	viper.SetDefault("output.format", "json")
	viper.SetDefault("output.csv", true)
	viper.SetDefault("output.include_events", false)

	viper.SetDefault("analysis.window_lengths", sequence.DefaultWindowLengths)
	viper.SetDefault("analysis.pattern_source", string(pipeline.SourceSignature))
	viper.SetDefault("analysis.top_n", summary.DefaultTopN)
	viper.SetDefault("analysis.cache_size", threat.DefaultCacheSize)
	viper.SetDefault("analysis.disable_cache", false)

	viper.SetDefault("logging.level", "info")
}

// loadFromEnv sets up environment variable loading
func loadFromEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Section names (ALERTSCOPE_INPUT, ALERTSCOPE_OUTPUT) are not valid
	// aliases: they shadow the nested keys of the section
	_ = viper.BindEnv("input.path", EnvPrefix+"_INPUT_PATH")
	_ = viper.BindEnv("output.dir", EnvPrefix+"_OUTPUT_DIR")
	_ = viper.BindEnv("logging.level", EnvPrefix+"_LOG_LEVEL")
}

// LoadConfig loads configuration from defaults, an optional YAML file and
// environment variables. An empty path searches for alertscope.yaml in the
// working directory and ./config; a missing file is not an error then. An
// explicit path must exist.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("alertscope")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	setDefaults()
	loadFromEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

var validate = validator.New()

func validateConfig(config *Config) error {
	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))

	if err := validate.Struct(config); err != nil {
		return err
	}

	if _, err := export.ParseFormat(config.Output.Format); err != nil {
		return fmt.Errorf("invalid output format: %w", err)
	}

	if !pipeline.PatternSource(config.Analysis.PatternSource).IsValid() {
		return fmt.Errorf("invalid pattern source %q: must be one of signature, main_category, detailed_category",
			config.Analysis.PatternSource)
	}

	return nil
}

// Pipeline returns the analysis configuration for pipeline.New
func (c *Config) Pipeline() pipeline.Config {
	return pipeline.Config{
		WindowLengths: append([]int(nil), c.Analysis.WindowLengths...),
		PatternSource: pipeline.PatternSource(c.Analysis.PatternSource),
		TopN:          c.Analysis.TopN,
		CacheSize:     c.Analysis.CacheSize,
		DisableCache:  c.Analysis.DisableCache,
	}
}

// Export returns the exporter options
func (c *Config) Export() export.Options {
	return export.Options{
		Dir:           c.Output.Dir,
		Format:        export.Format(c.Output.Format),
		CSV:           c.Output.CSV,
		IncludeEvents: c.Output.IncludeEvents,
	}
}
