package bootstrap

import (
	"fmt"
	"os"
	"strings"

	"alertscope/config"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogger initializes the zap logger with colored console output on
// stderr. Stdout is left to the console report.
func InitLogger(level string) (*zap.Logger, *zap.SugaredLogger, error) {
	return NewLogger(level, zapcore.AddSync(os.Stderr))
}

// NewLogger builds the console logger writing to w
func NewLogger(level string, w zapcore.WriteSyncer) (*zap.Logger, *zap.SugaredLogger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		w,
		lvl,
	)

	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return logger, logger.Sugar(), nil
}

// ParseLevel maps a level name to a zap level. Empty means info.
func ParseLevel(level string) (zapcore.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return lvl, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// InitConfig loads the application configuration
func InitConfig(path string, sugar *zap.SugaredLogger) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if viper.ConfigFileUsed() == "" {
		sugar.Debug("No config file found, using defaults and env vars")
	}

	sugar.Debugw("Config loaded",
		"config_file", viper.ConfigFileUsed(),
		"input", cfg.Input.Path,
		"output_dir", cfg.Output.Dir,
		"format", cfg.Output.Format,
		"window_lengths", cfg.Analysis.WindowLengths,
		"pattern_source", cfg.Analysis.PatternSource)

	return cfg, nil
}
