package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceName tags every entry written by NewLogger.
const ServiceName = "facetdex"

var presets = map[string]func() zap.Config{
	"prod":   zap.NewProductionConfig,
	"local":  zap.NewDevelopmentConfig,
	"dev":    zap.NewDevelopmentConfig,
	"docker": zap.NewDevelopmentConfig,
}

// NewLogger builds the server logger for env: JSON in prod, colored console
// elsewhere. A non-empty level (debug, info, warn, error) replaces the preset
// level. Entries carry service and env fields.
func NewLogger(env string, level ...string) (*zap.Logger, error) {
	lvl := ""
	if len(level) > 0 {
		lvl = level[0]
	}
	cfg, err := configFor(env, lvl)
	if err != nil {
		return nil, err
	}
	l, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}

func configFor(env, level string) (zap.Config, error) {
	preset, ok := presets[env]
	if !ok {
		return zap.Config{}, fmt.Errorf("unknown environment %q for logger", env)
	}
	cfg := preset()
	if env == "prod" {
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.InitialFields = map[string]any{"service": ServiceName, "env": env}

	if level != "" {
		l, err := zapcore.ParseLevel(level)
		if err != nil {
			return zap.Config{}, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(l)
	}
	return cfg, nil
}
