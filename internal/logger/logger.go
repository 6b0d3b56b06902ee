package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// presets are the base configurations per environment: JSON in prod, console elsewhere.
var presets = map[string]func() zap.Config{
	"prod":   zap.NewProductionConfig,
	"local":  zap.NewDevelopmentConfig,
	"dev":    zap.NewDevelopmentConfig,
	"docker": zap.NewDevelopmentConfig,
}

// Options adjust the environment preset.
type Options struct {
	Level   string // debug, info, warn or error; empty keeps the preset level
	Service string // stamped on every entry as "service" when set
	Version string // stamped on every entry as "version" when set
}

// NewLogger builds the process logger for env. Entries always go to stderr,
// since stdout carries MCP frames in stdio mode.
func NewLogger(env string, opts Options) (*zap.Logger, error) {
	cfg, err := buildConfig(env, opts)
	if err != nil {
		return nil, err
	}
	l, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}

func buildConfig(env string, opts Options) (zap.Config, error) {
	preset, ok := presets[env]
	if !ok {
		return zap.Config{}, fmt.Errorf("unknown environment %q for logger", env)
	}
	cfg := preset()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	if opts.Level != "" {
		level, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return zap.Config{}, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(level)
	}

	fields := map[string]any{}
	if opts.Service != "" {
		fields["service"] = opts.Service
	}
	if opts.Version != "" {
		fields["version"] = opts.Version
	}
	if len(fields) > 0 {
		cfg.InitialFields = fields
	}
	return cfg, nil
}
