package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects level and encoding for New.
type Options struct {
	Level  string // debug|info|warn|error
	Format string // console|json
	Debug  bool   // forces debug level
}

// New builds a zap logger writing to stderr so stdout stays free for command output.
func New(opt Options) (*zap.Logger, error) {
	var cfg zap.Config
	if opt.Format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.Development = false
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true

	lvl := zapcore.InfoLevel
	if opt.Level != "" {
		if err := lvl.UnmarshalText([]byte(opt.Level)); err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", opt.Level, err)
		}
	}
	if opt.Debug {
		lvl = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
