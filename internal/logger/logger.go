// Package logger builds the process-wide zap logger.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the output encoding and verbosity.
type Options struct {
	// JSON switches from the human console encoding to JSON lines.
	JSON bool
	// Debug enables debug-level output.
	Debug bool
}

// New constructs a logger. The caller owns it and is expected to Sync on
// shutdown.
func New(opts Options) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if !opts.JSON {
		cfg = zap.NewDevelopmentConfig()
	}
	if opts.Debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}
