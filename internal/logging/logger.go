// Package logging builds the process logger.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls logger construction.
type Options struct {
	// Verbose lowers the level to debug.
	Verbose bool
	// Dir, when set, adds <Dir>/report-engine.log as a second output.
	Dir string
	// Console switches to the human-readable encoder.
	Console bool
}

// FileName is the log file written under Options.Dir.
const FileName = "report-engine.log"

// New returns a production zap logger writing JSON to stderr, plus the log
// file when a directory is configured.
func New(opts Options) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if opts.Verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if opts.Console {
		config.Encoding = "console"
	}
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("logging: ensure log dir: %w", err)
		}
		path := filepath.Join(opts.Dir, FileName)
		config.OutputPaths = append(config.OutputPaths, path)
		config.ErrorOutputPaths = append(config.ErrorOutputPaths, path)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build logger: %w", err)
	}
	return logger, nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}
