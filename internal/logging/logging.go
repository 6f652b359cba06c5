// Package logging builds the zap logger used by the command-line tools.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the log format and level.
type Options struct {
	// JSON switches to production JSON output for machine consumption.
	JSON    bool
	Verbose bool
}

// New builds a logger writing to stderr, leaving stdout for the results table.
func New(opts Options) (*zap.Logger, error) {
	level := zap.InfoLevel
	if opts.Verbose {
		level = zap.DebugLevel
	}

	if opts.JSON {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(level)
		config.OutputPaths = []string{"stderr"}
		config.ErrorOutputPaths = []string{"stderr"}
		return config.Build()
	}

	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	enc.CallerKey = ""
	enc.StacktraceKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(os.Stderr), level)
	return zap.New(core), nil
}
