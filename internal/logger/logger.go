package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. It is a no-op until Init is called.
var Log = zap.NewNop()

// Init replaces Log. debug lowers the level to Debug and adds callers and
// stack traces; jsonOutput selects the JSON encoder over the console one.
func Init(debug, jsonOutput bool) error {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "timestamp"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeCaller = zapcore.ShortCallerEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder

	encoding := "json"
	if !jsonOutput {
		encoding = "console"
		if debug {
			enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
	}

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	l, err := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       debug,
		DisableCaller:     !debug,
		DisableStacktrace: !debug,
		Encoding:          encoding,
		EncoderConfig:     enc,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}.Build()
	if err != nil {
		return fmt.Errorf("failed to build zap logger: %w", err)
	}
	Log = l
	Log.Debug("Logger initialized", zap.Bool("json_output", jsonOutput))
	return nil
}

// Named returns a child of Log for one subsystem (fill, clean, server, ...).
// Call it after Init; earlier children stay no-ops.
func Named(name string) *zap.Logger { return Log.Named(name) }
