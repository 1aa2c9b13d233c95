// Package logger builds the zap logger shared by the CLI and the synthesis
// driver. Library packages take a *zap.SugaredLogger through options and
// default to Nop, so nothing logs unless the caller asks for it.
package logger

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Standard field names for structured logging.
const (
	FieldRunID     = "run_id"
	FieldSeed      = "seed"
	FieldAttempt   = "attempt"
	FieldOperation = "operation"
	FieldFamily    = "family_id"
	FieldType      = "family_type"
	FieldCount     = "count"
	FieldRequested = "requested"
	FieldFormed    = "formed"
	FieldShortfall = "shortfall"
	FieldStatus    = "status"
	FieldPool      = "pool"
	FieldBound     = "bound"
	FieldPath      = "path"
	FieldError     = "error"
)

// Config selects encoding and level.
type Config struct {
	// JSON switches to the production JSON encoder.
	JSON bool
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
}

// ErrBadLevel indicates an unknown level name.
var ErrBadLevel = errors.New("logger: unknown level")

// ParseLevel maps a level name to a zapcore.Level.
func ParseLevel(name string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, errors.Wrapf(ErrBadLevel, "%q", name)
}

// New builds a sugared logger writing to stderr.
func New(cfg Config) (*zap.SugaredLogger, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	if cfg.JSON {
		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(lvl)
		zl, err := zc.Build()
		if err != nil {
			return nil, errors.Wrap(err, "logger: build json logger")
		}
		return zl.Sugar(), nil
	}

	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(os.Stderr), lvl)
	return zap.New(core).Sugar(), nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger { return zap.NewNop().Sugar() }

// OrNop returns l, or Nop when l is nil.
func OrNop(l *zap.SugaredLogger) *zap.SugaredLogger {
	if l == nil {
		return Nop()
	}
	return l
}
