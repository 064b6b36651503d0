// Package logger wraps zap for the contact book.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/roach88/contactbook/internal/config"
)

// Logger wraps zap.SugaredLogger with contact book field helpers.
type Logger struct {
	*zap.SugaredLogger
}

// New builds a logger from configuration.
func New(cfg config.LoggerConfig) (*Logger, error) {
	var zapConfig zap.Config

	if cfg.Format == "json" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
		// ANSI colours only make sense on a stream.
		if cfg.Output == "file" {
			zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		} else {
			zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	switch cfg.Output {
	case "file":
		zapConfig.OutputPaths = []string{cfg.Filename}
		zapConfig.ErrorOutputPaths = []string{cfg.Filename}
	case "stdout":
		zapConfig.OutputPaths = []string{"stdout"}
		zapConfig.ErrorOutputPaths = []string{"stderr"}
	default:
		// stderr keeps the interactive menu on stdout readable.
		zapConfig.OutputPaths = []string{"stderr"}
		zapConfig.ErrorOutputPaths = []string{"stderr"}
	}

	// Stack traces on warnings are noise for a CLI.
	zapConfig.DisableStacktrace = true

	zapLogger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return &Logger{SugaredLogger: zapLogger.Sugar()}, nil
}

// Wrap adapts an existing zap logger, typically zaptest or zap.NewNop.
func Wrap(l *zap.Logger) *Logger {
	return &Logger{SugaredLogger: l.Sugar()}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return Wrap(zap.NewNop())
}

// WithFields adds structured fields to the logger.
func (l *Logger) WithFields(fields ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(fields...)}
}

// WithError adds an error field to the logger.
func (l *Logger) WithError(err error) *Logger {
	return l.WithFields("error", err.Error())
}

// WithComponent adds a component field to the logger.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithFields("component", component)
}

// WithOperation tags every entry with the id of one user action.
func (l *Logger) WithOperation(opID, op string) *Logger {
	return l.WithFields("op_id", opID, "op", op)
}

// Sync flushes buffered entries. Errors from syncing a terminal are ignored.
func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}
