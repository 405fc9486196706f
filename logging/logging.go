// Package logging adapts zap to the auth.Logger surface used across the
// application.
package logging

import (
	"go.uber.org/zap"

	"github.com/quitecodedevelopers/elearning/auth"
)

// Logger wraps a zap sugared logger behind the auth.Logger interface.
type Logger struct {
	sugar *zap.SugaredLogger
}

var _ auth.Logger = (*Logger)(nil)

// New builds a logger for the given environment: human-readable output in
// development, JSON in anything else.
func New(environment string) (*Logger, error) {
	var base *zap.Logger
	var err error

	if environment == "development" {
		base, err = zap.NewDevelopment()
	} else {
		base, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}

	return &Logger{sugar: base.Sugar()}, nil
}

// FromZap wraps an existing zap logger, mostly for tests.
func FromZap(base *zap.Logger) *Logger {
	return &Logger{sugar: base.Sugar()}
}

// Named returns a child logger with the given name segment.
func (l *Logger) Named(name string) *Logger {
	return &Logger{sugar: l.sugar.Named(name)}
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

func (l *Logger) Debug(msg string, args ...any) {
	l.sugar.Debugw(msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.sugar.Infow(msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.sugar.Warnw(msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.sugar.Errorw(msg, args...)
}
