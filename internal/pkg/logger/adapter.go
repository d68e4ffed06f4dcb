package logger

import (
	"slices"

	"bridge_tvl/internal/app/port"
)

// slogAdapter implements port.Logger on top of the package-level functions.
type slogAdapter struct {
	args []any
}

func NewSlogAdapter() port.Logger {
	return &slogAdapter{}
}

// With returns an adapter that prefixes every record with the given key-value pairs.
func With(args ...any) port.Logger {
	return &slogAdapter{args: args}
}

func (a *slogAdapter) Info(msg string, args ...any) {
	Info(msg, slices.Concat(a.args, args)...)
}

func (a *slogAdapter) Debug(msg string, args ...any) {
	Debug(msg, slices.Concat(a.args, args)...)
}

func (a *slogAdapter) Warn(msg string, args ...any) {
	Warn(msg, slices.Concat(a.args, args)...)
}

func (a *slogAdapter) Error(msg string, args ...any) {
	Error(msg, slices.Concat(a.args, args)...)
}

type nopLogger struct{}

// Nop discards everything; used by tests and library callers without a logger.
func Nop() port.Logger { return nopLogger{} }

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
