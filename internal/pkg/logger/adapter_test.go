package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observeDefault(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := slog.Default()
	slog.SetDefault(slog.New(zapslog.NewHandler(core)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return logs
}

func TestAdapterRoutesThroughDefault(t *testing.T) {
	logs := observeDefault(t)

	l := With("component", "TVLService")
	l.Debug("refresh started", "chains", 4)
	l.Info("refresh done")
	l.Warn("source failed", "chain", "Terra")
	l.Error("commit failed")

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)

	fields := entries[2].ContextMap()
	assert.Equal(t, "TVLService", fields["component"])
	assert.Equal(t, "Terra", fields["chain"])
	assert.Equal(t, "refresh started", entries[0].Message)
}

func TestAdapterWithDoesNotLeakArgs(t *testing.T) {
	logs := observeDefault(t)

	base := []any{"component", "a"}
	l := With(base...)
	l.Info("one", "k", 1)
	l.Info("two")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.NotContains(t, entries[1].ContextMap(), "k")
	assert.Len(t, base, 2)
}

func TestNopDiscards(t *testing.T) {
	logs := observeDefault(t)
	Nop().Error("ignored")
	NewSlogAdapter().Info("kept")
	assert.Equal(t, 1, logs.Len())
}
