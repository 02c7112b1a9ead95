package logger

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNew_WritesToOutputPath(t *testing.T) {
	out := filepath.Join(t.TempDir(), "log.json")
	l, err := New(Config{Level: "debug", OutputPaths: []string{out}})
	require.NoError(t, err)

	l.With(String("component", "test")).Debug("hello", Int("n", 1), Err(errors.New("boom")))
	_ = l.Sync()

	assert.FileExists(t, out)
}

func TestExtractionReporter(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	report := ExtractionReporter(FromZap(zap.New(core)))

	report("state", "ok,fail", true)
	report("id", "", false)

	entries := logs.FilterMessage("variable assigned").All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "state", first["variable"])
	assert.Equal(t, "ok,fail", first["value"])
	assert.Equal(t, true, first["found"])

	second := entries[1].ContextMap()
	assert.Equal(t, "id", second["variable"])
	assert.Equal(t, false, second["found"])
}

func TestWarnFunc(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	warn := WarnFunc(FromZap(zap.New(core)))

	warn("unresolved variable: %s", "token")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "unresolved variable: token", logs.All()[0].Message)
}

func TestNop(t *testing.T) {
	l := NewNop()
	l.Info("ignored")
	assert.Same(t, l, l.With(String("a", "b")))
	assert.NoError(t, l.Sync())
}
