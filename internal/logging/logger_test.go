package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/trebuchet-org/plugrelay/internal/domain/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewLogger_Level(t *testing.T) {
	t.Setenv(LevelEnv, "warn")

	var buf bytes.Buffer
	log := newLogger(&buf, &config.RuntimeConfig{})
	log.Info("hidden")
	log.Warn("shown", "safe", "0x5afe")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "safe=0x5afe")
	assert.NotContains(t, out, "time=")
}

func TestNewLogger_DebugFlagWins(t *testing.T) {
	t.Setenv(LevelEnv, "error")

	var buf bytes.Buffer
	log := newLogger(&buf, &config.RuntimeConfig{Debug: true})
	log.Debug("relay attempt", "nonce", 19)

	assert.Contains(t, buf.String(), "relay attempt")
	assert.Contains(t, buf.String(), "nonce=19")
}
