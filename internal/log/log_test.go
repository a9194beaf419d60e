package log

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(LevelWarn)
	defer SetLevel(LevelInfo)

	Info("hidden")
	Warn("shown", "days", 5)
	Error("failed", errors.New("boom"), "file", "logo.png")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] shown days=5")
	assert.Contains(t, out, "[ERROR] failed err=boom file=logo.png")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{" warn ", LevelWarn},
		{"error", LevelError},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestFormatKVsOddCount(t *testing.T) {
	assert.Equal(t, " a=1", formatKVs("a", 1, "dangling"))
	assert.Equal(t, " b=x", formatKVs(2, "skipped", "b", "x"))
}
