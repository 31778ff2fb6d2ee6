package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConditionalSourceHandler(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		sourceFor  []slog.Level
		wantSource bool
	}{
		{"info skipped", slog.LevelInfo, []slog.Level{slog.LevelWarn, slog.LevelError}, false},
		{"warn included", slog.LevelWarn, []slog.Level{slog.LevelWarn, slog.LevelError}, true},
		{"error included", slog.LevelError, []slog.Level{slog.LevelWarn, slog.LevelError}, true},
		{"info included in debug mode", slog.LevelInfo, []slog.Level{slog.LevelInfo}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := slog.NewTextHandler(&buf, nil)
			l := slog.New(NewConditionalSourceHandler(base, tt.sourceFor...))

			l.Log(context.Background(), tt.level, "payment reconciled", "reference", "abc")

			assert.Equal(t, tt.wantSource, strings.Contains(buf.String(), "source="))
			assert.Contains(t, buf.String(), "reference=abc")
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestSlogLogger_WithAndNamed(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithSlog(slog.New(slog.NewTextHandler(&buf, nil)))

	l.Named("reconcile").With("provider", "paystack").Infow("verified", "status", "success")

	out := buf.String()
	assert.Contains(t, out, "logger=reconcile")
	assert.Contains(t, out, "provider=paystack")
	assert.Contains(t, out, "status=success")
}
