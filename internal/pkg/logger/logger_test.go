package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  slog.Leveler
	}{
		{name: "debug", level: "debug", want: slog.LevelDebug},
		{name: "warn", level: "warn", want: slog.LevelWarn},
		{name: "warning_alias", level: "WARNING", want: slog.LevelWarn},
		{name: "error", level: "error", want: slog.LevelError},
		{name: "unknown_defaults_to_info", level: "verbose", want: slog.LevelInfo},
		{name: "empty_defaults_to_info", level: "", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.level))
		})
	}
}

func TestSanitizationHandler_RedactsCredentials(t *testing.T) {
	var buf bytes.Buffer
	handler := NewSanitizationHandler(slog.NewJSONHandler(&buf, nil))
	log := slog.New(handler)

	log.Info("user logged in",
		slog.String("password", "hunter2"),
		slog.String("user", "somchai"))

	out := buf.String()
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, "[redacted]")
	assert.Contains(t, out, "somchai")
}

func TestSanitizationHandler_ScrubsMessageText(t *testing.T) {
	var buf bytes.Buffer
	handler := NewSanitizationHandler(slog.NewJSONHandler(&buf, nil))
	log := slog.New(handler)

	log.Info("request body: password=hunter2 user=somchai")

	out := buf.String()
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, "somchai")
}

func TestContextHandler_AttachesRequestID(t *testing.T) {
	var buf bytes.Buffer
	handler := NewContextHandler(slog.NewJSONHandler(&buf, nil))
	log := slog.New(handler)

	ctx := context.WithValue(context.Background(), ContextKeyRequestID, "req-123")
	log.InfoContext(ctx, "handled")

	assert.Contains(t, buf.String(), "req-123")
}
