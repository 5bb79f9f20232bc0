// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// ContextKey represents keys for context values
type ContextKey string

// Request-scoped values the middleware stores and the context handler
// copies onto every log record.
const (
	ContextKeyRequestID ContextKey = "request_id"
	ContextKeyUserID    ContextKey = "user_id"
	ContextKeyTraceID   ContextKey = "trace_id"
	ContextKeyClientIP  ContextKey = "client_ip"
)

// SetupLogger builds the process-wide logger: level and format from config,
// request-scoped context fields attached to every record, and credential
// sanitization in front of the sink (login payloads carry cleartext
// passwords, so this is not optional).
func SetupLogger(level string, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: true,
	}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	handler = NewSanitizationHandler(NewContextHandler(handler))

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

func parseLevel(level string) slog.Leveler {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func defaultContextKeys() []ContextKey {
	return []ContextKey{
		ContextKeyRequestID,
		ContextKeyUserID,
		ContextKeyTraceID,
		ContextKeyClientIP,
	}
}

// extractContextAttrs pulls known context values into log attributes.
func extractContextAttrs(ctx context.Context, keys []ContextKey) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(keys))
	for _, key := range keys {
		if value := ctx.Value(key); value != nil {
			if s, ok := value.(string); ok && s != "" {
				attrs = append(attrs, slog.String(string(key), s))
			}
		}
	}
	return attrs
}
