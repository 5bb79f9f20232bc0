// internal/pkg/logger/handlers.go
package logger

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

// ContextHandler copies the request-scoped context values onto each record
// so individual call sites never have to repeat them.
type ContextHandler struct {
	handler slog.Handler
}

func NewContextHandler(handler slog.Handler) *ContextHandler {
	return &ContextHandler{handler: handler}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	attrs := extractContextAttrs(ctx, defaultContextKeys())
	if len(attrs) == 0 {
		return h.handler.Handle(ctx, record)
	}

	enriched := record.Clone()
	enriched.AddAttrs(attrs...)
	return h.handler.Handle(ctx, enriched)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{handler: h.handler.WithGroup(name)}
}

// redactedValue replaces anything that looks like a credential. Login
// requests carry cleartext passwords and tokens travel in headers, so the
// sink never sees either.
const redactedValue = "[redacted]"

var credentialPattern = regexp.MustCompile(
	`(?i)(password|passwd|secret|token|jwt|bearer|api[-_]?key)\s*[:=]\s*["']?([^"'\s]+)`)

var sensitiveKeys = []string{
	"password", "passwd", "secret", "token", "jwt", "api_key", "authorization",
}

// SanitizationHandler masks credential-shaped keys and values before the
// record reaches the underlying handler.
type SanitizationHandler struct {
	handler slog.Handler
}

func NewSanitizationHandler(handler slog.Handler) *SanitizationHandler {
	return &SanitizationHandler{handler: handler}
}

func (h *SanitizationHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *SanitizationHandler) Handle(ctx context.Context, record slog.Record) error {
	clean := slog.NewRecord(record.Time, record.Level, scrub(record.Message), record.PC)

	record.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(sanitizeAttr(a))
		return true
	})

	return h.handler.Handle(ctx, clean)
}

func (h *SanitizationHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitized := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitized[i] = sanitizeAttr(a)
	}
	return &SanitizationHandler{handler: h.handler.WithAttrs(sanitized)}
}

func (h *SanitizationHandler) WithGroup(name string) slog.Handler {
	return &SanitizationHandler{handler: h.handler.WithGroup(name)}
}

func sanitizeAttr(attr slog.Attr) slog.Attr {
	key := strings.ToLower(attr.Key)
	for _, sensitive := range sensitiveKeys {
		if strings.Contains(key, sensitive) {
			attr.Value = slog.StringValue(redactedValue)
			return attr
		}
	}

	if s, ok := attr.Value.Any().(string); ok {
		attr.Value = slog.StringValue(scrub(s))
	}
	return attr
}

func scrub(s string) string {
	return credentialPattern.ReplaceAllString(s, "$1="+redactedValue)
}
