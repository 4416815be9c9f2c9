package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

type contextKey string

const slogAttrs contextKey = "slogAttrs"

// Format selects the output encoding of the handler built by NewHandler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

type ContextHandler struct {
	handler slog.Handler
}

// NewContextHandler constructs a ContextHandler that adds new [slog.Attr] to the log messages from [context.Context]
// to the underlying [slog.Handler].
func NewContextHandler(h slog.Handler) *ContextHandler {
	return &ContextHandler{handler: h}
}

// NewHandler builds the ContextHandler used by the binaries. Unknown formats fall back to text.
func NewHandler(w io.Writer, format Format, level slog.Level, replace func([]string, slog.Attr) slog.Attr) *ContextHandler {
	opts := &slog.HandlerOptions{
		AddSource:   false,
		Level:       level,
		ReplaceAttr: replace,
	}
	if format == FormatJSON {
		return NewContextHandler(slog.NewJSONHandler(w, opts))
	}
	return NewContextHandler(slog.NewTextHandler(w, opts))
}

// ParseLevel maps debug, info, warn and error to a [slog.Level]. Anything else is info.
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(s)))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Enabled reports whether the handler handles records at the given level.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle enriches the log record with [slog.Attr] stored in context with [WithAttrs].
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(Attrs(ctx)...)
	if err := h.handler.Handle(ctx, r); err != nil {
		return fmt.Errorf("handle log record: %w", err)
	}
	return nil
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{handler: h.handler.WithGroup(name)}
}

// WithAttrs adds [...slog.Attr] to the [context.Context] that enriches the log messages handled by [ContextHandler].
func WithAttrs(ctx context.Context, attr ...slog.Attr) context.Context {
	existing := Attrs(ctx)
	// Copy so that sibling contexts derived from the same parent don't share a backing array.
	merged := make([]slog.Attr, 0, len(existing)+len(attr))
	merged = append(merged, existing...)
	merged = append(merged, attr...)
	return context.WithValue(ctx, slogAttrs, merged)
}

// Attrs returns the attributes added to ctx with WithAttrs.
func Attrs(ctx context.Context) []slog.Attr {
	attrs, _ := ctx.Value(slogAttrs).([]slog.Attr)
	return attrs
}
