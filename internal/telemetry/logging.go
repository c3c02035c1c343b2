package telemetry

import (
	"context"
	"log/slog"
	"os"
)

// NewLogger returns a JSON slog logger that stamps every record emitted
// inside a span with the active trace and span IDs.
func NewLogger(level slog.Level) *slog.Logger {
	base := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(&traceHandler{base: base})
}

// traceHandler defers attr and group application to Handle time so trace
// IDs from the record's context always come first.
type traceHandler struct {
	base   slog.Handler
	groups []string
	attrs  []slog.Attr
}

func (h *traceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	handler := h.base

	var traceAttrs []slog.Attr
	if traceID := TraceID(ctx); traceID != "" {
		traceAttrs = append(traceAttrs, slog.String("trace_id", traceID))
	}
	if spanID := SpanID(ctx); spanID != "" {
		traceAttrs = append(traceAttrs, slog.String("span_id", spanID))
	}
	if len(traceAttrs) > 0 {
		handler = handler.WithAttrs(traceAttrs)
	}

	if len(h.attrs) > 0 {
		handler = handler.WithAttrs(h.attrs)
	}
	for _, group := range h.groups {
		handler = handler.WithGroup(group)
	}

	return handler.Handle(ctx, r)
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)

	return &traceHandler{base: h.base, groups: h.groups, attrs: merged}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	groups := make([]string, 0, len(h.groups)+1)
	groups = append(groups, h.groups...)
	groups = append(groups, name)

	return &traceHandler{base: h.base, groups: groups, attrs: h.attrs}
}
