// Package logger carries slog attributes through a context so that
// deeply nested code logs with the attributes its caller attached.
package logger

import (
	"context"
	"log/slog"
)

type contextKey string

const attrKey contextKey = "attrKey"

// ContextHandler wraps a base [slog.Handler] and appends to every
// record the attributes stashed in the context by [Ctx].
type ContextHandler struct {
	slog.Handler
}

func NewContextHandler(handler slog.Handler) ContextHandler {
	return ContextHandler{Handler: handler}
}

// Handle implements [slog.Handler].
func (h ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	attrs, ok := ctx.Value(attrKey).([]slog.Attr)
	if ok {
		record.AddAttrs(attrs...)
	}

	return h.Handler.Handle(ctx, record)
}

// Ctx returns a context carrying the given attributes on top of any it
// already held.
func Ctx(ctx context.Context, toAppend ...slog.Attr) context.Context {
	attrs, _ := ctx.Value(attrKey).([]slog.Attr)
	attrs = append(attrs[:len(attrs):len(attrs)], toAppend...)

	return context.WithValue(ctx, attrKey, attrs)
}
