package ctxlogger

import (
	"context"
	"log/slog"
	"slices"
)

type ctxKey struct{}

// ContextHandler wraps a slog.Handler and appends the attrs stored in the
// context by AppendCtx to every record.
type ContextHandler struct {
	slog.Handler
}

func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(ctxKey{}).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}

	return h.Handler.Handle(ctx, r)
}

func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}

	if attrs, ok := parent.Value(ctxKey{}).([]slog.Attr); ok {
		return context.WithValue(parent, ctxKey{}, append(slices.Clip(attrs), attr))
	}

	return context.WithValue(parent, ctxKey{}, []slog.Attr{attr})
}
