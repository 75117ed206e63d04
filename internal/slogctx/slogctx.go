package slogctx

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// From returns a slog.Logger from the context. If no logger is found, the
// default logger is returned.
func From(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	if ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// With returns a copy of ctx carrying logger.
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}
