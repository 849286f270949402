package http

import (
	"cmp"
	"context"
	"log/slog"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	return cmp.Or(logger, slog.Default())
}

// handlerLogger scopes the request logger to one handler operation. The user
// id resolved from the path, when present, is attached as user_id.
func handlerLogger(ctx context.Context, fallback *slog.Logger, handlerName, operation string, attrs ...any) *slog.Logger {
	logger := cmp.Or(LoggerFromContext(ctx), fallback, slog.Default())

	pairs := make([]any, 0, 6+len(attrs))
	pairs = append(pairs, "handler", handlerName)
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	if userID, ok := UserIDFromContext(ctx); ok && userID != "" {
		pairs = append(pairs, "user_id", userID)
	}
	return logger.With(append(pairs, attrs...)...)
}
