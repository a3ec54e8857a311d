package domain

import (
	"context"
	"log/slog"
)

type contextKey string

const loggerContextKey contextKey = "logger"

func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger := ctx.Value(loggerContextKey)
	if logger == nil {
		logger = slog.Default()
	}

	return logger.(*slog.Logger)
}

const installationContextKey contextKey = "installation"

// ContextWithInstallationID records which app installation a request belongs to.
// Sessions and persisted duel progress are keyed by it.
func ContextWithInstallationID(ctx context.Context, installationID string) context.Context {
	return context.WithValue(ctx, installationContextKey, installationID)
}

func InstallationIDFromContext(ctx context.Context) string {
	installationID := ctx.Value(installationContextKey)
	if installationID == nil {
		installationID = ""
	}
	return installationID.(string)
}
