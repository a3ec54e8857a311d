package router

import (
	"net/http"

	"github.com/swipefeed/swipefeed/internal/domain"
)

const (
	installationHeader = "X-Installation-ID"

	maxInstallationIDLength = 128
)

// requireInstallationMiddleware rejects requests that do not say which installation they
// belong to, and tags the request logger with the installation id.
func requireInstallationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		installationID := r.Header.Get(installationHeader)
		if !validInstallationID(installationID) {
			logger := domain.LoggerFromContext(ctx)
			logger.WarnContext(ctx, "request without valid installation id", "path", r.URL.Path)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		logger := domain.LoggerFromContext(ctx).With("installation_id", installationID)
		ctx = domain.ContextWithLogger(ctx, logger)
		ctx = domain.ContextWithInstallationID(ctx, installationID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func validInstallationID(id string) bool {
	if id == "" || len(id) > maxInstallationIDLength {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}
