package auth

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// DefaultCookieName is the cookie the token issuer sets.
const DefaultCookieName = "admin_token"

// AdminContext returns middleware that puts the administrator's name from a
// bearer token or cookie into the request context. Requests without a
// usable token pass through unchanged.
func AdminContext(secret, cookieName string, logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.Named("admin_context")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractToken(r, cookieName)
			if tokenString == "" {
				next.ServeHTTP(w, r)
				return
			}

			name, err := adminNameFromToken(tokenString, secret)
			if err != nil {
				logger.Debug("ignoring admin token", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAdminName(r.Context(), name)))
		})
	}
}

// extractToken prefers the Authorization header over the cookie.
func extractToken(r *http.Request, cookieName string) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}
