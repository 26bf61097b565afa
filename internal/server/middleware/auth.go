package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/tallykeeper/internal/server/auth"
)

// AuthMiddleware создает middleware для проверки JWT токена.
// Subject токена попадает в контекст запроса.
func AuthMiddleware(logger *slog.Logger, jwtConfig auth.JWTConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Missing Authorization header", "path", r.URL.Path)
				writeError(w, http.StatusUnauthorized, "missing token")
				return
			}

			// Ожидаем формат: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Warn("Invalid Authorization header format")
				writeError(w, http.StatusUnauthorized, "invalid token format")
				return
			}

			claims, err := auth.ValidateAccessToken(jwtConfig, strings.TrimSpace(parts[1]))
			if err != nil {
				logger.Warn("Invalid access token", "error", err)
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			logger.Debug("Request authenticated", "subject", claims.Subject)

			next.ServeHTTP(w, r.WithContext(auth.WithSubject(r.Context(), claims.Subject)))
		})
	}
}
