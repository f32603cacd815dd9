// Package httpapi exposes the engine's read/write surface over HTTP:
// world status, region/species/character lookups, and snapshot
// management. Routing follows the teacher's chi-based game-server, with
// the same bearer-token auth middleware pattern adapted to the session
// package's TokenManager.
package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/meerski/arakh/internal/errors"
	"github.com/meerski/arakh/internal/ids"
	"github.com/meerski/arakh/internal/session"
)

type ownerIDKey struct{}

// AuthMiddleware validates the bearer token on every protected route and
// stashes the resolved owner id in the request context.
func AuthMiddleware(tm *session.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := log.With().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Logger()

			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Warn().Msg("missing or malformed authorization header")
				errors.RespondWithError(w, errors.ErrUnauthorized)
				return
			}

			ownerID, err := tm.ValidateToken(parts[1])
			if err != nil {
				logger.Warn().Err(err).Msg("token validation failed")
				errors.RespondWithError(w, errors.ErrAuthTokenInvalid)
				return
			}

			ctx := context.WithValue(r.Context(), ownerIDKey{}, ownerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ownerFromContext(ctx context.Context) (ids.OwnerId, bool) {
	v, ok := ctx.Value(ownerIDKey{}).(ids.OwnerId)
	return v, ok
}
