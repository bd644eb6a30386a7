package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Fawadali4423/UEMS/internal/delivery/http/helpers"
	"github.com/Fawadali4423/UEMS/internal/domain"
)

type contextKey string

const identityKey contextKey = "identity"

// SetIdentity returns a context with the verified caller identity set.
// Used by the auth middleware.
func SetIdentity(ctx context.Context, id *domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the authenticated identity from the
// context, if present.
func IdentityFromContext(ctx context.Context) (*domain.Identity, bool) {
	id, ok := ctx.Value(identityKey).(*domain.Identity)
	return id, ok
}

// RequireAuth returns a wrapper that validates the Bearer token against
// the external identity provider and sets the caller identity in the
// request context. If the token is missing or invalid, it responds with
// 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				helpers.WriteAuthError(w, "Token missing")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				helpers.WriteAuthError(w, "Invalid authorization format")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				helpers.WriteAuthError(w, "Token missing")
				return
			}
			identity, err := verifier.Verify(token)
			if err != nil {
				logger.DebugContext(r.Context(), "token verification failed", "err", err)
				helpers.WriteAuthError(w, "Invalid token")
				return
			}
			r = r.WithContext(SetIdentity(r.Context(), identity))
			next(w, r)
		}
	}
}
