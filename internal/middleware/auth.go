package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/bbqjam05/pwd-week6-server/internal/auth"
	"github.com/bbqjam05/pwd-week6-server/internal/logger"
)

const MessageLoginRequired = "login required"

// unexported, collision-proof context key
type identityContextKeyType struct{}

var identityKey = identityContextKeyType{}

// IdentityFromContext extracts the authenticated identity from context.
func IdentityFromContext(ctx context.Context) (auth.VerifiedIdentity, bool) {
	identity, ok := ctx.Value(identityKey).(auth.VerifiedIdentity)
	return identity, ok
}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity auth.VerifiedIdentity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentitySource resolves the identity bound to a request, if any.
// session.Manager implements it.
type IdentitySource interface {
	CurrentIdentity(ctx context.Context, r *http.Request) (auth.VerifiedIdentity, bool, error)
}

type AuthMiddleware struct {
	Sessions IdentitySource
}

func NewAuthMiddleware(sessions IdentitySource) *AuthMiddleware {
	return &AuthMiddleware{Sessions: sessions}
}

func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok, err := a.Sessions.CurrentIdentity(r.Context(), r)
		if err != nil {
			logger.Error("session lookup failed", map[string]any{
				"path":  r.URL.Path,
				"error": err.Error(),
			})
			writeJSON(w, http.StatusInternalServerError, "error while checking session")
			return
		}

		if !ok {
			writeJSON(w, http.StatusUnauthorized, MessageLoginRequired)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

func writeJSON(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}
