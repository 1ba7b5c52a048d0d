package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/kz4killua/wikirec/internal/auth"
	domainerrors "github.com/kz4killua/wikirec/internal/errors"
	"github.com/kz4killua/wikirec/internal/finder"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

const (
	// claimsKey holds the verified session token claims.
	claimsKey ctxKey = "sessionClaims"
	// authErrKey holds why a presented token was rejected.
	authErrKey ctxKey = "sessionAuthError"
)

// sessionToken extracts a bearer token from the Authorization header, falling
// back to the token query parameter. EventSource cannot set headers.
func sessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(h[len("Bearer "):])
	}
	return r.URL.Query().Get("token")
}

// authMiddleware verifies session tokens and stores their claims in context.
// Requests without a valid token continue; handlers use requireSession.
func authMiddleware(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.VerifySessionToken(token)
			if err != nil {
				ctx := context.WithValue(r.Context(), authErrKey, err)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionClaims returns the verified token claims from context.
// Returns 401 if no valid token was presented, with TOKEN_EXPIRED for stale tokens.
func GetSessionClaims(ctx context.Context) (*auth.SessionClaims, error) {
	if claims, ok := ctx.Value(claimsKey).(*auth.SessionClaims); ok && claims != nil {
		return claims, nil
	}
	if err, ok := ctx.Value(authErrKey).(error); ok {
		return nil, err
	}
	return nil, domainerrors.Unauthorized("Session token required")
}

// requireSession checks the caller holds the token for sessionID and returns the session.
func (s *Server) requireSession(ctx context.Context, sessionID string) (*finder.Session, error) {
	claims, err := GetSessionClaims(ctx)
	if err != nil {
		return nil, err
	}
	if !claims.Allows(sessionID) {
		return nil, domainerrors.Forbidden("Token does not grant access to this session")
	}
	return s.finder.Get(sessionID)
}
