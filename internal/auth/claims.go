package auth

import (
	"time"
)

// SessionClaims represents the claims stored in a finder session token.
// These are encrypted in v4.local tokens, so they're not readable without the key.
type SessionClaims struct {
	SessionID string `json:"session_id"`

	// Standard PASETO claims
	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}

// Allows reports whether the token grants access to sessionID.
func (c *SessionClaims) Allows(sessionID string) bool {
	return c != nil && c.SessionID != "" && c.SessionID == sessionID
}
