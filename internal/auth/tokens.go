package auth

import (
	"encoding/hex"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/goccy/go-json"

	domainerrors "github.com/kz4killua/wikirec/internal/errors"
	"github.com/kz4killua/wikirec/internal/id"
)

const (
	tokenIssuer   = "wikirec-server"
	tokenAudience = "wikirec-finder"

	// PASETO v4 symmetric key requirements.
	keyBytesSize = 32 // 256 bits
	keyHexSize   = 64 // 32 bytes as hex string
)

// TokenService handles PASETO token generation and verification.
type TokenService struct {
	symmetricKey  paseto.V4SymmetricKey
	tokenDuration time.Duration
	now           func() time.Time
}

// NewTokenService creates a new token service with the given configuration.
func NewTokenService(keyHex string, tokenDuration time.Duration) (*TokenService, error) {
	if len(keyHex) != keyHexSize {
		return nil, fmt.Errorf("PASETO v4 key must be exactly %d hex characters (%d bytes), got %d", keyHexSize, keyBytesSize, len(keyHex))
	}

	keyBytes, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string for PASETO key: %w", err)
	}

	key, err := paseto.V4SymmetricKeyFromBytes(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}

	return &TokenService{
		symmetricKey:  key,
		tokenDuration: tokenDuration,
		now:           time.Now,
	}, nil
}

// GenerateSessionToken creates a v4.local token granting access to one finder session.
func (s *TokenService) GenerateSessionToken(sessionID string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenDuration)

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetSubject(sessionID)
	token.SetAudience(tokenAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(expiresAt)

	tokenID, err := id.Generate(id.PrefixToken)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate token ID: %w", err)
	}
	token.SetJti(tokenID)

	//nolint:errcheck // Token.Set only errors on invalid types, which we control
	_ = token.Set("session_id", sessionID)

	return token.V4Encrypt(s.symmetricKey, nil), expiresAt, nil
}

// VerifySessionToken decrypts a session token and checks its claims.
// Expired tokens fail with a TOKEN_EXPIRED error, anything else with UNAUTHORIZED.
func (s *TokenService) VerifySessionToken(tokenString string) (*SessionClaims, error) {
	if tokenString == "" {
		return nil, domainerrors.Unauthorized("missing session token")
	}

	// Expiry is checked below so it can be reported separately.
	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))

	token, err := parser.ParseV4Local(s.symmetricKey, tokenString, nil)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeUnauthorized, "invalid session token")
	}

	var claims SessionClaims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeUnauthorized, "invalid session token claims")
	}

	now := s.now()
	if !claims.Expiration.IsZero() && now.After(claims.Expiration) {
		return nil, domainerrors.TokenExpired("session token has expired")
	}
	if now.Before(claims.NotBefore) {
		return nil, domainerrors.Unauthorized("session token is not valid yet")
	}
	if claims.SessionID == "" {
		return nil, domainerrors.Unauthorized("session token carries no session")
	}

	return &claims, nil
}

// TokenDuration returns the configured token lifetime.
func (s *TokenService) TokenDuration() time.Duration {
	return s.tokenDuration
}
