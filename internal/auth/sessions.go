package auth

import (
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"

	domainerrors "github.com/camiseteria/camiseteria-server/internal/errors"
	"github.com/camiseteria/camiseteria-server/internal/id"
)

const (
	tokenIssuer   = "camiseteria-server"
	tokenAudience = "camiseteria-admin"
)

// Session is a verified admin session.
type Session struct {
	Username  string    `json:"username"`
	TokenID   string    `json:"-"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// TokenService issues and verifies PASETO v4.local admin session tokens.
type TokenService struct {
	key paseto.V4SymmetricKey
	ttl time.Duration
	now func() time.Time
}

// NewTokenService creates a token service from a 32-byte key.
func NewTokenService(key []byte, ttl time.Duration) (*TokenService, error) {
	if len(key) != keyLength {
		return nil, fmt.Errorf("session key must be %d bytes, got %d", keyLength, len(key))
	}
	if ttl <= 0 {
		return nil, errors.New("session ttl must be positive")
	}

	k, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}
	return &TokenService{key: k, ttl: ttl, now: time.Now}, nil
}

// TTL returns the session lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue creates an encrypted session token for username.
func (s *TokenService) Issue(username string) (string, *Session, error) {
	now := s.now()
	tokenID, err := id.Generate("sess")
	if err != nil {
		return "", nil, fmt.Errorf("generate token ID: %w", err)
	}

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetAudience(tokenAudience)
	token.SetSubject(username)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(s.ttl))
	token.SetJti(tokenID)

	session := &Session{
		Username:  username,
		TokenID:   tokenID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}
	return token.V4Encrypt(s.key, nil), session, nil
}

// Verify decrypts a session token and checks issuer, audience and lifetime.
func (s *TokenService) Verify(raw string) (*Session, error) {
	if raw == "" {
		return nil, domainerrors.Unauthorized("authentication required")
	}

	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.ValidAt(s.now()))

	token, err := parser.ParseV4Local(s.key, raw, nil)
	if err != nil {
		return nil, domainerrors.Unauthorized("invalid or expired session").WithCause(err)
	}

	session := &Session{}
	if session.Username, err = token.GetSubject(); err != nil {
		return nil, domainerrors.Unauthorized("invalid session").WithCause(err)
	}
	session.TokenID, _ = token.GetJti()
	session.IssuedAt, _ = token.GetIssuedAt()
	session.ExpiresAt, _ = token.GetExpiration()
	return session, nil
}
