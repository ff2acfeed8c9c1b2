package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/camiseteria/camiseteria-server/internal/auth"
	domainerrors "github.com/camiseteria/camiseteria-server/internal/errors"
	"github.com/camiseteria/camiseteria-server/internal/validation"
)

// AuthService handles admin login and session verification.
//
// Sessions are stateless PASETO tokens. Logging out revokes the token id in
// memory until the token would have expired anyway.
type AuthService struct {
	credentials auth.Credentials
	tokens      *auth.TokenService
	validator   *validation.Validator
	logger      *slog.Logger
	now         func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time // token id -> expiry
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	credentials auth.Credentials,
	tokens *auth.TokenService,
	validator *validation.Validator,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		credentials: credentials,
		tokens:      tokens,
		validator:   validator,
		logger:      logger,
		now:         time.Now,
		revoked:     make(map[string]time.Time),
	}
}

// LoginRequest contains admin credentials.
type LoginRequest struct {
	Username  string `json:"username" validate:"required,max=128"`
	Password  string `json:"password" validate:"required,max=1024"`
	IPAddress string `json:"-"` // Extracted from request by handler
}

// LoginResponse carries a freshly issued session.
type LoginResponse struct {
	Token   string        `json:"token"`
	Session *auth.Session `json:"session"`
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(_ context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if err := s.credentials.Verify(req.Username, req.Password); err != nil {
		s.logger.Warn("admin login failed", "username", req.Username, "ip", req.IPAddress)
		return nil, err
	}

	token, session, err := s.tokens.Issue(req.Username)
	if err != nil {
		return nil, domainerrors.Internal("issue session").WithCause(err)
	}

	s.logger.Info("admin logged in", "username", req.Username, "ip", req.IPAddress)
	return &LoginResponse{Token: token, Session: session}, nil
}

// Authenticate verifies a session token.
func (s *AuthService) Authenticate(_ context.Context, token string) (*auth.Session, error) {
	if token == "" {
		return nil, domainerrors.Unauthorized("authentication required")
	}

	session, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	_, revoked := s.revoked[session.TokenID]
	s.mu.Unlock()
	if revoked {
		return nil, domainerrors.Unauthorized("session has been revoked")
	}
	return session, nil
}

// Logout revokes the session carried by token. Invalid tokens are ignored.
func (s *AuthService) Logout(_ context.Context, token string) {
	session, err := s.tokens.Verify(token)
	if err != nil {
		return
	}

	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for tokenID, expiresAt := range s.revoked {
		if !expiresAt.After(now) {
			delete(s.revoked, tokenID)
		}
	}
	s.revoked[session.TokenID] = session.ExpiresAt

	s.logger.Info("admin logged out", "username", session.Username)
}

// SessionTTL returns how long issued sessions last.
func (s *AuthService) SessionTTL() time.Duration {
	return s.tokens.TTL()
}
