package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camiseteria/camiseteria-server/internal/auth"
	domainerrors "github.com/camiseteria/camiseteria-server/internal/errors"
	"github.com/camiseteria/camiseteria-server/internal/logger"
	"github.com/camiseteria/camiseteria-server/internal/validation"
)

func setupTestAuth(t *testing.T) *AuthService {
	t.Helper()

	tokens, err := auth.NewTokenService(bytes.Repeat([]byte{3}, 32), time.Hour)
	require.NoError(t, err)

	return NewAuthService(
		auth.Credentials{Username: "admin", Password: "camiseta"},
		tokens,
		validation.New(),
		logger.Discard(),
	)
}

func TestAuthService_LoginAndAuthenticate(t *testing.T) {
	svc := setupTestAuth(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, LoginRequest{Username: "admin", Password: "camiseta", IPAddress: "10.0.0.1"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, "admin", resp.Session.Username)

	session, err := svc.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", session.Username)
	assert.Equal(t, resp.Session.TokenID, session.TokenID)
	assert.Equal(t, time.Hour, svc.SessionTTL())
}

func TestAuthService_LoginFailures(t *testing.T) {
	svc := setupTestAuth(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, LoginRequest{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	_, err = svc.Login(ctx, LoginRequest{Username: "admin"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestAuthService_AuthenticateRejectsGarbage(t *testing.T) {
	svc := setupTestAuth(t)

	_, err := svc.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	_, err = svc.Authenticate(context.Background(), "v4.local.nope")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestAuthService_LogoutRevokesSession(t *testing.T) {
	svc := setupTestAuth(t)
	ctx := context.Background()

	first, err := svc.Login(ctx, LoginRequest{Username: "admin", Password: "camiseta"})
	require.NoError(t, err)
	second, err := svc.Login(ctx, LoginRequest{Username: "admin", Password: "camiseta"})
	require.NoError(t, err)

	svc.Logout(ctx, first.Token)
	svc.Logout(ctx, "not-a-token")

	_, err = svc.Authenticate(ctx, first.Token)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	_, err = svc.Authenticate(ctx, second.Token)
	assert.NoError(t, err, "other sessions stay valid")
}
