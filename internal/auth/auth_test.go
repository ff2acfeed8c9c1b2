package auth

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/camiseteria/camiseteria-server/internal/errors"
)

func testKey() []byte {
	return bytes.Repeat([]byte{7}, keyLength)
}

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("hinchada")
	require.NoError(t, err)

	assert.True(t, IsHash(hash))
	assert.True(t, VerifyPassword(hash, "hinchada"))
	assert.False(t, VerifyPassword(hash, "Hinchada"))
	assert.False(t, VerifyPassword("not-a-hash", "hinchada"))

	_, err = HashPassword("")
	assert.Error(t, err)
	_, err = HashPassword(strings.Repeat("x", maxPasswordLength+1))
	assert.Error(t, err)
}

func TestCredentials_Verify(t *testing.T) {
	plain := Credentials{Username: "admin", Password: "secreto"}
	assert.NoError(t, plain.Verify("admin", "secreto"))
	assert.ErrorIs(t, plain.Verify("admin", "wrong"), domainerrors.ErrUnauthorized)
	assert.ErrorIs(t, plain.Verify("root", "secreto"), domainerrors.ErrUnauthorized)

	hash, err := HashPassword("secreto")
	require.NoError(t, err)
	hashed := Credentials{Username: "admin", Password: hash}
	assert.NoError(t, hashed.Verify("admin", "secreto"))
	assert.Error(t, hashed.Verify("admin", hash), "the hash itself is not the password")

	assert.Error(t, Credentials{}.Verify("", ""))
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc, err := NewTokenService(testKey(), time.Hour)
	require.NoError(t, err)

	token, issued, err := svc.Issue("admin")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "v4.local."))
	assert.True(t, strings.HasPrefix(issued.TokenID, "sess-"))

	session, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", session.Username)
	assert.Equal(t, issued.TokenID, session.TokenID)
	assert.WithinDuration(t, issued.ExpiresAt, session.ExpiresAt, time.Second)
}

func TestTokenService_RejectsBadTokens(t *testing.T) {
	svc, err := NewTokenService(testKey(), time.Hour)
	require.NoError(t, err)
	token, _, err := svc.Issue("admin")
	require.NoError(t, err)

	_, err = svc.Verify("")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	_, err = svc.Verify(token + "x")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	other, err := NewTokenService(bytes.Repeat([]byte{9}, keyLength), time.Hour)
	require.NoError(t, err)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestTokenService_Expiry(t *testing.T) {
	svc, err := NewTokenService(testKey(), time.Minute)
	require.NoError(t, err)

	start := time.Now()
	svc.now = func() time.Time { return start }
	token, _, err := svc.Issue("admin")
	require.NoError(t, err)

	svc.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestNewTokenService_Validation(t *testing.T) {
	_, err := NewTokenService([]byte("short"), time.Hour)
	assert.Error(t, err)
	_, err = NewTokenService(testKey(), 0)
	assert.Error(t, err)
}

func TestResolveKey(t *testing.T) {
	dir := t.TempDir()

	generated, err := ResolveKey("", dir)
	require.NoError(t, err)
	assert.Len(t, generated, keyLength)

	info, err := os.Stat(filepath.Join(dir, sessionKeyFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reloaded, err := ResolveKey("", dir)
	require.NoError(t, err)
	assert.Equal(t, generated, reloaded)

	configured, err := ResolveKey(strings.Repeat("ab", 32), dir)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0xab}, keyLength), configured)

	_, err = ParseKey("abc")
	assert.Error(t, err)
	_, err = ParseKey(strings.Repeat("zz", 32))
	assert.Error(t, err)
}
