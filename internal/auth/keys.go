// Package auth guards the admin surface: credential checks, password hashing
// and PASETO session tokens.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// PASETO v4 requires a 256-bit (32-byte) symmetric key.
	keyLength    = 32
	keyHexLength = 64

	sessionKeyFile = "session.key"
)

// ParseKey decodes a hex-encoded 32-byte session key.
func ParseKey(keyHex string) ([]byte, error) {
	keyHex = strings.TrimSpace(keyHex)
	if len(keyHex) != keyHexLength {
		return nil, fmt.Errorf("session key must be %d hex characters, got %d", keyHexLength, len(keyHex))
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("session key is not valid hex: %w", err)
	}
	return key, nil
}

// ResolveKey returns the configured session key, or the key stored under
// dataDir, generating and saving one on first start.
func ResolveKey(configured, dataDir string) ([]byte, error) {
	if configured != "" {
		return ParseKey(configured)
	}
	return LoadOrGenerateKey(dataDir)
}

// LoadOrGenerateKey reads <dir>/session.key, creating it with a fresh random
// key when it does not exist.
func LoadOrGenerateKey(dir string) ([]byte, error) {
	keyPath := filepath.Join(dir, sessionKeyFile)

	//#nosec G304 -- key path is derived from the configured data directory
	if data, err := os.ReadFile(keyPath); err == nil {
		return ParseKey(string(data))
	}

	key := make([]byte, keyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate session key: %w", err)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.WriteFile(keyPath, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("failed to save session key: %w", err)
	}

	return key, nil
}
