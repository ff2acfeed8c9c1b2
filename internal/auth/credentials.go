package auth

import (
	"crypto/subtle"

	domainerrors "github.com/camiseteria/camiseteria-server/internal/errors"
)

// Credentials are the single admin account configured for the storefront.
// Password may be plain text or an argon2id hash.
type Credentials struct {
	Username string
	Password string
}

// Verify checks a login attempt. Both comparisons always run so a wrong
// username costs the same as a wrong password.
func (c Credentials) Verify(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(c.Username), []byte(username)) == 1

	var passOK bool
	if IsHash(c.Password) {
		passOK = VerifyPassword(c.Password, password)
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(c.Password), []byte(password)) == 1
	}

	if c.Username == "" || c.Password == "" || !userOK || !passOK {
		return domainerrors.Unauthorized("invalid username or password")
	}
	return nil
}
