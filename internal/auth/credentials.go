package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// Credentials holds the fixed admin credentials from config. When Hash is
// set it is a bcrypt hash and takes precedence over the plain Password.
type Credentials struct {
	Username string
	Password string
	Hash     string
}

// Check compares a login attempt against the configured credentials.
// Comparisons are constant-time so the username/password cannot be probed
// byte by byte.
func (c Credentials) Check(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1

	var passOK bool
	if c.Hash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(c.Hash), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(c.Password)) == 1
	}

	return userOK && passOK
}
