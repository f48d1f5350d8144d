package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"
)

func TestCheckPlainPassword(t *testing.T) {
	creds := Credentials{Username: "admin", Password: "hunter2"}

	assert.True(t, creds.Check("admin", "hunter2"))
	assert.False(t, creds.Check("admin", "wrong"))
	assert.False(t, creds.Check("root", "hunter2"))
	assert.False(t, creds.Check("", ""))
}

func TestCheckBcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	creds := Credentials{Username: "admin", Password: "ignored", Hash: string(hash)}

	assert.True(t, creds.Check("admin", "hunter2"))
	assert.False(t, creds.Check("admin", "ignored"))
}
