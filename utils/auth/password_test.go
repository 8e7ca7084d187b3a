package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Setenv("BCRYPT_COST", "4")

	salt := []byte("per-user-salt")
	hash, err := HashPassword("correct horse battery", salt)
	require.NoError(t, err)

	assert.NoError(t, VerifyPassword(hash, "correct horse battery", salt))
	assert.ErrorIs(t, VerifyPassword(hash, "wrong password", salt), ErrPasswordMismatch)

	// The stored salt is part of the hash input
	assert.ErrorIs(t, VerifyPassword(hash, "correct horse battery", []byte("other salt")), ErrPasswordMismatch)
}

func TestHashPasswordTooShort(t *testing.T) {
	_, err := HashPassword("short", []byte("salt"))
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestBcryptCostFromEnv(t *testing.T) {
	t.Setenv("BCRYPT_COST", "4")
	assert.Equal(t, 4, BcryptCost())

	hash, err := HashPassword("correct horse battery", []byte("salt"))
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 4, cost)
}

func TestBcryptCostFallsBackOnBadValues(t *testing.T) {
	t.Setenv("BCRYPT_COST", "not-a-number")
	assert.Equal(t, DefaultBcryptCost, BcryptCost())

	t.Setenv("BCRYPT_COST", "99")
	assert.Equal(t, DefaultBcryptCost, BcryptCost())
}

func TestIsPasswordValid(t *testing.T) {
	assert.True(t, IsPasswordValid("12345678"))
	assert.False(t, IsPasswordValid("1234567"))
}
