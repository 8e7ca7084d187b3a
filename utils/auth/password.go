package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordMismatch = errors.New("password does not match")
)

const (
	// DefaultBcryptCost is used when BCRYPT_COST is unset or out of range
	DefaultBcryptCost = 12
	// MinPasswordLength is the minimum password length
	MinPasswordLength = 8
)

// BcryptCost resolves the hashing cost from the BCRYPT_COST environment
// variable. Values outside bcrypt's supported range fall back to the default.
func BcryptCost() int {
	cost, err := strconv.Atoi(os.Getenv("BCRYPT_COST"))
	if err != nil || cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return DefaultBcryptCost
	}
	return cost
}

// HashPassword generates a bcrypt hash of the password combined with the
// user's stored salt
func HashPassword(password string, salt []byte) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}

	hashedBytes, err := bcrypt.GenerateFromPassword(saltedInput(password, salt), BcryptCost())
	if err != nil {
		return "", err
	}

	return string(hashedBytes), nil
}

// VerifyPassword checks the password and salt against the stored hash
func VerifyPassword(hashedPassword, password string, salt []byte) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), saltedInput(password, salt))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return err
	}
	return nil
}

// saltedInput digests password+salt before bcrypt, which only reads the
// first 72 bytes of its input. The hex digest is always 64 bytes.
func saltedInput(password string, salt []byte) []byte {
	sum := sha256.Sum256(append([]byte(password), salt...))
	out := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(out, sum[:])
	return out
}

// IsPasswordValid checks if password meets minimum requirements
func IsPasswordValid(password string) bool {
	return len(password) >= MinPasswordLength
}
