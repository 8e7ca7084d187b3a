package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

const (
	// SaltLength is the length of per-user password salts
	SaltLength = 32

	// TokenLength is the byte length of opaque one-time tokens
	// (email verification, password reset) before hex encoding
	TokenLength = 32
)

// GenerateSalt generates a cryptographically secure random salt
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// GenerateToken generates a cryptographically secure random token,
// hex-encoded for safe use in URLs and database columns
func GenerateToken() (string, error) {
	buf := make([]byte, TokenLength)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
