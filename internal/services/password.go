package services

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher errors.
var (
	// ErrInvalidInput is returned by HashPassword for secrets bcrypt cannot
	// process (empty, or beyond its 72 byte limit).
	ErrInvalidInput = errors.New("invalid password input")

	// ErrCorruptHash is returned by VerifyPassword when the stored hash is
	// not a well-formed bcrypt string.
	ErrCorruptHash = errors.New("corrupt password hash")
)

// HashPassword derives a one-way salted bcrypt hash from a plaintext secret.
func HashPassword(secret string) (string, error) {
	if secret == "" || len(secret) > 72 {
		return "", fmt.Errorf("secret length %d: %w", len(secret), ErrInvalidInput)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword reports whether secret matches the stored bcrypt hash.
// A mismatch is (false, nil); only a malformed hash produces an error.
// The comparison is constant-time inside bcrypt.
func VerifyPassword(secret, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %v", ErrCorruptHash, err)
}
