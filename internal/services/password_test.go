package services_test

import (
	"strings"
	"testing"

	"partspicker/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := services.HashPassword("pw123")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123", hash)

	ok, err := services.VerifyPassword("pw123", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	// Hashing again produces a different salt but still verifies.
	hash2, err := services.HashPassword("pw123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
	ok, err = services.VerifyPassword("pw123", hash2)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHashPassword_InvalidInput(t *testing.T) {
	_, err := services.HashPassword("")
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = services.HashPassword(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestVerifyPassword_Mismatch(t *testing.T) {
	hash, err := services.HashPassword("pw123")
	require.NoError(t, err)

	ok, err := services.VerifyPassword("wrongpw", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	// Mutating the secret by one character must fail verification.
	ok, err = services.VerifyPassword("pw124", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPassword_CorruptHash(t *testing.T) {
	ok, err := services.VerifyPassword("pw123", "not-a-bcrypt-hash")
	assert.False(t, ok)
	assert.ErrorIs(t, err, services.ErrCorruptHash)

	ok, err = services.VerifyPassword("pw123", "")
	assert.False(t, ok)
	assert.ErrorIs(t, err, services.ErrCorruptHash)
}
