package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Cost 4 is bcrypt.MinCost; production uses 12 but tests don't need the burn.
const testBCryptCost = 4

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Password123", testBCryptCost)
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "Password123", hash)

	assert.True(t, CheckPasswordHash("Password123", hash))
	assert.False(t, CheckPasswordHash("WrongPassword", hash))
}

func TestHashPasswordProducesUniqueHashes(t *testing.T) {
	first, err := HashPassword("Password123", testBCryptCost)
	require.NoError(t, err)
	second, err := HashPassword("Password123", testBCryptCost)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCheckPasswordHashGarbage(t *testing.T) {
	assert.False(t, CheckPasswordHash("Password123", "not-a-bcrypt-hash"))
}

func TestSanitizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", SanitizeEmail("  User@Example.COM "))
	assert.Equal(t, "user@example.com", SanitizeEmail("user@example.com"))
}
