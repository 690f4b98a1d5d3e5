package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	Cost = bcrypt.MinCost
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)
	assert.True(t, CheckPassword(hash, "password123"))
	assert.False(t, CheckPassword(hash, "password124"))
	assert.False(t, CheckPassword("", "password123"))
}

func TestGenerateHash(t *testing.T) {
	first := GenerateHash()
	second := GenerateHash()
	assert.Len(t, first, 64)
	assert.NotEqual(t, first, second)
	assert.True(t, EqualHash(first, first))
	assert.False(t, EqualHash(first, second))
}
