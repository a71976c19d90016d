package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	assert.NoError(t, h.Compare(hash, "correct horse battery"))
	assert.ErrorIs(t, h.Compare(hash, "wrong horse battery"), ErrPasswordMismatch)

	err = h.Compare("not-a-bcrypt-hash", "anything")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPasswordMismatch)
}

func TestNewBcryptHasherClampsCost(t *testing.T) {
	t.Parallel()

	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}

func TestRefreshTokenDigest(t *testing.T) {
	t.Parallel()

	digest := HashRefreshToken("token-a")
	assert.Len(t, digest, 64)
	assert.Equal(t, digest, HashRefreshToken("token-a"))

	assert.True(t, RefreshTokenMatches("token-a", &digest))
	assert.False(t, RefreshTokenMatches("token-b", &digest))
	assert.False(t, RefreshTokenMatches("token-a", nil))
	assert.False(t, RefreshTokenMatches("", &digest))

	empty := ""
	assert.False(t, RefreshTokenMatches("token-a", &empty))
}
