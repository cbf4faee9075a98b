package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_RoundTrip(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, version, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.Equal(t, HashVersionBcrypt, version)
	assert.NotEqual(t, "secret1", hash)

	assert.NoError(t, h.Verify(hash, "secret1"))
	assert.ErrorIs(t, h.Verify(hash, "secret2"), bcrypt.ErrMismatchedHashAndPassword)
}

func TestHasher_EmptyPassword(t *testing.T) {
	_, _, err := NewHasher(bcrypt.MinCost).Hash("")
	assert.Error(t, err)
}

func TestNewHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(0).cost)
	assert.Equal(t, bcrypt.MinCost, NewHasher(2).cost)
	assert.Equal(t, bcrypt.MaxCost, NewHasher(99).cost)
}
