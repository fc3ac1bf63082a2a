package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHash_SaltedPerCall(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	first, err := h.Hash("Passw0rd!")
	require.NoError(t, err)
	second, err := h.Hash("Passw0rd!")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NotEqual(t, "Passw0rd!", first)
	assert.True(t, h.Verify("Passw0rd!", first))
	assert.True(t, h.Verify("Passw0rd!", second))
}

func TestVerify_RejectsWrongPassword(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("Passw0rd!")
	require.NoError(t, err)

	assert.False(t, h.Verify("Passw0rd?", hash))
	assert.False(t, h.Verify("Passw0rd!", "not-a-hash"))
}

func TestHash_LongPasswords(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	long := "Aa1!" + strings.Repeat("x", 100)
	hash, err := h.Hash(long)
	require.NoError(t, err)

	assert.True(t, h.Verify(long, hash))
	// differs only past byte 72; plain bcrypt would treat these as equal
	assert.False(t, h.Verify(long+"y", hash))
}

func TestNewHasher_DefaultsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(99).cost)
	assert.Equal(t, 12, NewHasher(12).cost)
}
