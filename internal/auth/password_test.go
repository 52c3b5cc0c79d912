package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)

	first, err := h.Hash("secret123")
	require.NoError(t, err)
	second, err := h.Hash("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, "secret123", first)
	assert.NotEqual(t, first, second, "hashes must be salted")
	assert.True(t, h.Verify("secret123", first))
	assert.True(t, h.Verify("secret123", second))
	assert.False(t, h.Verify("secret124", first))
}

func TestPasswordHasher_Verify_Malformed(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)
	assert.False(t, h.Verify("secret123", "not-a-hash"))
	assert.False(t, h.Verify("secret123", ""))
	assert.False(t, h.Verify("", "$2a$10$abcdefghijklmnopqrstuv"))
}

func TestPasswordHasher_LongPasswords(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)
	long := strings.Repeat("p", 200)

	hashed, err := h.Hash(long)
	require.NoError(t, err)
	assert.True(t, h.Verify(long, hashed))
}

func TestNewPasswordHasher_DefaultCost(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(0)
	hashed, err := h.Hash("secret123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hashed))
	require.NoError(t, err)
	assert.Equal(t, DefaultCost, cost)
}
