package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashSecret_VerifiesOnlyTheOriginal(t *testing.T) {
	hash, salt := HashSecret([]byte("secret1"))

	require.Len(t, hash, KeySize)
	require.Len(t, salt, SaltSize)
	assert.NotContains(t, string(hash), "secret1")

	assert.True(t, VerifySecret([]byte("secret1"), hash, salt))
	assert.False(t, VerifySecret([]byte("secret2"), hash, salt))
	assert.False(t, VerifySecret([]byte(""), hash, salt))
}

func TestHashSecret_SaltsDiffer(t *testing.T) {
	h1, s1 := HashSecret([]byte("same"))
	h2, s2 := HashSecret([]byte("same"))

	assert.False(t, bytes.Equal(s1, s2), "salts must be random")
	assert.False(t, bytes.Equal(h1, h2), "equal secrets must not share a hash")
}

func TestDeriveKey_Deterministic(t *testing.T) {
	salt := []byte("0123456789abcdef")
	assert.Equal(t, DeriveKey([]byte("pw"), salt), DeriveKey([]byte("pw"), salt))
}

func TestVerifySecret_WrongSalt(t *testing.T) {
	hash, _ := HashSecret([]byte("secret1"))
	assert.False(t, VerifySecret([]byte("secret1"), hash, []byte("another-salt----")))
}
