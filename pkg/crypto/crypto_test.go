package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func TestNewCipher_RejectsBadKeys(t *testing.T) {
	_, err := NewCipher("not hex at all")
	assert.Error(t, err)

	_, err = NewCipher("abcd") // 2 bytes
	assert.Error(t, err)

	_, err = NewCipher(testKey)
	assert.NoError(t, err)
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	c, err := NewCipher(testKey)
	require.NoError(t, err)

	for _, plaintext := range []string{
		"The moon is in Scorpio tonight.",
		"1990-04-15",
		strings.Repeat("long reading ", 500),
	} {
		sealed, err := c.EncryptString(plaintext)
		require.NoError(t, err)
		assert.NotEqual(t, plaintext, sealed)

		opened, err := c.DecryptString(sealed)
		require.NoError(t, err)
		assert.Equal(t, plaintext, opened)
	}
}

func TestEncryptString_EmptyPassesThrough(t *testing.T) {
	c, err := NewCipher(testKey)
	require.NoError(t, err)

	sealed, err := c.EncryptString("")
	require.NoError(t, err)
	assert.Equal(t, "", sealed)

	opened, err := c.DecryptString("")
	require.NoError(t, err)
	assert.Equal(t, "", opened)
}

func TestEncryptString_NonceVaries(t *testing.T) {
	c, err := NewCipher(testKey)
	require.NoError(t, err)

	a, err := c.EncryptString("same value")
	require.NoError(t, err)
	b, err := c.EncryptString("same value")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecryptString_RejectsGarbage(t *testing.T) {
	c, err := NewCipher(testKey)
	require.NoError(t, err)

	_, err = c.DecryptString("@@@not base64@@@")
	assert.Error(t, err)

	_, err = c.DecryptString("c2hvcnQ=") // valid base64, too short for a nonce
	assert.Error(t, err)
}

func TestHashUserID(t *testing.T) {
	h := HashUserID("user-123")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashUserID("user-123"))
	assert.NotEqual(t, h, HashUserID("user-124"))
	assert.NotContains(t, h, "user-123")
}
