package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return base64.StdEncoding.EncodeToString(key)
}

func TestNewContentEncryptor(t *testing.T) {
	_, err := NewContentEncryptor("")
	assert.Error(t, err)

	_, err = NewContentEncryptor("not base64!!!")
	assert.Error(t, err)

	short := base64.StdEncoding.EncodeToString([]byte("too short"))
	_, err = NewContentEncryptor(short)
	assert.ErrorContains(t, err, "32 bytes")

	enc, err := NewContentEncryptor(testKey(t))
	require.NoError(t, err)
	assert.NotNil(t, enc)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	enc, err := NewContentEncryptor(testKey(t))
	require.NoError(t, err)

	plaintexts := []string{
		"short",
		"Сегодня гулял в парке, настроение отличное.",
		string(make([]byte, 10_000)),
	}
	for _, plaintext := range plaintexts {
		ciphertext, err := enc.Encrypt(plaintext)
		require.NoError(t, err)
		assert.NotEqual(t, plaintext, ciphertext)

		decrypted, err := enc.Decrypt(ciphertext)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestEncryptEmptyString(t *testing.T) {
	enc, err := NewContentEncryptor(testKey(t))
	require.NoError(t, err)

	ciphertext, err := enc.Encrypt("")
	require.NoError(t, err)
	assert.Empty(t, ciphertext)

	plaintext, err := enc.Decrypt("")
	require.NoError(t, err)
	assert.Empty(t, plaintext)
}

func TestEncryptNoncesDiffer(t *testing.T) {
	enc, err := NewContentEncryptor(testKey(t))
	require.NoError(t, err)

	a, err := enc.Encrypt("same content")
	require.NoError(t, err)
	b, err := enc.Encrypt("same content")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	enc, err := NewContentEncryptor(testKey(t))
	require.NoError(t, err)

	ciphertext, err := enc.Encrypt("secret entry")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	_, err = enc.Decrypt(base64.StdEncoding.EncodeToString(raw))
	assert.ErrorContains(t, err, "failed to decrypt")
}

func TestDecryptRejectsGarbage(t *testing.T) {
	enc, err := NewContentEncryptor(testKey(t))
	require.NoError(t, err)

	_, err = enc.Decrypt("%%% not base64 %%%")
	assert.Error(t, err)

	_, err = enc.Decrypt(base64.StdEncoding.EncodeToString([]byte("tiny")))
	assert.ErrorContains(t, err, "too short")
}

func TestDecryptWithWrongKey(t *testing.T) {
	enc, err := NewContentEncryptor(testKey(t))
	require.NoError(t, err)

	other := make([]byte, 32)
	for i := range other {
		other[i] = byte(255 - i)
	}
	dec, err := NewContentEncryptor(base64.StdEncoding.EncodeToString(other))
	require.NoError(t, err)

	ciphertext, err := enc.Encrypt("secret entry")
	require.NoError(t, err)
	_, err = dec.Decrypt(ciphertext)
	assert.Error(t, err)
}
