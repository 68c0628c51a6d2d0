package security

import (
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEncryptor(t *testing.T) *Encryptor {
	t.Helper()

	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	encryptor, err := NewEncryptor(key)
	require.NoError(t, err)
	return encryptor
}

func TestEncryptor_EncryptDecrypt(t *testing.T) {
	encryptor := newTestEncryptor(t)

	testCases := []struct {
		name      string
		plaintext string
	}{
		{
			name:      "simple text",
			plaintext: "Hello, World!",
		},
		{
			name:      "diagnosis text",
			plaintext: "Type 2 diabetes, recommend dietary changes and regular exercise",
		},
		{
			name:      "empty string",
			plaintext: "",
		},
		{
			name:      "unicode text",
			plaintext: "Magas vérnyomás, heti kontroll javasolt",
		},
		{
			name:      "long text",
			plaintext: "Follow-up after knee surgery. Patient reports reduced pain during low-impact workouts. Continue physiotherapy twice a week and log all running sessions so the care team can review training load before the next checkup.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ciphertext, err := encryptor.Encrypt(tc.plaintext)
			require.NoError(t, err)

			// Empty plaintext maps to empty ciphertext
			if tc.plaintext == "" {
				assert.Equal(t, "", ciphertext)
				return
			}

			assert.NotEqual(t, tc.plaintext, ciphertext)
			assert.NotEmpty(t, ciphertext)

			decrypted, err := encryptor.Decrypt(ciphertext)
			require.NoError(t, err)
			assert.Equal(t, tc.plaintext, decrypted)
		})
	}
}

func TestEncryptor_InvalidKey(t *testing.T) {
	testCases := []struct {
		name    string
		keySize int
	}{
		{name: "too short", keySize: 16},
		{name: "too long", keySize: 64},
		{name: "empty", keySize: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			key := make([]byte, tc.keySize)
			_, err := NewEncryptor(key)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "encryption key must be 32 bytes")
		})
	}
}

func TestKeyFromBase64(t *testing.T) {
	raw := make([]byte, 32)
	_, err := rand.Read(raw)
	require.NoError(t, err)

	key, err := KeyFromBase64(base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, key)

	_, err = KeyFromBase64("not-valid-base64!!!")
	assert.Error(t, err)
}

func TestEncryptor_EncryptPtr(t *testing.T) {
	encryptor := newTestEncryptor(t)

	// Nil passes through untouched
	encrypted, err := encryptor.EncryptPtr(nil)
	require.NoError(t, err)
	assert.Nil(t, encrypted)

	decrypted, err := encryptor.DecryptPtr(nil)
	require.NoError(t, err)
	assert.Nil(t, decrypted)

	plaintext := "Ibuprofen 400mg twice daily for one week"
	encrypted, err = encryptor.EncryptPtr(&plaintext)
	require.NoError(t, err)
	require.NotNil(t, encrypted)
	assert.NotEqual(t, plaintext, *encrypted)

	decrypted, err = encryptor.DecryptPtr(encrypted)
	require.NoError(t, err)
	require.NotNil(t, decrypted)
	assert.Equal(t, plaintext, *decrypted)
}

func TestEncryptor_DifferentCiphertexts(t *testing.T) {
	encryptor := newTestEncryptor(t)

	plaintext := "elevated resting heart rate"

	ciphertext1, err := encryptor.Encrypt(plaintext)
	require.NoError(t, err)

	ciphertext2, err := encryptor.Encrypt(plaintext)
	require.NoError(t, err)

	// Random nonce makes ciphertexts differ
	assert.NotEqual(t, ciphertext1, ciphertext2)

	decrypted1, err := encryptor.Decrypt(ciphertext1)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted1)

	decrypted2, err := encryptor.Decrypt(ciphertext2)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted2)
}

func TestEncryptor_InvalidCiphertext(t *testing.T) {
	encryptor := newTestEncryptor(t)

	testCases := []struct {
		name       string
		ciphertext string
	}{
		{name: "invalid base64", ciphertext: "not-valid-base64!!!"},
		{name: "too short", ciphertext: "YWJj"},
		{name: "corrupted data", ciphertext: "YWJjZGVmZ2hpamtsbW5vcHFyc3R1dnd4eXo="},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := encryptor.Decrypt(tc.ciphertext)
			assert.Error(t, err)
		})
	}
}
