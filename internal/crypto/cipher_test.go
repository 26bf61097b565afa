package crypto

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncrypt(t *testing.T) {
	// Генерируем валидный ключ (32 bytes)
	validKey := make([]byte, KeySize)
	_, _ = rand.Read(validKey)

	tests := []struct {
		name      string
		errMsg    string
		plaintext []byte
		key       []byte
		wantErr   bool
	}{
		{
			name:      "successful encryption",
			plaintext: []byte(`{"counters":[]}`),
			key:       validKey,
		},
		{
			name:      "empty plaintext",
			plaintext: []byte{},
			key:       validKey,
			wantErr:   true,
			errMsg:    "plaintext cannot be empty",
		},
		{
			name:      "invalid key length",
			plaintext: []byte("test"),
			key:       make([]byte, 16),
			wantErr:   true,
			errMsg:    "encryption key must be 32 bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encrypted, err := Encrypt(tt.plaintext, tt.key)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Len(t, encrypted, NonceSize+len(tt.plaintext)+16)

			decrypted, err := Decrypt(encrypted, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, decrypted)
		})
	}
}

func TestEncrypt_UniqueNonce(t *testing.T) {
	key := make([]byte, KeySize)
	_, _ = rand.Read(key)

	a, err := Encrypt([]byte("same"), key)
	require.NoError(t, err)
	b, err := Encrypt([]byte("same"), key)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestDecrypt_Errors(t *testing.T) {
	key := make([]byte, KeySize)
	_, _ = rand.Read(key)
	otherKey := make([]byte, KeySize)
	_, _ = rand.Read(otherKey)

	encrypted, err := Encrypt([]byte("secret"), key)
	require.NoError(t, err)

	t.Run("too short", func(t *testing.T) {
		_, err := Decrypt([]byte{1, 2, 3}, key)
		assert.ErrorIs(t, err, ErrDecrypt)
	})

	t.Run("wrong key", func(t *testing.T) {
		_, err := Decrypt(encrypted, otherKey)
		assert.ErrorIs(t, err, ErrDecrypt)
	})

	t.Run("corrupted data", func(t *testing.T) {
		corrupted := append([]byte(nil), encrypted...)
		corrupted[len(corrupted)-1] ^= 0xFF
		_, err := Decrypt(corrupted, key)
		assert.ErrorIs(t, err, ErrDecrypt)
	})
}
