package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentHash возвращает hex-encoded SHA256 от данных.
// Используется сервером как токен версии документа.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
