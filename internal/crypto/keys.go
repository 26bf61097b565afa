package crypto

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Параметры Argon2id
const (
	// Argon2Time - количество итераций (time cost)
	Argon2Time = 1
	// Argon2Memory - объем памяти в KB (64MB = 64*1024 KB)
	Argon2Memory = 64 * 1024
	// Argon2Threads - количество параллельных потоков
	Argon2Threads = 4
	// SaltSize - размер соли в байтах
	SaltSize = 32
)

// documentContext отделяет ключ документа от других возможных ключей того же пароля
const documentContext = "tallykeeper/document"

// GenerateSalt генерирует криптографически случайную соль
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKey получает ключ шифрования документа из пароля через Argon2id
func DeriveKey(passphrase string, salt []byte) ([]byte, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("passphrase cannot be empty")
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("salt must be %d bytes, got %d", SaltSize, len(salt))
	}

	input := append([]byte(passphrase), documentContext...)
	return argon2.IDKey(input, salt, Argon2Time, Argon2Memory, Argon2Threads, KeySize), nil
}

// Seal шифрует данные ключом, полученным из пароля и новой соли.
// Возвращает соль и шифротекст; оба нужны для Open.
func Seal(plaintext []byte, passphrase string) (salt, ciphertext []byte, err error) {
	salt, err = GenerateSalt()
	if err != nil {
		return nil, nil, err
	}

	key, err := DeriveKey(passphrase, salt)
	if err != nil {
		return nil, nil, err
	}

	ciphertext, err = Encrypt(plaintext, key)
	if err != nil {
		return nil, nil, err
	}
	return salt, ciphertext, nil
}

// Open дешифрует данные, зашифрованные Seal
func Open(salt, ciphertext []byte, passphrase string) ([]byte, error) {
	key, err := DeriveKey(passphrase, salt)
	if err != nil {
		return nil, err
	}
	return Decrypt(ciphertext, key)
}
