package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// DocumentKeyPattern определяет допустимый формат ключа удаленного документа
// Латинские буквы, цифры, '_', '-', '.', длина 1-128 символов
var DocumentKeyPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{1,128}$`)

const (
	// MaxCounterNameLen максимальная длина имени счетчика (в символах)
	MaxCounterNameLen = 64
	// MaxNoteLen максимальная длина заметки
	MaxNoteLen = 500
	// MinPassphraseLen минимальная длина парольной фразы для шифрования документа
	MinPassphraseLen = 12
)

// CounterName проверяет имя счетчика и возвращает его без крайних пробелов
func CounterName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("counter name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxCounterNameLen {
		return "", fmt.Errorf("counter name must not exceed %d characters", MaxCounterNameLen)
	}
	return name, nil
}

// Note проверяет заметку. Пустая заметка допустима.
func Note(note string) (string, error) {
	note = strings.TrimSpace(note)
	if utf8.RuneCountInString(note) > MaxNoteLen {
		return "", fmt.Errorf("note must not exceed %d characters", MaxNoteLen)
	}
	return note, nil
}

// DocumentKey проверяет ключ удаленного документа
func DocumentKey(key string) error {
	if key == "" {
		return fmt.Errorf("document key cannot be empty")
	}
	if key == "." || key == ".." {
		return fmt.Errorf("document key %q is reserved", key)
	}
	if !DocumentKeyPattern.MatchString(key) {
		return fmt.Errorf("document key can only contain letters, numbers, '.', '-' and '_' (max 128)")
	}
	return nil
}

// Endpoint проверяет адрес удаленного хранилища для указанных схем
func Endpoint(endpoint string, schemes ...string) error {
	if endpoint == "" {
		return fmt.Errorf("endpoint cannot be empty")
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint: %w", err)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint %q has no host", endpoint)
	}

	for _, s := range schemes {
		if u.Scheme == s {
			return nil
		}
	}
	return fmt.Errorf("endpoint scheme must be one of %s, got %q", strings.Join(schemes, ", "), u.Scheme)
}

// Passphrase проверяет минимальные требования к парольной фразе
func Passphrase(passphrase string) error {
	if passphrase == "" {
		return fmt.Errorf("passphrase cannot be empty")
	}
	if len(passphrase) < MinPassphraseLen {
		return fmt.Errorf("passphrase must be at least %d characters long", MinPassphraseLen)
	}
	return nil
}
