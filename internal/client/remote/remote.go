// Package remote описывает удаленное хранилище документа реплики.
//
// Хранилище ничего не знает о содержимом: это версия-зависимый blob с
// условным чтением и условной записью. Реализации находятся в подпакетах
// httpstore, s3store и redisstore.
package remote

import (
	"context"
	"errors"
	"fmt"
)

// VersionToken непрозрачный идентификатор состояния удаленного документа
// (ETag или аналог). Токены сравниваются только на равенство.
type VersionToken string

// IsZero возвращает true для пустого токена ("версия неизвестна").
func (v VersionToken) IsZero() bool {
	return v == ""
}

// Fetched содержимое удаленного документа и его версия.
type Fetched struct {
	Version VersionToken
	Body    []byte
}

// Remote store errors
var (
	// ErrNotFound документ не существует
	ErrNotFound = errors.New("remote document not found")
	// ErrNotModified документ не изменился с указанной версии
	ErrNotModified = errors.New("remote document not modified")
	// ErrConflict версия документа не совпала с ожидаемой
	ErrConflict = errors.New("remote version conflict")
	// ErrUnauthorized неверные учетные данные
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRateLimited превышен лимит запросов
	ErrRateLimited = errors.New("rate limited")
	// ErrNetwork хранилище недоступно
	ErrNetwork = errors.New("network error")
)

//go:generate moq -out store_mock.go . Store

// Store удаленное хранилище одного документа.
type Store interface {
	// Get возвращает документ или ErrNotFound
	Get(ctx context.Context) (*Fetched, error)

	// GetIfChanged возвращает документ, если его версия отличается от last.
	// Возвращает ErrNotModified, если версия совпала, и ErrNotFound, если документа нет.
	GetIfChanged(ctx context.Context, last VersionToken) (*Fetched, error)

	// Put записывает документ, если текущая версия равна expected.
	// Пустой expected означает "создать, только если документа нет".
	// Возвращает новую версию или ErrConflict.
	Put(ctx context.Context, body []byte, expected VersionToken) (VersionToken, error)

	// Close освобождает ресурсы
	Close() error
}

// Pinger хранилище, поддерживающее проверку доступности.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Watcher хранилище, уведомляющее об изменениях документа другими устройствами.
// Watch блокируется до отмены ctx или разрыва соединения.
type Watcher interface {
	Watch(ctx context.Context, onChange func(version VersionToken)) error
}

// Error ошибка операции с удаленным хранилищем с контекстом.
type Error struct {
	Err     error
	Op      string // get, put, ping, watch
	Backend string // http, s3, redis
	Key     string // ключ документа
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s.%s %s: %v", e.Backend, e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("%s.%s: %v", e.Backend, e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError создает ошибку операции.
func NewError(backend, op, key string, err error) *Error {
	return &Error{Backend: backend, Op: op, Key: key, Err: err}
}

// Errorf создает ошибку операции, оборачивающую sentinel с дополнительным текстом.
func Errorf(backend, op, key string, sentinel error, format string, args ...any) *Error {
	return NewError(backend, op, key, fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...)))
}
