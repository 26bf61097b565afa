package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/tallykeeper/internal/client/remote"
	"github.com/iudanet/tallykeeper/internal/document"
)

// Code класс ошибки синхронизации
type Code string

// Error codes
const (
	CodeConfigurationRequired   Code = "CONFIGURATION_REQUIRED"
	CodeUnauthorized            Code = "UNAUTHORIZED"
	CodeNotFound                Code = "NOT_FOUND"
	CodeRateLimited             Code = "RATE_LIMITED"
	CodeConflictUnresolved      Code = "CONFLICT_UNRESOLVED"
	CodeNetworkError            Code = "NETWORK_ERROR"
	CodeMalformedRemoteDocument Code = "MALFORMED_REMOTE_DOCUMENT"
)

// ErrNotConfigured настройки синхронизации не заданы
var ErrNotConfigured = errors.New("sync is not configured, run `tallykeeper remote set`")

// Error ошибка синхронизации. Локальная реплика и флаг Pending
// после любой такой ошибки остаются без изменений.
type Error struct {
	Err  error
	Op   string // sync, push, pull
	Code Code
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failed [%s]: %v", e.Op, e.Code, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable сообщает, может ли повтор без вмешательства пользователя пройти успешно.
func (e *Error) Retryable() bool {
	switch e.Code {
	case CodeNetworkError, CodeRateLimited, CodeConflictUnresolved:
		return true
	default:
		return false
	}
}

// CodeOf возвращает код ошибки синхронизации или пустую строку.
func CodeOf(err error) Code {
	var syncErr *Error
	if errors.As(err, &syncErr) {
		return syncErr.Code
	}
	return ""
}

// IsRetryable возвращает true для временных ошибок синхронизации.
func IsRetryable(err error) bool {
	var syncErr *Error
	return errors.As(err, &syncErr) && syncErr.Retryable()
}

// classify превращает ошибку хранилища или документа в ошибку синхронизации.
// Ошибки локального хранилища возвращаются как есть.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var syncErr *Error
	if errors.As(err, &syncErr) {
		return err
	}

	var code Code
	switch {
	case errors.Is(err, remote.ErrUnauthorized):
		code = CodeUnauthorized
	case errors.Is(err, remote.ErrRateLimited):
		code = CodeRateLimited
	case errors.Is(err, remote.ErrNotFound):
		code = CodeNotFound
	case errors.Is(err, remote.ErrConflict):
		code = CodeConflictUnresolved
	case errors.Is(err, remote.ErrNetwork),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		code = CodeNetworkError
	case errors.Is(err, document.ErrPassphraseRequired),
		errors.Is(err, document.ErrWrongPassphrase),
		errors.Is(err, ErrNotConfigured):
		code = CodeConfigurationRequired
	case errors.Is(err, document.ErrMalformed):
		code = CodeMalformedRemoteDocument
	default:
		return err
	}
	return &Error{Op: op, Code: code, Err: err}
}
