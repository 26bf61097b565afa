// Package httpstore хранит документ реплики на HTTP сервере с поддержкой ETag
// (tallykeeper-server или любой совместимый).
package httpstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iudanet/tallykeeper/internal/client/remote"
	"github.com/iudanet/tallykeeper/pkg/api"
)

const backendName = "http"

// maxDocumentSize ограничение на размер читаемого документа
const maxDocumentSize = 32 << 20

// Config параметры подключения
type Config struct {
	Endpoint string        // базовый URL сервера, например https://sync.example.com
	Token    string        // bearer токен
	Key      string        // ключ документа
	Timeout  time.Duration // таймаут одного запроса (по умолчанию 30s)
}

// Store представляет HTTP клиент документа
type Store struct {
	httpClient *http.Client
	baseURL    string
	token      string
	key        string
}

var (
	_ remote.Store   = (*Store)(nil)
	_ remote.Pinger  = (*Store)(nil)
	_ remote.Watcher = (*Store)(nil)
)

// New создает новый HTTP клиент документа
func New(cfg Config) *Store {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Store{
		baseURL: strings.TrimRight(cfg.Endpoint, "/"),
		token:   cfg.Token,
		key:     cfg.Key,
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// Get возвращает документ
func (s *Store) Get(ctx context.Context) (*remote.Fetched, error) {
	return s.get(ctx, "")
}

// GetIfChanged возвращает документ, если его ETag отличается от last
func (s *Store) GetIfChanged(ctx context.Context, last remote.VersionToken) (*remote.Fetched, error) {
	return s.get(ctx, last)
}

func (s *Store) get(ctx context.Context, last remote.VersionToken) (*remote.Fetched, error) {
	header := http.Header{}
	if !last.IsZero() {
		header.Set("If-None-Match", string(last))
	}

	resp, body, err := s.doRequest(ctx, http.MethodGet, s.documentPath(), header, nil)
	if err != nil {
		return nil, remote.NewError(backendName, "get", s.key, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		version := remote.VersionToken(resp.Header.Get("ETag"))
		if version.IsZero() {
			return nil, remote.Errorf(backendName, "get", s.key, remote.ErrNetwork, "response has no ETag")
		}
		return &remote.Fetched{Body: body, Version: version}, nil
	case http.StatusNotModified:
		return nil, remote.NewError(backendName, "get", s.key, remote.ErrNotModified)
	case http.StatusNotFound:
		return nil, remote.NewError(backendName, "get", s.key, remote.ErrNotFound)
	default:
		return nil, remote.NewError(backendName, "get", s.key, statusError(resp.StatusCode, body))
	}
}

// Put записывает документ с условием на ETag.
// Пустой expected отправляется как If-None-Match: * (только создание).
func (s *Store) Put(ctx context.Context, data []byte, expected remote.VersionToken) (remote.VersionToken, error) {
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	if expected.IsZero() {
		header.Set("If-None-Match", "*")
	} else {
		header.Set("If-Match", string(expected))
	}

	resp, body, err := s.doRequest(ctx, http.MethodPut, s.documentPath(), header, data)
	if err != nil {
		return "", remote.NewError(backendName, "put", s.key, err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		version := remote.VersionToken(resp.Header.Get("ETag"))
		if version.IsZero() {
			return "", remote.Errorf(backendName, "put", s.key, remote.ErrNetwork, "response has no ETag")
		}
		return version, nil
	case http.StatusPreconditionFailed, http.StatusConflict:
		return "", remote.NewError(backendName, "put", s.key, remote.ErrConflict)
	default:
		return "", remote.NewError(backendName, "put", s.key, statusError(resp.StatusCode, body))
	}
}

// Ping проверяет доступность сервера
func (s *Store) Ping(ctx context.Context) error {
	resp, body, err := s.doRequest(ctx, http.MethodGet, "/v1/health", nil, nil)
	if err != nil {
		return remote.NewError(backendName, "ping", "", err)
	}
	if resp.StatusCode != http.StatusOK {
		return remote.NewError(backendName, "ping", "", statusError(resp.StatusCode, body))
	}
	return nil
}

// Close закрывает неиспользуемые соединения
func (s *Store) Close() error {
	s.httpClient.CloseIdleConnections()
	return nil
}

func (s *Store) documentPath() string {
	return "/v1/documents/" + url.PathEscape(s.key)
}

// doRequest выполняет HTTP запрос и читает тело ответа.
// Ошибки транспорта оборачивают remote.ErrNetwork.
func (s *Store) doRequest(ctx context.Context, method, path string, header http.Header, body []byte) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, bodyReader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, ctxErr
		}
		return nil, nil, fmt.Errorf("%w: %v", remote.ErrNetwork, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to read response body: %v", remote.ErrNetwork, err)
	}

	return resp, respBody, nil
}

// statusError переводит HTTP статус в ошибку remote.
func statusError(status int, body []byte) error {
	message := http.StatusText(status)
	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		message = errResp.Error
		if errResp.Message != "" {
			message += ": " + errResp.Message
		}
	}

	var sentinel error
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		sentinel = remote.ErrUnauthorized
	case status == http.StatusTooManyRequests:
		sentinel = remote.ErrRateLimited
	case status >= 500:
		sentinel = remote.ErrNetwork
	default:
		sentinel = errors.New("unexpected response")
	}
	return fmt.Errorf("%w (%d): %s", sentinel, status, message)
}
