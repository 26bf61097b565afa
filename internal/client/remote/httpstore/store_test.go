package httpstore

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tallykeeper/internal/client/remote"
	"github.com/iudanet/tallykeeper/pkg/api"
)

func newTestStore(t *testing.T, handler http.HandlerFunc) *Store {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(Config{Endpoint: server.URL + "/", Token: "secret", Key: "my counters"})
}

func TestStore_Get(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/documents/my%20counters", r.URL.EscapedPath())
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get("If-None-Match"))

		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write([]byte(`{"schema":"1.0.0"}`))
	})

	fetched, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, remote.VersionToken(`"v1"`), fetched.Version)
	assert.Equal(t, `{"schema":"1.0.0"}`, string(fetched.Body))
}

func TestStore_GetIfChanged(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v2"`)
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := s.GetIfChanged(context.Background(), `"v1"`)
	assert.ErrorIs(t, err, remote.ErrNotModified)

	fetched, err := s.GetIfChanged(context.Background(), `"v0"`)
	require.NoError(t, err)
	assert.Equal(t, remote.VersionToken(`"v2"`), fetched.Version)
}

func TestStore_Get_Errors(t *testing.T) {
	tests := []struct {
		expected error
		name     string
		status   int
	}{
		{name: "Not found", status: http.StatusNotFound, expected: remote.ErrNotFound},
		{name: "Unauthorized", status: http.StatusUnauthorized, expected: remote.ErrUnauthorized},
		{name: "Forbidden", status: http.StatusForbidden, expected: remote.ErrUnauthorized},
		{name: "Rate limited", status: http.StatusTooManyRequests, expected: remote.ErrRateLimited},
		{name: "Server error", status: http.StatusBadGateway, expected: remote.ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: "nope"})
			})

			_, err := s.Get(context.Background())
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestStore_Get_MissingETag(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := s.Get(context.Background())
	assert.ErrorIs(t, err, remote.ErrNetwork)
}

func TestStore_Put(t *testing.T) {
	t.Run("Create only", func(t *testing.T) {
		s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "*", r.Header.Get("If-None-Match"))
			assert.Empty(t, r.Header.Get("If-Match"))
			body, _ := io.ReadAll(r.Body)
			assert.Equal(t, `{"revision":1}`, string(body))

			w.Header().Set("ETag", `"v1"`)
			w.WriteHeader(http.StatusCreated)
		})

		version, err := s.Put(context.Background(), []byte(`{"revision":1}`), "")
		require.NoError(t, err)
		assert.Equal(t, remote.VersionToken(`"v1"`), version)
	})

	t.Run("Conditional update", func(t *testing.T) {
		s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, `"v1"`, r.Header.Get("If-Match"))
			w.Header().Set("ETag", `"v2"`)
		})

		version, err := s.Put(context.Background(), []byte(`{}`), `"v1"`)
		require.NoError(t, err)
		assert.Equal(t, remote.VersionToken(`"v2"`), version)
	})

	t.Run("Stale version", func(t *testing.T) {
		s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusPreconditionFailed)
		})

		_, err := s.Put(context.Background(), []byte(`{}`), `"old"`)
		assert.ErrorIs(t, err, remote.ErrConflict)
	})
}

func TestStore_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	s := New(Config{Endpoint: server.URL, Key: "k", Timeout: time.Second})
	server.Close()

	_, err := s.Get(context.Background())
	assert.ErrorIs(t, err, remote.ErrNetwork)

	assert.ErrorIs(t, s.Ping(context.Background()), remote.ErrNetwork)
}

func TestStore_ContextCanceled(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Get(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, remote.ErrNetwork)
}

func TestStore_Ping(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/health", r.URL.Path)
		_ = json.NewEncoder(w).Encode(api.HealthResponse{Status: "ok"})
	})

	assert.NoError(t, s.Ping(context.Background()))
}

func TestStore_Watch(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/documents/my counters/watch", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		conn, err := websocket.Accept(w, r, nil)
		if !assert.NoError(t, err) {
			return
		}
		defer conn.CloseNow()

		ctx := r.Context()
		for _, event := range []api.ChangeEvent{
			{Key: "other", Version: `"x"`},
			{Key: "my counters", Version: `"v7"`},
		} {
			data, _ := json.Marshal(event)
			_ = conn.Write(ctx, websocket.MessageText, data)
		}
		_ = conn.Close(websocket.StatusNormalClosure, "")
	})

	var versions []remote.VersionToken
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.Watch(ctx, func(version remote.VersionToken) {
		versions = append(versions, version)
	})

	// Сервер закрыл соединение
	assert.ErrorIs(t, err, remote.ErrNetwork)
	assert.Equal(t, []remote.VersionToken{`"v7"`}, versions)
}

func TestWatchURL(t *testing.T) {
	s := New(Config{Endpoint: "https://sync.example.com/", Key: "k"})
	assert.Equal(t, "wss://sync.example.com/v1/documents/k/watch", s.watchURL())

	s = New(Config{Endpoint: "http://localhost:8080", Key: "k"})
	assert.Equal(t, "ws://localhost:8080/v1/documents/k/watch", s.watchURL())
}
