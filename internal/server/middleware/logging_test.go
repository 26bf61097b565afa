package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		expectedLevel string
	}{
		{name: "ok", status: http.StatusOK, expectedLevel: "level=INFO"},
		{name: "not modified", status: http.StatusNotModified, expectedLevel: "level=INFO"},
		{name: "precondition failed", status: http.StatusPreconditionFailed, expectedLevel: "level=WARN"},
		{name: "server error", status: http.StatusInternalServerError, expectedLevel: "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logs, nil))

			router := mux.NewRouter()
			router.Use(LoggingMiddleware(logger))
			router.HandleFunc("/v1/documents/{key}", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("payload"))
			})

			req := httptest.NewRequest(http.MethodGet, "/v1/documents/family", nil)
			req.Header.Set("Authorization", "Bearer secret-token")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			output := logs.String()
			assert.Contains(t, output, tt.expectedLevel)
			assert.Contains(t, output, "route=/v1/documents/{key}")
			assert.Contains(t, output, "key=family")
			assert.Contains(t, output, "status=")
			assert.NotContains(t, output, "secret-token")
			assert.NotContains(t, output, "payload")
		})
	}
}

func TestLoggingWithSkip(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	handler := LoggingWithSkip(logger, []string{"/v1/health"})(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, logs.String())

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/other", nil))
	assert.Contains(t, logs.String(), "route=/v1/other")
}

func TestResponseWriter_CapturesStatusAndSize(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusCreated)
	n, err := rw.Write([]byte("hello"))

	assert.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, http.StatusCreated, rw.statusCode)
	assert.Equal(t, int64(5), rw.written)
	assert.Same(t, rec, rw.Unwrap())

	_, _, err = rw.Hijack()
	assert.Error(t, err, "recorder does not support hijacking")
}
