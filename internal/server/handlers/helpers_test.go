package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gorilla/mux"

	"github.com/iudanet/tallykeeper/internal/server/auth"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newDocumentRequest создает запрос с subject и переменной key, как после router и auth
func newDocumentRequest(method, key, body string, headers map[string]string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "/v1/documents/"+key, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req = req.WithContext(auth.WithSubject(req.Context(), "alice"))
	return mux.SetURLVars(req, map[string]string{"key": key})
}
