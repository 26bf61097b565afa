package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tallykeeper/internal/crypto"
	"github.com/iudanet/tallykeeper/internal/server/feed"
	"github.com/iudanet/tallykeeper/internal/server/storage"
)

const testBody = `{"schema":"1.0.0","revision":1,"counters":[]}`

func newTestHandler(db storage.DocumentStorage) (*DocumentHandler, *feed.Hub) {
	hub := feed.NewHub(setupTestLogger())
	h := NewDocumentHandler(setupTestLogger(), db, hub)
	h.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return h, hub
}

func storedDocument() *storage.Document {
	return &storage.Document{
		Owner:     "alice",
		Key:       "family",
		Version:   "abc123",
		Body:      []byte(testBody),
		UpdatedAt: time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestDocumentHandler_Get(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		headers     map[string]string
		getErr      error
		wantStatus  int
		wantBody    string
		wantETag    string
		wantMessage string
	}{
		{name: "found", method: http.MethodGet, wantStatus: http.StatusOK, wantBody: testBody, wantETag: `"abc123"`},
		{name: "head has no body", method: http.MethodHead, wantStatus: http.StatusOK, wantETag: `"abc123"`},
		{name: "not modified", method: http.MethodGet, headers: map[string]string{"If-None-Match": `"abc123"`}, wantStatus: http.StatusNotModified, wantETag: `"abc123"`},
		{name: "weak etag matches", method: http.MethodGet, headers: map[string]string{"If-None-Match": `W/"other", W/"abc123"`}, wantStatus: http.StatusNotModified, wantETag: `"abc123"`},
		{name: "stale etag", method: http.MethodGet, headers: map[string]string{"If-None-Match": `"old"`}, wantStatus: http.StatusOK, wantBody: testBody, wantETag: `"abc123"`},
		{name: "not found", method: http.MethodGet, getErr: storage.ErrDocumentNotFound, wantStatus: http.StatusNotFound, wantMessage: "document not found"},
		{name: "storage error", method: http.MethodGet, getErr: errors.New("disk failure"), wantStatus: http.StatusInternalServerError, wantMessage: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &storage.DocumentStorageMock{
				GetDocumentFunc: func(ctx context.Context, owner, key string) (*storage.Document, error) {
					if tt.getErr != nil {
						return nil, tt.getErr
					}
					return storedDocument(), nil
				},
			}
			h, _ := newTestHandler(db)

			w := httptest.NewRecorder()
			h.Get(w, newDocumentRequest(tt.method, "family", "", tt.headers))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantETag, w.Header().Get("ETag"))
			if tt.wantMessage != "" {
				assert.Contains(t, w.Body.String(), tt.wantMessage)
			} else {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}

			require.Len(t, db.GetDocumentCalls(), 1)
			assert.Equal(t, "alice", db.GetDocumentCalls()[0].Owner)
			assert.Equal(t, "family", db.GetDocumentCalls()[0].Key)
		})
	}
}

func TestDocumentHandler_GetEscapedKey(t *testing.T) {
	db := &storage.DocumentStorageMock{
		GetDocumentFunc: func(ctx context.Context, owner, key string) (*storage.Document, error) {
			return storedDocument(), nil
		},
	}
	h, _ := newTestHandler(db)

	w := httptest.NewRecorder()
	h.Get(w, newDocumentRequest(http.MethodGet, "home%2Fkids", "", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, db.GetDocumentCalls(), 1)
	assert.Equal(t, "home/kids", db.GetDocumentCalls()[0].Key)
}

func TestDocumentHandler_MissingSubject(t *testing.T) {
	h, _ := newTestHandler(&storage.DocumentStorageMock{})

	req := httptest.NewRequest(http.MethodGet, "/v1/documents/family", nil)
	w := httptest.NewRecorder()
	h.Get(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDocumentHandler_Put(t *testing.T) {
	version := crypto.ContentHash([]byte(testBody))

	tests := []struct {
		name         string
		headers      map[string]string
		body         string
		putErr       error
		wantStatus   int
		wantExpected string
		wantPut      bool
	}{
		{
			name:       "create only",
			headers:    map[string]string{"If-None-Match": "*"},
			body:       testBody,
			wantStatus: http.StatusCreated,
			wantPut:    true,
		},
		{
			name:         "update with matching etag",
			headers:      map[string]string{"If-Match": `"abc123"`},
			body:         testBody,
			wantStatus:   http.StatusNoContent,
			wantExpected: "abc123",
			wantPut:      true,
		},
		{
			name:         "stale etag",
			headers:      map[string]string{"If-Match": `"old"`},
			body:         testBody,
			putErr:       storage.ErrVersionMismatch,
			wantStatus:   http.StatusPreconditionFailed,
			wantExpected: "old",
			wantPut:      true,
		},
		{
			name:       "document already exists",
			headers:    map[string]string{"If-None-Match": "*"},
			body:       testBody,
			putErr:     storage.ErrVersionMismatch,
			wantStatus: http.StatusPreconditionFailed,
			wantPut:    true,
		},
		{
			name:       "no precondition",
			body:       testBody,
			wantStatus: http.StatusPreconditionRequired,
		},
		{
			name:       "empty body",
			headers:    map[string]string{"If-None-Match": "*"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "not json",
			headers:    map[string]string{"If-None-Match": "*"},
			body:       "counters: []",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "storage error",
			headers:    map[string]string{"If-None-Match": "*"},
			body:       testBody,
			putErr:     errors.New("disk full"),
			wantStatus: http.StatusInternalServerError,
			wantPut:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &storage.DocumentStorageMock{
				PutDocumentFunc: func(ctx context.Context, doc *storage.Document, expected string) error {
					return tt.putErr
				},
			}
			h, hub := newTestHandler(db)
			events, unsubscribe := hub.Subscribe("alice", "family")
			defer unsubscribe()

			w := httptest.NewRecorder()
			h.Put(w, newDocumentRequest(http.MethodPut, "family", tt.body, tt.headers))

			assert.Equal(t, tt.wantStatus, w.Code)

			if !tt.wantPut {
				assert.Empty(t, db.PutDocumentCalls())
				assert.Empty(t, events)
				return
			}

			require.Len(t, db.PutDocumentCalls(), 1)
			call := db.PutDocumentCalls()[0]
			assert.Equal(t, tt.wantExpected, call.Expected)
			assert.Equal(t, "alice", call.Doc.Owner)
			assert.Equal(t, "family", call.Doc.Key)
			assert.Equal(t, version, call.Doc.Version)
			assert.Equal(t, []byte(tt.body), call.Doc.Body)

			if tt.putErr != nil {
				assert.Empty(t, w.Header().Get("ETag"))
				assert.Empty(t, events)
				return
			}

			assert.Equal(t, `"`+version+`"`, w.Header().Get("ETag"))
			require.Len(t, events, 1)
			event := <-events
			assert.Equal(t, "family", event.Key)
			assert.Equal(t, `"`+version+`"`, event.Version)
		})
	}
}

func TestDocumentHandler_PutIfMatchWildcard(t *testing.T) {
	tests := []struct {
		name         string
		ifMatch      string
		getErr       error
		wantStatus   int
		wantExpected string
	}{
		{name: "wildcard on existing", ifMatch: "*", wantStatus: http.StatusNoContent, wantExpected: "abc123"},
		{name: "wildcard on missing", ifMatch: "*", getErr: storage.ErrDocumentNotFound, wantStatus: http.StatusPreconditionFailed},
		{name: "list contains current", ifMatch: `"old", "abc123"`, wantStatus: http.StatusNoContent, wantExpected: "abc123"},
		{name: "list without current", ifMatch: `"old", "older"`, wantStatus: http.StatusPreconditionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &storage.DocumentStorageMock{
				GetDocumentFunc: func(ctx context.Context, owner, key string) (*storage.Document, error) {
					if tt.getErr != nil {
						return nil, tt.getErr
					}
					return storedDocument(), nil
				},
				PutDocumentFunc: func(ctx context.Context, doc *storage.Document, expected string) error {
					return nil
				},
			}
			h, _ := newTestHandler(db)

			w := httptest.NewRecorder()
			h.Put(w, newDocumentRequest(http.MethodPut, "family", testBody, map[string]string{"If-Match": tt.ifMatch}))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantExpected == "" {
				assert.Empty(t, db.PutDocumentCalls())
				return
			}
			require.Len(t, db.PutDocumentCalls(), 1)
			assert.Equal(t, tt.wantExpected, db.PutDocumentCalls()[0].Expected)
		})
	}
}

func TestDocumentHandler_PutTooLarge(t *testing.T) {
	db := &storage.DocumentStorageMock{}
	h, _ := newTestHandler(db)

	body := `"` + string(make([]byte, MaxDocumentSize)) + `"`
	w := httptest.NewRecorder()
	h.Put(w, newDocumentRequest(http.MethodPut, "family", body, map[string]string{"If-None-Match": "*"}))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Empty(t, db.PutDocumentCalls())
}

func TestMatchETag(t *testing.T) {
	assert.True(t, matchETag(`"v1"`, "v1"))
	assert.True(t, matchETag(`*`, "v1"))
	assert.True(t, matchETag(`"v0", "v1"`, "v1"))
	assert.True(t, matchETag(`W/"v1"`, "v1"))
	assert.False(t, matchETag(`"v0"`, "v1"))
	assert.False(t, matchETag("", "v1"))
}
