package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/iudanet/tallykeeper/internal/crypto"
	"github.com/iudanet/tallykeeper/internal/server/auth"
	"github.com/iudanet/tallykeeper/internal/server/feed"
	"github.com/iudanet/tallykeeper/internal/server/storage"
	"github.com/iudanet/tallykeeper/pkg/api"
)

const (
	// MaxDocumentSize ограничение на размер тела PUT запроса
	MaxDocumentSize = 32 << 20
	// maxKeyLength ограничение на длину ключа документа
	maxKeyLength = 256
)

// DocumentHandler обрабатывает чтение и условную запись документов
type DocumentHandler struct {
	logger  *slog.Logger
	storage storage.DocumentStorage
	hub     *feed.Hub
	now     func() time.Time
}

// NewDocumentHandler создает новый handler документов
func NewDocumentHandler(logger *slog.Logger, documentStorage storage.DocumentStorage, hub *feed.Hub) *DocumentHandler {
	return &DocumentHandler{
		logger:  logger,
		storage: documentStorage,
		hub:     hub,
		now:     time.Now,
	}
}

// Get обрабатывает GET и HEAD /v1/documents/{key}
// Возвращает 304, если версия совпадает с If-None-Match
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	owner, key, ok := h.target(w, r)
	if !ok {
		return
	}

	doc, err := h.storage.GetDocument(ctx, owner, key)
	if errors.Is(err, storage.ErrDocumentNotFound) {
		sendError(h.logger, w, "document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get document", slog.String("key", key), slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", formatETag(doc.Version))
	w.Header().Set("Last-Modified", doc.UpdatedAt.UTC().Format(http.TimeFormat))

	if matchETag(r.Header.Get("If-None-Match"), doc.Version) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(doc.Body); err != nil {
		h.logger.DebugContext(ctx, "failed to write document", slog.Any("error", err))
	}
}

// Put обрабатывает PUT /v1/documents/{key}
// Запись выполняется только при выполнении условия If-Match или If-None-Match: *
func (h *DocumentHandler) Put(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	owner, key, ok := h.target(w, r)
	if !ok {
		return
	}

	ifMatch := strings.TrimSpace(r.Header.Get("If-Match"))
	ifNoneMatch := strings.TrimSpace(r.Header.Get("If-None-Match"))
	if ifMatch == "" && ifNoneMatch != "*" {
		sendError(h.logger, w, "If-Match or If-None-Match: * is required", http.StatusPreconditionRequired)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxDocumentSize))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			sendError(h.logger, w, "document is too large", http.StatusRequestEntityTooLarge)
			return
		}
		sendError(h.logger, w, "failed to read request body", http.StatusBadRequest)
		return
	}
	if len(body) == 0 || !json.Valid(body) {
		sendError(h.logger, w, "document must be a JSON value", http.StatusBadRequest)
		return
	}

	expected := ""
	if ifMatch != "" {
		expected, ok = h.resolveIfMatch(w, r, owner, key, ifMatch)
		if !ok {
			return
		}
	}

	doc := &storage.Document{
		Owner:     owner,
		Key:       key,
		Version:   crypto.ContentHash(body),
		Body:      body,
		UpdatedAt: h.now().UTC(),
	}

	if err := h.storage.PutDocument(ctx, doc, expected); err != nil {
		if errors.Is(err, storage.ErrVersionMismatch) {
			h.logger.InfoContext(ctx, "document version mismatch", slog.String("key", key))
			sendError(h.logger, w, "document was modified concurrently", http.StatusPreconditionFailed)
			return
		}
		h.logger.ErrorContext(ctx, "failed to put document", slog.String("key", key), slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	etag := formatETag(doc.Version)
	h.hub.Publish(owner, api.ChangeEvent{Key: key, Version: etag})

	w.Header().Set("ETag", etag)
	if expected == "" {
		w.WriteHeader(http.StatusCreated)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resolveIfMatch переводит If-Match в ожидаемую версию.
// Для "*" и списка тегов текущая версия читается из хранилища.
func (h *DocumentHandler) resolveIfMatch(w http.ResponseWriter, r *http.Request, owner, key, header string) (string, bool) {
	tags := splitETags(header)
	if len(tags) == 1 && tags[0] != "*" {
		return tags[0], true
	}

	current, err := h.storage.GetDocument(r.Context(), owner, key)
	if errors.Is(err, storage.ErrDocumentNotFound) {
		sendError(h.logger, w, "document does not exist", http.StatusPreconditionFailed)
		return "", false
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to get document", slog.String("key", key), slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return "", false
	}
	if !matchETag(header, current.Version) {
		sendError(h.logger, w, "document was modified concurrently", http.StatusPreconditionFailed)
		return "", false
	}
	return current.Version, true
}

// target извлекает владельца из токена и ключ документа из пути
func (h *DocumentHandler) target(w http.ResponseWriter, r *http.Request) (owner, key string, ok bool) {
	owner, ok = auth.GetSubject(r.Context())
	if !ok {
		sendError(h.logger, w, "missing subject", http.StatusUnauthorized)
		return "", "", false
	}

	key, err := url.PathUnescape(mux.Vars(r)["key"])
	if err != nil || key == "" || len(key) > maxKeyLength {
		sendError(h.logger, w, "invalid document key", http.StatusBadRequest)
		return "", "", false
	}

	return owner, key, true
}

func formatETag(version string) string {
	return `"` + version + `"`
}

// splitETags разбирает список тегов из If-Match / If-None-Match
func splitETags(header string) []string {
	var tags []string
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(part)
		tag = strings.TrimPrefix(tag, "W/")
		tag = strings.Trim(tag, `"`)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// matchETag проверяет, содержит ли заголовок версию или "*"
func matchETag(header, version string) bool {
	for _, tag := range splitETags(header) {
		if tag == "*" || tag == version {
			return true
		}
	}
	return false
}
