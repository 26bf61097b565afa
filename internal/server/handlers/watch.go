package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/iudanet/tallykeeper/internal/server/storage"
	"github.com/iudanet/tallykeeper/pkg/api"
)

// watchWriteTimeout ограничивает отправку одного события
const watchWriteTimeout = 5 * time.Second

// Watch обрабатывает GET /v1/documents/{key}/watch
// После подключения отправляет текущую версию документа, затем каждую новую.
func (h *DocumentHandler) Watch(w http.ResponseWriter, r *http.Request) {
	owner, key, ok := h.target(w, r)
	if !ok {
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "websocket upgrade failed", slog.Any("error", err))
		return
	}
	defer func() {
		_ = conn.Close(websocket.StatusNormalClosure, "")
	}()

	events, unsubscribe := h.hub.Subscribe(owner, key)
	defer unsubscribe()

	// Клиент ничего не присылает, CloseRead отменит ctx при разрыве
	ctx := conn.CloseRead(r.Context())

	h.logger.DebugContext(ctx, "watcher connected", slog.String("key", key))
	defer h.logger.DebugContext(ctx, "watcher disconnected", slog.String("key", key))

	doc, err := h.storage.GetDocument(ctx, owner, key)
	switch {
	case err == nil:
		if err := writeEvent(ctx, conn, api.ChangeEvent{Key: key, Version: formatETag(doc.Version)}); err != nil {
			return
		}
	case !errors.Is(err, storage.ErrDocumentNotFound):
		h.logger.ErrorContext(ctx, "failed to get document", slog.String("key", key), slog.Any("error", err))
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := writeEvent(ctx, conn, event); err != nil {
				h.logger.DebugContext(ctx, "failed to send change event", slog.Any("error", err))
				return
			}
		}
	}
}

func writeEvent(ctx context.Context, conn *websocket.Conn, event api.ChangeEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, watchWriteTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, data)
}
