// Package feed рассылает уведомления об изменении документов подписчикам websocket.
package feed

import (
	"log/slog"
	"sync"

	"github.com/iudanet/tallykeeper/pkg/api"
)

// subscriberBuffer размер очереди событий одного подписчика
const subscriberBuffer = 16

type topic struct {
	owner string
	key   string
}

// Hub хранит подписчиков по владельцу и ключу документа
type Hub struct {
	logger *slog.Logger
	subs   map[topic]map[chan api.ChangeEvent]struct{}
	mu     sync.RWMutex
}

// NewHub создает пустой hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger,
		subs:   make(map[topic]map[chan api.ChangeEvent]struct{}),
	}
}

// Subscribe регистрирует подписчика на документ owner/key.
// Возвращенная функция отписывает и закрывает канал, повторный вызов безопасен.
func (h *Hub) Subscribe(owner, key string) (<-chan api.ChangeEvent, func()) {
	ch := make(chan api.ChangeEvent, subscriberBuffer)
	t := topic{owner: owner, key: key}

	h.mu.Lock()
	if h.subs[t] == nil {
		h.subs[t] = make(map[chan api.ChangeEvent]struct{})
	}
	h.subs[t][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[t], ch)
			if len(h.subs[t]) == 0 {
				delete(h.subs, t)
			}
			h.mu.Unlock()
			close(ch)
		})
	}

	return ch, unsubscribe
}

// Publish отправляет событие всем подписчикам документа.
// Медленный подписчик пропускает событие: клиент все равно получит
// актуальную версию при следующем чтении.
func (h *Hub) Publish(owner string, event api.ChangeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs[topic{owner: owner, key: event.Key}] {
		select {
		case ch <- event:
		default:
			h.logger.Warn("Subscriber queue full, dropping change event",
				"key", event.Key,
				"version", event.Version,
			)
		}
	}
}

// Subscribers возвращает количество подписчиков документа
func (h *Hub) Subscribers(owner, key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[topic{owner: owner, key: key}])
}
