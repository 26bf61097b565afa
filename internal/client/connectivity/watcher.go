// Package connectivity периодически проверяет доступность удаленного хранилища
// и сообщает о переходах online/offline.
package connectivity

import (
	"context"
	"log/slog"
	"time"

	"github.com/iudanet/tallykeeper/internal/client/remote"
)

// Defaults
const (
	DefaultInterval = 15 * time.Second
	DefaultTimeout  = 3 * time.Second
)

// Listener получает события о смене состояния связи
type Listener interface {
	OnConnectivityLost()
	OnConnectivityRestored()
}

// Event смена состояния связи
type Event struct {
	At     time.Time
	Err    error // причина перехода в offline
	Online bool
}

// Watcher проверяет связь через Ping
type Watcher struct {
	pinger   remote.Pinger
	listener Listener
	logger   *slog.Logger
	events   chan Event
	interval time.Duration
	timeout  time.Duration
	online   bool
}

// NewWatcher создает наблюдателя. Начальное состояние считается online.
func NewWatcher(pinger remote.Pinger, listener Listener, logger *slog.Logger, interval, timeout time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Watcher{
		pinger:   pinger,
		listener: listener,
		logger:   logger,
		events:   make(chan Event, 8),
		interval: interval,
		timeout:  timeout,
		online:   true,
	}
}

// Events канал событий смены состояния. Если читатель не успевает, события отбрасываются.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Run проверяет связь с заданным интервалом до отмены ctx.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.events)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Probe выполняет одну проверку и возвращает текущее состояние
func (w *Watcher) Probe(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, w.timeout)
	err := w.pinger.Ping(pingCtx)
	cancel()

	if ctx.Err() != nil {
		return w.online
	}

	online := err == nil
	if online == w.online {
		return online
	}
	w.online = online

	if online {
		w.logger.Info("Remote store is reachable again")
		if w.listener != nil {
			w.listener.OnConnectivityRestored()
		}
	} else {
		w.logger.Warn("Remote store is unreachable", "error", err)
		if w.listener != nil {
			w.listener.OnConnectivityLost()
		}
	}

	select {
	case w.events <- Event{At: time.Now(), Online: online, Err: err}:
	default:
	}
	return online
}
