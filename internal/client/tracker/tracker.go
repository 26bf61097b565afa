// Package tracker планирует синхронизацию после локальных изменений.
//
// Каждая мутация вызывает MarkDirty. Серия быстрых мутаций объединяется
// в один запуск синхронизации по истечении окна Debounce. Одновременно
// выполняется не больше одной синхронизации; запросы, пришедшие во время
// выполнения, не теряются и приводят к повторному планированию после ее
// завершения.
package tracker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/iudanet/tallykeeper/internal/client/replica"
	clientsync "github.com/iudanet/tallykeeper/internal/client/sync"
)

// DefaultDebounce окно объединения мутаций по умолчанию
const DefaultDebounce = 2 * time.Second

const flightKey = "sync"

// Syncer выполняет один цикл синхронизации
type Syncer interface {
	Sync(ctx context.Context, force bool) (*clientsync.Result, error)
}

// Replica источник флага Pending
type Replica interface {
	Load(ctx context.Context) (*replica.State, error)
}

// Config holds configuration for the tracker.
type Config struct {
	// Debounce сколько ждать после последней мутации перед запуском синхронизации
	Debounce time.Duration

	// OnResult вызывается после каждого цикла синхронизации
	OnResult func(result *clientsync.Result, err error)
}

// Tracker отслеживает локальные изменения и запускает синхронизацию.
type Tracker struct {
	syncer  Syncer
	replica Replica
	logger  *slog.Logger
	config  Config

	group singleflight.Group

	mu       sync.Mutex
	timer    *time.Timer
	inflight bool
	rerun    bool // запрос пришел во время выполнения синхронизации
	online   bool
	started  bool
	stopped  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New создает трекер. Фоновые запуски начинаются после Start.
func New(syncer Syncer, rep Replica, logger *slog.Logger, config Config) *Tracker {
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Tracker{
		syncer:  syncer,
		replica: rep,
		logger:  logger,
		config:  config,
		online:  true,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start разрешает фоновые запуски. Если в реплике есть неотправленные
// изменения, синхронизация планируется сразу.
func (t *Tracker) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return errors.New("tracker is stopped")
	}
	t.started = true
	t.mu.Unlock()

	pending, err := t.pending(ctx)
	if err != nil {
		return err
	}
	if pending {
		t.logger.Debug("Pending local changes found on start")
		t.MarkDirty()
	}
	return nil
}

// Stop отменяет запланированный запуск и ждет завершения текущей синхронизации.
func (t *Tracker) Stop() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()

	t.cancel()
	t.wg.Wait()
}

// MarkDirty планирует синхронизацию после окна Debounce.
// Повторный вызов до истечения окна переносит запуск.
func (t *Tracker) MarkDirty() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started || t.stopped {
		return
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.config.Debounce, t.fire)
}

// Trigger немедленно запускает синхронизацию в фоне
func (t *Tracker) Trigger() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()

	t.launch()
}

// OnConnectivityLost отмечает потерю связи
func (t *Tracker) OnConnectivityLost() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.online {
		t.logger.Info("Connectivity lost")
	}
	t.online = false
}

// OnConnectivityRestored запускает синхронизацию, если связь была потеряна
// и в реплике есть неотправленные изменения.
func (t *Tracker) OnConnectivityRestored() {
	t.mu.Lock()
	wasOffline := !t.online
	t.online = true
	t.mu.Unlock()

	if !wasOffline {
		return
	}
	t.logger.Info("Connectivity restored")

	pending, err := t.pending(t.ctx)
	if err != nil {
		t.logger.Warn("Failed to read pending flag", "error", err)
		return
	}
	if pending {
		t.Trigger()
	}
}

// OnRemoteChanged вызывается, когда удаленный документ изменил другой клиент
func (t *Tracker) OnRemoteChanged() {
	t.logger.Debug("Remote document changed")
	t.Trigger()
}

// Online возвращает последнее известное состояние связи
func (t *Tracker) Online() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.online
}

// Scheduled сообщает, запланирован ли запуск синхронизации
func (t *Tracker) Scheduled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil || (t.inflight && t.rerun)
}

// Flush выполняет запланированную синхронизацию немедленно и ждет результата.
// Если ничего не запланировано, возвращает nil, nil.
func (t *Tracker) Flush(ctx context.Context) (*clientsync.Result, error) {
	t.mu.Lock()
	scheduled := t.timer != nil || t.inflight
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()

	if !scheduled {
		return nil, nil
	}

	ch := t.group.DoChan(flightKey, t.run)
	select {
	case res := <-ch:
		result, _ := res.Val.(*clientsync.Result)
		return result, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (t *Tracker) fire() {
	t.mu.Lock()
	t.timer = nil
	t.mu.Unlock()

	t.launch()
}

func (t *Tracker) launch() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	if t.inflight {
		// Текущая синхронизация могла прочитать состояние до этого запроса
		t.rerun = true
		t.mu.Unlock()
		return
	}
	t.wg.Add(1)
	t.mu.Unlock()

	go func() {
		defer t.wg.Done()
		_, _, _ = t.group.Do(flightKey, t.run)
	}()
}

// run выполняет один цикл синхронизации. Вызывается только через singleflight.
func (t *Tracker) run() (any, error) {
	t.mu.Lock()
	t.inflight = true
	t.rerun = false
	t.mu.Unlock()

	// Начатая синхронизация не прерывается при остановке трекера
	result, err := t.syncer.Sync(context.WithoutCancel(t.ctx), false)

	// Ключ освобождается до сброса inflight, иначе новый запуск присоединится
	// к уже завершенному вызову
	t.group.Forget(flightKey)

	t.mu.Lock()
	t.inflight = false
	rerun := t.rerun
	t.rerun = false
	if err != nil && clientsync.CodeOf(err) == clientsync.CodeNetworkError {
		t.online = false
	}
	t.mu.Unlock()

	switch {
	case err != nil:
		// Повтор только по следующей мутации или восстановлению связи
		t.logger.Warn("Background sync failed",
			"code", clientsync.CodeOf(err),
			"retryable", clientsync.IsRetryable(err),
			"error", err)
		if rerun {
			t.MarkDirty()
		}
	case result.Pending || rerun:
		t.logger.Debug("Changes arrived during sync, rescheduling")
		t.MarkDirty()
	}

	if t.config.OnResult != nil {
		t.config.OnResult(result, err)
	}
	return result, err
}

func (t *Tracker) pending(ctx context.Context) (bool, error) {
	state, err := t.replica.Load(ctx)
	if err != nil {
		return false, err
	}
	return state.Meta.Pending, nil
}
