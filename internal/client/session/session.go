// Package session собирает клиентские компоненты поверх одной локальной базы.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/tallykeeper/internal/client/connectivity"
	"github.com/iudanet/tallykeeper/internal/client/counters"
	"github.com/iudanet/tallykeeper/internal/client/remote"
	"github.com/iudanet/tallykeeper/internal/client/remote/backends"
	"github.com/iudanet/tallykeeper/internal/client/replica"
	"github.com/iudanet/tallykeeper/internal/client/storage"
	"github.com/iudanet/tallykeeper/internal/client/storage/boltdb"
	clientsync "github.com/iudanet/tallykeeper/internal/client/sync"
	"github.com/iudanet/tallykeeper/internal/client/tracker"
	"github.com/iudanet/tallykeeper/internal/clock"
	"github.com/iudanet/tallykeeper/internal/models"
)

// watchRetryDelay пауза перед повторным подключением к ленте изменений
const watchRetryDelay = 5 * time.Second

// Options настройки сессии
type Options struct {
	Logger    *slog.Logger
	Confirmer clientsync.Confirmer
	Open      clientsync.StoreFactory // по умолчанию backends.Open
	KV        storage.KVStore         // если задан, DBPath не используется

	DBPath        string
	Debounce      time.Duration
	ProbeInterval time.Duration
	ProbeTimeout  time.Duration
}

// Session клиентские сервисы и их ресурсы
type Session struct {
	Replica  *replica.Store
	Counters counters.Service
	Sync     clientsync.Service
	Tracker  *tracker.Tracker

	kv     storage.KVStore
	open   clientsync.StoreFactory
	logger *slog.Logger
	opts   Options

	hookMu sync.Mutex
	hook   func(result *clientsync.Result, err error)

	autoSync bool
}

// Open открывает локальную базу и создает сервисы. Фоновая синхронизация
// включается, если в настройках синхронизации задан AutoSync.
func Open(ctx context.Context, opts Options) (*Session, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Confirmer == nil {
		return nil, errors.New("confirmer is required")
	}
	if opts.Open == nil {
		opts.Open = backends.Open
	}

	kv := opts.KV
	if kv == nil {
		bolt, err := boltdb.New(ctx, opts.DBPath)
		if err != nil {
			return nil, err
		}
		kv = bolt
	}

	s := &Session{
		kv:     kv,
		open:   opts.Open,
		logger: opts.Logger,
		opts:   opts,
	}

	s.Replica = replica.New(kv, time.Now)
	s.Sync = clientsync.NewService(s.Replica, opts.Open, opts.Confirmer, opts.Logger.With("component", "sync"))
	s.Tracker = tracker.New(s.Sync, s.Replica, opts.Logger.With("component", "tracker"), tracker.Config{
		Debounce: opts.Debounce,
		OnResult: s.onResult,
	})
	s.Counters = counters.NewService(s.Replica, clock.New(), s.Tracker)

	cfg, err := s.Replica.LoadConfig(ctx)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to load sync config: %w", err)
	}
	if cfg.AutoSync && cfg.IsConfigured() {
		if err := s.Tracker.Start(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
		s.autoSync = true
	}

	return s, nil
}

// AutoSync сообщает, включена ли фоновая синхронизация
func (s *Session) AutoSync() bool {
	return s.autoSync
}

// OnSync задает обработчик результатов фоновой синхронизации
func (s *Session) OnSync(hook func(result *clientsync.Result, err error)) {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	s.hook = hook
}

func (s *Session) onResult(result *clientsync.Result, err error) {
	s.hookMu.Lock()
	hook := s.hook
	s.hookMu.Unlock()

	if hook != nil {
		hook(result, err)
	}
}

// Flush выполняет запланированную фоновую синхронизацию перед выходом.
// Возвращает nil, nil, если синхронизация не запланирована.
func (s *Session) Flush(ctx context.Context) (*clientsync.Result, error) {
	if !s.autoSync {
		return nil, nil
	}
	return s.Tracker.Flush(ctx)
}

// Close останавливает трекер и закрывает локальную базу
func (s *Session) Close() error {
	s.Tracker.Stop()
	return s.kv.Close()
}

// Watch работает до отмены ctx: синхронизирует после локальных изменений,
// после восстановления связи и после изменений удаленного документа.
func (s *Session) Watch(ctx context.Context, onConnectivity func(connectivity.Event)) error {
	cfg, err := s.Replica.LoadConfig(ctx)
	if err != nil {
		return err
	}
	if !cfg.IsConfigured() {
		return &clientsync.Error{Op: "watch", Code: clientsync.CodeConfigurationRequired, Err: clientsync.ErrNotConfigured}
	}

	if !s.autoSync {
		if err := s.Tracker.Start(ctx); err != nil {
			return err
		}
		s.autoSync = true
	}

	store, err := s.open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open remote store: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	var wg sync.WaitGroup

	if pinger, ok := store.(remote.Pinger); ok {
		watcher := connectivity.NewWatcher(pinger, s.Tracker, s.logger.With("component", "connectivity"),
			s.opts.ProbeInterval, s.opts.ProbeTimeout)
		wg.Add(2)
		go func() {
			defer wg.Done()
			watcher.Run(ctx)
		}()
		go func() {
			defer wg.Done()
			for event := range watcher.Events() {
				if onConnectivity != nil {
					onConnectivity(event)
				}
			}
		}()
	}

	if feed, ok := store.(remote.Watcher); ok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.followChanges(ctx, feed)
		}()
	}

	s.Tracker.Trigger()

	<-ctx.Done()
	wg.Wait()
	return nil
}

// followChanges слушает ленту изменений и переподключается после разрыва
func (s *Session) followChanges(ctx context.Context, feed remote.Watcher) {
	for {
		err := feed.Watch(ctx, func(version remote.VersionToken) {
			if s.isOwnVersion(ctx, version) {
				return
			}
			s.Tracker.OnRemoteChanged()
		})
		if ctx.Err() != nil {
			return
		}
		s.logger.Debug("Change feed disconnected", "error", err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(watchRetryDelay):
		}
	}
}

// isOwnVersion true, если версия записана этим устройством
func (s *Session) isOwnVersion(ctx context.Context, version remote.VersionToken) bool {
	state, err := s.Replica.Load(ctx)
	if err != nil {
		return false
	}
	return state.Meta.VersionToken == string(version)
}

// Status сводка состояния реплики и синхронизации
type Status struct {
	Config   *models.SyncConfig
	Meta     models.SyncMetadata
	Counters int
	Archived int
	Deleted  int
}

// Status возвращает состояние локальной реплики
func (s *Session) Status(ctx context.Context) (*Status, error) {
	state, err := s.Replica.Load(ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := s.Replica.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}

	st := &Status{
		Config:   cfg,
		Meta:     state.Meta,
		Counters: len(state.Snapshot.Counters),
		Deleted:  len(state.Snapshot.Tombstones),
	}
	for _, c := range state.Snapshot.Counters {
		if c.Archived {
			st.Archived++
		}
	}
	return st, nil
}
