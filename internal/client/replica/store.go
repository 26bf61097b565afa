// Package replica хранит локальную реплику и состояние синхронизации
// поверх key-value хранилища.
//
// Все операции чтения-изменения-записи выполняются под одним мьютексом.
// Каждое локальное изменение увеличивает Generation; синхронизация
// запоминает Generation в момент чтения реплики и при фиксации результата
// обнаруживает изменения, сделанные пока запрос был в сети.
package replica

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/iudanet/tallykeeper/internal/client/storage"
	"github.com/iudanet/tallykeeper/internal/document"
	"github.com/iudanet/tallykeeper/internal/merge"
	"github.com/iudanet/tallykeeper/internal/models"
	"github.com/iudanet/tallykeeper/pkg/api"
)

// Ключи в key-value хранилище
const (
	KeySnapshot   = "replica"
	KeySyncConfig = "sync_config"
	KeySyncMeta   = "sync_meta"
)

// State согласованный срез реплики и метаданных, прочитанный под одной блокировкой.
type State struct {
	Snapshot *models.Snapshot
	Meta     models.SyncMetadata
}

// Commit результат успешной синхронизации.
type Commit struct {
	At           time.Time // время фиксации
	Snapshot     *models.Snapshot
	VersionToken string // токен версии удаленного документа после синхронизации
	Revision     int64  // ревизия удаленного документа
	Generation   uint64 // Generation локальной реплики на момент чтения для синхронизации
}

// Store локальная реплика.
type Store struct {
	kv  storage.KVStore
	now func() time.Time
	mu  sync.Mutex
}

// New создает хранилище реплики.
func New(kv storage.KVStore, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{kv: kv, now: now}
}

// Load возвращает копию текущей реплики и метаданных.
func (s *Store) Load(ctx context.Context) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx)
}

// Update применяет локальную мутацию. Если fn возвращает ошибку, ничего не сохраняется.
// После успешной мутации реплика помечается как ожидающая синхронизации.
func (s *Store) Update(ctx context.Context, fn func(snapshot *models.Snapshot) error) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if err := fn(state.Snapshot); err != nil {
		return nil, err
	}

	state.Meta.Generation++
	state.Meta.Pending = true

	if err := s.save(ctx, state.Snapshot, &state.Meta); err != nil {
		return nil, err
	}
	return state, nil
}

// UpdatePreferences изменяет настройки устройства без пометки о синхронизации.
func (s *Store) UpdatePreferences(ctx context.Context, fn func(p *models.Preferences)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load(ctx)
	if err != nil {
		return err
	}
	fn(&state.Snapshot.Preferences)
	return s.save(ctx, state.Snapshot, &state.Meta)
}

// Commit фиксирует результат синхронизации.
//
// Если с момента чтения (c.Generation) локальных изменений не было, реплика
// заменяется результатом и флаг Pending снимается. Иначе результат
// объединяется с текущей репликой (локальный порядок главный), а Pending
// остается установленным, чтобы следующий цикл отправил новые изменения.
func (s *Store) Commit(ctx context.Context, c Commit) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	next := c.Snapshot.Clone()
	pending := false
	if current.Meta.Generation != c.Generation {
		next = merge.Merge(current.Snapshot, c.Snapshot, merge.PreferLocal)
		pending = current.Meta.Pending
	}
	// Настройки устройства не приходят из удаленной реплики
	next.Preferences = current.Snapshot.Preferences

	meta := current.Meta
	meta.Pending = pending
	meta.VersionToken = c.VersionToken
	meta.Revision = c.Revision
	meta.LastSyncedAt = c.At.UTC()

	if err := s.save(ctx, next, &meta); err != nil {
		return nil, err
	}
	return &State{Snapshot: next, Meta: meta}, nil
}

// Replace полностью заменяет реплику (импорт с заменой, принудительная загрузка).
// pending определяет, нужно ли отправить новую реплику при следующей синхронизации.
func (s *Store) Replace(ctx context.Context, snapshot *models.Snapshot, pending bool) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	next := snapshot.Clone()
	next.Preferences = current.Snapshot.Preferences
	next.Renumber()

	meta := current.Meta
	meta.Generation++
	meta.Pending = pending

	if err := s.save(ctx, next, &meta); err != nil {
		return nil, err
	}
	return &State{Snapshot: next, Meta: meta}, nil
}

// ResetSyncState забывает токен версии и ревизию, например после смены удаленного хранилища.
// Если реплика не пустая, она помечается как ожидающая синхронизации.
func (s *Store) ResetSyncState(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load(ctx)
	if err != nil {
		return err
	}

	state.Meta.VersionToken = ""
	state.Meta.Revision = 0
	state.Meta.LastSyncedAt = time.Time{}
	if len(state.Snapshot.Counters) > 0 || len(state.Snapshot.Tombstones) > 0 {
		state.Meta.Generation++
		state.Meta.Pending = true
	}
	return s.saveMeta(ctx, &state.Meta)
}

// MarkPending устанавливает флаг Pending без изменения реплики.
// Generation увеличивается, чтобы идущая синхронизация не сняла флаг.
func (s *Store) MarkPending(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta, err := s.loadMeta(ctx)
	if err != nil {
		return err
	}
	meta.Generation++
	meta.Pending = true
	return s.saveMeta(ctx, meta)
}

// LoadConfig возвращает настройки синхронизации. Если они не заданы,
// возвращается пустая конфигурация (IsConfigured() == false).
func (s *Store) LoadConfig(ctx context.Context) (*models.SyncConfig, error) {
	data, err := s.kv.Get(ctx, KeySyncConfig)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return &models.SyncConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load sync config: %w", err)
	}

	var cfg models.SyncConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sync config: %w", err)
	}
	return &cfg, nil
}

// SaveConfig сохраняет настройки синхронизации.
func (s *Store) SaveConfig(ctx context.Context, cfg *models.SyncConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal sync config: %w", err)
	}
	if err := s.kv.Set(ctx, KeySyncConfig, data); err != nil {
		return fmt.Errorf("failed to save sync config: %w", err)
	}
	return nil
}

func (s *Store) load(ctx context.Context) (*State, error) {
	snapshot, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	meta, err := s.loadMeta(ctx)
	if err != nil {
		return nil, err
	}
	return &State{Snapshot: snapshot, Meta: *meta}, nil
}

func (s *Store) loadSnapshot(ctx context.Context) (*models.Snapshot, error) {
	data, err := s.kv.Get(ctx, KeySnapshot)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return models.NewSnapshot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load replica: %w", err)
	}

	var doc api.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal replica: %w", err)
	}
	snapshot, err := document.ToSnapshot(&doc)
	if err != nil {
		return nil, fmt.Errorf("stored replica is invalid: %w", err)
	}
	return snapshot, nil
}

func (s *Store) loadMeta(ctx context.Context) (*models.SyncMetadata, error) {
	data, err := s.kv.Get(ctx, KeySyncMeta)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return &models.SyncMetadata{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load sync metadata: %w", err)
	}

	var meta models.SyncMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sync metadata: %w", err)
	}
	return &meta, nil
}

func (s *Store) save(ctx context.Context, snapshot *models.Snapshot, meta *models.SyncMetadata) error {
	snapshotData, err := json.Marshal(document.FromSnapshot(snapshot, meta.Revision, s.now()))
	if err != nil {
		return fmt.Errorf("failed to marshal replica: %w", err)
	}
	metaData, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal sync metadata: %w", err)
	}

	if err := s.kv.SetMany(ctx, map[string][]byte{
		KeySnapshot: snapshotData,
		KeySyncMeta: metaData,
	}); err != nil {
		return fmt.Errorf("failed to save replica: %w", err)
	}
	return nil
}

func (s *Store) saveMeta(ctx context.Context, meta *models.SyncMetadata) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal sync metadata: %w", err)
	}
	if err := s.kv.Set(ctx, KeySyncMeta, data); err != nil {
		return fmt.Errorf("failed to save sync metadata: %w", err)
	}
	return nil
}
