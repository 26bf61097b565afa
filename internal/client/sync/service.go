// Package sync синхронизирует локальную реплику с удаленным документом.
//
// Цикл: условное чтение -> слияние -> условная запись. При конфликте версий
// документ перечитывается, слияние повторяется и запись выполняется еще один
// раз. Второй конфликт возвращается как CONFLICT_UNRESOLVED без дальнейших
// повторов.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/tallykeeper/internal/client/remote"
	"github.com/iudanet/tallykeeper/internal/client/replica"
	"github.com/iudanet/tallykeeper/internal/document"
	"github.com/iudanet/tallykeeper/internal/merge"
	"github.com/iudanet/tallykeeper/internal/models"
)

//go:generate moq -out service_mock.go . Service

// Service определяет интерфейс для sync.Service
type Service interface {
	// Sync выполняет синхронизацию. force пропускает условное чтение.
	Sync(ctx context.Context, force bool) (*Result, error)

	// Push перезаписывает удаленный документ локальной репликой (с подтверждением)
	Push(ctx context.Context) (*Result, error)

	// Pull перезаписывает локальную реплику удаленным документом (с подтверждением)
	Pull(ctx context.Context) (*Result, error)

	// State возвращает текущее состояние оркестратора
	State() State
}

// Option настраивает сервис
type Option func(*service)

// WithStateHook вызывается при каждом переходе состояния
func WithStateHook(hook func(from, to State)) Option {
	return func(s *service) { s.onState = hook }
}

// WithNow задает источник времени для отметок документа
func WithNow(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

type service struct {
	replica   *replica.Store
	open      StoreFactory
	confirmer Confirmer
	logger    *slog.Logger
	now       func() time.Time
	onState   func(from, to State)

	// mu гарантирует, что одновременно выполняется не больше одной операции
	mu sync.Mutex

	stateMu sync.RWMutex
	state   State
}

// NewService creates a new sync service
func NewService(store *replica.Store, open StoreFactory, confirmer Confirmer, logger *slog.Logger, opts ...Option) Service {
	s := &service{
		replica:   store,
		open:      open,
		confirmer: confirmer,
		logger:    logger,
		now:       time.Now,
		state:     StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State возвращает текущее состояние
func (s *service) State() State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

func (s *service) setState(to State) {
	s.stateMu.Lock()
	from := s.state
	s.state = to
	s.stateMu.Unlock()

	if from == to {
		return
	}
	s.logger.Debug("Sync state changed", "from", from, "to", to)
	if s.onState != nil {
		s.onState(from, to)
	}
}

// finish переводит автомат в конечное состояние и затем в Idle
func (s *service) finish(err error) {
	if err != nil {
		s.setState(StateFailed)
	} else {
		s.setState(StateCommitted)
	}
	s.setState(StateIdle)
}

// session ресурсы одного цикла синхронизации
type session struct {
	store remote.Store
	codec *document.Codec
	cfg   *models.SyncConfig
}

func (s *service) begin(ctx context.Context, op string) (*session, error) {
	cfg, err := s.replica.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}
	if !cfg.IsConfigured() {
		return nil, &Error{Op: op, Code: CodeConfigurationRequired, Err: ErrNotConfigured}
	}

	store, err := s.open(ctx, cfg)
	if err != nil {
		return nil, &Error{Op: op, Code: CodeConfigurationRequired, Err: err}
	}

	return &session{store: store, codec: document.NewCodec(cfg.Passphrase), cfg: cfg}, nil
}

func (ss *session) close() {
	_ = ss.store.Close()
}

// Sync performs synchronization with the remote document
func (s *service) Sync(ctx context.Context, force bool) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setState(StateSyncing)
	result, err := s.sync(ctx, force)
	s.finish(err)

	if err != nil {
		err = classify("sync", err)
		s.logger.Warn("Synchronization failed", "code", CodeOf(err), "error", err)
		return nil, err
	}

	s.logger.Info("Synchronization finished",
		"outcome", result.Outcome,
		"revision", result.Revision,
		"wrote", result.Wrote,
		"pulled", result.Pulled,
		"retried", result.Retried,
		"pending", result.Pending)
	return result, nil
}

func (s *service) sync(ctx context.Context, force bool) (*Result, error) {
	ss, err := s.begin(ctx, "sync")
	if err != nil {
		return nil, err
	}
	defer ss.close()

	local, err := s.replica.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load local replica: %w", err)
	}
	token := remote.VersionToken(local.Meta.VersionToken)

	s.logger.Info("Starting synchronization",
		"backend", ss.cfg.Backend,
		"key", ss.cfg.DocumentKey,
		"force", force,
		"pending", local.Meta.Pending,
		"revision", local.Meta.Revision)

	var fetched *remote.Fetched
	if !force && !token.IsZero() {
		fetched, err = ss.store.GetIfChanged(ctx, token)
	} else {
		fetched, err = ss.store.Get(ctx)
	}

	switch {
	case errors.Is(err, remote.ErrNotModified):
		if !local.Meta.Pending {
			s.logger.Debug("Remote not modified and nothing pending")
			return &Result{Outcome: OutcomeCompleted, Version: token, Revision: local.Meta.Revision, UpToDate: true}, nil
		}
		// Удаленных изменений нет: пишем локальную реплику поверх известной версии
		return s.writeLocalOnly(ctx, ss, local)
	case errors.Is(err, remote.ErrNotFound):
		return s.bootstrap(ctx, ss, local)
	case err != nil:
		return nil, err
	}

	return s.mergeAndWrite(ctx, ss, local, fetched)
}

// writeLocalOnly записывает локальную реплику, когда удаленный документ не менялся
func (s *service) writeLocalOnly(ctx context.Context, ss *session, local *replica.State) (*Result, error) {
	token := remote.VersionToken(local.Meta.VersionToken)
	revision := local.Meta.Revision + 1

	version, err := s.put(ctx, ss, local.Snapshot, revision, token)
	if errors.Is(err, remote.ErrConflict) {
		// Кто-то записал документ между условным чтением и записью
		return s.retryAfterConflict(ctx, ss, local, preference(local), &Result{})
	}
	if err != nil {
		return nil, err
	}

	return s.commit(ctx, local, local.Snapshot, version, revision, &Result{Outcome: OutcomeCompleted, Wrote: true})
}

// bootstrap создает удаленный документ из локальной реплики (первая синхронизация)
func (s *service) bootstrap(ctx context.Context, ss *session, local *replica.State) (*Result, error) {
	message := fmt.Sprintf("Remote document %q does not exist. Create it from %d local counter(s)?",
		ss.cfg.DocumentKey, len(local.Snapshot.Counters))
	ok, err := s.confirmer.Confirm(ctx, ConfirmCreateRemote, message)
	if err != nil {
		return nil, fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		s.logger.Info("Remote document creation declined")
		return &Result{Outcome: OutcomeCancelled, Pending: local.Meta.Pending}, nil
	}

	version, err := s.put(ctx, ss, local.Snapshot, 1, "")
	if errors.Is(err, remote.ErrConflict) {
		// Документ создан другим устройством одновременно с нами
		return s.retryAfterConflict(ctx, ss, local, merge.PreferLocal, &Result{})
	}
	if err != nil {
		return nil, err
	}

	return s.commit(ctx, local, local.Snapshot, version, 1, &Result{Outcome: OutcomeCreatedRemote, Wrote: true})
}

// mergeAndWrite объединяет реплики и записывает результат, если нужно
func (s *service) mergeAndWrite(ctx context.Context, ss *session, local *replica.State, fetched *remote.Fetched) (*Result, error) {
	pref := preference(local)

	remoteSnap, revision, err := s.decode(ss, fetched)
	if err != nil {
		return nil, err
	}
	merged := merge.Merge(local.Snapshot, remoteSnap, pref)

	result := &Result{Outcome: OutcomeCompleted, Pulled: !merge.Equal(merged, local.Snapshot)}

	if merge.Equal(merged, remoteSnap) && !local.Meta.Pending {
		s.logger.Debug("Merged replica equals remote, skipping write", "revision", revision)
		return s.commit(ctx, local, merged, fetched.Version, revision, result)
	}

	version, err := s.put(ctx, ss, merged, revision+1, fetched.Version)
	if errors.Is(err, remote.ErrConflict) {
		return s.retryAfterConflict(ctx, ss, local, pref, result)
	}
	if err != nil {
		return nil, err
	}

	result.Wrote = true
	return s.commit(ctx, local, merged, version, revision+1, result)
}

// retryAfterConflict перечитывает удаленный документ, повторяет слияние и
// выполняет ровно одну повторную запись
func (s *service) retryAfterConflict(ctx context.Context, ss *session, local *replica.State, pref merge.OrderPreference, result *Result) (*Result, error) {
	s.setState(StateConflictRetry)
	s.logger.Info("Remote version conflict, refetching and merging again")
	s.setState(StateSyncing)

	result.Retried = true
	result.Outcome = OutcomeCompleted

	fetched, err := ss.store.Get(ctx)
	if errors.Is(err, remote.ErrNotFound) {
		// Документ удален между попытками. Создание без подтверждения запрещено
		return nil, &Error{Op: "sync", Code: CodeConflictUnresolved, Err: err}
	}
	if err != nil {
		return nil, err
	}

	remoteSnap, revision, err := s.decode(ss, fetched)
	if err != nil {
		return nil, err
	}
	merged := merge.Merge(local.Snapshot, remoteSnap, pref)
	result.Pulled = !merge.Equal(merged, local.Snapshot)

	if merge.Equal(merged, remoteSnap) && !local.Meta.Pending {
		return s.commit(ctx, local, merged, fetched.Version, revision, result)
	}

	version, err := s.put(ctx, ss, merged, revision+1, fetched.Version)
	if err != nil {
		return nil, conflictUnresolved(err)
	}

	result.Wrote = true
	return s.commit(ctx, local, merged, version, revision+1, result)
}

func conflictUnresolved(err error) error {
	if errors.Is(err, remote.ErrConflict) {
		return &Error{Op: "sync", Code: CodeConflictUnresolved, Err: err}
	}
	return err
}

// Push overwrites the remote document with the local replica
func (s *service) Push(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setState(StateSyncing)
	result, err := s.push(ctx)
	s.finish(err)

	if err != nil {
		err = classify("push", err)
		s.logger.Warn("Push failed", "code", CodeOf(err), "error", err)
		return nil, err
	}
	return result, nil
}

func (s *service) push(ctx context.Context) (*Result, error) {
	ss, err := s.begin(ctx, "push")
	if err != nil {
		return nil, err
	}
	defer ss.close()

	local, err := s.replica.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load local replica: %w", err)
	}

	message := fmt.Sprintf("Overwrite remote document %q with %d local counter(s)? Remote changes not present locally will be lost.",
		ss.cfg.DocumentKey, len(local.Snapshot.Counters))
	ok, err := s.confirmer.Confirm(ctx, ConfirmPush, message)
	if err != nil {
		return nil, fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		return &Result{Outcome: OutcomeCancelled, Pending: local.Meta.Pending}, nil
	}

	var expected remote.VersionToken
	revision := int64(1)
	fetched, err := ss.store.Get(ctx)
	switch {
	case errors.Is(err, remote.ErrNotFound):
	case err != nil:
		return nil, err
	default:
		expected = fetched.Version
		if doc, err := ss.codec.Decode(fetched.Body); err == nil {
			revision = doc.Revision + 1
		} else {
			s.logger.Warn("Remote document is unreadable, overwriting", "error", err)
			revision = local.Meta.Revision + 1
		}
	}

	version, err := s.put(ctx, ss, local.Snapshot, revision, expected)
	if err != nil {
		return nil, conflictUnresolved(err)
	}

	outcome := OutcomeCompleted
	if expected.IsZero() {
		outcome = OutcomeCreatedRemote
	}
	return s.commit(ctx, local, local.Snapshot, version, revision, &Result{Outcome: outcome, Wrote: true})
}

// Pull overwrites the local replica with the remote document
func (s *service) Pull(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setState(StateSyncing)
	result, err := s.pull(ctx)
	s.finish(err)

	if err != nil {
		err = classify("pull", err)
		s.logger.Warn("Pull failed", "code", CodeOf(err), "error", err)
		return nil, err
	}
	return result, nil
}

func (s *service) pull(ctx context.Context) (*Result, error) {
	ss, err := s.begin(ctx, "pull")
	if err != nil {
		return nil, err
	}
	defer ss.close()

	fetched, err := ss.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	remoteSnap, revision, err := s.decode(ss, fetched)
	if err != nil {
		return nil, err
	}

	local, err := s.replica.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load local replica: %w", err)
	}

	message := fmt.Sprintf("Replace %d local counter(s) with %d counter(s) from remote revision %d? Unsynced local changes will be lost.",
		len(local.Snapshot.Counters), len(remoteSnap.Counters), revision)
	ok, err := s.confirmer.Confirm(ctx, ConfirmPull, message)
	if err != nil {
		return nil, fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		return &Result{Outcome: OutcomeCancelled, Pending: local.Meta.Pending}, nil
	}

	return s.commit(ctx, local, remoteSnap, fetched.Version, revision, &Result{Outcome: OutcomeCompleted, Pulled: true})
}

// decode разбирает удаленный документ
func (s *service) decode(ss *session, fetched *remote.Fetched) (*models.Snapshot, int64, error) {
	doc, err := ss.codec.Decode(fetched.Body)
	if err != nil {
		return nil, 0, err
	}
	snapshot, err := document.ToSnapshot(doc)
	if err != nil {
		return nil, 0, err
	}
	return snapshot, doc.Revision, nil
}

// put кодирует реплику и выполняет условную запись
func (s *service) put(ctx context.Context, ss *session, snapshot *models.Snapshot, revision int64, expected remote.VersionToken) (remote.VersionToken, error) {
	doc := document.FromSnapshot(snapshot, revision, s.now())
	// Настройки устройства не попадают в общий документ
	doc.Preferences = nil
	body, err := ss.codec.Encode(doc)
	if err != nil {
		return "", err
	}

	s.logger.Debug("Writing remote document", "revision", revision, "create_only", expected.IsZero())
	return ss.store.Put(ctx, body, expected)
}

// commit сохраняет результат синхронизации в локальную реплику
func (s *service) commit(ctx context.Context, local *replica.State, snapshot *models.Snapshot, version remote.VersionToken, revision int64, result *Result) (*Result, error) {
	state, err := s.replica.Commit(ctx, replica.Commit{
		Snapshot:     snapshot,
		VersionToken: string(version),
		Revision:     revision,
		Generation:   local.Meta.Generation,
		At:           s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to commit sync result: %w", err)
	}

	result.Version = version
	result.Revision = revision
	result.Pending = state.Meta.Pending
	return result, nil
}

// preference определяет главный порядок: локальный, если есть неотправленные изменения
func preference(local *replica.State) merge.OrderPreference {
	if local.Meta.Pending {
		return merge.PreferLocal
	}
	return merge.PreferRemote
}
