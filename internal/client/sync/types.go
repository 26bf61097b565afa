package sync

import (
	"context"

	"github.com/iudanet/tallykeeper/internal/client/remote"
	"github.com/iudanet/tallykeeper/internal/models"
)

// Outcome итог успешного вызова синхронизации
type Outcome string

const (
	// OutcomeCompleted синхронизация завершена (в том числе без изменений)
	OutcomeCompleted Outcome = "completed"
	// OutcomeCreatedRemote удаленный документ создан из локальной реплики
	OutcomeCreatedRemote Outcome = "created_remote"
	// OutcomeCancelled пользователь отказался от операции
	OutcomeCancelled Outcome = "cancelled"
)

// State состояние оркестратора
type State string

const (
	StateIdle          State = "idle"
	StateSyncing       State = "syncing"
	StateConflictRetry State = "conflict_retry"
	StateCommitted     State = "committed"
	StateFailed        State = "failed"
)

// Result содержит результат синхронизации
type Result struct {
	Outcome  Outcome
	Version  remote.VersionToken // токен версии удаленного документа после синхронизации
	Revision int64               // ревизия удаленного документа
	Wrote    bool                // документ записан в удаленное хранилище
	Pulled   bool                // локальная реплика получила удаленные изменения
	Retried  bool                // была повторная попытка после конфликта
	Pending  bool                // после синхронизации остались неотправленные изменения
	UpToDate bool                // удаленный документ не изменился и отправлять нечего
}

// ConfirmKind тип разрушительной операции, требующей подтверждения
type ConfirmKind string

const (
	// ConfirmCreateRemote создание удаленного документа из локальной реплики
	ConfirmCreateRemote ConfirmKind = "create_remote"
	// ConfirmPush перезапись удаленного документа локальной репликой
	ConfirmPush ConfirmKind = "push"
	// ConfirmPull перезапись локальной реплики удаленным документом
	ConfirmPull ConfirmKind = "pull"
)

//go:generate moq -out confirmer_mock.go . Confirmer

// Confirmer запрашивает у пользователя подтверждение операции.
// При false или ошибке операция не выполняется.
type Confirmer interface {
	Confirm(ctx context.Context, kind ConfirmKind, message string) (bool, error)
}

// ConfirmerFunc адаптер функции к Confirmer
type ConfirmerFunc func(ctx context.Context, kind ConfirmKind, message string) (bool, error)

// Confirm calls f
func (f ConfirmerFunc) Confirm(ctx context.Context, kind ConfirmKind, message string) (bool, error) {
	return f(ctx, kind, message)
}

// StoreFactory открывает удаленное хранилище по настройкам
type StoreFactory func(ctx context.Context, cfg *models.SyncConfig) (remote.Store, error)
