// Package tombstone хранит отметки удаления счетчиков и записей истории.
//
// При объединении двух журналов для одного ключа побеждает более позднее удаление.
// Надгробия не удаляются после слияния: без подтверждения от обеих реплик
// нельзя гарантировать, что устаревшая копия больше не появится.
package tombstone

import (
	"time"

	"github.com/iudanet/tallykeeper/internal/models"
)

// Ledger журнал удалений: счетчики по ID и записи по (ID счетчика, ts).
type Ledger struct {
	Entities map[string]models.Tombstone
	Records  map[models.RecordKey]models.RecordTombstone
}

// New создает пустой журнал.
func New() *Ledger {
	return &Ledger{
		Entities: make(map[string]models.Tombstone),
		Records:  make(map[models.RecordKey]models.RecordTombstone),
	}
}

// FromSnapshot создает журнал из надгробий реплики. Карты копируются.
func FromSnapshot(s *models.Snapshot) *Ledger {
	return &Ledger{
		Entities: MergeEntities(s.Tombstones, nil),
		Records:  MergeRecords(s.RecordTombstones, nil),
	}
}

// Merge объединяет два журнала по правилу "побеждает последнее удаление".
func Merge(a, b *Ledger) *Ledger {
	return &Ledger{
		Entities: MergeEntities(a.Entities, b.Entities),
		Records:  MergeRecords(a.Records, b.Records),
	}
}

// MergeEntities объединяет надгробия счетчиков. Для каждого ID сохраняется
// надгробие с более поздним DeletedAt. Входные карты не изменяются.
func MergeEntities(a, b map[string]models.Tombstone) map[string]models.Tombstone {
	out := make(map[string]models.Tombstone, len(a)+len(b))
	for id, t := range a {
		out[id] = t
	}
	for id, t := range b {
		if existing, ok := out[id]; !ok || t.DeletedAt.After(existing.DeletedAt) {
			out[id] = t
		}
	}
	return out
}

// MergeRecords объединяет надгробия записей по составному ключу.
func MergeRecords(a, b map[models.RecordKey]models.RecordTombstone) map[models.RecordKey]models.RecordTombstone {
	out := make(map[models.RecordKey]models.RecordTombstone, len(a)+len(b))
	for k, t := range a {
		out[k] = t
	}
	for k, t := range b {
		if existing, ok := out[k]; !ok || t.DeletedAt.After(existing.DeletedAt) {
			out[k] = t
		}
	}
	return out
}

// MarkDeleted добавляет надгробие счетчика.
// Возвращает true, если журнал изменился (надгробия не было или новое позже).
func (l *Ledger) MarkDeleted(id string, at time.Time) bool {
	existing, ok := l.Entities[id]
	if ok && !at.After(existing.DeletedAt) {
		return false
	}
	l.Entities[id] = models.Tombstone{ID: id, DeletedAt: at}
	return true
}

// MarkRecordDeleted добавляет надгробие записи.
func (l *Ledger) MarkRecordDeleted(counterID string, ts, at time.Time) bool {
	key := models.NewRecordKey(counterID, ts)
	existing, ok := l.Records[key]
	if ok && !at.After(existing.DeletedAt) {
		return false
	}
	l.Records[key] = models.RecordTombstone{CounterID: counterID, TS: ts, DeletedAt: at}
	return true
}

// IsDeletedAfter возвращает true, если счетчик удален строго позже ref.
func (l *Ledger) IsDeletedAfter(id string, ref time.Time) bool {
	t, ok := l.Entities[id]
	return ok && t.DeletedAt.After(ref)
}

// IsRecordDeleted возвращает true, если для записи есть надгробие.
// Ключ записи уникален навсегда, поэтому момент удаления не сравнивается.
func (l *Ledger) IsRecordDeleted(counterID string, ts time.Time) bool {
	_, ok := l.Records[models.NewRecordKey(counterID, ts)]
	return ok
}

// FilterRecords возвращает записи счетчика без удаленных.
func (l *Ledger) FilterRecords(counterID string, records []models.Record) []models.Record {
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if !l.IsRecordDeleted(counterID, r.TS) {
			out = append(out, r)
		}
	}
	return out
}

// Apply записывает журнал в реплику.
func (l *Ledger) Apply(s *models.Snapshot) {
	s.Tombstones = l.Entities
	s.RecordTombstones = l.Records
}
