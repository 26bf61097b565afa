package models

import "time"

// Tombstone отмечает удаление счетчика. Хранится после удаления,
// чтобы устаревшая копия не "воскресила" счетчик при слиянии.
type Tombstone struct {
	DeletedAt time.Time `json:"deleted_at"`
	ID        string    `json:"id"`
}

// RecordKey составной ключ надгробия записи: (ID счетчика, TS записи).
type RecordKey struct {
	CounterID string
	TS        int64
}

// NewRecordKey создает ключ записи счетчика.
func NewRecordKey(counterID string, ts time.Time) RecordKey {
	return RecordKey{CounterID: counterID, TS: ts.UnixNano()}
}

// RecordTombstone отмечает удаление одной записи истории.
type RecordTombstone struct {
	TS        time.Time `json:"ts"`
	DeletedAt time.Time `json:"deleted_at"`
	CounterID string    `json:"counter_id"`
}

// Key возвращает составной ключ надгробия.
func (t RecordTombstone) Key() RecordKey {
	return NewRecordKey(t.CounterID, t.TS)
}
