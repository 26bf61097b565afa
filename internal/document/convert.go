// Package document преобразует реплику в переносимый документ и обратно.
//
// Один и тот же документ хранится в удаленном хранилище и используется для
// экспорта. Входящий документ всегда проверяется структурно до того,
// как ему можно доверять.
package document

import (
	"time"

	"github.com/iudanet/tallykeeper/internal/models"
	"github.com/iudanet/tallykeeper/pkg/api"
)

// FromSnapshot создает документ из реплики.
// Надгробия упорядочиваются, чтобы одинаковые реплики давали одинаковые документы.
func FromSnapshot(s *models.Snapshot, revision int64, updatedAt time.Time) *api.Document {
	doc := &api.Document{
		Schema:           api.SchemaVersion,
		Revision:         revision,
		UpdatedAt:        updatedAt.UTC(),
		Counters:         make([]api.Counter, 0, len(s.Counters)),
		Tombstones:       make([]api.Tombstone, 0, len(s.Tombstones)),
		RecordTombstones: make([]api.RecordTombstone, 0, len(s.RecordTombstones)),
		Preferences: &api.Preferences{
			Theme:        s.Preferences.Theme,
			ShowArchived: s.Preferences.ShowArchived,
		},
	}

	for _, c := range s.Counters {
		records := make([]api.Record, 0, len(c.Records))
		for _, r := range c.Records {
			records = append(records, api.Record{TS: r.TS.UTC(), Delta: r.Delta, Note: r.Note})
		}
		doc.Counters = append(doc.Counters, api.Counter{
			ID:        c.ID,
			Name:      c.Name,
			Count:     c.Count,
			Records:   records,
			CreatedAt: c.CreatedAt.UTC(),
			UpdatedAt: c.UpdatedAt.UTC(),
			Archived:  c.Archived,
			Order:     c.Order,
		})
	}

	for _, t := range s.Tombstones {
		doc.Tombstones = append(doc.Tombstones, api.Tombstone{ID: t.ID, DeletedAt: t.DeletedAt.UTC()})
	}
	sortTombstones(doc.Tombstones)

	for _, t := range s.RecordTombstones {
		doc.RecordTombstones = append(doc.RecordTombstones, api.RecordTombstone{
			CounterID: t.CounterID,
			TS:        t.TS.UTC(),
			DeletedAt: t.DeletedAt.UTC(),
		})
	}
	sortRecordTombstones(doc.RecordTombstones)

	return doc
}

// ToSnapshot проверяет документ и преобразует его в реплику.
// Возвращает ошибку, оборачивающую ErrMalformed, если документ не прошел проверку.
func ToSnapshot(doc *api.Document) (*models.Snapshot, error) {
	if err := Validate(doc); err != nil {
		return nil, err
	}

	s := models.NewSnapshot()
	for _, dc := range doc.Counters {
		c := &models.Counter{
			ID:        dc.ID,
			Name:      dc.Name,
			CreatedAt: dc.CreatedAt.UTC(),
			UpdatedAt: dc.UpdatedAt.UTC(),
			Archived:  dc.Archived,
			Order:     dc.Order,
			Records:   make([]models.Record, 0, len(dc.Records)),
		}
		for _, r := range dc.Records {
			c.Records = append(c.Records, models.Record{TS: r.TS.UTC(), Delta: r.Delta, Note: r.Note})
		}
		// Count из документа не является авторитетным
		c.RecomputeCount()
		c.SortRecords()
		s.Counters = append(s.Counters, c)
	}

	for _, t := range doc.Tombstones {
		if existing, ok := s.Tombstones[t.ID]; ok && !t.DeletedAt.After(existing.DeletedAt) {
			continue
		}
		s.Tombstones[t.ID] = models.Tombstone{ID: t.ID, DeletedAt: t.DeletedAt.UTC()}
	}
	for _, t := range doc.RecordTombstones {
		rt := models.RecordTombstone{CounterID: t.CounterID, TS: t.TS.UTC(), DeletedAt: t.DeletedAt.UTC()}
		if existing, ok := s.RecordTombstones[rt.Key()]; ok && !rt.DeletedAt.After(existing.DeletedAt) {
			continue
		}
		s.RecordTombstones[rt.Key()] = rt
	}

	if doc.Preferences != nil {
		s.Preferences = models.Preferences{
			Theme:        doc.Preferences.Theme,
			ShowArchived: doc.Preferences.ShowArchived,
		}
	}

	return s, nil
}
