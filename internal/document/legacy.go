package document

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/iudanet/tallykeeper/pkg/api"
)

// legacyState формат экспорта старого веб-приложения
type legacyState struct {
	UI *struct {
		Theme string `json:"theme"`
	} `json:"ui"`
	Schema   string          `json:"schema"`
	Counters []legacyCounter `json:"counters"`
}

type legacyCounter struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
	History   []legacyHistory `json:"history"`
	Archived  bool            `json:"archived"`
}

type legacyHistory struct {
	TS    string `json:"ts"`
	Note  string `json:"note"`
	Delta int    `json:"delta"`
}

func isLegacy(data []byte) bool {
	var probe struct {
		Schema   string                       `json:"schema"`
		Counters []map[string]json.RawMessage `json:"counters"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	if probe.Schema != "" {
		return false
	}
	for _, c := range probe.Counters {
		if _, ok := c["history"]; ok {
			return true
		}
	}
	return false
}

// fromLegacy конвертирует старый экспорт в документ текущей схемы.
// Записи с отрицательным delta отбрасываются: отмена в новой модели
// выражается удалением записи.
func fromLegacy(data []byte, now time.Time) (*api.Document, error) {
	var state legacyState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	doc := &api.Document{
		Schema:    api.SchemaVersion,
		UpdatedAt: now,
		Counters:  make([]api.Counter, 0, len(state.Counters)),
	}
	if state.UI != nil {
		doc.Preferences = &api.Preferences{Theme: state.UI.Theme}
	}

	for i, lc := range state.Counters {
		if lc.ID == "" {
			return nil, fmt.Errorf("%w: legacy counter #%d has no id", ErrMalformed, i)
		}
		created := parseLegacyTime(lc.CreatedAt, now)
		c := api.Counter{
			ID:        lc.ID,
			Name:      lc.Name,
			CreatedAt: created,
			UpdatedAt: parseLegacyTime(lc.UpdatedAt, created),
			Archived:  lc.Archived,
			Order:     i,
			Records:   make([]api.Record, 0, len(lc.History)),
		}

		seen := make(map[int64]struct{}, len(lc.History))
		for _, h := range lc.History {
			if h.Delta < 0 {
				continue
			}
			ts, err := time.Parse(time.RFC3339Nano, h.TS)
			if err != nil {
				return nil, fmt.Errorf("%w: legacy record ts %q: %v", ErrMalformed, h.TS, err)
			}
			ts = ts.UTC()
			// Старое приложение хранило ts с точностью до миллисекунды,
			// совпадения сдвигаются на 1ns, чтобы ключи остались уникальными
			for {
				if _, dup := seen[ts.UnixNano()]; !dup {
					break
				}
				ts = ts.Add(time.Nanosecond)
			}
			seen[ts.UnixNano()] = struct{}{}

			c.Records = append(c.Records, api.Record{TS: ts, Delta: h.Delta, Note: h.Note})
			c.Count += h.Delta
		}
		doc.Counters = append(doc.Counters, c)
	}

	if err := Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func parseLegacyTime(value string, fallback time.Time) time.Time {
	if value == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return fallback
	}
	return t.UTC()
}
