package models

import "sort"

// Preferences настройки, локальные для устройства. Не участвуют в слиянии.
type Preferences struct {
	Theme        string `json:"theme,omitempty" yaml:"theme,omitempty" toml:"theme,omitempty"`
	ShowArchived bool   `json:"show_archived" yaml:"show_archived" toml:"show_archived"`
}

// Snapshot полная копия реплики: счетчики, надгробия и локальные настройки.
type Snapshot struct {
	Tombstones       map[string]Tombstone
	RecordTombstones map[RecordKey]RecordTombstone
	Preferences      Preferences
	Counters         []*Counter
}

// NewSnapshot создает пустую реплику.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Tombstones:       make(map[string]Tombstone),
		RecordTombstones: make(map[RecordKey]RecordTombstone),
		Counters:         []*Counter{},
	}
}

// Find возвращает счетчик и его индекс в Counters или (nil, -1).
func (s *Snapshot) Find(id string) (*Counter, int) {
	for i, c := range s.Counters {
		if c.ID == id {
			return c, i
		}
	}
	return nil, -1
}

// Renumber сортирует счетчики по Order (стабильно) и переназначает плотные ранги 0..N-1.
func (s *Snapshot) Renumber() {
	sort.SliceStable(s.Counters, func(i, j int) bool {
		return s.Counters[i].Order < s.Counters[j].Order
	})
	for i, c := range s.Counters {
		c.Order = i
	}
}

// Active возвращает неархивированные счетчики в порядке Order.
func (s *Snapshot) Active() []*Counter {
	result := make([]*Counter, 0, len(s.Counters))
	for _, c := range s.Counters {
		if !c.Archived {
			result = append(result, c)
		}
	}
	return result
}

// Clone создает глубокую копию реплики
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Tombstones:       make(map[string]Tombstone, len(s.Tombstones)),
		RecordTombstones: make(map[RecordKey]RecordTombstone, len(s.RecordTombstones)),
		Preferences:      s.Preferences,
		Counters:         make([]*Counter, 0, len(s.Counters)),
	}
	for id, t := range s.Tombstones {
		out.Tombstones[id] = t
	}
	for k, t := range s.RecordTombstones {
		out.RecordTombstones[k] = t
	}
	for _, c := range s.Counters {
		out.Counters = append(out.Counters, c.Clone())
	}
	return out
}
