package models

import (
	"sort"
	"time"
)

// Record представляет одну запись в истории счетчика.
// TS является ключом записи внутри счетчика: две записи с одинаковым TS
// считаются одной и той же логической записью.
type Record struct {
	TS    time.Time `json:"ts"`             // TS момент создания записи (уникален в пределах счетчика)
	Note  string    `json:"note,omitempty"` // Note необязательная заметка
	Delta int       `json:"delta"`          // Delta приращение: >0 увеличивает счетчик, 0 - только заметка
}

// Key возвращает ключ записи, используемый при слиянии и в надгробиях.
func (r Record) Key() int64 {
	return r.TS.UnixNano()
}

// Counter представляет счетчик пользователя с историей изменений.
// Count всегда вычисляется из Records и никогда не считается авторитетным при слиянии.
type Counter struct {
	CreatedAt time.Time `json:"created_at"` // CreatedAt время создания (не меняется)
	UpdatedAt time.Time `json:"updated_at"` // UpdatedAt время последнего изменения счетчика или его записей
	ID        string    `json:"id"`         // ID стабильный уникальный идентификатор (UUID)
	Name      string    `json:"name"`       // Name отображаемое имя
	Records   []Record  `json:"records"`    // Records история, по убыванию TS
	Count     int       `json:"count"`      // Count сумма положительных Delta
	Order     int       `json:"order"`      // Order плотный ранг 0..N-1
	Archived  bool      `json:"archived"`   // Archived скрыт из активного списка, но хранится
}

// RecomputeCount пересчитывает Count как сумму положительных приращений.
func (c *Counter) RecomputeCount() {
	c.Count = SumPositive(c.Records)
}

// SortRecords сортирует записи по убыванию TS (самые свежие первыми).
func (c *Counter) SortRecords() {
	sort.SliceStable(c.Records, func(i, j int) bool {
		return c.Records[i].TS.After(c.Records[j].TS)
	})
}

// FindRecord возвращает индекс записи с заданным TS или -1.
func (c *Counter) FindRecord(ts time.Time) int {
	key := ts.UnixNano()
	for i, r := range c.Records {
		if r.Key() == key {
			return i
		}
	}
	return -1
}

// LatestPositive возвращает индекс самой свежей записи с положительным Delta или -1.
func (c *Counter) LatestPositive() int {
	latest := -1
	for i, r := range c.Records {
		if r.Delta <= 0 {
			continue
		}
		if latest == -1 || r.TS.After(c.Records[latest].TS) {
			latest = i
		}
	}
	return latest
}

// Clone создает глубокую копию счетчика
func (c *Counter) Clone() *Counter {
	records := make([]Record, len(c.Records))
	copy(records, c.Records)

	return &Counter{
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		ID:        c.ID,
		Name:      c.Name,
		Records:   records,
		Count:     c.Count,
		Order:     c.Order,
		Archived:  c.Archived,
	}
}

// SumPositive возвращает сумму положительных приращений.
func SumPositive(records []Record) int {
	sum := 0
	for _, r := range records {
		if r.Delta > 0 {
			sum += r.Delta
		}
	}
	return sum
}
