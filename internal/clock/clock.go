// Package clock выдает строго возрастающие отметки времени для записей истории.
//
// Отметка времени записи является ее идентификатором внутри счетчика,
// поэтому две мутации никогда не должны получить одинаковый ts,
// даже если системные часы вернули одно и то же значение или пошли назад.
package clock

import (
	"sync"
	"time"
)

// Clock монотонные часы с наносекундной точностью.
type Clock struct {
	source func() time.Time // источник физического времени
	last   int64            // последняя выданная отметка, UnixNano
	mu     sync.Mutex       // мьютекс для потокобезопасности
}

// New создает часы поверх системного времени.
func New() *Clock {
	return &Clock{source: time.Now}
}

// NewWithSource создает часы с заданным источником времени.
// Используется для тестирования.
func NewWithSource(source func() time.Time) *Clock {
	return &Clock{source: source}
}

// Now возвращает отметку времени, строго большую любой ранее выданной.
// Результат в UTC и без монотонной составляющей, чтобы сравнение через Equal
// совпадало со сравнением после сериализации.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.source().UnixNano()
	if now <= c.last {
		now = c.last + 1
	}
	c.last = now

	return time.Unix(0, now).UTC()
}

// Observe учитывает отметку, полученную извне (например, из удаленной реплики).
// Следующий вызов Now вернет значение строго больше observed.
// Аналог Update в часах Лампорта: last = max(last, observed).
func (c *Clock) Observe(observed time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n := observed.UnixNano(); n > c.last {
		c.last = n
	}
}

// Last возвращает последнюю выданную или учтенную отметку.
func (c *Clock) Last() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return time.Unix(0, c.last).UTC()
}
