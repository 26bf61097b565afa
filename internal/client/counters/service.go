// Package counters реализует локальные операции над счетчиками.
//
// Каждая операция изменяет локальную реплику и сообщает трекеру о том,
// что реплика требует синхронизации.
package counters

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/tallykeeper/internal/client/replica"
	"github.com/iudanet/tallykeeper/internal/clock"
	"github.com/iudanet/tallykeeper/internal/document"
	"github.com/iudanet/tallykeeper/internal/merge"
	"github.com/iudanet/tallykeeper/internal/models"
	"github.com/iudanet/tallykeeper/internal/tombstone"
	"github.com/iudanet/tallykeeper/internal/validation"
)

// Errors
var (
	ErrCounterNotFound = errors.New("counter not found")
	ErrAmbiguousRef    = errors.New("counter reference is ambiguous")
	ErrRecordNotFound  = errors.New("record not found")
	ErrInvalidDelta    = errors.New("delta must be positive")
)

// errNoop операция ничего не изменила, реплика не сохраняется
var errNoop = errors.New("no changes")

// minPrefixLen минимальная длина префикса ID для поиска счетчика
const minPrefixLen = 4

// Direction направление перемещения счетчика
type Direction string

const (
	MoveUp     Direction = "up"
	MoveDown   Direction = "down"
	MoveTop    Direction = "top"
	MoveBottom Direction = "bottom"
)

// ParseDirection разбирает направление перемещения
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(s)); d {
	case MoveUp, MoveDown, MoveTop, MoveBottom:
		return d, nil
	default:
		return "", fmt.Errorf("unknown direction %q (up, down, top, bottom)", s)
	}
}

// Notifier получает уведомление о каждой локальной мутации
type Notifier interface {
	MarkDirty()
}

// ImportResult итог импорта
type ImportResult struct {
	Imported int // счетчиков в импортируемом документе
	Added    int // новых счетчиков в реплике
	Total    int // счетчиков в реплике после импорта
	Replaced bool
}

//go:generate moq -out service_mock.go . Service

// Service определяет интерфейс для работы со счетчиками
type Service interface {
	List(ctx context.Context, includeArchived bool) ([]*models.Counter, error)
	Resolve(ctx context.Context, ref string) (*models.Counter, error)

	Add(ctx context.Context, name string) (*models.Counter, error)
	Increment(ctx context.Context, id string, delta int, note string) (*models.Counter, error)
	AddNote(ctx context.Context, id, note string) (*models.Counter, error)
	Undo(ctx context.Context, id string) (*models.Counter, bool, error)
	EditNote(ctx context.Context, id string, ts time.Time, note string) (*models.Counter, error)
	DeleteRecord(ctx context.Context, id string, ts time.Time) (*models.Counter, error)
	Rename(ctx context.Context, id, name string) (*models.Counter, error)
	SetArchived(ctx context.Context, id string, archived bool) (*models.Counter, error)
	Move(ctx context.Context, id string, dir Direction) (*models.Counter, error)
	Reorder(ctx context.Context, id string, position int) (*models.Counter, error)
	Reset(ctx context.Context, id string) (*models.Counter, error)
	Delete(ctx context.Context, id string) error
	ClearAll(ctx context.Context) (int, error)

	Export(ctx context.Context, format string) ([]byte, error)
	Import(ctx context.Context, data []byte, format string, replace bool) (*ImportResult, error)

	Preferences(ctx context.Context) (models.Preferences, error)
	SetPreferences(ctx context.Context, fn func(p *models.Preferences)) error
}

type service struct {
	replica  *replica.Store
	clock    *clock.Clock
	notifier Notifier
}

// NewService creates a new counters service. notifier может быть nil.
func NewService(store *replica.Store, clk *clock.Clock, notifier Notifier) Service {
	return &service{
		replica:  store,
		clock:    clk,
		notifier: notifier,
	}
}

// List возвращает счетчики в порядке отображения
func (s *service) List(ctx context.Context, includeArchived bool) ([]*models.Counter, error) {
	state, err := s.replica.Load(ctx)
	if err != nil {
		return nil, err
	}
	snapshot := state.Snapshot
	snapshot.Renumber()
	if includeArchived {
		return snapshot.Counters, nil
	}
	return snapshot.Active(), nil
}

// Resolve находит счетчик по ID, уникальному префиксу ID или имени (без учета регистра)
func (s *service) Resolve(ctx context.Context, ref string) (*models.Counter, error) {
	state, err := s.replica.Load(ctx)
	if err != nil {
		return nil, err
	}
	return resolve(state.Snapshot, ref)
}

func resolve(snapshot *models.Snapshot, ref string) (*models.Counter, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrCounterNotFound
	}
	if c, _ := snapshot.Find(ref); c != nil {
		return c, nil
	}

	var matches []*models.Counter
	if len(ref) >= minPrefixLen {
		for _, c := range snapshot.Counters {
			if strings.HasPrefix(c.ID, ref) {
				matches = append(matches, c)
			}
		}
	}
	if len(matches) == 0 {
		for _, c := range snapshot.Counters {
			if strings.EqualFold(c.Name, ref) {
				matches = append(matches, c)
			}
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrCounterNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %q matches %d counters", ErrAmbiguousRef, ref, len(matches))
	}
}

// Add создает счетчик и ставит его первым в списке
func (s *service) Add(ctx context.Context, name string) (*models.Counter, error) {
	name, err := validation.CounterName(name)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	counter := &models.Counter{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		Records:   []models.Record{},
		Order:     -1,
	}

	err = s.update(ctx, func(snapshot *models.Snapshot) error {
		snapshot.Counters = append([]*models.Counter{counter}, snapshot.Counters...)
		snapshot.Renumber()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counter.Clone(), nil
}

// Increment добавляет запись с положительным приращением
func (s *service) Increment(ctx context.Context, id string, delta int, note string) (*models.Counter, error) {
	if delta <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDelta, delta)
	}
	note, err := validation.Note(note)
	if err != nil {
		return nil, err
	}
	return s.appendRecord(ctx, id, delta, note)
}

// AddNote добавляет запись-заметку без изменения значения счетчика
func (s *service) AddNote(ctx context.Context, id, note string) (*models.Counter, error) {
	note, err := validation.Note(note)
	if err != nil {
		return nil, err
	}
	if note == "" {
		return nil, fmt.Errorf("note cannot be empty")
	}
	return s.appendRecord(ctx, id, 0, note)
}

func (s *service) appendRecord(ctx context.Context, id string, delta int, note string) (*models.Counter, error) {
	return s.change(ctx, id, func(snapshot *models.Snapshot, c *models.Counter, now time.Time) error {
		c.Records = append(c.Records, models.Record{TS: now, Delta: delta, Note: note})
		c.SortRecords()
		c.RecomputeCount()
		return nil
	})
}

// Undo удаляет самую свежую запись с положительным приращением.
// Возвращает false, если отменять нечего.
func (s *service) Undo(ctx context.Context, id string) (*models.Counter, bool, error) {
	return s.mutate(ctx, id, func(snapshot *models.Snapshot, c *models.Counter, now time.Time) error {
		i := c.LatestPositive()
		if i < 0 {
			return errNoop
		}
		deleteRecord(snapshot, c, i, now)
		return nil
	})
}

// EditNote изменяет заметку записи
func (s *service) EditNote(ctx context.Context, id string, ts time.Time, note string) (*models.Counter, error) {
	note, err := validation.Note(note)
	if err != nil {
		return nil, err
	}
	return s.change(ctx, id, func(snapshot *models.Snapshot, c *models.Counter, now time.Time) error {
		i := c.FindRecord(ts)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrRecordNotFound, ts.Format(time.RFC3339Nano))
		}
		if c.Records[i].Note == note {
			return errNoop
		}
		c.Records[i].Note = note
		return nil
	})
}

// DeleteRecord удаляет запись истории, оставляя надгробие
func (s *service) DeleteRecord(ctx context.Context, id string, ts time.Time) (*models.Counter, error) {
	return s.change(ctx, id, func(snapshot *models.Snapshot, c *models.Counter, now time.Time) error {
		i := c.FindRecord(ts)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrRecordNotFound, ts.Format(time.RFC3339Nano))
		}
		deleteRecord(snapshot, c, i, now)
		return nil
	})
}

// Rename переименовывает счетчик
func (s *service) Rename(ctx context.Context, id, name string) (*models.Counter, error) {
	name, err := validation.CounterName(name)
	if err != nil {
		return nil, err
	}
	return s.change(ctx, id, func(snapshot *models.Snapshot, c *models.Counter, now time.Time) error {
		if c.Name == name {
			return errNoop
		}
		c.Name = name
		return nil
	})
}

// SetArchived архивирует или восстанавливает счетчик
func (s *service) SetArchived(ctx context.Context, id string, archived bool) (*models.Counter, error) {
	return s.change(ctx, id, func(snapshot *models.Snapshot, c *models.Counter, now time.Time) error {
		if c.Archived == archived {
			return errNoop
		}
		c.Archived = archived
		return nil
	})
}

// Move перемещает счетчик на одну позицию или к краю списка
func (s *service) Move(ctx context.Context, id string, dir Direction) (*models.Counter, error) {
	return s.change(ctx, id, func(snapshot *models.Snapshot, c *models.Counter, now time.Time) error {
		snapshot.Renumber()
		target := c.Order
		switch dir {
		case MoveUp:
			target--
		case MoveDown:
			target++
		case MoveTop:
			target = 0
		case MoveBottom:
			target = len(snapshot.Counters) - 1
		default:
			return fmt.Errorf("unknown direction %q", dir)
		}
		return moveTo(snapshot, c, target)
	})
}

// Reorder перемещает счетчик на позицию position (с нуля)
func (s *service) Reorder(ctx context.Context, id string, position int) (*models.Counter, error) {
	return s.change(ctx, id, func(snapshot *models.Snapshot, c *models.Counter, now time.Time) error {
		snapshot.Renumber()
		if position < 0 || position >= len(snapshot.Counters) {
			return fmt.Errorf("position %d is out of range [0, %d]", position, len(snapshot.Counters)-1)
		}
		return moveTo(snapshot, c, position)
	})
}

// moveTo перемещает счетчик в позицию target и переназначает плотный порядок.
// Позиция за пределами списка означает "ничего не делать".
func moveTo(snapshot *models.Snapshot, c *models.Counter, target int) error {
	if target < 0 || target >= len(snapshot.Counters) || target == c.Order {
		return errNoop
	}

	from := c.Order
	counters := append(snapshot.Counters[:from:from], snapshot.Counters[from+1:]...)
	counters = append(counters[:target:target], append([]*models.Counter{c}, counters[target:]...)...)
	for i, counter := range counters {
		counter.Order = i
	}
	snapshot.Counters = counters
	return nil
}

// Reset удаляет всю историю счетчика
func (s *service) Reset(ctx context.Context, id string) (*models.Counter, error) {
	return s.change(ctx, id, func(snapshot *models.Snapshot, c *models.Counter, now time.Time) error {
		if len(c.Records) == 0 {
			return errNoop
		}
		ledger := tombstone.FromSnapshot(snapshot)
		for _, r := range c.Records {
			ledger.MarkRecordDeleted(c.ID, r.TS, now)
		}
		ledger.Apply(snapshot)

		c.Records = []models.Record{}
		c.RecomputeCount()
		return nil
	})
}

// Delete удаляет счетчик, оставляя надгробие
func (s *service) Delete(ctx context.Context, id string) error {
	return s.update(ctx, func(snapshot *models.Snapshot) error {
		c, err := resolve(snapshot, id)
		if err != nil {
			return err
		}

		s.clock.Observe(c.UpdatedAt)
		ledger := tombstone.FromSnapshot(snapshot)
		ledger.MarkDeleted(c.ID, s.clock.Now())
		ledger.Apply(snapshot)

		_, i := snapshot.Find(c.ID)
		snapshot.Counters = append(snapshot.Counters[:i], snapshot.Counters[i+1:]...)
		snapshot.Renumber()
		return nil
	})
}

// ClearAll удаляет все счетчики. Возвращает число удаленных.
func (s *service) ClearAll(ctx context.Context) (int, error) {
	var removed int
	err := s.update(ctx, func(snapshot *models.Snapshot) error {
		if len(snapshot.Counters) == 0 {
			return errNoop
		}

		for _, c := range snapshot.Counters {
			s.clock.Observe(c.UpdatedAt)
		}
		now := s.clock.Now()
		ledger := tombstone.FromSnapshot(snapshot)
		for _, c := range snapshot.Counters {
			ledger.MarkDeleted(c.ID, now)
		}
		ledger.Apply(snapshot)

		removed = len(snapshot.Counters)
		snapshot.Counters = []*models.Counter{}
		return nil
	})
	if errors.Is(err, errNoop) {
		return 0, nil
	}
	return removed, err
}

// Export сериализует реплику в формате удаленного документа
func (s *service) Export(ctx context.Context, format string) ([]byte, error) {
	state, err := s.replica.Load(ctx)
	if err != nil {
		return nil, err
	}
	doc := document.FromSnapshot(state.Snapshot, state.Meta.Revision, s.clock.Now())
	doc.Preferences = nil
	return document.Marshal(doc, format)
}

// Import объединяет документ с локальной репликой (локальный порядок главный)
// или, при replace, полностью заменяет реплику.
func (s *service) Import(ctx context.Context, data []byte, format string, replace bool) (*ImportResult, error) {
	doc, err := document.Unmarshal(data, format)
	if err != nil {
		return nil, err
	}
	imported, err := document.ToSnapshot(doc)
	if err != nil {
		return nil, err
	}
	result := &ImportResult{Imported: len(imported.Counters), Replaced: replace}

	if replace {
		current, err := s.replica.Load(ctx)
		if err != nil {
			return nil, err
		}
		imported.Preferences = current.Snapshot.Preferences
		state, err := s.replica.Replace(ctx, imported, true)
		if err != nil {
			return nil, err
		}
		s.notify()
		result.Added = len(state.Snapshot.Counters)
		result.Total = len(state.Snapshot.Counters)
		return result, nil
	}

	err = s.update(ctx, func(snapshot *models.Snapshot) error {
		merged := merge.Merge(snapshot, imported, merge.PreferLocal)
		if merge.Equal(merged, snapshot) {
			return errNoop
		}
		before := len(snapshot.Counters)
		*snapshot = *merged
		result.Added = len(snapshot.Counters) - before
		return nil
	})
	if err != nil && !errors.Is(err, errNoop) {
		return nil, err
	}

	state, err := s.replica.Load(ctx)
	if err != nil {
		return nil, err
	}
	result.Total = len(state.Snapshot.Counters)
	return result, nil
}

// Preferences возвращает настройки устройства
func (s *service) Preferences(ctx context.Context) (models.Preferences, error) {
	state, err := s.replica.Load(ctx)
	if err != nil {
		return models.Preferences{}, err
	}
	return state.Snapshot.Preferences, nil
}

// SetPreferences изменяет настройки устройства. Синхронизация не требуется.
func (s *service) SetPreferences(ctx context.Context, fn func(p *models.Preferences)) error {
	return s.replica.UpdatePreferences(ctx, fn)
}

// mutate находит счетчик, применяет fn и обновляет UpdatedAt.
// Если fn возвращает errNoop, реплика не сохраняется и возвращается текущее состояние.
func (s *service) mutate(ctx context.Context, id string, fn func(snapshot *models.Snapshot, c *models.Counter, now time.Time) error) (*models.Counter, bool, error) {
	var result *models.Counter

	err := s.update(ctx, func(snapshot *models.Snapshot) error {
		c, err := resolve(snapshot, id)
		if err != nil {
			return err
		}
		// Новая запись не должна совпасть по ts с существующей
		s.clock.Observe(c.UpdatedAt)
		for _, r := range c.Records {
			s.clock.Observe(r.TS)
		}
		now := s.clock.Now()

		if err := fn(snapshot, c, now); err != nil {
			result = c.Clone()
			return err
		}
		c.UpdatedAt = now
		result = c.Clone()
		return nil
	})
	if errors.Is(err, errNoop) {
		return result, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return result, true, nil
}

// change вызывает mutate для операций, которым не важно, было ли изменение
func (s *service) change(ctx context.Context, id string, fn func(snapshot *models.Snapshot, c *models.Counter, now time.Time) error) (*models.Counter, error) {
	c, _, err := s.mutate(ctx, id, fn)
	return c, err
}

// update сохраняет мутацию и уведомляет трекер
func (s *service) update(ctx context.Context, fn func(snapshot *models.Snapshot) error) error {
	if _, err := s.replica.Update(ctx, fn); err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *service) notify() {
	if s.notifier != nil {
		s.notifier.MarkDirty()
	}
}

// deleteRecord удаляет запись i и добавляет надгробие
func deleteRecord(snapshot *models.Snapshot, c *models.Counter, i int, now time.Time) {
	ledger := tombstone.FromSnapshot(snapshot)
	ledger.MarkRecordDeleted(c.ID, c.Records[i].TS, now)
	ledger.Apply(snapshot)

	c.Records = append(c.Records[:i], c.Records[i+1:]...)
	c.RecomputeCount()
}
