// Package merge объединяет две независимо измененные реплики счетчиков.
//
// Слияние не доверяет сохраненному Count: он всегда пересчитывается из
// объединенной истории. Удаление счетчика побеждает любые правки, сделанные
// раньше момента удаления, а надгробие записи скрывает ее на обеих сторонах.
package merge

import (
	"sort"

	"github.com/iudanet/tallykeeper/internal/models"
	"github.com/iudanet/tallykeeper/internal/tombstone"
)

// OrderPreference определяет, чей порядок счетчиков считается основным.
type OrderPreference int

const (
	// PreferLocal порядок локальной реплики (у устройства есть неотправленные изменения).
	PreferLocal OrderPreference = iota
	// PreferRemote порядок удаленной реплики.
	PreferRemote
)

func (p OrderPreference) String() string {
	if p == PreferRemote {
		return "remote"
	}
	return "local"
}

// Merge объединяет локальную и удаленную реплики.
// Входные реплики не изменяются. Настройки берутся из local без изменений.
func Merge(local, remote *models.Snapshot, pref OrderPreference) *models.Snapshot {
	ledger := tombstone.Merge(tombstone.FromSnapshot(local), tombstone.FromSnapshot(remote))

	localByID := index(local.Counters)
	remoteByID := index(remote.Counters)

	merged := make([]*models.Counter, 0, len(localByID)+len(remoteByID))
	seen := make(map[string]struct{}, len(localByID)+len(remoteByID))

	for _, lc := range local.Counters {
		if _, dup := seen[lc.ID]; dup {
			continue
		}
		seen[lc.ID] = struct{}{}

		var c *models.Counter
		if rc, ok := remoteByID[lc.ID]; ok {
			c = mergeBoth(lc, rc, ledger)
		} else {
			c = mergeOneSided(lc, ledger)
		}
		if c != nil {
			merged = append(merged, c)
		}
	}

	for _, rc := range remote.Counters {
		if _, dup := seen[rc.ID]; dup {
			continue
		}
		seen[rc.ID] = struct{}{}

		if c := mergeOneSided(rc, ledger); c != nil {
			merged = append(merged, c)
		}
	}

	preferred, fallback := local.Counters, remote.Counters
	if pref == PreferRemote {
		preferred, fallback = remote.Counters, local.Counters
	}
	applyOrder(merged, ranks(preferred), ranks(fallback))

	out := &models.Snapshot{
		Counters:    merged,
		Preferences: local.Preferences,
	}
	ledger.Apply(out)

	return out
}

// mergeOneSided обрабатывает счетчик, присутствующий только на одной стороне.
// Возвращает nil, если счетчик удален после своего последнего изменения.
func mergeOneSided(c *models.Counter, ledger *tombstone.Ledger) *models.Counter {
	if ledger.IsDeletedAfter(c.ID, c.UpdatedAt) {
		return nil
	}

	out := c.Clone()
	out.Records = unionRecords(c.ID, ledger, c.Records)
	out.RecomputeCount()
	out.SortRecords()

	return out
}

// mergeBoth объединяет две версии одного счетчика.
func mergeBoth(local, remote *models.Counter, ledger *tombstone.Ledger) *models.Counter {
	latest := local.UpdatedAt
	if remote.UpdatedAt.After(latest) {
		latest = remote.UpdatedAt
	}
	if ledger.IsDeletedAfter(local.ID, latest) {
		return nil
	}

	// При равенстве UpdatedAt основой считается локальная версия
	base, other := local, remote
	if remote.UpdatedAt.After(local.UpdatedAt) {
		base, other = remote, local
	}

	out := &models.Counter{
		ID:        base.ID,
		Name:      base.Name,
		Archived:  base.Archived,
		Order:     base.Order,
		CreatedAt: base.CreatedAt,
		UpdatedAt: latest,
		Records:   unionRecords(base.ID, ledger, base.Records, other.Records),
	}
	if other.CreatedAt.Before(out.CreatedAt) {
		out.CreatedAt = other.CreatedAt
	}
	out.RecomputeCount()
	out.SortRecords()

	return out
}

// unionRecords объединяет истории по ключу ts. Первая вставленная версия
// записи побеждает, удаленные записи пропускаются.
func unionRecords(counterID string, ledger *tombstone.Ledger, sides ...[]models.Record) []models.Record {
	size := 0
	for _, s := range sides {
		size += len(s)
	}

	byKey := make(map[int64]struct{}, size)
	out := make([]models.Record, 0, size)
	for _, records := range sides {
		for _, r := range records {
			key := r.Key()
			if _, exists := byKey[key]; exists {
				continue
			}
			if ledger.IsRecordDeleted(counterID, r.TS) {
				continue
			}
			byKey[key] = struct{}{}
			out = append(out, r)
		}
	}

	return out
}

// ranks строит карту ID -> позиция после стабильной сортировки стороны по Order.
// Позиция в массиве служит запасным ключом при равных Order.
func ranks(counters []*models.Counter) map[string]int {
	sorted := make([]*models.Counter, len(counters))
	copy(sorted, counters)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	out := make(map[string]int, len(sorted))
	for i, c := range sorted {
		if _, ok := out[c.ID]; !ok {
			out[c.ID] = i
		}
	}
	return out
}

// applyOrder сортирует счетчики по (уровень, ранг, ID) и назначает плотный Order.
// Уровень 0 - есть ранг на основной стороне, 1 - только на запасной.
func applyOrder(counters []*models.Counter, preferred, fallback map[string]int) {
	type key struct {
		tier int
		rank int
	}
	keys := make(map[string]key, len(counters))
	for _, c := range counters {
		if r, ok := preferred[c.ID]; ok {
			keys[c.ID] = key{tier: 0, rank: r}
			continue
		}
		if r, ok := fallback[c.ID]; ok {
			keys[c.ID] = key{tier: 1, rank: r}
			continue
		}
		keys[c.ID] = key{tier: 2}
	}

	sort.SliceStable(counters, func(i, j int) bool {
		a, b := keys[counters[i].ID], keys[counters[j].ID]
		if a.tier != b.tier {
			return a.tier < b.tier
		}
		if a.rank != b.rank {
			return a.rank < b.rank
		}
		return counters[i].ID < counters[j].ID
	})

	for i, c := range counters {
		c.Order = i
	}
}

func index(counters []*models.Counter) map[string]*models.Counter {
	out := make(map[string]*models.Counter, len(counters))
	for _, c := range counters {
		if _, ok := out[c.ID]; !ok {
			out[c.ID] = c
		}
	}
	return out
}
