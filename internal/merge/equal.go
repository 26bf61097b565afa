package merge

import (
	"sort"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/iudanet/tallykeeper/internal/models"
)

var contentOptions = []cmp.Option{
	cmpopts.EquateEmpty(),
	cmpopts.IgnoreFields(models.Snapshot{}, "Preferences"),
}

// Equal сравнивает содержимое двух реплик: счетчики, истории и надгробия.
// Порядок элементов в срезах и настройки устройства не учитываются.
func Equal(a, b *models.Snapshot) bool {
	if a == nil || b == nil {
		return a == b
	}
	return cmp.Equal(canonical(a), canonical(b), contentOptions...)
}

// Diff возвращает читаемую разницу между репликами для логов отладки.
func Diff(a, b *models.Snapshot) string {
	return cmp.Diff(canonical(a), canonical(b), contentOptions...)
}

// canonical возвращает копию реплики с детерминированным порядком срезов.
func canonical(s *models.Snapshot) *models.Snapshot {
	c := s.Clone()
	sort.SliceStable(c.Counters, func(i, j int) bool {
		if c.Counters[i].Order != c.Counters[j].Order {
			return c.Counters[i].Order < c.Counters[j].Order
		}
		return c.Counters[i].ID < c.Counters[j].ID
	})
	for _, counter := range c.Counters {
		counter.SortRecords()
	}
	return c
}
