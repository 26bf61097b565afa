package tombstone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tallykeeper/internal/models"
)

var t0 = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func at(sec int) time.Time {
	return t0.Add(time.Duration(sec) * time.Second)
}

func TestMergeEntities(t *testing.T) {
	tests := []struct {
		a        map[string]models.Tombstone
		b        map[string]models.Tombstone
		expected map[string]time.Time
		name     string
	}{
		{
			name:     "Both empty",
			a:        nil,
			b:        nil,
			expected: map[string]time.Time{},
		},
		{
			name:     "Disjoint ids",
			a:        map[string]models.Tombstone{"e1": {ID: "e1", DeletedAt: at(1)}},
			b:        map[string]models.Tombstone{"e2": {ID: "e2", DeletedAt: at(2)}},
			expected: map[string]time.Time{"e1": at(1), "e2": at(2)},
		},
		{
			name:     "Later deletion in b wins",
			a:        map[string]models.Tombstone{"e1": {ID: "e1", DeletedAt: at(1)}},
			b:        map[string]models.Tombstone{"e1": {ID: "e1", DeletedAt: at(5)}},
			expected: map[string]time.Time{"e1": at(5)},
		},
		{
			name:     "Later deletion in a wins",
			a:        map[string]models.Tombstone{"e1": {ID: "e1", DeletedAt: at(7)}},
			b:        map[string]models.Tombstone{"e1": {ID: "e1", DeletedAt: at(3)}},
			expected: map[string]time.Time{"e1": at(7)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := MergeEntities(tt.a, tt.b)
			require.Len(t, merged, len(tt.expected))
			for id, want := range tt.expected {
				assert.True(t, merged[id].DeletedAt.Equal(want), "id %s", id)
			}

			// Порядок аргументов не влияет на результат
			reversed := MergeEntities(tt.b, tt.a)
			assert.Equal(t, merged, reversed)
		})
	}
}

func TestMergeEntities_DoesNotMutateInputs(t *testing.T) {
	a := map[string]models.Tombstone{"e1": {ID: "e1", DeletedAt: at(1)}}
	b := map[string]models.Tombstone{"e1": {ID: "e1", DeletedAt: at(2)}}

	merged := MergeEntities(a, b)
	merged["e3"] = models.Tombstone{ID: "e3"}

	assert.True(t, a["e1"].DeletedAt.Equal(at(1)))
	assert.Len(t, a, 1)
	assert.Len(t, b, 1)
}

func TestMergeRecords(t *testing.T) {
	k := models.NewRecordKey("e1", at(1))
	a := map[models.RecordKey]models.RecordTombstone{
		k: {CounterID: "e1", TS: at(1), DeletedAt: at(10)},
	}
	b := map[models.RecordKey]models.RecordTombstone{
		k: {CounterID: "e1", TS: at(1), DeletedAt: at(20)},
		models.NewRecordKey("e2", at(2)): {CounterID: "e2", TS: at(2), DeletedAt: at(3)},
	}

	merged := MergeRecords(a, b)

	require.Len(t, merged, 2)
	assert.True(t, merged[k].DeletedAt.Equal(at(20)))
	assert.Equal(t, merged, MergeRecords(b, a))
}

func TestLedger_MarkDeleted(t *testing.T) {
	l := New()

	assert.True(t, l.MarkDeleted("e1", at(5)), "first deletion should be recorded")
	assert.False(t, l.MarkDeleted("e1", at(3)), "older deletion should be ignored")
	assert.False(t, l.MarkDeleted("e1", at(5)), "equal deletion should be ignored")
	assert.True(t, l.MarkDeleted("e1", at(9)), "newer deletion should win")

	assert.True(t, l.Entities["e1"].DeletedAt.Equal(at(9)))
}

func TestLedger_IsDeletedAfter(t *testing.T) {
	l := New()
	l.MarkDeleted("e1", at(10))

	tests := []struct {
		ref      time.Time
		name     string
		id       string
		expected bool
	}{
		{name: "Unknown id", id: "e2", ref: at(0), expected: false},
		{name: "Deleted after ref", id: "e1", ref: at(5), expected: true},
		{name: "Deleted at ref (not strictly after)", id: "e1", ref: at(10), expected: false},
		{name: "Edited after deletion", id: "e1", ref: at(11), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, l.IsDeletedAfter(tt.id, tt.ref))
		})
	}
}

func TestLedger_Records(t *testing.T) {
	l := New()

	assert.True(t, l.MarkRecordDeleted("e1", at(1), at(10)))
	assert.False(t, l.MarkRecordDeleted("e1", at(1), at(9)))

	assert.True(t, l.IsRecordDeleted("e1", at(1)))
	assert.False(t, l.IsRecordDeleted("e1", at(2)))
	assert.False(t, l.IsRecordDeleted("e2", at(1)))

	records := []models.Record{
		{TS: at(3), Delta: 1},
		{TS: at(2), Delta: 0, Note: "note"},
		{TS: at(1), Delta: 1},
	}
	filtered := l.FilterRecords("e1", records)
	require.Len(t, filtered, 2)
	assert.True(t, filtered[0].TS.Equal(at(3)))
	assert.True(t, filtered[1].TS.Equal(at(2)))
}

func TestLedger_FromSnapshotAndApply(t *testing.T) {
	s := models.NewSnapshot()
	s.Tombstones["e1"] = models.Tombstone{ID: "e1", DeletedAt: at(1)}

	l := FromSnapshot(s)
	l.MarkDeleted("e2", at(2))

	// FromSnapshot копирует карты
	assert.Len(t, s.Tombstones, 1)

	l.Apply(s)
	assert.Len(t, s.Tombstones, 2)
}

func TestMerge(t *testing.T) {
	a := New()
	a.MarkDeleted("e1", at(1))
	a.MarkRecordDeleted("e3", at(1), at(2))

	b := New()
	b.MarkDeleted("e1", at(4))
	b.MarkDeleted("e2", at(3))

	m := Merge(a, b)

	assert.Len(t, m.Entities, 2)
	assert.True(t, m.Entities["e1"].DeletedAt.Equal(at(4)))
	assert.Len(t, m.Records, 1)
}
