package document

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tallykeeper/internal/merge"
	"github.com/iudanet/tallykeeper/internal/models"
	"github.com/iudanet/tallykeeper/pkg/api"
)

var t0 = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func at(sec int) time.Time {
	return t0.Add(time.Duration(sec) * time.Second)
}

func testSnapshot() *models.Snapshot {
	s := models.NewSnapshot()
	c := &models.Counter{
		ID:        "c1",
		Name:      "Coffee",
		CreatedAt: at(0),
		UpdatedAt: at(5),
		Records: []models.Record{
			{TS: at(1).Add(123 * time.Nanosecond), Delta: 1},
			{TS: at(2), Delta: 0, Note: "decaf"},
			{TS: at(3), Delta: 2, Note: "double"},
		},
	}
	c.RecomputeCount()
	c.SortRecords()
	archived := &models.Counter{ID: "c2", Name: "Old", CreatedAt: at(0), UpdatedAt: at(1), Archived: true, Order: 1}
	s.Counters = []*models.Counter{c, archived}
	s.Tombstones["gone"] = models.Tombstone{ID: "gone", DeletedAt: at(4)}
	rt := models.RecordTombstone{CounterID: "c1", TS: at(0), DeletedAt: at(3)}
	s.RecordTombstones[rt.Key()] = rt
	s.Preferences = models.Preferences{Theme: "pink", ShowArchived: true}
	return s
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := testSnapshot()

	doc := FromSnapshot(s, 7, at(10))
	assert.Equal(t, api.SchemaVersion, doc.Schema)
	assert.Equal(t, int64(7), doc.Revision)
	assert.Len(t, doc.Counters, 2)
	assert.Len(t, doc.Tombstones, 1)
	assert.Len(t, doc.RecordTombstones, 1)

	back, err := ToSnapshot(doc)
	require.NoError(t, err)
	assert.True(t, merge.Equal(s, back), merge.Diff(s, back))
	assert.Equal(t, s.Preferences, back.Preferences)
}

func TestToSnapshot_RecomputesCount(t *testing.T) {
	doc := FromSnapshot(testSnapshot(), 1, at(10))
	doc.Counters[0].Count = 99

	s, err := ToSnapshot(doc)
	require.NoError(t, err)

	c, _ := s.Find("c1")
	require.NotNil(t, c)
	assert.Equal(t, 3, c.Count)
}

func TestToSnapshot_DuplicateTombstones(t *testing.T) {
	tests := []struct {
		name       string
		tombstones []api.Tombstone
	}{
		{
			name:       "Later first",
			tombstones: []api.Tombstone{{ID: "x", DeletedAt: at(10)}, {ID: "x", DeletedAt: at(5)}},
		},
		{
			name:       "Later last",
			tombstones: []api.Tombstone{{ID: "x", DeletedAt: at(5)}, {ID: "x", DeletedAt: at(10)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := FromSnapshot(models.NewSnapshot(), 1, at(10))
			doc.Tombstones = tt.tombstones

			s, err := ToSnapshot(doc)
			require.NoError(t, err)
			require.Len(t, s.Tombstones, 1)
			assert.Equal(t, at(10), s.Tombstones["x"].DeletedAt)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *api.Document { return FromSnapshot(testSnapshot(), 1, at(10)) }

	tests := []struct {
		mutate func(d *api.Document)
		name   string
		ok     bool
	}{
		{name: "Valid document", mutate: func(d *api.Document) {}, ok: true},
		{name: "Minor schema bump accepted", mutate: func(d *api.Document) { d.Schema = "1.4.0" }, ok: true},
		{name: "Missing schema", mutate: func(d *api.Document) { d.Schema = "" }},
		{name: "Garbage schema", mutate: func(d *api.Document) { d.Schema = "one" }},
		{name: "Major schema bump", mutate: func(d *api.Document) { d.Schema = "2.0.0" }},
		{name: "Negative revision", mutate: func(d *api.Document) { d.Revision = -1 }},
		{name: "Counter without id", mutate: func(d *api.Document) { d.Counters[0].ID = "" }},
		{name: "Duplicate counter id", mutate: func(d *api.Document) { d.Counters[1].ID = d.Counters[0].ID }},
		{name: "Negative count", mutate: func(d *api.Document) { d.Counters[0].Count = -1 }},
		{name: "Counter without timestamps", mutate: func(d *api.Document) { d.Counters[0].CreatedAt = time.Time{} }},
		{name: "Negative delta", mutate: func(d *api.Document) { d.Counters[0].Records[0].Delta = -1 }},
		{name: "Record without ts", mutate: func(d *api.Document) { d.Counters[0].Records[0].TS = time.Time{} }},
		{name: "Duplicate record ts", mutate: func(d *api.Document) {
			d.Counters[0].Records[1].TS = d.Counters[0].Records[0].TS
		}},
		{name: "Tombstone without id", mutate: func(d *api.Document) { d.Tombstones[0].ID = "" }},
		{name: "Record tombstone without counter", mutate: func(d *api.Document) { d.RecordTombstones[0].CounterID = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid()
			tt.mutate(d)
			err := Validate(d)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}

	assert.ErrorIs(t, Validate(nil), ErrMalformed)
}

func TestCheckSchema_Unsupported(t *testing.T) {
	err := CheckSchema("3.1.0")
	assert.ErrorIs(t, err, ErrUnsupportedSchema)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestCodec_Plain(t *testing.T) {
	codec := NewCodec("")
	doc := FromSnapshot(testSnapshot(), 3, at(10))

	data, err := codec.Encode(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Coffee"`)

	decoded, err := codec.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, int64(3), decoded.Revision)
	assert.Len(t, decoded.Counters, 2)
}

func TestCodec_Sealed(t *testing.T) {
	codec := NewCodec("secret")
	doc := FromSnapshot(testSnapshot(), 4, at(10))

	data, err := codec.Encode(doc)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Coffee")

	// Ревизия и схема остаются открытыми
	var envelope api.Document
	require.NoError(t, json.Unmarshal(data, &envelope))
	assert.Equal(t, int64(4), envelope.Revision)
	require.NotNil(t, envelope.Sealed)

	decoded, err := codec.Decode(data)
	require.NoError(t, err)
	assert.Len(t, decoded.Counters, 2)

	_, err = NewCodec("").Decode(data)
	assert.ErrorIs(t, err, ErrPassphraseRequired)

	_, err = NewCodec("wrong").Decode(data)
	assert.ErrorIs(t, err, ErrWrongPassphrase)
}

func TestCodec_Decode_Malformed(t *testing.T) {
	codec := NewCodec("")

	tests := []struct {
		name string
		data string
	}{
		{name: "Not JSON", data: "<html>"},
		{name: "Wrong shape", data: `{"schema":"1.0.0","counters":"nope"}`},
		{name: "No schema", data: `{"counters":[]}`},
		{name: "Sealed without payload fields", data: `{"schema":"1.0.0","sealed":{"salt":"AA==","ciphertext":"AA=="}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Decode([]byte(tt.data))
			require.Error(t, err)
			if tt.name != "Sealed without payload fields" {
				assert.ErrorIs(t, err, ErrMalformed)
			} else {
				assert.ErrorIs(t, err, ErrPassphraseRequired)
			}
		})
	}
}

func TestMarshalUnmarshal_Formats(t *testing.T) {
	s := testSnapshot()
	doc := FromSnapshot(s, 2, at(10))

	for _, format := range []string{"json", "yaml", "yml", "toml"} {
		t.Run(format, func(t *testing.T) {
			data, err := Marshal(doc, format)
			require.NoError(t, err)

			parsed, err := Unmarshal(data, format)
			require.NoError(t, err)

			back, err := ToSnapshot(parsed)
			require.NoError(t, err)
			assert.True(t, merge.Equal(s, back), merge.Diff(s, back))
		})
	}
}

func TestNormalizeFormat(t *testing.T) {
	f, err := NormalizeFormat(".YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = NormalizeFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = NormalizeFormat("xml")
	assert.Error(t, err)
}

func TestUnmarshal_Legacy(t *testing.T) {
	legacy := `{
  "counters": [
    {
      "id": "id-abc",
      "name": "喝水",
      "count": 2,
      "history": [
        {"ts": "2025-01-02T10:00:00.000Z", "delta": 1, "note": "morning"},
        {"ts": "2025-01-02T10:00:00.000Z", "delta": 1, "note": ""},
        {"ts": "2025-01-01T09:00:00.000Z", "delta": -1},
        {"ts": "2025-01-01T08:00:00.000Z", "delta": 0, "note": "just a note"}
      ],
      "createdAt": "2025-01-01T00:00:00.000Z",
      "updatedAt": "2025-01-02T10:00:00.000Z"
    },
    {"id": "id-def", "name": "empty", "count": 0, "history": []}
  ],
  "ui": {"theme": "pink", "panel": {"x": null}}
}`

	doc, err := Unmarshal([]byte(legacy), "json")
	require.NoError(t, err)

	require.Len(t, doc.Counters, 2)
	first := doc.Counters[0]
	assert.Equal(t, "喝水", first.Name)
	assert.Len(t, first.Records, 3, "negative delta dropped")
	assert.Equal(t, 2, first.Count)
	assert.NotEqual(t, first.Records[0].TS, first.Records[1].TS, "colliding ts made unique")
	assert.Equal(t, 1, doc.Counters[1].Order)
	require.NotNil(t, doc.Preferences)
	assert.Equal(t, "pink", doc.Preferences.Theme)

	_, err = ToSnapshot(doc)
	assert.NoError(t, err)
}
