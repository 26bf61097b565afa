package document

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"

	"github.com/iudanet/tallykeeper/pkg/api"
)

var (
	// ErrMalformed документ не прошел структурную проверку
	ErrMalformed = errors.New("malformed document")
	// ErrUnsupportedSchema версия схемы документа не поддерживается
	ErrUnsupportedSchema = fmt.Errorf("%w: unsupported schema version", ErrMalformed)
)

// supportedSchemas диапазон версий схемы, которые умеет читать клиент
var supportedSchemas = mustConstraint(">= 1.0.0, < 2.0.0")

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}

// CheckSchema проверяет, что версия схемы документа поддерживается.
func CheckSchema(schema string) error {
	if schema == "" {
		return fmt.Errorf("%w: schema version is missing", ErrMalformed)
	}
	v, err := semver.NewVersion(schema)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrMalformed, schema, err)
	}
	if !supportedSchemas.Check(v) {
		return fmt.Errorf("%w: %s", ErrUnsupportedSchema, schema)
	}
	return nil
}

// Validate проверяет структуру документа.
func Validate(doc *api.Document) error {
	if doc == nil {
		return fmt.Errorf("%w: empty document", ErrMalformed)
	}
	if err := CheckSchema(doc.Schema); err != nil {
		return err
	}
	if doc.Sealed != nil {
		return fmt.Errorf("%w: document is sealed", ErrMalformed)
	}
	if doc.Revision < 0 {
		return fmt.Errorf("%w: negative revision %d", ErrMalformed, doc.Revision)
	}

	ids := make(map[string]struct{}, len(doc.Counters))
	for i, c := range doc.Counters {
		if c.ID == "" {
			return fmt.Errorf("%w: counter #%d has no id", ErrMalformed, i)
		}
		if _, dup := ids[c.ID]; dup {
			return fmt.Errorf("%w: duplicate counter id %q", ErrMalformed, c.ID)
		}
		ids[c.ID] = struct{}{}

		if c.Count < 0 {
			return fmt.Errorf("%w: counter %q has negative count", ErrMalformed, c.ID)
		}
		if c.CreatedAt.IsZero() || c.UpdatedAt.IsZero() {
			return fmt.Errorf("%w: counter %q has no timestamps", ErrMalformed, c.ID)
		}

		seen := make(map[int64]struct{}, len(c.Records))
		for _, r := range c.Records {
			if r.TS.IsZero() {
				return fmt.Errorf("%w: counter %q has record without ts", ErrMalformed, c.ID)
			}
			if r.Delta < 0 {
				return fmt.Errorf("%w: counter %q has negative delta", ErrMalformed, c.ID)
			}
			key := r.TS.UnixNano()
			if _, dup := seen[key]; dup {
				return fmt.Errorf("%w: counter %q has duplicate record ts %s", ErrMalformed, c.ID, r.TS)
			}
			seen[key] = struct{}{}
		}
	}

	for _, t := range doc.Tombstones {
		if t.ID == "" || t.DeletedAt.IsZero() {
			return fmt.Errorf("%w: invalid tombstone", ErrMalformed)
		}
	}
	for _, t := range doc.RecordTombstones {
		if t.CounterID == "" || t.TS.IsZero() || t.DeletedAt.IsZero() {
			return fmt.Errorf("%w: invalid record tombstone", ErrMalformed)
		}
	}

	return nil
}

func sortTombstones(ts []api.Tombstone) {
	sort.Slice(ts, func(i, j int) bool { return ts[i].ID < ts[j].ID })
}

func sortRecordTombstones(ts []api.RecordTombstone) {
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].CounterID != ts[j].CounterID {
			return ts[i].CounterID < ts[j].CounterID
		}
		return ts[i].TS.Before(ts[j].TS)
	})
}
