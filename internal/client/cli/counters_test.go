package cli

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tallykeeper/internal/client/counters"
	"github.com/iudanet/tallykeeper/internal/models"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testCounter() *models.Counter {
	return &models.Counter{
		ID:        "3f2a9c1e-0000-4000-8000-000000000001",
		Name:      "Coffee",
		CreatedAt: t0,
		UpdatedAt: t0.Add(2 * time.Minute),
		Count:     3,
		Records: []models.Record{
			{TS: t0.Add(2 * time.Minute), Delta: 2, Note: "double"},
			{TS: t0.Add(time.Minute), Delta: 0, Note: "just a note"},
			{TS: t0, Delta: 1},
		},
	}
}

func resolvingService(counter *models.Counter) *counters.ServiceMock {
	return &counters.ServiceMock{
		ResolveFunc: func(ctx context.Context, ref string) (*models.Counter, error) {
			if ref == "coffee" || ref == counter.ID[:4] {
				return counter.Clone(), nil
			}
			return nil, fmt.Errorf("%w: %s", counters.ErrCounterNotFound, ref)
		},
	}
}

func TestCli_runAdd(t *testing.T) {
	ctx := context.Background()
	mockIO, out := newTestIO(true)
	svc := &counters.ServiceMock{
		AddFunc: func(ctx context.Context, name string) (*models.Counter, error) {
			return &models.Counter{ID: "abcdef0123456789", Name: name}, nil
		},
	}
	c := &Cli{io: mockIO, counters: svc}

	require.NoError(t, c.runAdd(ctx, "Water"))
	require.Len(t, svc.AddCalls(), 1)
	assert.Equal(t, "Water", svc.AddCalls()[0].Name)
	assert.Contains(t, out.String(), "Water")
	assert.Contains(t, out.String(), "abcdef01")
	assert.NotContains(t, out.String(), "abcdef0123")
}

func TestCli_runIncrement(t *testing.T) {
	ctx := context.Background()
	counter := testCounter()
	svc := resolvingService(counter)
	svc.IncrementFunc = func(ctx context.Context, id string, delta int, note string) (*models.Counter, error) {
		updated := counter.Clone()
		updated.Count += delta
		return updated, nil
	}
	mockIO, out := newTestIO(true)
	c := &Cli{io: mockIO, counters: svc}

	require.NoError(t, c.runIncrement(ctx, "coffee", 2, "morning"))

	call := svc.IncrementCalls()[0]
	assert.Equal(t, counter.ID, call.Id)
	assert.Equal(t, 2, call.Delta)
	assert.Equal(t, "morning", call.Note)
	assert.Contains(t, out.String(), "Coffee: 5 (+2)")
}

func TestCli_runIncrement_NotFound(t *testing.T) {
	mockIO, _ := newTestIO(true)
	svc := resolvingService(testCounter())
	c := &Cli{io: mockIO, counters: svc}

	err := c.runIncrement(context.Background(), "tea", 1, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "counter not found: tea")
	assert.Empty(t, svc.IncrementCalls())
}

func TestCli_runUndo_NothingToUndo(t *testing.T) {
	counter := testCounter()
	svc := resolvingService(counter)
	svc.UndoFunc = func(ctx context.Context, id string) (*models.Counter, bool, error) {
		return counter, false, nil
	}
	mockIO, out := newTestIO(true)
	c := &Cli{io: mockIO, counters: svc}

	require.NoError(t, c.runUndo(context.Background(), "coffee"))
	assert.Contains(t, out.String(), "Nothing to undo for Coffee")
}

func TestCli_runEditNote_ByHistoryNumber(t *testing.T) {
	counter := testCounter()
	svc := resolvingService(counter)
	svc.EditNoteFunc = func(ctx context.Context, id string, ts time.Time, note string) (*models.Counter, error) {
		return counter, nil
	}
	mockIO, _ := newTestIO(true)
	c := &Cli{io: mockIO, counters: svc}

	require.NoError(t, c.runEditNote(context.Background(), "coffee", "2", "edited"))

	call := svc.EditNoteCalls()[0]
	assert.True(t, call.Ts.Equal(t0.Add(time.Minute)))
	assert.Equal(t, "edited", call.Note)
}

func TestCli_runDeleteRecord_ByTimestamp(t *testing.T) {
	counter := testCounter()
	svc := resolvingService(counter)
	svc.DeleteRecordFunc = func(ctx context.Context, id string, ts time.Time) (*models.Counter, error) {
		return counter, nil
	}
	mockIO, _ := newTestIO(true)
	c := &Cli{io: mockIO, counters: svc}

	require.NoError(t, c.runDeleteRecord(context.Background(), "coffee", t0.Format(time.RFC3339Nano)))
	assert.True(t, svc.DeleteRecordCalls()[0].Ts.Equal(t0))
}

func TestParseRecordRef(t *testing.T) {
	counter := testCounter()

	tests := []struct {
		name    string
		ref     string
		want    time.Time
		wantErr bool
	}{
		{name: "latest", ref: "1", want: t0.Add(2 * time.Minute)},
		{name: "oldest", ref: "3", want: t0},
		{name: "out of range", ref: "4", wantErr: true},
		{name: "zero", ref: "0", wantErr: true},
		{name: "timestamp", ref: "2025-03-01T12:01:00Z", want: t0.Add(time.Minute)},
		{name: "garbage", ref: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRecordRef(counter, tt.ref)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestCli_runMove_InvalidDirection(t *testing.T) {
	svc := resolvingService(testCounter())
	mockIO, _ := newTestIO(true)
	c := &Cli{io: mockIO, counters: svc}

	err := c.runMove(context.Background(), "coffee", "sideways")
	require.Error(t, err)
	assert.Empty(t, svc.ResolveCalls())
}

func TestCli_runReorder_OneBased(t *testing.T) {
	counter := testCounter()
	svc := resolvingService(counter)
	svc.ReorderFunc = func(ctx context.Context, id string, position int) (*models.Counter, error) {
		updated := counter.Clone()
		updated.Order = position
		return updated, nil
	}
	mockIO, out := newTestIO(true)
	c := &Cli{io: mockIO, counters: svc}

	require.NoError(t, c.runReorder(context.Background(), "coffee", 3))
	assert.Equal(t, 2, svc.ReorderCalls()[0].Position)
	assert.Contains(t, out.String(), "position 3")

	assert.Error(t, c.runReorder(context.Background(), "coffee", 0))
}

func TestCli_runDelete(t *testing.T) {
	tests := []struct {
		name       string
		answer     bool
		wantDelete bool
		wantOutput string
	}{
		{name: "confirmed", answer: true, wantDelete: true, wantOutput: "Counter Coffee deleted"},
		{name: "cancelled", answer: false, wantDelete: false, wantOutput: "Deletion cancelled."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := resolvingService(testCounter())
			svc.DeleteFunc = func(ctx context.Context, id string) error {
				return nil
			}
			mockIO, out := newTestIO(tt.answer)
			c := &Cli{io: mockIO, counters: svc}

			require.NoError(t, c.runDelete(context.Background(), "coffee"))
			assert.Equal(t, tt.wantDelete, len(svc.DeleteCalls()) == 1)
			assert.Contains(t, out.String(), tt.wantOutput)
			assert.Contains(t, out.String(), "Records: 3")
		})
	}
}

func TestCli_runClear(t *testing.T) {
	svc := &counters.ServiceMock{
		ClearAllFunc: func(ctx context.Context) (int, error) {
			return 4, nil
		},
	}
	mockIO, out := newTestIO(true)
	c := &Cli{io: mockIO, counters: svc}

	require.NoError(t, c.runClear(context.Background()))
	assert.Contains(t, out.String(), "4 counters deleted")
	assert.Len(t, mockIO.ConfirmCalls(), 1)
}

func TestCli_runReset_Cancelled(t *testing.T) {
	svc := resolvingService(testCounter())
	mockIO, out := newTestIO(false)
	c := &Cli{io: mockIO, counters: svc}

	require.NoError(t, c.runReset(context.Background(), "coffee"))
	assert.Empty(t, svc.ResetCalls())
	assert.Contains(t, out.String(), "Reset cancelled.")
}
