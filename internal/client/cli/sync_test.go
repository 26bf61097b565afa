package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tallykeeper/internal/client/remote"
	"github.com/iudanet/tallykeeper/internal/client/sync"
)

// TestCli_runSync_Success проверяет вывод отчёта о синхронизации
func TestCli_runSync_Success(t *testing.T) {
	mockSync := &sync.ServiceMock{
		SyncFunc: func(ctx context.Context, force bool) (*sync.Result, error) {
			return &sync.Result{
				Outcome:  sync.OutcomeCompleted,
				Revision: 7,
				Wrote:    true,
				Pulled:   true,
				Retried:  true,
			}, nil
		},
	}
	mockIO, out := newTestIO(true)
	c := &Cli{io: mockIO, syncService: mockSync}

	require.NoError(t, c.runSync(context.Background(), true))

	require.Len(t, mockSync.SyncCalls(), 1)
	assert.True(t, mockSync.SyncCalls()[0].Force)

	output := out.String()
	assert.Contains(t, output, "=== Synchronization ===")
	assert.Contains(t, output, "Synchronization completed successfully!")
	assert.Contains(t, output, "Revision:           7")
	assert.Contains(t, output, "Pushed to remote:   yes")
	assert.Contains(t, output, "Conflict resolved:  yes")
	assert.NotContains(t, output, "run sync again")
}

func TestCli_runSync_Outcomes(t *testing.T) {
	tests := []struct {
		name   string
		result *sync.Result
		want   string
	}{
		{
			name:   "created remote",
			result: &sync.Result{Outcome: sync.OutcomeCreatedRemote, Revision: 1, Wrote: true},
			want:   "Remote document created from local data",
		},
		{
			name:   "up to date",
			result: &sync.Result{Outcome: sync.OutcomeCompleted, UpToDate: true, Revision: 3},
			want:   "Already up to date",
		},
		{
			name:   "cancelled",
			result: &sync.Result{Outcome: sync.OutcomeCancelled},
			want:   "Synchronization cancelled.",
		},
		{
			name:   "pending after sync",
			result: &sync.Result{Outcome: sync.OutcomeCompleted, Revision: 4, Wrote: true, Pending: true},
			want:   "run sync again",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSync := &sync.ServiceMock{
				SyncFunc: func(ctx context.Context, force bool) (*sync.Result, error) {
					return tt.result, nil
				},
			}
			mockIO, out := newTestIO(true)
			c := &Cli{io: mockIO, syncService: mockSync}

			require.NoError(t, c.runSync(context.Background(), false))
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestCli_runSync_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "not configured",
			err:  &sync.Error{Op: "sync", Code: sync.CodeConfigurationRequired, Err: sync.ErrNotConfigured},
			want: "remote is not configured",
		},
		{
			name: "unauthorized",
			err:  &sync.Error{Op: "sync", Code: sync.CodeUnauthorized, Err: remote.ErrUnauthorized},
			want: "access denied",
		},
		{
			name: "network",
			err:  &sync.Error{Op: "sync", Code: sync.CodeNetworkError, Err: remote.ErrNetwork},
			want: "local changes are kept",
		},
		{
			name: "conflict",
			err:  &sync.Error{Op: "sync", Code: sync.CodeConflictUnresolved, Err: remote.ErrConflict},
			want: "try again",
		},
		{
			name: "malformed",
			err:  &sync.Error{Op: "sync", Code: sync.CodeMalformedRemoteDocument, Err: errors.New("bad schema")},
			want: "bad schema",
		},
		{
			name: "plain error",
			err:  errors.New("disk full"),
			want: "disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSync := &sync.ServiceMock{
				SyncFunc: func(ctx context.Context, force bool) (*sync.Result, error) {
					return nil, tt.err
				},
			}
			mockIO, _ := newTestIO(true)
			c := &Cli{io: mockIO, syncService: mockSync}

			err := c.runSync(context.Background(), false)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "synchronization failed")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCli_runPushPull(t *testing.T) {
	mockSync := &sync.ServiceMock{
		PushFunc: func(ctx context.Context) (*sync.Result, error) {
			return &sync.Result{Outcome: sync.OutcomeCompleted, Revision: 8, Wrote: true}, nil
		},
		PullFunc: func(ctx context.Context) (*sync.Result, error) {
			return &sync.Result{Outcome: sync.OutcomeCancelled}, nil
		},
	}
	mockIO, out := newTestIO(true)
	c := &Cli{io: mockIO, syncService: mockSync}

	require.NoError(t, c.runPush(context.Background()))
	require.NoError(t, c.runPull(context.Background()))

	assert.Contains(t, out.String(), "Remote document replaced with local data (revision 8)")
	assert.Contains(t, out.String(), "Pull cancelled.")
}

func TestConfirmer_DelegatesToIO(t *testing.T) {
	mockIO, _ := newTestIO(false)
	confirmer := NewConfirmer(mockIO)

	ok, err := confirmer.Confirm(context.Background(), sync.ConfirmPush, "Overwrite remote?")
	require.NoError(t, err)
	assert.False(t, ok)
	require.Len(t, mockIO.ConfirmCalls(), 1)
	assert.Equal(t, "Overwrite remote?", mockIO.ConfirmCalls()[0].Prompt)
}
