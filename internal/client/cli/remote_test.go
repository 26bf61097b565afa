package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tallykeeper/internal/client/replica"
	"github.com/iudanet/tallykeeper/internal/client/storage"
	"github.com/iudanet/tallykeeper/internal/models"
)

func newReplicaCli(t *testing.T) (*Cli, *replica.Store, *recorder) {
	t.Helper()
	store := replica.New(storage.NewMemoryStore(), time.Now)
	mockIO, out := newTestIO(true)
	return &Cli{io: mockIO, replica: store}, store, out
}

func TestCli_runRemoteSet(t *testing.T) {
	tests := []struct {
		name    string
		opts    RemoteOptions
		wantErr string
	}{
		{
			name: "http",
			opts: RemoteOptions{Backend: "http", Endpoint: "https://sync.example.com", DocumentKey: "family", Token: "secret"},
		},
		{
			name:    "http without scheme",
			opts:    RemoteOptions{Backend: "http", Endpoint: "sync.example.com", DocumentKey: "family"},
			wantErr: "no host",
		},
		{
			name: "s3 with bucket",
			opts: RemoteOptions{Backend: "s3", Bucket: "tally", DocumentKey: "family"},
		},
		{
			name:    "s3 without bucket",
			opts:    RemoteOptions{Backend: "s3", DocumentKey: "family"},
			wantErr: "bucket is required",
		},
		{
			name: "redis host port",
			opts: RemoteOptions{Backend: "redis", Endpoint: "localhost:6379", DocumentKey: "family"},
		},
		{
			name: "redis url",
			opts: RemoteOptions{Backend: "redis", Endpoint: "redis://localhost:6379", DocumentKey: "family"},
		},
		{
			name:    "redis without port",
			opts:    RemoteOptions{Backend: "redis", Endpoint: "localhost", DocumentKey: "family"},
			wantErr: "host:port",
		},
		{
			name:    "bad key",
			opts:    RemoteOptions{Backend: "http", Endpoint: "https://sync.example.com", DocumentKey: "a/b"},
			wantErr: "document key",
		},
		{
			name:    "unknown backend",
			opts:    RemoteOptions{Backend: "ftp", Endpoint: "ftp://example.com", DocumentKey: "family"},
			wantErr: "unknown backend",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			c, store, _ := newReplicaCli(t)

			err := c.runRemoteSet(ctx, tt.opts)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				cfg, err := store.LoadConfig(ctx)
				require.NoError(t, err)
				assert.False(t, cfg.IsConfigured())
				return
			}
			require.NoError(t, err)
			cfg, err := store.LoadConfig(ctx)
			require.NoError(t, err)
			assert.True(t, cfg.IsConfigured())
			assert.Equal(t, tt.opts.DocumentKey, cfg.DocumentKey)
		})
	}
}

func TestCli_runRemoteSet_ResetsSyncStateOnNewDocument(t *testing.T) {
	ctx := context.Background()
	c, store, _ := newReplicaCli(t)

	state, err := store.Update(ctx, func(s *models.Snapshot) error {
		s.Counters = append(s.Counters, &models.Counter{ID: "c1", Name: "Coffee"})
		return nil
	})
	require.NoError(t, err)
	_, err = store.Commit(ctx, replica.Commit{
		At:           time.Now(),
		Snapshot:     state.Snapshot,
		VersionToken: "v3",
		Revision:     3,
		Generation:   state.Meta.Generation,
	})
	require.NoError(t, err)

	opts := RemoteOptions{Backend: "http", Endpoint: "https://sync.example.com", DocumentKey: "family"}
	require.NoError(t, c.runRemoteSet(ctx, opts))

	state, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, state.Meta.VersionToken)
	assert.Zero(t, state.Meta.Revision)
	assert.True(t, state.Meta.Pending)
}

func TestCli_runRemoteSet_Passphrase(t *testing.T) {
	ctx := context.Background()
	opts := RemoteOptions{
		Backend:     "http",
		Endpoint:    "https://sync.example.com",
		DocumentKey: "family",
		Encrypt:     true,
	}

	t.Run("from env", func(t *testing.T) {
		t.Setenv(EnvPassphrase, "correct horse battery")
		c, store, _ := newReplicaCli(t)

		require.NoError(t, c.runRemoteSet(ctx, opts))
		cfg, err := store.LoadConfig(ctx)
		require.NoError(t, err)
		assert.Equal(t, "correct horse battery", cfg.Passphrase)
	})

	t.Run("from file", func(t *testing.T) {
		t.Setenv(EnvPassphrase, "")
		path := filepath.Join(t.TempDir(), "passphrase")
		require.NoError(t, os.WriteFile(path, []byte("file passphrase ok\n"), 0o600))
		c, store, _ := newReplicaCli(t)

		withFile := opts
		withFile.Passphrase = Passphrases{FromFile: path}
		require.NoError(t, c.runRemoteSet(ctx, withFile))
		cfg, err := store.LoadConfig(ctx)
		require.NoError(t, err)
		assert.Equal(t, "file passphrase ok", cfg.Passphrase)
	})

	t.Run("too short", func(t *testing.T) {
		t.Setenv(EnvPassphrase, "")
		c, _, _ := newReplicaCli(t)

		short := opts
		short.Passphrase = Passphrases{FromArgs: "short"}
		err := c.runRemoteSet(ctx, short)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least")
	})
}

func TestCli_runRemoteShow(t *testing.T) {
	ctx := context.Background()
	c, store, out := newReplicaCli(t)

	require.NoError(t, c.runRemoteShow(ctx))
	assert.Contains(t, out.String(), "Remote is not configured.")

	require.NoError(t, store.SaveConfig(ctx, &models.SyncConfig{
		Backend:     models.BackendHTTP,
		Endpoint:    "https://sync.example.com",
		DocumentKey: "family",
		Token:       "supersecret",
	}))
	require.NoError(t, c.runRemoteShow(ctx))
	assert.Contains(t, out.String(), "Endpoint:  https://sync.example.com")
	assert.Contains(t, out.String(), "Token:     su******et")
	assert.NotContains(t, out.String(), "supersecret")
}

func TestCli_runRemoteUnset(t *testing.T) {
	ctx := context.Background()
	c, store, _ := newReplicaCli(t)
	require.NoError(t, c.runRemoteSet(ctx, RemoteOptions{Backend: "redis", Endpoint: "localhost:6379", DocumentKey: "family"}))

	require.NoError(t, c.runRemoteUnset(ctx))

	cfg, err := store.LoadConfig(ctx)
	require.NoError(t, err)
	assert.False(t, cfg.IsConfigured())
}
