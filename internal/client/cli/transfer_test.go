package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tallykeeper/internal/client/counters"
)

func TestFormatFor(t *testing.T) {
	assert.Equal(t, "toml", formatFor("backup.toml", ""))
	assert.Equal(t, "yml", formatFor("backup.yml", ""))
	assert.Equal(t, "json", formatFor("backup.txt", ""))
	assert.Equal(t, "json", formatFor("", ""))
	assert.Equal(t, "yaml", formatFor("backup.json", "yaml"))
}

func TestCli_runExport(t *testing.T) {
	svc := &counters.ServiceMock{
		ExportFunc: func(ctx context.Context, format string) ([]byte, error) {
			return []byte("schema_version: 1.0.0\n"), nil
		},
	}

	t.Run("stdout", func(t *testing.T) {
		mockIO, out := newTestIO(true)
		c := &Cli{io: mockIO, counters: svc}

		require.NoError(t, c.runExport(context.Background(), "", "yml"))
		assert.Equal(t, "schema_version: 1.0.0\n", string(out.written))
		assert.Equal(t, "yaml", svc.ExportCalls()[0].Format)
	})

	t.Run("file", func(t *testing.T) {
		mockIO, out := newTestIO(true)
		c := &Cli{io: mockIO, counters: svc}
		path := filepath.Join(t.TempDir(), "backup.yaml")

		require.NoError(t, c.runExport(context.Background(), path, ""))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "schema_version: 1.0.0\n", string(data))
		assert.Contains(t, out.String(), "Exported to")
	})

	t.Run("unknown format", func(t *testing.T) {
		mockIO, _ := newTestIO(true)
		c := &Cli{io: mockIO, counters: svc}
		assert.Error(t, c.runExport(context.Background(), "", "xml"))
	})
}

func TestCli_runImport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"schema_version":"1.0.0"}`), 0o600))

	newService := func() *counters.ServiceMock {
		return &counters.ServiceMock{
			ImportFunc: func(ctx context.Context, data []byte, format string, replace bool) (*counters.ImportResult, error) {
				return &counters.ImportResult{Imported: 3, Added: 2, Total: 5, Replaced: replace}, nil
			},
		}
	}

	t.Run("merge", func(t *testing.T) {
		svc := newService()
		mockIO, out := newTestIO(true)
		c := &Cli{io: mockIO, counters: svc}

		require.NoError(t, c.runImport(context.Background(), path, "", false))
		require.Len(t, svc.ImportCalls(), 1)
		assert.Equal(t, "json", svc.ImportCalls()[0].Format)
		assert.Empty(t, mockIO.ConfirmCalls())
		assert.Contains(t, out.String(), "New counters:   2")
		assert.Contains(t, out.String(), "Total counters: 5")
	})

	t.Run("replace declined", func(t *testing.T) {
		svc := newService()
		mockIO, out := newTestIO(false)
		c := &Cli{io: mockIO, counters: svc}

		require.NoError(t, c.runImport(context.Background(), path, "", true))
		assert.Empty(t, svc.ImportCalls())
		assert.Contains(t, out.String(), "Import cancelled.")
	})

	t.Run("replace confirmed", func(t *testing.T) {
		svc := newService()
		mockIO, out := newTestIO(true)
		c := &Cli{io: mockIO, counters: svc}

		require.NoError(t, c.runImport(context.Background(), path, "", true))
		assert.True(t, svc.ImportCalls()[0].Replace)
		assert.Contains(t, out.String(), "Local data replaced.")
	})

	t.Run("missing file", func(t *testing.T) {
		mockIO, _ := newTestIO(true)
		c := &Cli{io: mockIO, counters: newService()}
		assert.Error(t, c.runImport(context.Background(), filepath.Join(t.TempDir(), "nope.json"), "", false))
	})
}
