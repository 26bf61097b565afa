package backends

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tallykeeper/internal/client/remote"
	"github.com/iudanet/tallykeeper/internal/client/remote/httpstore"
	"github.com/iudanet/tallykeeper/internal/client/remote/redisstore"
	"github.com/iudanet/tallykeeper/internal/client/remote/s3store"
	"github.com/iudanet/tallykeeper/internal/models"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		check func(t *testing.T, s remote.Store)
		cfg   models.SyncConfig
		name  string
	}{
		{
			name: "http",
			cfg:  models.SyncConfig{Backend: models.BackendHTTP, Endpoint: "http://localhost:8080", DocumentKey: "k"},
			check: func(t *testing.T, s remote.Store) {
				assert.IsType(t, &httpstore.Store{}, s)
				_, ok := s.(remote.Watcher)
				assert.True(t, ok)
			},
		},
		{
			name: "s3",
			cfg: models.SyncConfig{
				Backend: models.BackendS3, Endpoint: "http://127.0.0.1:9000", Bucket: "b", DocumentKey: "k",
				AccessKeyID: "minio", SecretAccessKey: "minio123",
			},
			check: func(t *testing.T, s remote.Store) {
				assert.IsType(t, &s3store.Store{}, s)
			},
		},
		{
			name: "redis",
			cfg:  models.SyncConfig{Backend: models.BackendRedis, Endpoint: "redis://localhost:6379", DocumentKey: "k"},
			check: func(t *testing.T, s remote.Store) {
				assert.IsType(t, &redisstore.Store{}, s)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, &tt.cfg)
			require.NoError(t, err)
			defer s.Close()
			tt.check(t, s)
		})
	}

	_, err := Open(ctx, &models.SyncConfig{Backend: "ftp"})
	assert.Error(t, err)
}
