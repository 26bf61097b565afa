// Package backends создает удаленное хранилище по настройкам синхронизации.
package backends

import (
	"context"
	"fmt"
	"strings"

	"github.com/iudanet/tallykeeper/internal/client/remote"
	"github.com/iudanet/tallykeeper/internal/client/remote/httpstore"
	"github.com/iudanet/tallykeeper/internal/client/remote/redisstore"
	"github.com/iudanet/tallykeeper/internal/client/remote/s3store"
	"github.com/iudanet/tallykeeper/internal/models"
)

// Open создает хранилище для cfg.Backend
func Open(ctx context.Context, cfg *models.SyncConfig) (remote.Store, error) {
	switch cfg.Backend {
	case models.BackendHTTP:
		return httpstore.New(httpstore.Config{
			Endpoint: cfg.Endpoint,
			Token:    cfg.Token,
			Key:      cfg.DocumentKey,
		}), nil
	case models.BackendS3:
		return s3store.New(ctx, s3store.Config{
			Endpoint:        cfg.Endpoint,
			Region:          cfg.Region,
			Bucket:          cfg.Bucket,
			Key:             cfg.DocumentKey,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
		})
	case models.BackendRedis:
		return redisstore.New(redisstore.Config{
			Addr:     strings.TrimPrefix(cfg.Endpoint, "redis://"),
			Password: cfg.Token,
			Key:      cfg.DocumentKey,
		}), nil
	default:
		return nil, fmt.Errorf("unknown sync backend %q", cfg.Backend)
	}
}
