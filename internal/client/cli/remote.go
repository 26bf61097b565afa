package cli

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/iudanet/tallykeeper/internal/models"
	"github.com/iudanet/tallykeeper/internal/validation"
)

// RemoteOptions параметры команды remote set
type RemoteOptions struct {
	Backend         string
	Endpoint        string
	Token           string
	DocumentKey     string
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Encrypt         bool
	Passphrase      Passphrases
	AutoSync        bool
}

func (c *Cli) runRemoteSet(ctx context.Context, opts RemoteOptions) error {
	cfg := &models.SyncConfig{
		Backend:         strings.ToLower(opts.Backend),
		Endpoint:        strings.TrimSpace(opts.Endpoint),
		Token:           opts.Token,
		DocumentKey:     opts.DocumentKey,
		Bucket:          opts.Bucket,
		Region:          opts.Region,
		AccessKeyID:     opts.AccessKeyID,
		SecretAccessKey: opts.SecretAccessKey,
		AutoSync:        opts.AutoSync,
	}
	if err := validateRemote(cfg); err != nil {
		return err
	}

	if opts.Encrypt {
		passphrase, err := c.getPassphrase(opts.Passphrase)
		if err != nil {
			return err
		}
		if err := validation.Passphrase(passphrase); err != nil {
			return err
		}
		cfg.Passphrase = passphrase
	}

	previous, err := c.replica.LoadConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load sync config: %w", err)
	}
	if err := c.replica.SaveConfig(ctx, cfg); err != nil {
		return fmt.Errorf("failed to save sync config: %w", err)
	}

	// Новый документ: известная версия удаленного документа больше не действительна
	if remoteChanged(previous, cfg) {
		if err := c.replica.ResetSyncState(ctx); err != nil {
			return fmt.Errorf("failed to reset sync state: %w", err)
		}
	}

	c.io.Printf("%s Remote configured: %s\n", RenderPass("✓"), describeRemote(cfg))
	c.io.Println("Run `tallykeeper sync` to synchronize.")
	return nil
}

func (c *Cli) runRemoteShow(ctx context.Context) error {
	cfg, err := c.replica.LoadConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load sync config: %w", err)
	}
	if !cfg.IsConfigured() {
		c.io.Println("Remote is not configured.")
		return nil
	}

	c.io.Println("=== Remote ===")
	c.io.Println()
	c.io.Printf("Backend:   %s\n", cfg.Backend)
	if cfg.Endpoint != "" {
		c.io.Printf("Endpoint:  %s\n", cfg.Endpoint)
	}
	if cfg.Bucket != "" {
		c.io.Printf("Bucket:    %s\n", cfg.Bucket)
	}
	if cfg.Region != "" {
		c.io.Printf("Region:    %s\n", cfg.Region)
	}
	c.io.Printf("Document:  %s\n", cfg.DocumentKey)
	c.io.Printf("Token:     %s\n", mask(cfg.Token))
	c.io.Printf("Encrypted: %s\n", yesNo(cfg.Passphrase != ""))
	c.io.Printf("Auto-sync: %s\n", yesNo(cfg.AutoSync))
	return nil
}

func (c *Cli) runRemoteUnset(ctx context.Context) error {
	if err := c.replica.SaveConfig(ctx, &models.SyncConfig{}); err != nil {
		return fmt.Errorf("failed to save sync config: %w", err)
	}
	if err := c.replica.ResetSyncState(ctx); err != nil {
		return fmt.Errorf("failed to reset sync state: %w", err)
	}
	c.io.Printf("%s Remote removed, data stays on this device\n", RenderPass("✓"))
	return nil
}

func validateRemote(cfg *models.SyncConfig) error {
	if err := validation.DocumentKey(cfg.DocumentKey); err != nil {
		return err
	}

	switch cfg.Backend {
	case models.BackendHTTP:
		return validation.Endpoint(cfg.Endpoint, "http", "https")
	case models.BackendS3:
		if cfg.Bucket == "" {
			return fmt.Errorf("bucket is required for s3 backend")
		}
		if cfg.Endpoint != "" {
			return validation.Endpoint(cfg.Endpoint, "http", "https")
		}
		return nil
	case models.BackendRedis:
		if strings.HasPrefix(cfg.Endpoint, "redis://") {
			return validation.Endpoint(cfg.Endpoint, "redis")
		}
		if _, _, err := net.SplitHostPort(cfg.Endpoint); err != nil {
			return fmt.Errorf("redis endpoint must be host:port: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown backend %q (http, s3, redis)", cfg.Backend)
	}
}

func remoteChanged(previous, next *models.SyncConfig) bool {
	if previous == nil {
		return true
	}
	return previous.Backend != next.Backend ||
		previous.Endpoint != next.Endpoint ||
		previous.Bucket != next.Bucket ||
		previous.DocumentKey != next.DocumentKey
}

func describeRemote(cfg *models.SyncConfig) string {
	switch cfg.Backend {
	case models.BackendS3:
		return fmt.Sprintf("s3://%s/%s", cfg.Bucket, cfg.DocumentKey)
	default:
		return fmt.Sprintf("%s %s (%s)", cfg.Backend, cfg.Endpoint, cfg.DocumentKey)
	}
}

func mask(secret string) string {
	if secret == "" {
		return "-"
	}
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:2] + strings.Repeat("*", 6) + secret[len(secret)-2:]
}
