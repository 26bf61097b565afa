// Package cli команды tallykeeper-server: serve и token.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iudanet/tallykeeper/internal/logging"
	"github.com/iudanet/tallykeeper/internal/server"
	"github.com/iudanet/tallykeeper/internal/server/auth"
	"github.com/iudanet/tallykeeper/pkg/api"
)

// EnvPrefix префикс переменных окружения сервера
const EnvPrefix = "TALLYKEEPER_SERVER"

// Config keys
const (
	keyAddr       = "addr"
	keyStorage    = "storage"
	keyDSN        = "dsn"
	keyJWTSecret  = "jwt_secret"
	keyRateLimit  = "rate_limit"
	keyRateWindow = "rate_window"
	keyLogLevel   = "log_level"
	keyLogFormat  = "log_format"
	keyLogFile    = "log_file"
)

// minSecretLength минимальная длина секрета подписи токенов
const minSecretLength = 16

// NewRootCommand собирает дерево команд сервера
func NewRootCommand(version string) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "tallykeeper-server",
		Short:         "Versioned document store for tallykeeper sync",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("jwt-secret", "", "secret for signing access tokens (env "+EnvPrefix+"_JWT_SECRET)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", logging.FormatText, "log format: text, json")
	flags.String("log-file", "", "write logs to a rotated file instead of stderr")
	_ = v.BindPFlag(keyJWTSecret, flags.Lookup("jwt-secret"))
	_ = v.BindPFlag(keyLogLevel, flags.Lookup("log-level"))
	_ = v.BindPFlag(keyLogFormat, flags.Lookup("log-format"))
	_ = v.BindPFlag(keyLogFile, flags.Lookup("log-file"))

	root.AddCommand(serveCommand(v, version), tokenCommand(v))
	return root
}

func serveCommand(v *viper.Viper, version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the document server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, v, version)
		},
	}

	flags := cmd.Flags()
	flags.String("addr", ":8080", "listen address")
	flags.String("storage", server.StorageSQLite, "document storage: sqlite, postgres")
	flags.String("dsn", "tallykeeper-server.db", "sqlite file path or postgres connection string")
	flags.Int("rate-limit", 120, "requests per window from one IP, 0 disables the limit")
	flags.Duration("rate-window", time.Minute, "rate limit window")
	_ = v.BindPFlag(keyAddr, flags.Lookup("addr"))
	_ = v.BindPFlag(keyStorage, flags.Lookup("storage"))
	_ = v.BindPFlag(keyDSN, flags.Lookup("dsn"))
	_ = v.BindPFlag(keyRateLimit, flags.Lookup("rate-limit"))
	_ = v.BindPFlag(keyRateWindow, flags.Lookup("rate-window"))

	return cmd
}

func serve(ctx context.Context, v *viper.Viper, version string) error {
	cfg, err := serverConfig(v, version)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:  v.GetString(keyLogLevel),
		Format: v.GetString(keyLogFormat),
		File:   v.GetString(keyLogFile),
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Close()
	}()

	if cfg.Storage == server.StorageSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DSN), 0o700); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := server.OpenStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	srv, err := server.New(cfg, db, logger.Logger)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() {
		if err := srv.Close(); err != nil {
			logger.Error("Failed to close storage", "error", err)
		}
	}()

	logger.Info("Starting tallykeeper-server",
		"version", version,
		"storage", cfg.Storage,
		"rate_limit", cfg.RateLimit,
	)
	return srv.Run(ctx)
}

// serverConfig собирает server.Config из флагов и окружения
func serverConfig(v *viper.Viper, version string) (server.Config, error) {
	secret, err := jwtSecret(v)
	if err != nil {
		return server.Config{}, err
	}

	cfg := server.Config{
		Addr:       v.GetString(keyAddr),
		Storage:    v.GetString(keyStorage),
		DSN:        v.GetString(keyDSN),
		Version:    version,
		JWTSecret:  secret,
		RateLimit:  v.GetInt(keyRateLimit),
		RateWindow: v.GetDuration(keyRateWindow),
	}

	switch cfg.Storage {
	case server.StorageSQLite, server.StoragePostgres:
	default:
		return server.Config{}, fmt.Errorf("unknown storage type: %q", cfg.Storage)
	}
	if cfg.DSN == "" {
		return server.Config{}, errors.New("dsn is required")
	}
	if cfg.RateLimit < 0 {
		return server.Config{}, errors.New("rate limit cannot be negative")
	}

	return cfg, nil
}

func jwtSecret(v *viper.Viper) ([]byte, error) {
	secret := v.GetString(keyJWTSecret)
	if secret == "" {
		return nil, auth.ErrEmptySecret
	}
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d characters", minSecretLength)
	}
	return []byte(secret), nil
}

func tokenCommand(v *viper.Viper) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for a document namespace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := jwtSecret(v)
			if err != nil {
				return err
			}

			token, err := auth.GenerateAccessToken(auth.JWTConfig{Secret: secret}, subject, ttl)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !asJSON {
				_, err = fmt.Fprintln(out, token)
				return err
			}
			return json.NewEncoder(out).Encode(api.TokenResponse{
				AccessToken: token,
				Subject:     subject,
				ExpiresIn:   int64(ttl / time.Second),
			})
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "document namespace (e.g. user name)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime, 0 means no expiry")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print token as JSON")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
