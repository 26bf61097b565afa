// Package server собирает HTTP сервер документов: хранилище, маршруты и middleware.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/iudanet/tallykeeper/internal/server/auth"
	"github.com/iudanet/tallykeeper/internal/server/feed"
	"github.com/iudanet/tallykeeper/internal/server/handlers"
	"github.com/iudanet/tallykeeper/internal/server/middleware"
	"github.com/iudanet/tallykeeper/internal/server/storage"
	"github.com/iudanet/tallykeeper/internal/server/storage/postgres"
	"github.com/iudanet/tallykeeper/internal/server/storage/sqlite"
)

// Типы хранилища документов
const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

const healthPath = "/v1/health"

// Config параметры сервера
type Config struct {
	Addr       string
	Storage    string // sqlite | postgres
	DSN        string // путь к файлу sqlite или строка подключения postgres
	Version    string
	JWTSecret  []byte
	RateLimit  int // запросов за RateWindow с одного IP, 0 отключает ограничение
	RateWindow time.Duration
}

// Server HTTP сервер документов
type Server struct {
	logger     *slog.Logger
	storage    storage.DocumentStorage
	limiter    *middleware.RateLimiter
	httpServer *http.Server
}

// OpenStorage открывает хранилище документов по типу из конфигурации
func OpenStorage(ctx context.Context, cfg Config) (storage.DocumentStorage, error) {
	switch cfg.Storage {
	case StorageSQLite, "":
		s, err := sqlite.New(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case StoragePostgres:
		s, err := postgres.New(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %q", cfg.Storage)
	}
}

// New создает сервер поверх готового хранилища
func New(cfg Config, documentStorage storage.DocumentStorage, logger *slog.Logger) (*Server, error) {
	if len(cfg.JWTSecret) == 0 {
		return nil, auth.ErrEmptySecret
	}

	s := &Server{
		logger:  logger,
		storage: documentStorage,
	}
	if cfg.RateLimit > 0 {
		window := cfg.RateWindow
		if window <= 0 {
			window = time.Minute
		}
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit, window, logger)
	}

	// Websocket соединения живут дольше запросов, их отменяем при Shutdown
	baseCtx, cancel := context.WithCancel(context.Background())
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(cfg),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	s.httpServer.RegisterOnShutdown(cancel)

	return s, nil
}

// Handler возвращает корневой handler сервера
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) routes(cfg Config) http.Handler {
	hub := feed.NewHub(s.logger)
	documents := handlers.NewDocumentHandler(s.logger, s.storage, hub)
	health := handlers.NewHealthHandler(s.logger, s.storage, cfg.Version)

	router := mux.NewRouter()
	// Ключ документа может содержать экранированный "/"
	router.UseEncodedPath()
	router.Use(middleware.RecoveryMiddleware(s.logger))
	router.Use(middleware.LoggingWithSkip(s.logger, []string{healthPath}))

	router.HandleFunc(healthPath, health.Health).Methods(http.MethodGet)

	api := router.PathPrefix("/v1/documents").Subrouter()
	if s.limiter != nil {
		api.Use(s.limiter.Middleware)
	}
	api.Use(middleware.AuthMiddleware(s.logger, auth.JWTConfig{Secret: cfg.JWTSecret}))
	api.HandleFunc("/{key}", documents.Get).Methods(http.MethodGet, http.MethodHead)
	api.HandleFunc("/{key}", documents.Put).Methods(http.MethodPut)
	api.HandleFunc("/{key}/watch", documents.Watch).Methods(http.MethodGet)

	return router
}

// Run слушает адрес до отмены ctx, затем корректно останавливает сервер
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server started", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return <-errCh
}

// Close освобождает rate limiter и хранилище
func (s *Server) Close() error {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	return s.storage.Close()
}
