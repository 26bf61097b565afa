// Package redisstore хранит документ реплики в хеше Redis.
//
// Хеш содержит поля body и version. Условная запись выполняется через
// WATCH/MULTI, после записи новая версия публикуется в канал документа.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/iudanet/tallykeeper/internal/client/remote"
)

const backendName = "redis"

const (
	fieldBody    = "body"
	fieldVersion = "version"
)

// Config параметры подключения
type Config struct {
	Addr     string // host:port
	Password string
	Key      string // ключ документа
	DB       int
}

// Store документ в Redis
type Store struct {
	client  *redis.Client
	key     string
	hashKey string
	channel string
}

var (
	_ remote.Store   = (*Store)(nil)
	_ remote.Pinger  = (*Store)(nil)
	_ remote.Watcher = (*Store)(nil)
)

// New создает клиент Redis. Соединение устанавливается лениво.
func New(cfg Config) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Store{
		client:  client,
		key:     cfg.Key,
		hashKey: "tallykeeper:doc:" + cfg.Key,
		channel: "tallykeeper:changes:" + cfg.Key,
	}
}

// Get возвращает документ
func (s *Store) Get(ctx context.Context) (*remote.Fetched, error) {
	values, err := s.client.HMGet(ctx, s.hashKey, fieldBody, fieldVersion).Result()
	if err != nil {
		return nil, s.wrap(ctx, "get", err)
	}

	body, _ := values[0].(string)
	version, _ := values[1].(string)
	if values[0] == nil || version == "" {
		return nil, remote.NewError(backendName, "get", s.key, remote.ErrNotFound)
	}
	return &remote.Fetched{Body: []byte(body), Version: remote.VersionToken(version)}, nil
}

// GetIfChanged сначала читает только версию, документ загружается при ее изменении
func (s *Store) GetIfChanged(ctx context.Context, last remote.VersionToken) (*remote.Fetched, error) {
	if !last.IsZero() {
		version, err := s.client.HGet(ctx, s.hashKey, fieldVersion).Result()
		switch {
		case errors.Is(err, redis.Nil):
			return nil, remote.NewError(backendName, "get", s.key, remote.ErrNotFound)
		case err != nil:
			return nil, s.wrap(ctx, "get", err)
		case remote.VersionToken(version) == last:
			return nil, remote.NewError(backendName, "get", s.key, remote.ErrNotModified)
		}
	}
	return s.Get(ctx)
}

// Put записывает документ, если текущая версия равна expected
func (s *Store) Put(ctx context.Context, body []byte, expected remote.VersionToken) (remote.VersionToken, error) {
	next := remote.VersionToken(uuid.NewString())

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, s.hashKey, fieldVersion).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if remote.VersionToken(current) != expected {
			return remote.ErrConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, s.hashKey, fieldBody, body, fieldVersion, string(next))
			pipe.Publish(ctx, s.channel, string(next))
			return nil
		})
		return err
	}, s.hashKey)

	switch {
	case err == nil:
		return next, nil
	case errors.Is(err, remote.ErrConflict), errors.Is(err, redis.TxFailedErr):
		return "", remote.NewError(backendName, "put", s.key, remote.ErrConflict)
	default:
		return "", s.wrap(ctx, "put", err)
	}
}

// Watch подписывается на канал изменений документа
func (s *Store) Watch(ctx context.Context, onChange func(version remote.VersionToken)) error {
	pubsub := s.client.Subscribe(ctx, s.channel)
	defer func() {
		_ = pubsub.Close()
	}()

	// Дожидаемся подтверждения подписки, чтобы сразу увидеть ошибку подключения
	if _, err := pubsub.Receive(ctx); err != nil {
		return s.wrap(ctx, "watch", err)
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return remote.Errorf(backendName, "watch", s.key, remote.ErrNetwork, "subscription closed")
			}
			onChange(remote.VersionToken(msg.Payload))
		}
	}
}

// Ping проверяет соединение с Redis
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return s.wrap(ctx, "ping", err)
	}
	return nil
}

// Close закрывает пул соединений
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) wrap(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return remote.NewError(backendName, op, s.key, classify(err))
}

func classify(err error) error {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "NOAUTH"), strings.HasPrefix(msg, "WRONGPASS"), strings.HasPrefix(msg, "NOPERM"):
		return fmt.Errorf("%w: %v", remote.ErrUnauthorized, err)
	default:
		return fmt.Errorf("%w: %v", remote.ErrNetwork, err)
	}
}
