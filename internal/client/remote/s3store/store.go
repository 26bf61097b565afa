// Package s3store хранит документ реплики как объект S3 (AWS, MinIO и совместимые).
// ETag объекта служит токеном версии, запись выполняется с условием IfMatch/IfNoneMatch.
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/iudanet/tallykeeper/internal/client/remote"
)

const backendName = "s3"

// maxDocumentSize ограничение на размер читаемого документа
const maxDocumentSize = 32 << 20

// Config параметры подключения
type Config struct {
	Endpoint        string // BaseEndpoint (MinIO); пусто для AWS
	Region          string
	Bucket          string
	Key             string
	AccessKeyID     string
	SecretAccessKey string
}

// Store документ в S3
type Store struct {
	client S3API
	bucket string
	key    string
}

var (
	_ remote.Store  = (*Store)(nil)
	_ remote.Pinger = (*Store)(nil)
)

// New создает клиент S3 из конфигурации.
// Статические ключи используются, если заданы; иначе стандартная цепочка AWS.
func New(ctx context.Context, cfg Config) (*Store, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// MinIO и большинство совместимых хранилищ требуют path-style адресацию
			o.UsePathStyle = true
		}
	})

	return NewWithClient(client, cfg.Bucket, cfg.Key), nil
}

// NewWithClient создает хранилище с готовым клиентом (используется в тестах).
func NewWithClient(client S3API, bucket, key string) *Store {
	return &Store{client: client, bucket: bucket, key: key}
}

// Get возвращает объект
func (s *Store) Get(ctx context.Context) (*remote.Fetched, error) {
	return s.get(ctx, "")
}

// GetIfChanged возвращает объект, если его ETag отличается от last
func (s *Store) GetIfChanged(ctx context.Context, last remote.VersionToken) (*remote.Fetched, error) {
	return s.get(ctx, last)
}

func (s *Store) get(ctx context.Context, last remote.VersionToken) (*remote.Fetched, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	}
	if !last.IsZero() {
		input.IfNoneMatch = aws.String(string(last))
	}

	out, err := s.client.GetObject(ctx, input)
	if err != nil {
		return nil, s.wrap(ctx, "get", err)
	}
	defer func() {
		_ = out.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(out.Body, maxDocumentSize))
	if err != nil {
		return nil, remote.Errorf(backendName, "get", s.key, remote.ErrNetwork, "read body: %v", err)
	}

	version := remote.VersionToken(aws.ToString(out.ETag))
	if version.IsZero() {
		return nil, remote.Errorf(backendName, "get", s.key, remote.ErrNetwork, "object has no ETag")
	}
	return &remote.Fetched{Body: body, Version: version}, nil
}

// Put записывает объект с условием на ETag
func (s *Store) Put(ctx context.Context, body []byte, expected remote.VersionToken) (remote.VersionToken, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}
	if expected.IsZero() {
		input.IfNoneMatch = aws.String("*")
	} else {
		input.IfMatch = aws.String(string(expected))
	}

	out, err := s.client.PutObject(ctx, input)
	if err != nil {
		return "", s.wrap(ctx, "put", err)
	}

	version := remote.VersionToken(aws.ToString(out.ETag))
	if version.IsZero() {
		return "", remote.Errorf(backendName, "put", s.key, remote.ErrNetwork, "response has no ETag")
	}
	return version, nil
}

// Ping проверяет доступ к bucket
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return s.wrap(ctx, "ping", err)
	}
	return nil
}

// Close ничего не делает: клиент SDK не держит ресурсов
func (s *Store) Close() error {
	return nil
}

// wrap переводит ошибки SDK в ошибки remote
func (s *Store) wrap(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return remote.NewError(backendName, op, s.bucket+"/"+s.key, classify(err))
}

// classify определяет sentinel по коду ошибки S3 или HTTP статусу
func classify(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return fmt.Errorf("%w: %v", remote.ErrNotFound, err)
		case "NotModified":
			return fmt.Errorf("%w: %v", remote.ErrNotModified, err)
		case "PreconditionFailed", "ConditionalRequestConflict":
			return fmt.Errorf("%w: %v", remote.ErrConflict, err)
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken", "Forbidden":
			return fmt.Errorf("%w: %v", remote.ErrUnauthorized, err)
		case "SlowDown", "TooManyRequests", "RequestLimitExceeded", "Throttling":
			return fmt.Errorf("%w: %v", remote.ErrRateLimited, err)
		}
	}

	var statusErr interface{ HTTPStatusCode() int }
	if errors.As(err, &statusErr) {
		switch status := statusErr.HTTPStatusCode(); {
		case status == 304:
			return fmt.Errorf("%w: %v", remote.ErrNotModified, err)
		case status == 404:
			return fmt.Errorf("%w: %v", remote.ErrNotFound, err)
		case status == 409 || status == 412:
			return fmt.Errorf("%w: %v", remote.ErrConflict, err)
		case status == 401 || status == 403:
			return fmt.Errorf("%w: %v", remote.ErrUnauthorized, err)
		case status == 429 || status == 503:
			return fmt.Errorf("%w: %v", remote.ErrRateLimited, err)
		}
	}

	return fmt.Errorf("%w: %v", remote.ErrNetwork, err)
}
