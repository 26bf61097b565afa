package models

import "time"

// Backend типы удаленного хранилища документа
const (
	BackendHTTP  = "http"
	BackendS3    = "s3"
	BackendRedis = "redis"
)

// SyncConfig настройки синхронизации, хранятся в локальном key-value хранилище.
type SyncConfig struct {
	Backend         string `json:"backend"`                     // Backend http, s3 или redis
	Endpoint        string `json:"endpoint"`                    // Endpoint URL сервера, S3 endpoint или адрес Redis
	Token           string `json:"token,omitempty"`             // Token bearer токен (http) или пароль (redis)
	DocumentKey     string `json:"document_key"`                // DocumentKey имя документа / ключ объекта
	Bucket          string `json:"bucket,omitempty"`            // Bucket S3 bucket
	Region          string `json:"region,omitempty"`            // Region S3 region
	AccessKeyID     string `json:"access_key_id,omitempty"`     // AccessKeyID S3 access key
	SecretAccessKey string `json:"secret_access_key,omitempty"` // SecretAccessKey S3 secret key
	Passphrase      string `json:"passphrase,omitempty"`        // Passphrase если задан, документ шифруется
	AutoSync        bool   `json:"auto_sync"`                   // AutoSync синхронизировать после каждого изменения
}

// IsConfigured проверяет, что заданы минимально необходимые параметры.
func (c *SyncConfig) IsConfigured() bool {
	if c == nil || c.Backend == "" || c.DocumentKey == "" {
		return false
	}
	switch c.Backend {
	case BackendS3:
		return c.Bucket != ""
	default:
		return c.Endpoint != ""
	}
}

// SyncMetadata состояние синхронизации, хранится локально.
type SyncMetadata struct {
	LastSyncedAt time.Time `json:"last_synced_at"` // LastSyncedAt время последней успешной синхронизации
	VersionToken string    `json:"version_token"`  // VersionToken последний известный токен версии удаленного документа
	Revision     int64     `json:"revision"`       // Revision ревизия удаленного документа при последней синхронизации
	Generation   uint64    `json:"generation"`     // Generation счетчик локальных изменений
	Pending      bool      `json:"pending"`        // Pending есть несинхронизированные локальные изменения
}
