package api

import "time"

// SchemaVersion текущая версия схемы документа реплики
const SchemaVersion = "1.0.0"

// Document представляет реплику в виде документа для удаленного хранилища,
// экспорта и импорта. Все поля модели данных переносятся без потерь.
type Document struct {
	UpdatedAt        time.Time         `json:"updated_at" yaml:"updated_at" toml:"updated_at"`
	Preferences      *Preferences      `json:"preferences,omitempty" yaml:"preferences,omitempty" toml:"preferences,omitempty"`
	Sealed           *SealedPayload    `json:"sealed,omitempty" yaml:"sealed,omitempty" toml:"sealed,omitempty"` // зашифрованное содержимое (если задан пароль)
	Schema           string            `json:"schema" yaml:"schema" toml:"schema"`                               // semver версия схемы
	Counters         []Counter         `json:"counters" yaml:"counters" toml:"counters"`
	Tombstones       []Tombstone       `json:"tombstones" yaml:"tombstones" toml:"tombstones"`
	RecordTombstones []RecordTombstone `json:"record_tombstones" yaml:"record_tombstones" toml:"record_tombstones"`
	Revision         int64             `json:"revision" yaml:"revision" toml:"revision"` // увеличивается при каждой успешной записи
}

// Counter представляет счетчик в документе
type Counter struct {
	CreatedAt time.Time `json:"created_at" yaml:"created_at" toml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at" toml:"updated_at"`
	ID        string    `json:"id" yaml:"id" toml:"id"`
	Name      string    `json:"name" yaml:"name" toml:"name"`
	Records   []Record  `json:"records" yaml:"records" toml:"records"`
	Count     int       `json:"count" yaml:"count" toml:"count"`
	Order     int       `json:"order" yaml:"order" toml:"order"`
	Archived  bool      `json:"archived" yaml:"archived" toml:"archived"`
}

// Record представляет запись истории счетчика
type Record struct {
	TS    time.Time `json:"ts" yaml:"ts" toml:"ts"`
	Note  string    `json:"note,omitempty" yaml:"note,omitempty" toml:"note,omitempty"`
	Delta int       `json:"delta" yaml:"delta" toml:"delta"`
}

// Tombstone отметка удаления счетчика
type Tombstone struct {
	DeletedAt time.Time `json:"deleted_at" yaml:"deleted_at" toml:"deleted_at"`
	ID        string    `json:"id" yaml:"id" toml:"id"`
}

// RecordTombstone отметка удаления записи истории
type RecordTombstone struct {
	TS        time.Time `json:"ts" yaml:"ts" toml:"ts"`
	DeletedAt time.Time `json:"deleted_at" yaml:"deleted_at" toml:"deleted_at"`
	CounterID string    `json:"counter_id" yaml:"counter_id" toml:"counter_id"`
}

// Preferences настройки устройства. Хранятся только в локальной реплике, в общий документ не пишутся
type Preferences struct {
	Theme        string `json:"theme,omitempty" yaml:"theme,omitempty" toml:"theme,omitempty"`
	ShowArchived bool   `json:"show_archived" yaml:"show_archived" toml:"show_archived"`
}

// SealedPayload зашифрованное содержимое документа.
// Ciphertext содержит nonce и данные AES-256-GCM (base64 при сериализации).
type SealedPayload struct {
	Salt       []byte `json:"salt" yaml:"salt" toml:"salt"`
	Ciphertext []byte `json:"ciphertext" yaml:"ciphertext" toml:"ciphertext"`
}
