package document

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iudanet/tallykeeper/internal/crypto"
	"github.com/iudanet/tallykeeper/pkg/api"
)

var (
	// ErrPassphraseRequired документ зашифрован, а пароль не задан
	ErrPassphraseRequired = errors.New("document is sealed, passphrase required")
	// ErrWrongPassphrase не удалось расшифровать документ заданным паролем
	ErrWrongPassphrase = errors.New("cannot open sealed document: wrong passphrase")
)

// Codec кодирует документ для удаленного хранилища.
// Если задан пароль, содержимое шифруется, а в открытом виде остаются
// только версия схемы, ревизия и время изменения.
type Codec struct {
	passphrase string
}

// NewCodec создает кодек. Пустой пароль отключает шифрование.
func NewCodec(passphrase string) *Codec {
	return &Codec{passphrase: passphrase}
}

// Sealed возвращает true, если кодек шифрует документы.
func (c *Codec) Sealed() bool {
	return c.passphrase != ""
}

// Encode сериализует документ в JSON.
func (c *Codec) Encode(doc *api.Document) ([]byte, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	if !c.Sealed() {
		return body, nil
	}

	salt, ciphertext, err := crypto.Seal(body, c.passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to seal document: %w", err)
	}

	envelope := &api.Document{
		Schema:    doc.Schema,
		Revision:  doc.Revision,
		UpdatedAt: doc.UpdatedAt,
		Sealed:    &api.SealedPayload{Salt: salt, Ciphertext: ciphertext},
	}
	out, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sealed document: %w", err)
	}
	return out, nil
}

// Decode разбирает и проверяет документ.
// Ошибки формата оборачивают ErrMalformed.
func (c *Codec) Decode(data []byte) (*api.Document, error) {
	var doc api.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := CheckSchema(doc.Schema); err != nil {
		return nil, err
	}

	if doc.Sealed != nil {
		opened, err := c.open(&doc)
		if err != nil {
			return nil, err
		}
		doc = *opened
	}

	if err := Validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Codec) open(envelope *api.Document) (*api.Document, error) {
	if !c.Sealed() {
		return nil, ErrPassphraseRequired
	}

	body, err := crypto.Open(envelope.Sealed.Salt, envelope.Sealed.Ciphertext, c.passphrase)
	if err != nil {
		if errors.Is(err, crypto.ErrDecrypt) {
			return nil, ErrWrongPassphrase
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var inner api.Document
	if err := json.Unmarshal(body, &inner); err != nil {
		return nil, fmt.Errorf("%w: sealed payload: %v", ErrMalformed, err)
	}
	if inner.Revision != envelope.Revision {
		return nil, fmt.Errorf("%w: envelope revision %d does not match payload revision %d",
			ErrMalformed, envelope.Revision, inner.Revision)
	}
	return &inner, nil
}
