package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/iudanet/tallykeeper/pkg/api"
)

// Форматы экспорта и импорта
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Formats список поддерживаемых форматов
var Formats = []string{FormatJSON, FormatYAML, FormatTOML}

// NormalizeFormat приводит имя формата к каноническому виду ("yml" -> "yaml").
func NormalizeFormat(format string) (string, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatTOML:
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unknown format %q (supported: %s)", format, strings.Join(Formats, ", "))
	}
}

// Marshal сериализует документ в заданном формате (для экспорта).
func Marshal(doc *api.Document, format string) ([]byte, error) {
	format, err := NormalizeFormat(format)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to encode toml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode json: %w", err)
		}
		return append(out, '\n'), nil
	}
}

// Unmarshal разбирает документ в заданном формате и проверяет его.
// JSON без версии схемы считается экспортом старого веб-приложения
// (counters[].history) и конвертируется.
func Unmarshal(data []byte, format string) (*api.Document, error) {
	format, err := NormalizeFormat(format)
	if err != nil {
		return nil, err
	}

	var doc api.Document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	default:
		if isLegacy(data) {
			return fromLegacy(data, time.Now().UTC())
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}

	if err := Validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
