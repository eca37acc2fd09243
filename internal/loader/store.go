package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store errors.
var (
	ErrNotFound      = errors.New("room not found")
	ErrInvalidID     = errors.New("invalid room id")
	ErrDecode        = errors.New("failed to decode room document")
	ErrUnknownFormat = errors.New("unknown document format")
)

// Document is a raw room document as stored, before adaptation.
type Document = map[string]any

// Store resolves a room id to its raw document. Implementations return an
// error wrapping ErrNotFound when the id does not exist.
type Store interface {
	Fetch(ctx context.Context, id string) (Document, error)
}

// Writer is implemented by stores that can persist room documents.
type Writer interface {
	Put(ctx context.Context, id string, doc Document) error
}

// Lister is implemented by stores that can enumerate their room ids.
type Lister interface {
	List(ctx context.Context) ([]string, error)
}

// Pinger is implemented by stores with a connection health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CheckID rejects ids that cannot be used as a storage key.
func CheckID(id string) error {
	if strings.TrimSpace(id) == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	return nil
}

// Decode parses a JSON or YAML room document. format is "json", "yaml" or
// "yml"; an empty format is sniffed from the first non-space byte.
func Decode(data []byte, format string) (Document, error) {
	if format == "" {
		format = sniffFormat(data)
	}

	var doc Document

	switch strings.ToLower(format) {
	case "json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	if doc == nil {
		return nil, fmt.Errorf("%w: document is empty", ErrDecode)
	}

	return doc, nil
}

func sniffFormat(data []byte) string {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		return "json"
	}

	return "yaml"
}
