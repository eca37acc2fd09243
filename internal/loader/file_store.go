package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// fileExtensions are tried in order when resolving an id.
var fileExtensions = []string{".json", ".yaml", ".yml"}

// FileStore reads room documents from a directory, one file per room named
// after the room id.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Fetch reads <dir>/<id>.json, .yaml or .yml.
func (s *FileStore) Fetch(ctx context.Context, id string) (Document, error) {
	if err := CheckID(id); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, ext := range fileExtensions {
		path := filepath.Join(s.dir, id+ext)

		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read room file %s: %w", path, err)
		}

		return Decode(data, strings.TrimPrefix(ext, "."))
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Put writes doc as indented JSON to <dir>/<id>.json.
func (s *FileStore) Put(ctx context.Context, id string, doc Document) error {
	if err := CheckID(id); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal room %s: %w", id, err)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create room directory: %w", err)
	}

	path := filepath.Join(s.dir, id+".json")
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write room file %s: %w", path, err)
	}

	return nil
}

// List returns the ids of every room file in the directory, sorted.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read room directory: %w", err)
	}

	seen := make(map[string]struct{})

	var ids []string

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if entry.IsDir() {
			continue
		}

		ext := filepath.Ext(entry.Name())
		if !isRoomExtension(ext) {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ext)
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids, nil
}

func isRoomExtension(ext string) bool {
	for _, e := range fileExtensions {
		if ext == e {
			return true
		}
	}

	return false
}

// ReadFile decodes a single room document by path, picking the format from
// the file extension.
func ReadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read room file %s: %w", path, err)
	}

	return Decode(data, strings.TrimPrefix(filepath.Ext(path), "."))
}
