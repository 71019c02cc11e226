package database

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio"
)

// File names inside StoreConfig.BasePath.
const (
	ProcessedFile = "processed.json"
	PagesFile     = "pages_data.json"
)

// Ensure JSONStore implements Store at compile time.
var _ Store = (*JSONStore)(nil)

// JSONStore keeps each collection in its own JSON document.
// Files are created lazily on the first save.
type JSONStore struct {
	cfg StoreConfig
}

// NewJSONStore creates a JSONStore rooted at cfg.BasePath.
func NewJSONStore(cfg StoreConfig) *JSONStore {
	return &JSONStore{cfg: cfg}
}

func (s *JSONStore) path(name string) string {
	return filepath.Join(s.cfg.BasePath, name)
}

func (s *JSONStore) LoadIndexed(ctx context.Context) (*IndexedSet, error) {
	var paths []string
	if err := s.read(ProcessedFile, &paths); err != nil {
		return nil, err
	}
	return NewIndexedSet(paths...), nil
}

func (s *JSONStore) LoadPages(ctx context.Context) ([]PageRecord, error) {
	pages := []PageRecord{}
	if err := s.read(PagesFile, &pages); err != nil {
		return nil, err
	}
	if pages == nil {
		pages = []PageRecord{}
	}
	return pages, nil
}

func (s *JSONStore) SaveIndexed(ctx context.Context, indexed *IndexedSet) error {
	return s.write(ProcessedFile, indexed.Paths())
}

func (s *JSONStore) SavePages(ctx context.Context, pages []PageRecord) error {
	if pages == nil {
		pages = []PageRecord{}
	}
	return s.write(PagesFile, pages)
}

// Commit writes the page records before the indexed set. An interrupted
// commit therefore leaves orphan pages, never indexed sources without pages.
func (s *JSONStore) Commit(ctx context.Context, indexed *IndexedSet, pages []PageRecord) error {
	if err := s.SavePages(ctx, pages); err != nil {
		return err
	}
	return s.SaveIndexed(ctx, indexed)
}

func (s *JSONStore) Close() error {
	return nil
}

// read decodes the named file into v. Missing or blank files leave v untouched.
func (s *JSONStore) read(name string, v any) error {
	path := s.path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return persistenceErr("read", path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, v); err != nil {
		return persistenceErr("decode", path, err)
	}
	return nil
}

func (s *JSONStore) write(name string, v any) error {
	path := s.path(name)
	if err := os.MkdirAll(s.cfg.BasePath, 0o755); err != nil {
		return persistenceErr("create", s.cfg.BasePath, err)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return persistenceErr("encode", path, err)
	}

	// renameio writes to a temp file and renames it over path, so readers
	// see either the old document or the new one.
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return persistenceErr("write", path, err)
	}
	return nil
}
