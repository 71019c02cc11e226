// Package database persists the indexed-source set and the extracted page
// records between runs.
package database

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrPersistence is returned when a store cannot be read or written.
	ErrPersistence = errors.New("persistence error")

	// ErrLocked is returned when another process holds the data directory.
	ErrLocked = errors.New("data directory is locked by another process")
)

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// StoreConfig locates the persisted state on disk.
type StoreConfig struct {
	BasePath string // Directory holding the store files.
}

// Store loads and saves the two persisted collections.
// Saves overwrite the whole collection.
type Store interface {
	LoadIndexed(ctx context.Context) (*IndexedSet, error)
	LoadPages(ctx context.Context) ([]PageRecord, error)
	SaveIndexed(ctx context.Context, indexed *IndexedSet) error
	SavePages(ctx context.Context, pages []PageRecord) error

	// Commit persists both collections at the end of an indexing run.
	Commit(ctx context.Context, indexed *IndexedSet, pages []PageRecord) error

	Close() error
}

// Open returns the store for the named backend.
func Open(cfg StoreConfig, backend string) (Store, error) {
	switch backend {
	case "", BackendJSON:
		return NewJSONStore(cfg), nil
	case BackendSQLite:
		return NewSQLiteStore(cfg), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q (want %q or %q)", backend, BackendJSON, BackendSQLite)
	}
}

func persistenceErr(op, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %v", ErrPersistence, op, path, err)
}
