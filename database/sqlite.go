package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteFile is the database file name inside StoreConfig.BasePath.
const SQLiteFile = "notes.db"

// Keeps multi-row inserts below SQLITE_MAX_VARIABLE_NUMBER (999).
const batchSize = 200

// Ensure SQLiteStore implements Store at compile time.
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore keeps both collections in one sqlite3 database so that a commit
// is a single transaction. The database file is created on the first save.
type SQLiteStore struct {
	cfg StoreConfig
	db  *sql.DB
}

// NewSQLiteStore creates a SQLiteStore rooted at cfg.BasePath.
func NewSQLiteStore(cfg StoreConfig) *SQLiteStore {
	return &SQLiteStore{cfg: cfg}
}

func (s *SQLiteStore) path() string {
	return filepath.Join(s.cfg.BasePath, SQLiteFile)
}

// exists reports whether the database file is present and non-empty.
func (s *SQLiteStore) exists() (bool, error) {
	stat, err := os.Stat(s.path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, persistenceErr("stat", s.path(), err)
	}
	return stat.Size() > 0, nil
}

// connect opens the database and creates the tables if needed.
func (s *SQLiteStore) connect(ctx context.Context) (*sql.DB, error) {
	if s.db != nil {
		return s.db, nil
	}

	if err := os.MkdirAll(s.cfg.BasePath, 0o755); err != nil {
		return nil, persistenceErr("create", s.cfg.BasePath, err)
	}

	db, err := sql.Open("sqlite3", s.path())
	if err != nil {
		return nil, persistenceErr("open", s.path(), err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, persistenceErr("ping", s.path(), err)
	}

	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL`); err != nil {
		db.Close()
		return nil, persistenceErr("pragma", s.path(), err)
	}

	if err := createTables(ctx, db); err != nil {
		db.Close()
		return nil, persistenceErr("migrate", s.path(), err)
	}

	s.db = db
	return db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS files(
		position INTEGER NOT NULL,
		path TEXT NOT NULL UNIQUE
	)`)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS pages(
		position INTEGER NOT NULL,
		filename TEXT NOT NULL,
		page TEXT NOT NULL,
		path TEXT NOT NULL
	)`)
	return err
}

func (s *SQLiteStore) LoadIndexed(ctx context.Context) (*IndexedSet, error) {
	ok, err := s.exists()
	if err != nil || !ok {
		return NewIndexedSet(), err
	}

	db, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT path FROM files ORDER BY position`)
	if err != nil {
		return nil, persistenceErr("query", s.path(), err)
	}
	defer rows.Close()

	indexed := NewIndexedSet()
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, persistenceErr("scan", s.path(), err)
		}
		indexed.Add(path)
	}

	if err := rows.Err(); err != nil {
		return nil, persistenceErr("query", s.path(), err)
	}
	return indexed, nil
}

func (s *SQLiteStore) LoadPages(ctx context.Context) ([]PageRecord, error) {
	pages := []PageRecord{}

	ok, err := s.exists()
	if err != nil || !ok {
		return pages, err
	}

	db, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT filename, page, path FROM pages ORDER BY position`)
	if err != nil {
		return nil, persistenceErr("query", s.path(), err)
	}
	defer rows.Close()

	for rows.Next() {
		var page PageRecord
		if err := rows.Scan(&page.DisplayName, &page.Text, &page.SourcePath); err != nil {
			return nil, persistenceErr("scan", s.path(), err)
		}
		pages = append(pages, page)
	}

	if err := rows.Err(); err != nil {
		return nil, persistenceErr("query", s.path(), err)
	}
	return pages, nil
}

func (s *SQLiteStore) SaveIndexed(ctx context.Context, indexed *IndexedSet) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return replaceFiles(ctx, tx, indexed.Paths())
	})
}

func (s *SQLiteStore) SavePages(ctx context.Context, pages []PageRecord) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return replacePages(ctx, tx, pages)
	})
}

func (s *SQLiteStore) Commit(ctx context.Context, indexed *IndexedSet, pages []PageRecord) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := replacePages(ctx, tx, pages); err != nil {
			return err
		}
		return replaceFiles(ctx, tx, indexed.Paths())
	})
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	db, err := s.connect(ctx)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return persistenceErr("begin", s.path(), err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return persistenceErr("write", s.path(), err)
	}

	if err := tx.Commit(); err != nil {
		return persistenceErr("commit", s.path(), err)
	}
	return nil
}

func replaceFiles(ctx context.Context, tx *sql.Tx, paths []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM files`); err != nil {
		return err
	}

	for i := 0; i < len(paths); i += batchSize {
		end := min(i+batchSize, len(paths))
		placeholders, args := fileValueTuple(i, paths[i:end])
		query := fmt.Sprintf("INSERT INTO files (position, path) VALUES %s", placeholders)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return nil
}

func replacePages(ctx context.Context, tx *sql.Tx, pages []PageRecord) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM pages`); err != nil {
		return err
	}

	for i := 0; i < len(pages); i += batchSize {
		end := min(i+batchSize, len(pages))
		placeholders, args := pageValueTuple(i, pages[i:end])
		query := fmt.Sprintf("INSERT INTO pages (position, filename, page, path) VALUES %s", placeholders)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return nil
}

func fileValueTuple(offset int, paths []string) (string, []any) {
	tuples := make([]string, len(paths))
	args := make([]any, 0, 2*len(paths))
	for i, path := range paths {
		tuples[i] = "(?, ?)"
		args = append(args, offset+i, path)
	}
	return strings.Join(tuples, ","), args
}

func pageValueTuple(offset int, pages []PageRecord) (string, []any) {
	tuples := make([]string, len(pages))
	args := make([]any, 0, 4*len(pages))
	for i, page := range pages {
		tuples[i] = "(?, ?, ?, ?)"
		args = append(args, offset+i, page.DisplayName, page.Text, page.SourcePath)
	}
	return strings.Join(tuples, ","), args
}
