package search

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/PublishedDoonk/notes-so/database"
	"github.com/PublishedDoonk/notes-so/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExtractor returns canned pages and records every call.
type fakeExtractor struct {
	mu    sync.Mutex
	pages map[string][]string
	fail  map[string]bool
	calls map[string]int
}

func newFakeExtractor() *fakeExtractor {
	return &fakeExtractor{
		pages: map[string][]string{},
		fail:  map[string]bool{},
		calls: map[string]int{},
	}
}

func (f *fakeExtractor) Pages(ctx context.Context, path string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[path]++
	if f.fail[path] {
		return nil, fmt.Errorf("%w: %s: corrupt xref table", pdf.ErrExtraction, path)
	}
	if pages, ok := f.pages[path]; ok {
		return pages, nil
	}
	return []string{"text of " + filepath.Base(path)}, nil
}

func (f *fakeExtractor) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func touch(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
	return path
}

type fixture struct {
	root      string
	store     database.Store
	extractor *fakeExtractor
	indexer   *Indexer
}

func newFixture(t *testing.T) *fixture {
	dir := t.TempDir()
	store := database.NewJSONStore(database.StoreConfig{BasePath: filepath.Join(dir, "data")})
	extractor := newFakeExtractor()
	return &fixture{
		root:      filepath.Join(dir, "PDF Resources"),
		store:     store,
		extractor: extractor,
		indexer:   NewIndexer(store, extractor, nil),
	}
}

func (f *fixture) state(t *testing.T) ([]string, []database.PageRecord) {
	t.Helper()
	indexed, err := f.store.LoadIndexed(context.Background())
	require.NoError(t, err)
	pages, err := f.store.LoadPages(context.Background())
	require.NoError(t, err)
	return indexed.Paths(), pages
}

func TestIndexer_Run(t *testing.T) {
	f := newFixture(t)
	bio := touch(t, filepath.Join(f.root, "cell_biology.pdf"))
	phys := touch(t, filepath.Join(f.root, "year2", "physics.pdf"))
	f.extractor.pages[bio] = []string{"membrane", "mitochondria"}

	stats, err := f.indexer.Run(context.Background(), f.root)
	require.NoError(t, err)
	assert.Equal(t, IndexStats{Discovered: 2, Extracted: 2, Pages: 3}, stats)

	indexed, pages := f.state(t)
	assert.Equal(t, []string{bio, phys}, indexed)
	assert.Equal(t, []database.PageRecord{
		{DisplayName: "Cell Biology - pg: 1", Text: "membrane", SourcePath: bio},
		{DisplayName: "Cell Biology - pg: 2", Text: "mitochondria", SourcePath: bio},
		{DisplayName: "Physics - pg: 1", Text: "text of physics.pdf", SourcePath: phys},
	}, pages)
}

func TestIndexer_Idempotent(t *testing.T) {
	f := newFixture(t)
	touch(t, filepath.Join(f.root, "a.pdf"))
	touch(t, filepath.Join(f.root, "sub", "b.pdf"))

	_, err := f.indexer.Run(context.Background(), f.root)
	require.NoError(t, err)
	firstIndexed, firstPages := f.state(t)

	stats, err := f.indexer.Run(context.Background(), f.root)
	require.NoError(t, err)
	secondIndexed, secondPages := f.state(t)

	assert.Equal(t, firstIndexed, secondIndexed)
	assert.Equal(t, firstPages, secondPages)
	assert.Equal(t, 2, f.extractor.totalCalls(), "indexed sources must not be re-extracted")
	assert.Equal(t, IndexStats{Discovered: 2, Skipped: 2, Pages: 2}, stats)
}

func TestIndexer_Monotonic(t *testing.T) {
	f := newFixture(t)
	a := touch(t, filepath.Join(f.root, "a.pdf"))

	_, err := f.indexer.Run(context.Background(), f.root)
	require.NoError(t, err)

	// Removing a source does not shrink the store; adding one extends it.
	require.NoError(t, os.Remove(a))
	b := touch(t, filepath.Join(f.root, "b.pdf"))

	_, err = f.indexer.Run(context.Background(), f.root)
	require.NoError(t, err)

	indexed, pages := f.state(t)
	assert.Equal(t, []string{a, b}, indexed)
	require.Len(t, pages, 2)
	assert.Equal(t, a, pages[0].SourcePath)
	assert.Equal(t, b, pages[1].SourcePath)
}

func TestIndexer_ExtractionFailurePersistsNothing(t *testing.T) {
	f := newFixture(t)
	touch(t, filepath.Join(f.root, "a.pdf"))
	_, err := f.indexer.Run(context.Background(), f.root)
	require.NoError(t, err)
	beforeIndexed, beforePages := f.state(t)

	touch(t, filepath.Join(f.root, "b.pdf"))
	bad := touch(t, filepath.Join(f.root, "c.pdf"))
	f.extractor.fail[bad] = true

	_, err = f.indexer.Run(context.Background(), f.root)
	require.Error(t, err)
	assert.ErrorIs(t, err, pdf.ErrExtraction)

	afterIndexed, afterPages := f.state(t)
	assert.Equal(t, beforeIndexed, afterIndexed)
	assert.Equal(t, beforePages, afterPages)
}

func TestIndexer_MissingRootIsCreated(t *testing.T) {
	f := newFixture(t)

	stats, err := f.indexer.Run(context.Background(), f.root)
	require.NoError(t, err)
	assert.Equal(t, IndexStats{}, stats)
	assert.DirExists(t, f.root)

	// The state is persisted even when nothing was found.
	_, err = os.Stat(filepath.Join(filepath.Dir(f.root), "data", database.ProcessedFile))
	assert.NoError(t, err)
}

func TestIndexer_DropsOrphans(t *testing.T) {
	f := newFixture(t)
	a := touch(t, filepath.Join(f.root, "a.pdf"))

	// Simulate a commit interrupted after the pages were written.
	orphan := database.NewPageRecord(a, 1, "stale")
	require.NoError(t, f.store.SavePages(context.Background(), []database.PageRecord{orphan}))

	stats, err := f.indexer.Run(context.Background(), f.root)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Orphans)

	_, pages := f.state(t)
	require.Len(t, pages, 1)
	assert.Equal(t, "text of a.pdf", pages[0].Text)
}

func TestIndexer_PersistenceErrorSurfaces(t *testing.T) {
	f := newFixture(t)
	dataDir := filepath.Join(filepath.Dir(f.root), "data")
	touch(t, filepath.Join(dataDir, database.PagesFile))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, database.PagesFile), []byte("{not json"), 0o644))

	_, err := f.indexer.Run(context.Background(), f.root)
	assert.ErrorIs(t, err, database.ErrPersistence)
	assert.Zero(t, f.extractor.totalCalls())
}

func TestIndexer_DeterministicWithWorkers(t *testing.T) {
	f := newFixture(t)
	f.indexer.Workers = 8

	var want []string
	for i := range 20 {
		want = append(want, touch(t, filepath.Join(f.root, fmt.Sprintf("doc%02d.pdf", i))))
	}

	_, err := f.indexer.Run(context.Background(), f.root)
	require.NoError(t, err)

	indexed, pages := f.state(t)
	assert.Equal(t, want, indexed)
	for i, page := range pages {
		assert.Equal(t, want[i], page.SourcePath)
	}
}

func TestCollectPages(t *testing.T) {
	ex := pdf.ExtractorFunc(func(ctx context.Context, path string) ([]string, error) {
		return []string{"one", "", "three"}, nil
	})

	records, err := CollectPages(context.Background(), ex, "notes/my_notes.pdf", slogDiscard())
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "My Notes - pg: 3", records[2].DisplayName)
	assert.Equal(t, "", records[1].Text)
}

func TestCollectPages_Error(t *testing.T) {
	boom := errors.New("boom")
	ex := pdf.ExtractorFunc(func(ctx context.Context, path string) ([]string, error) {
		return nil, boom
	})

	_, err := CollectPages(context.Background(), ex, "a.pdf", slogDiscard())
	assert.ErrorIs(t, err, boom)
}
