package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/PublishedDoonk/notes-so/database"
	"github.com/PublishedDoonk/notes-so/pdf"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the number of documents extracted concurrently.
const DefaultWorkers = 4

// IndexStats summarizes one indexing run.
type IndexStats struct {
	Discovered int // Documents found under the root.
	Skipped    int // Documents already in the indexed set.
	Extracted  int // Documents extracted during this run.
	Pages      int // Page records in the store after the run.
	Orphans    int // Page records dropped because their source was never committed.
}

// Indexer brings the store up to date with the documents under a directory.
// Documents are extracted once; later runs skip them.
type Indexer struct {
	Store      database.Store
	Extractor  pdf.Extractor
	Workers    int
	Extensions []string
	Logger     *slog.Logger
}

// NewIndexer creates an Indexer with the default workers and extensions.
func NewIndexer(store database.Store, extractor pdf.Extractor, logger *slog.Logger) *Indexer {
	return &Indexer{
		Store:      store,
		Extractor:  extractor,
		Workers:    DefaultWorkers,
		Extensions: DefaultExtensions,
		Logger:     logger,
	}
}

func (ix *Indexer) logger() *slog.Logger {
	if ix.Logger == nil {
		return slog.Default()
	}
	return ix.Logger
}

// Run discovers documents under root, extracts the ones not yet indexed and
// persists the indexed set and page records once, at the end. If any
// extraction fails nothing is persisted and state from earlier runs is kept.
func (ix *Indexer) Run(ctx context.Context, root string) (IndexStats, error) {
	var stats IndexStats
	log := ix.logger()

	extensions := ix.Extensions
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	sources, err := Discover(root, extensions)
	if err != nil {
		return stats, err
	}
	stats.Discovered = len(sources)
	log.Info("Found documents", "count", len(sources), "directory", root)

	indexed, err := ix.Store.LoadIndexed(ctx)
	if err != nil {
		return stats, err
	}

	pages, err := ix.Store.LoadPages(ctx)
	if err != nil {
		return stats, err
	}

	pages, stats.Orphans = dropOrphans(pages, indexed)
	if stats.Orphans > 0 {
		log.Warn("Dropped page records from an interrupted run", "count", stats.Orphans)
	}

	var pending []string
	for _, source := range sources {
		if indexed.Has(source) {
			log.Info("Skipping", "source", source)
			stats.Skipped++
			continue
		}
		pending = append(pending, source)
	}

	collected, err := ix.extract(ctx, pending)
	if err != nil {
		return stats, err
	}

	// Merge in discovery order regardless of which worker finished first.
	for i, source := range pending {
		pages = append(pages, collected[i]...)
		indexed.Add(source)
	}
	stats.Extracted = len(pending)
	stats.Pages = len(pages)

	if err := ix.Store.Commit(ctx, indexed, pages); err != nil {
		return stats, err
	}

	log.Info("Successfully processed", "pages", stats.Pages, "pdfs", stats.Discovered, "new", stats.Extracted)
	return stats, nil
}

// extract runs the extractor over sources with at most Workers in flight.
// The result slots line up with sources.
func (ix *Indexer) extract(ctx context.Context, sources []string) ([][]database.PageRecord, error) {
	log := ix.logger()
	results := make([][]database.PageRecord, len(sources))

	workers := ix.Workers
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, source := range sources {
		g.Go(func() error {
			log.Info("Processing", "source", source, "job", fmt.Sprintf("%d/%d", i+1, len(sources)))
			records, err := CollectPages(ctx, ix.Extractor, source, log)
			if err != nil {
				return err
			}
			results[i] = records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// dropOrphans removes page records whose source is not in indexed.
func dropOrphans(pages []database.PageRecord, indexed *database.IndexedSet) ([]database.PageRecord, int) {
	kept := make([]database.PageRecord, 0, len(pages))
	for _, page := range pages {
		if indexed.Has(page.SourcePath) {
			kept = append(kept, page)
		}
	}
	return kept, len(pages) - len(kept)
}
