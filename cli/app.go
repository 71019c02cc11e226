package cli

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/PublishedDoonk/notes-so/database"
	"github.com/PublishedDoonk/notes-so/pdf"
	"github.com/PublishedDoonk/notes-so/search"
	"github.com/PublishedDoonk/notes-so/terms"
)

// App ties the store, indexer and query engine together for one process.
type App struct {
	config     *Config
	logger     *slog.Logger
	extractor  pdf.Extractor
	normalizer *terms.Normalizer
	engine     *search.Engine

	lock  *database.Lock
	store database.Store

	mu      sync.RWMutex
	pages   []database.PageRecord
	sources []string
}

// NewApp creates an App. A nil extractor uses the build's default PDF reader.
func NewApp(config *Config, logger *slog.Logger, extractor pdf.Extractor) *App {
	if logger == nil {
		logger = slog.Default()
	}
	if extractor == nil {
		extractor = pdf.NewExtractor()
	}
	return &App{
		config:     config,
		logger:     logger,
		extractor:  extractor,
		normalizer: terms.NewNormalizer(),
		engine:     search.NewEngine(search.DefaultCacheSize),
	}
}

// Open validates the configuration, locks the data directory and opens the store.
func (a *App) Open() error {
	if err := a.config.Validate(); err != nil {
		return err
	}

	lock := database.NewLock(a.config.StoreConfig())
	if err := lock.TryLock(); err != nil {
		return err
	}

	store, err := database.Open(a.config.StoreConfig(), a.config.Backend)
	if err != nil {
		lock.Unlock()
		return err
	}

	a.lock = lock
	a.store = store
	return nil
}

// Close releases the store and the data directory lock.
func (a *App) Close() error {
	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	if a.lock != nil {
		errs = append(errs, a.lock.Unlock())
	}
	return errors.Join(errs...)
}

// Index runs the indexing pipeline over the configured directory and loads
// the resulting corpus for searching.
func (a *App) Index(ctx context.Context) (search.IndexStats, error) {
	indexer := search.NewIndexer(a.store, a.extractor, a.logger)
	indexer.Workers = a.config.Workers

	stats, err := indexer.Run(ctx, a.config.Directory)
	if err != nil {
		return stats, err
	}
	return stats, a.Load(ctx)
}

// Load reads the persisted corpus into memory without indexing.
func (a *App) Load(ctx context.Context) error {
	indexed, err := a.store.LoadIndexed(ctx)
	if err != nil {
		return err
	}
	pages, err := a.store.LoadPages(ctx)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.pages = pages
	a.sources = indexed.Paths()
	return nil
}

// Search normalizes query and ranks the loaded corpus against it.
// top <= 0 returns every match.
func (a *App) Search(query string, top int) search.Results {
	set := a.normalizer.Normalize(query)

	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.engine.Query(set, a.pages, top)
}

// Sources returns the indexed source identifiers.
func (a *App) Sources() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]string{}, a.sources...)
}

// Query searches and writes the results document to the configured output.
// It returns search.ErrNoResults when nothing matched.
func (a *App) Query(query string) (search.Results, error) {
	results := a.Search(query, a.config.Top)
	if err := search.WriteResults(a.config.Output, results); err != nil {
		return results, err
	}
	return results, nil
}
