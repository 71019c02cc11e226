package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/PublishedDoonk/notes-so/pdf"
	"github.com/PublishedDoonk/notes-so/search"
)

// Start opens the app and brings the index up to date. The caller must Close
// the returned app.
func Start(ctx context.Context, config *Config, logger *slog.Logger, extractor pdf.Extractor) (*App, error) {
	app := NewApp(config, logger, extractor)
	if err := app.Open(); err != nil {
		return nil, err
	}

	if _, err := app.Index(ctx); err != nil {
		app.Close()
		return nil, fmt.Errorf("indexing %s: %w", config.Directory, err)
	}
	return app, nil
}

// BuildIndex indexes the configured directory and exits.
func BuildIndex(ctx context.Context, config *Config, logger *slog.Logger) error {
	app, err := Start(ctx, config, logger, nil)
	if err != nil {
		return err
	}
	return app.Close()
}

// RunInteractive indexes the configured directory and then answers queries
// read from in until the user quits.
func RunInteractive(ctx context.Context, config *Config, logger *slog.Logger, in io.Reader, out io.Writer) error {
	app, err := Start(ctx, config, logger, nil)
	if err != nil {
		return err
	}
	defer app.Close()

	return Loop(ctx, in, out, app, config.Output)
}

// SearchOnce indexes the configured directory and runs config.Pattern.
// Finding nothing is reported on out, not returned as an error.
func SearchOnce(ctx context.Context, config *Config, logger *slog.Logger, out io.Writer) error {
	app, err := Start(ctx, config, logger, nil)
	if err != nil {
		return err
	}
	defer app.Close()

	results, err := app.Query(config.Pattern)
	switch {
	case errors.Is(err, search.ErrNoResults):
		fmt.Fprintln(out, noResultsMsg)
		return nil
	case err != nil:
		return err
	}

	for _, r := range results {
		fmt.Fprintf(out, "%s (hits: %d) %s\n", r.Page.DisplayName, r.Score, r.Page.SourcePath)
	}
	fmt.Fprintf(out, savedResultFmt, config.Output)
	return nil
}
