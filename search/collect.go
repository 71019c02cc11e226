package search

import (
	"context"
	"log/slog"

	"github.com/PublishedDoonk/notes-so/database"
	"github.com/PublishedDoonk/notes-so/pdf"
)

// CollectPages extracts every page of source and turns it into page records,
// numbering pages from 1.
func CollectPages(ctx context.Context, extractor pdf.Extractor, source string, logger *slog.Logger) ([]database.PageRecord, error) {
	texts, err := extractor.Pages(ctx, source)
	if err != nil {
		return nil, err
	}

	records := make([]database.PageRecord, len(texts))
	for i, text := range texts {
		logger.Debug("Processing page", "source", source, "page", i+1, "of", len(texts))
		records[i] = database.NewPageRecord(source, i+1, text)
	}
	return records, nil
}
