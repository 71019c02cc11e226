package pdf

import (
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// Ensure Reader implements Extractor at compile time.
var _ Extractor = (*Reader)(nil)

// Reader extracts page text with the pure-Go ledongthuc/pdf parser.
type Reader struct{}

// NewReader creates a Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Pages returns one string per physical page. Pages without a text layer
// yield empty strings so that ordinals stay aligned with the document.
func (r *Reader) Pages(ctx context.Context, path string) (pages []string, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			pages, err = nil, extractionErr(path, fmt.Errorf("parser panic: %v", rec))
		}
	}()

	f, doc, err := pdf.Open(path)
	if err != nil {
		return nil, extractionErr(path, err)
	}
	defer f.Close()

	numPages := doc.NumPage()
	pages = make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := doc.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, extractionErr(path, fmt.Errorf("page %d: %w", i, err))
		}
		pages = append(pages, CleanText(text))
	}
	return pages, nil
}
