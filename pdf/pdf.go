// Package pdf extracts per-page text from PDF documents.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrExtraction is returned when a document's text cannot be extracted.
var ErrExtraction = errors.New("extraction error")

// Extractor returns the text of every page of a PDF, in physical page order.
type Extractor interface {
	Pages(ctx context.Context, path string) ([]string, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, path string) ([]string, error)

func (f ExtractorFunc) Pages(ctx context.Context, path string) ([]string, error) {
	return f(ctx, path)
}

func extractionErr(path string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrExtraction, path, err)
}

// Glyphs that pdf text layers emit for bullets and arrows.
// Geometric shapes block U+25B6..U+25FF plus two stray C1 controls.
var skipReplacer = func() *strings.Replacer {
	var pairs []string
	for r := rune(0x25B6); r <= 0x25FF; r++ {
		pairs = append(pairs, string(r), "")
	}
	pairs = append(pairs, "\u0080", "", "\u0089", "")
	return strings.NewReplacer(pairs...)
}()

// CleanText strips bullet and arrow glyphs from extracted page text.
func CleanText(text string) string {
	return skipReplacer.Replace(text)
}
