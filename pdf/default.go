//go:build !poppler

package pdf

// NewExtractor returns the pure-Go reader. Build with -tags poppler to use
// poppler-glib instead.
func NewExtractor() Extractor {
	return NewReader()
}
