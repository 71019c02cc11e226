package database

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Separates the document title from the page ordinal in a display name.
const pageSeparator = " - pg: "

// PageRecord is the cached text of one page of one indexed PDF.
// The JSON field names are fixed for compatibility with existing caches.
type PageRecord struct {
	DisplayName string `json:"filename"` // Title-cased document name plus page ordinal.
	Text        string `json:"page"`     // Raw extracted text of the page.
	SourcePath  string `json:"path"`     // Source identifier of the PDF.
}

// PageNumber returns the 1-based page ordinal encoded in the display name,
// or 0 if the display name carries none.
func (p PageRecord) PageNumber() int {
	i := strings.LastIndex(p.DisplayName, ":")
	if i < 0 {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(p.DisplayName[i+1:]))
	if err != nil {
		return 0
	}
	return n
}

// DocumentTitle derives a readable title from a source path:
// "notes/cell_biology.pdf" becomes "Cell Biology".
func DocumentTitle(source string) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, "_", " ")
	return titleLetterRuns(base)
}

// titleLetterRuns title-cases every run of letters on its own, so a letter
// after any non-letter is upper-cased: "o'neil" becomes "O'Neil" and
// "biology2notes" becomes "Biology2Notes".
func titleLetterRuns(s string) string {
	// Casers are stateful; pages are named from several goroutines.
	caser := cases.Title(language.English)

	var b strings.Builder
	start := -1
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if unicode.IsLetter(r) || unicode.Is(unicode.M, r) {
			if start < 0 {
				start = i
			}
		} else {
			if start >= 0 {
				b.WriteString(caser.String(s[start:i]))
				start = -1
			}
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	if start >= 0 {
		b.WriteString(caser.String(s[start:]))
	}
	return b.String()
}

// DisplayName returns the display name of the given 1-based page of source.
func DisplayName(source string, page int) string {
	return fmt.Sprintf("%s%s%d", DocumentTitle(source), pageSeparator, page)
}

// NewPageRecord builds the record for the given 1-based page of source.
func NewPageRecord(source string, page int, text string) PageRecord {
	return PageRecord{
		DisplayName: DisplayName(source, page),
		Text:        text,
		SourcePath:  source,
	}
}

// IndexedSet is the ordered set of source identifiers that have been fully
// extracted. Insertion order is preserved so that saving is deterministic.
type IndexedSet struct {
	paths []string
	seen  map[string]struct{}
}

// NewIndexedSet builds a set from paths, dropping duplicates.
func NewIndexedSet(paths ...string) *IndexedSet {
	s := &IndexedSet{
		paths: make([]string, 0, len(paths)),
		seen:  make(map[string]struct{}, len(paths)),
	}
	for _, p := range paths {
		s.Add(p)
	}
	return s
}

// Has reports whether source has already been indexed.
func (s *IndexedSet) Has(source string) bool {
	_, ok := s.seen[source]
	return ok
}

// Add records source as indexed. It reports false if it already was.
func (s *IndexedSet) Add(source string) bool {
	if s.Has(source) {
		return false
	}
	s.seen[source] = struct{}{}
	s.paths = append(s.paths, source)
	return true
}

// Paths returns a copy of the identifiers in insertion order.
func (s *IndexedSet) Paths() []string {
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out
}

// Len returns the number of indexed sources.
func (s *IndexedSet) Len() int {
	return len(s.paths)
}
