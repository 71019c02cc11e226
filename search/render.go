package search

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/renameio"
)

// ErrNoResults is returned by WriteResults when there is nothing to write.
var ErrNoResults = errors.New("no results found")

// Title is the first line of every results document.
const Title = "# Top Results"

// Link returns a file:// URL to the page's source document, anchored at the page.
func (r Result) Link() string {
	path := r.Page.SourcePath
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	if n := r.Page.PageNumber(); n > 0 {
		u.Fragment = fmt.Sprintf("page=%d", n)
	}
	return u.String()
}

// Render formats the result as a markdown section: a linked heading, the hit
// score, the source path and the highlighted page text.
func (r Result) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "## <a href=\"%s\">%s</a>\n", r.Link(), r.Page.DisplayName)
	fmt.Fprintf(&b, "hits: %d\n", r.Score)
	b.WriteString(r.Page.SourcePath)
	b.WriteString("\n\n")
	b.WriteString(r.Page.Text)
	return b.String()
}

// Render formats the results as one markdown document, entries separated by
// blank lines.
func (rs Results) Render() string {
	parts := make([]string, 0, len(rs)+1)
	parts = append(parts, Title)
	for _, r := range rs {
		parts = append(parts, r.Render())
	}
	return strings.Join(parts, "\n\n")
}

// WriteResults overwrites the document at path with the rendered results.
// It returns ErrNoResults and leaves path untouched when results is empty.
func WriteResults(path string, results Results) error {
	if len(results) == 0 {
		return ErrNoResults
	}

	if err := renameio.WriteFile(path, []byte(results.Render()), 0o644); err != nil {
		return fmt.Errorf("write results %s: %w", path, err)
	}
	return nil
}
