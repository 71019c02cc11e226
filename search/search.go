package search

import (
	"cmp"
	"crypto/sha256"
	"regexp"
	"slices"
	"strings"

	"github.com/PublishedDoonk/notes-so/database"
	"github.com/PublishedDoonk/notes-so/terms"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// Every term found on a page adds this much on top of its occurrence count.
	presenceBonus = 10

	// DefaultCacheSize is the number of pages whose word counts are cached.
	DefaultCacheSize = 4096

	markOpen  = `<mark style="background-color: #FFFF00">`
	markClose = `</mark>`
)

// Result is one ranked page. Page.Text holds the highlighted text.
type Result struct {
	Index int // Position of the page in the searched corpus.
	Page  database.PageRecord
	Score int
}

// Results are ranked best first.
type Results []Result

// Identifies a page in the word-count cache.
type pageKey struct {
	path string
	name string
	sum  [sha256.Size]byte // Digest of the page text.
}

// Engine scores, highlights and ranks pages against a term set.
// It is safe for concurrent use.
type Engine struct {
	counts *lru.Cache[pageKey, map[string]int]
}

// NewEngine creates an Engine caching the word counts of up to cacheSize
// pages. A cacheSize below 1 uses DefaultCacheSize.
func NewEngine(cacheSize int) *Engine {
	if cacheSize < 1 {
		cacheSize = DefaultCacheSize
	}
	counts, _ := lru.New[pageKey, map[string]int](cacheSize)
	return &Engine{counts: counts}
}

// wordCounts splits text on single spaces and counts the lower-cased chunks.
func wordCounts(text string) map[string]int {
	counts := make(map[string]int)
	for _, chunk := range strings.Split(text, " ") {
		counts[strings.ToLower(chunk)]++
	}
	return counts
}

// Score returns the hit score of text: for every term that occurs at least
// once as a space-separated word, its occurrence count plus 10.
func Score(text string, set terms.Set) int {
	return scoreCounts(wordCounts(text), set)
}

func scoreCounts(counts map[string]int, set terms.Set) int {
	score := 0
	for term := range set {
		if n := counts[term]; n > 0 {
			score += n + presenceBonus
		}
	}
	return score
}

// Score scores a stored page, reusing cached word counts.
func (e *Engine) Score(page database.PageRecord, set terms.Set) int {
	key := pageKey{
		path: page.SourcePath,
		name: page.DisplayName,
		sum:  sha256.Sum256([]byte(page.Text)),
	}
	counts, ok := e.counts.Get(key)
	if !ok {
		counts = wordCounts(page.Text)
		e.counts.Add(key, counts)
	}
	return scoreCounts(counts, set)
}

// Highlight marks every case-insensitive occurrence of every term in text,
// replacing it with the upper-cased term. Terms are matched literally, and
// longer terms win where two overlap.
func Highlight(text string, set terms.Set) string {
	pattern := termPattern(set)
	if pattern == nil {
		return text
	}
	return pattern.ReplaceAllStringFunc(text, func(match string) string {
		return markOpen + strings.ToUpper(match) + markClose
	})
}

func termPattern(set terms.Set) *regexp.Regexp {
	words := set.Sorted()
	words = slices.DeleteFunc(words, func(w string) bool { return w == "" })
	if len(words) == 0 {
		return nil
	}

	// Go's alternation is leftmost-first, so list longer terms first.
	slices.SortStableFunc(words, func(a, b string) int {
		return cmp.Compare(len(b), len(a))
	})

	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)`)
}

// Query ranks the pages that match at least one term, best first, and returns
// at most top results (all of them when top <= 0). Pages are not modified;
// each result carries a highlighted copy. Ties keep corpus order.
func (e *Engine) Query(set terms.Set, pages []database.PageRecord, top int) Results {
	if len(set) == 0 {
		return Results{}
	}

	results := Results{}
	for i, page := range pages {
		score := e.Score(page, set)
		if score <= 0 {
			continue
		}

		page.Text = Highlight(page.Text, set)
		results = append(results, Result{Index: i, Page: page, Score: score})
	}

	slices.SortStableFunc(results, func(a, b Result) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if top > 0 && len(results) > top {
		results = results[:top]
	}
	return results
}
