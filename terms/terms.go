// Package terms turns free-text queries into normalized search terms.
package terms

import (
	"regexp"
	"slices"
	"strings"

	"github.com/bbalet/stopwords"
	"github.com/jdkato/prose/v2"
)

// Language of the stopword list.
const Language = "en"

// Everything that is not a word character or whitespace.
var punctuation = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s]+`)

// Set is an unordered, deduplicated collection of search terms.
type Set map[string]struct{}

// NewSet builds a set from the given words as-is.
func NewSet(words ...string) Set {
	s := make(Set, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// Has reports whether term is in the set.
func (s Set) Has(term string) bool {
	_, ok := s[term]
	return ok
}

// Sorted returns the terms in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for term := range s {
		out = append(out, term)
	}
	slices.Sort(out)
	return out
}

// Normalizer tokenizes queries and filters stopwords for a single language.
type Normalizer struct {
	lang string
}

// NewNormalizer returns a Normalizer using the English stopword list.
func NewNormalizer() *Normalizer {
	return &Normalizer{lang: Language}
}

// Normalize strips punctuation from query, tokenizes it, lower-cases the tokens
// and drops stopwords. An empty query yields an empty set.
func (n *Normalizer) Normalize(query string) Set {
	query = punctuation.ReplaceAllString(query, "")
	if strings.TrimSpace(query) == "" {
		return Set{}
	}

	doc, err := prose.NewDocument(query,
		prose.WithTagging(false),
		prose.WithSegmentation(false),
		prose.WithExtraction(false))
	if err != nil {
		// prose only fails while loading models; fall back to whitespace.
		return n.filter(strings.Fields(query))
	}

	tokens := doc.Tokens()
	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		words = append(words, tok.Text)
	}
	return n.filter(words)
}

func (n *Normalizer) filter(words []string) Set {
	set := make(Set, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" || n.IsStopword(w) {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

// IsStopword reports whether word is on the stopword list.
func (n *Normalizer) IsStopword(word string) bool {
	return strings.TrimSpace(stopwords.CleanString(word, n.lang, false)) == ""
}

func init() {
	// Numbers are valid search terms ("chapter 12").
	stopwords.DontStripDigits()
}

var defaultNormalizer = NewNormalizer()

// Normalize uses the default English normalizer.
func Normalize(query string) Set {
	return defaultNormalizer.Normalize(query)
}
