package routes

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/PublishedDoonk/notes-so/search"
)

// Searcher is the read-only view of the loaded corpus served over HTTP.
type Searcher interface {
	Search(query string, top int) search.Results
	Sources() []string
}

// Match is the JSON form of a ranked page.
type Match struct {
	Name string `json:"name"` // Display name with page ordinal.
	Path string `json:"path"` // Source identifier.
	Page int    `json:"page"` // 1-based page number.
	Hits int    `json:"hits"` // Hit score.
	Link string `json:"link"` // file:// URL to the page.
	Text string `json:"text"` // Highlighted page text.
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func Search(searcher Searcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		top := 0

		if value := r.URL.Query().Get("top"); value != "" {
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				writeJSON(w, http.StatusBadRequest, map[string]string{
					"message": "Invalid top",
				})
				return
			}
			top = n
		}

		// Send an empty slice.
		matches := []Match{}
		if query != "" {
			for _, result := range searcher.Search(query, top) {
				matches = append(matches, Match{
					Name: result.Page.DisplayName,
					Path: result.Page.SourcePath,
					Page: result.Page.PageNumber(),
					Hits: result.Score,
					Link: result.Link(),
					Text: result.Page.Text,
				})
			}
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

func Sources(searcher Searcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, searcher.Sources())
	}
}
