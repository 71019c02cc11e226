package routes

import (
	"net/http"
)

func SetupRoutes(mux *http.ServeMux, searcher Searcher) {
	// Search endpoint
	mux.HandleFunc("GET /search", Search(searcher))

	// Indexed documents
	mux.HandleFunc("GET /sources", Sources(searcher))
}
