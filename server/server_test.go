package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/PublishedDoonk/notes-so/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emptySearcher struct{}

func (emptySearcher) Search(query string, top int) search.Results { return nil }
func (emptySearcher) Sources() []string                         { return []string{"a.pdf"} }

func TestNew(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(9090, emptySearcher{}, logger)
	assert.Equal(t, ":9090", srv.Addr)

	ts := httptest.NewServer(srv.Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/sources")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `["a.pdf"]`, string(body))
}

func TestGracefulShutdown_Idle(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(0, emptySearcher{}, logger)
	assert.NoError(t, GracefulShutdown(srv, logger, time.Second))
}
