package openlibrary

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, testLogger())
}

func TestLookupMatch(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"numFound": 2,
			"docs": [
				{
					"title": "Dune",
					"author_name": ["Frank Herbert", "Someone Else"],
					"cover_i": 12345,
					"first_publish_year": 1965,
					"edition_count": 120,
					"has_fulltext": true
				},
				{"title": "Dune Messiah"}
			]
		}`))
	})

	facts := client.Lookup(context.Background(), "Dune")
	require.NotNil(t, facts)
	assert.Equal(t, "Dune", gotQuery)
	assert.Equal(t, "Dune", facts.Title)
	assert.Equal(t, "Frank Herbert", facts.Author, "first author wins")
	assert.Equal(t, "https://covers.openlibrary.org/b/id/12345-M.jpg", facts.CoverURL)
	assert.Equal(t, 1965, facts.FirstPublishYear)
	assert.Equal(t, 120, facts.EditionCount)
	assert.True(t, facts.HasFulltext)
	assert.Contains(t, facts.Raw, `"cover_i"`, "raw doc is preserved verbatim")
}

func TestLookupMissingFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"numFound": 1, "docs": [{}]}`))
	})

	facts := client.Lookup(context.Background(), "mystery")
	require.NotNil(t, facts)
	assert.Equal(t, "Unknown", facts.Title, "absent title falls back to Unknown")
	assert.Empty(t, facts.Author)
	assert.Empty(t, facts.CoverURL)
	assert.Zero(t, facts.FirstPublishYear)
	assert.False(t, facts.HasFulltext)
}

func TestLookupNoResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"numFound": 0, "docs": []}`))
	})

	assert.Nil(t, client.Lookup(context.Background(), "definitely not a book"))
}

func TestLookupMalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	})

	assert.Nil(t, client.Lookup(context.Background(), "anything"))
}

func TestLookupServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	assert.Nil(t, client.Lookup(context.Background(), "anything"))
}

func TestLookupTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	client := NewClient(srv.URL, testLogger())
	srv.Close() // connection refused from here on

	assert.Nil(t, client.Lookup(context.Background(), "anything"))
}
