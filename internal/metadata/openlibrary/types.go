// Package openlibrary provides a client for the Open Library search API.
package openlibrary

import "encoding/json/jsontext"

// BookFacts is the normalized catalog record for the best-matching book.
type BookFacts struct {
	Title            string `json:"title"`
	Author           string `json:"author,omitempty"`
	CoverURL         string `json:"cover_url,omitempty"`
	FirstPublishYear int    `json:"first_publish_year,omitzero"`
	EditionCount     int    `json:"edition_count,omitzero"`
	HasFulltext      bool   `json:"has_fulltext"`

	// Raw is the entire matched record as returned by the API, kept for
	// forward compatibility.
	Raw string `json:"-"`
}

// searchResponse is the raw Open Library search response. Docs are kept as
// raw JSON so the first match can be stored verbatim.
type searchResponse struct {
	NumFound int              `json:"numFound"`
	Docs     []jsontext.Value `json:"docs"`
}

// searchDoc is a single result from the Open Library search endpoint.
type searchDoc struct {
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	CoverID          int64    `json:"cover_i"`
	FirstPublishYear int      `json:"first_publish_year"`
	EditionCount     int      `json:"edition_count"`
	HasFulltext      bool     `json:"has_fulltext"`
}
