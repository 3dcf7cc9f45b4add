// Package domain defines the core types for the Shelfwise server.
package domain

import "time"

// Search is one user query plus its lifecycle of recommended-and-matched books.
// A search row is immutable after creation except for its derived book collection.
type Search struct {
	ID        int64     `json:"id"`
	Query     string    `json:"query"`
	CreatedAt time.Time `json:"created_at"`

	// LLMResponse is the raw model output kept for audit and debugging.
	// It is persisted but never surfaced in API responses.
	LLMResponse string `json:"-"`

	// Books are the catalog-matched records for this search, in insertion order.
	Books []*BookRecord `json:"books"`
}

// UnknownGenre is recorded when the model omitted a genre for a recommendation.
const UnknownGenre = "Unknown"

// BookRecord is one catalog-matched, persisted recommendation. Book rows are
// append-only within a search; they are never updated or deleted.
type BookRecord struct {
	ID       int64 `json:"id"`
	SearchID int64 `json:"search_id"`

	// Catalog facts from Open Library.
	Title            string `json:"title"`
	Author           string `json:"author,omitempty"`
	CoverURL         string `json:"cover_url,omitempty"`
	FirstPublishYear int    `json:"first_publish_year,omitzero"`
	EditionCount     int    `json:"edition_count,omitzero"`
	HasFulltext      bool   `json:"has_fulltext"`

	// Model-provided fields.
	Genre  string `json:"genre"`
	Reason string `json:"reason"`

	// OpenLibraryData is the raw matched catalog record, serialized for
	// forward compatibility. Stored, never surfaced.
	OpenLibraryData string `json:"-"`
}
