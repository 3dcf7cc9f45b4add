// Package service provides the business logic layer that ties model
// recommendations, catalog enrichment, and persistence together.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/shelfwise/shelfwise-server/internal/ai"
	"github.com/shelfwise/shelfwise-server/internal/domain"
	"github.com/shelfwise/shelfwise-server/internal/metadata/openlibrary"
	"github.com/shelfwise/shelfwise-server/internal/store/sqlite"
)

// Recommender produces reading recommendations for a query. Implementations
// must degrade gracefully: on failure they return fallback content, never an
// error.
type Recommender interface {
	Recommend(ctx context.Context, query string, maxResults int, excludeTitles []string) ([]ai.Recommendation, string)
}

// Catalog resolves a title against a book catalog. A nil result means no
// usable match was found.
type Catalog interface {
	Lookup(ctx context.Context, title string) *openlibrary.BookFacts
}

// DiscoveryService orchestrates book discovery: it asks the model for
// recommendations, enriches them with catalog metadata, and records the
// results.
type DiscoveryService struct {
	store       *sqlite.Store
	recommender Recommender
	catalog     Catalog
	logger      *slog.Logger

	newSearchCount int
	moreBooksCount int

	// searchLocks serializes load-more requests per search so concurrent
	// callers cannot both read the same exclusion list and insert duplicates.
	mu          sync.Mutex
	searchLocks map[int64]*sync.Mutex
}

// NewDiscoveryService creates a new discovery service.
func NewDiscoveryService(store *sqlite.Store, recommender Recommender, catalog Catalog, newSearchCount, moreBooksCount int, logger *slog.Logger) *DiscoveryService {
	return &DiscoveryService{
		store:          store,
		recommender:    recommender,
		catalog:        catalog,
		logger:         logger,
		newSearchCount: newSearchCount,
		moreBooksCount: moreBooksCount,
		searchLocks:    make(map[int64]*sync.Mutex),
	}
}

// NewSearch runs a fresh discovery for the query: it fetches recommendations,
// enriches each against the catalog, and persists the search together with
// every book that resolved. Recommendations without a catalog match are
// dropped.
func (s *DiscoveryService) NewSearch(ctx context.Context, query string) (*domain.Search, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	recs, raw := s.recommender.Recommend(ctx, query, s.newSearchCount, nil)

	search := &domain.Search{
		Query:       query,
		LLMResponse: raw,
	}
	if err := s.store.CreateSearch(ctx, search); err != nil {
		return nil, fmt.Errorf("create search: %w", err)
	}

	search.Books = s.enrichAndPersist(ctx, search.ID, recs)

	s.logger.Info("search completed",
		"search_id", search.ID,
		"query", query,
		"recommended", len(recs),
		"resolved", len(search.Books),
	)

	return search, nil
}

// MoreBooks extends an existing search with additional recommendations,
// excluding every title already attached to it. It returns the search with
// its full book list, old and new. count <= 0 selects the default batch size.
func (s *DiscoveryService) MoreBooks(ctx context.Context, searchID int64, count int) (*domain.Search, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if count <= 0 {
		count = s.moreBooksCount
	}

	search, err := s.store.GetSearch(ctx, searchID)
	if err != nil {
		return nil, fmt.Errorf("get search: %w", err)
	}

	unlock := s.lockSearch(searchID)
	defer unlock()

	existing, err := s.store.ListBookTitles(ctx, searchID)
	if err != nil {
		return nil, fmt.Errorf("list book titles: %w", err)
	}

	recs, _ := s.recommender.Recommend(ctx, search.Query, count, existing)
	recs = dropExcluded(recs, existing)

	s.enrichAndPersist(ctx, searchID, recs)

	books, err := s.store.ListBooksBySearch(ctx, searchID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	search.Books = books

	s.logger.Info("search extended",
		"search_id", searchID,
		"requested", count,
		"total_books", len(books),
	)

	return search, nil
}

// History returns every recorded search, oldest first, each with its books.
func (s *DiscoveryService) History(ctx context.Context) ([]*domain.Search, error) {
	searches, err := s.store.ListSearches(ctx)
	if err != nil {
		return nil, fmt.Errorf("list searches: %w", err)
	}

	for _, search := range searches {
		books, err := s.store.ListBooksBySearch(ctx, search.ID)
		if err != nil {
			return nil, fmt.Errorf("list books for search %d: %w", search.ID, err)
		}
		search.Books = books
	}

	return searches, nil
}

// Queries returns the raw query strings of every recorded search, oldest
// first. It feeds the reading-profile narration.
func (s *DiscoveryService) Queries(ctx context.Context) ([]string, error) {
	searches, err := s.store.ListSearches(ctx)
	if err != nil {
		return nil, fmt.Errorf("list searches: %w", err)
	}

	queries := make([]string, 0, len(searches))
	for _, search := range searches {
		queries = append(queries, search.Query)
	}
	return queries, nil
}

// enrichAndPersist resolves each recommendation against the catalog and
// stores the ones that match. Enrichment and persistence failures drop the
// single book, never the batch.
func (s *DiscoveryService) enrichAndPersist(ctx context.Context, searchID int64, recs []ai.Recommendation) []*domain.BookRecord {
	books := make([]*domain.BookRecord, 0, len(recs))

	for _, rec := range recs {
		facts := s.catalog.Lookup(ctx, rec.Title)
		if facts == nil {
			s.logger.Info("no catalog match, dropping recommendation", "title", rec.Title)
			continue
		}

		book := &domain.BookRecord{
			SearchID:         searchID,
			Title:            facts.Title,
			Author:           facts.Author,
			CoverURL:         facts.CoverURL,
			FirstPublishYear: facts.FirstPublishYear,
			EditionCount:     facts.EditionCount,
			HasFulltext:      facts.HasFulltext,
			Genre:            rec.Genre,
			Reason:           rec.Reason,
			OpenLibraryData:  facts.Raw,
		}

		if err := s.store.CreateBook(ctx, book); err != nil {
			s.logger.Error("failed to persist book", "title", book.Title, "error", err)
			continue
		}

		books = append(books, book)
	}

	return books
}

// lockSearch acquires the per-search mutex, creating it on first use, and
// returns its unlock function.
func (s *DiscoveryService) lockSearch(id int64) func() {
	s.mu.Lock()
	lock, ok := s.searchLocks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.searchLocks[id] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// dropExcluded removes recommendations whose title matches an excluded one,
// ignoring case. The model is told not to repeat titles but does not always
// comply.
func dropExcluded(recs []ai.Recommendation, excluded []string) []ai.Recommendation {
	if len(excluded) == 0 {
		return recs
	}

	seen := make(map[string]struct{}, len(excluded))
	for _, title := range excluded {
		seen[strings.ToLower(title)] = struct{}{}
	}

	kept := make([]ai.Recommendation, 0, len(recs))
	for _, rec := range recs {
		if _, dup := seen[strings.ToLower(rec.Title)]; dup {
			continue
		}
		kept = append(kept, rec)
	}
	return kept
}
