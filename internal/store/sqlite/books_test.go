package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/shelfwise/shelfwise-server/internal/domain"
)

// makeTestSearch creates a search row to hang book records off.
func makeTestSearch(t *testing.T, s *Store, query string) *domain.Search {
	t.Helper()
	search := &domain.Search{Query: query}
	if err := s.CreateSearch(context.Background(), search); err != nil {
		t.Fatalf("create search: %v", err)
	}
	return search
}

func TestCreateAndListBooks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	search := makeTestSearch(t, s, "desert planets")

	book := &domain.BookRecord{
		SearchID:         search.ID,
		Title:            "Dune",
		Author:           "Frank Herbert",
		CoverURL:         "https://covers.openlibrary.org/b/id/12345-M.jpg",
		FirstPublishYear: 1965,
		EditionCount:     120,
		HasFulltext:      true,
		Genre:            "Sci-Fi",
		Reason:           "Political intrigue on a desert world.",
		OpenLibraryData:  `{"title":"Dune","cover_i":12345}`,
	}
	if err := s.CreateBook(ctx, book); err != nil {
		t.Fatalf("create book: %v", err)
	}
	if book.ID == 0 {
		t.Fatal("expected book ID to be assigned")
	}

	books, err := s.ListBooksBySearch(ctx, search.ID)
	if err != nil {
		t.Fatalf("list books: %v", err)
	}
	if len(books) != 1 {
		t.Fatalf("got %d books, want 1", len(books))
	}

	got := books[0]
	if got.Title != "Dune" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Author != "Frank Herbert" {
		t.Errorf("author = %q", got.Author)
	}
	if got.FirstPublishYear != 1965 {
		t.Errorf("first_publish_year = %d", got.FirstPublishYear)
	}
	if got.EditionCount != 120 {
		t.Errorf("edition_count = %d", got.EditionCount)
	}
	if !got.HasFulltext {
		t.Error("expected has_fulltext")
	}
	if got.OpenLibraryData == "" {
		t.Error("expected raw catalog payload to round-trip")
	}
}

func TestCreateBookDefaultsGenre(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	search := makeTestSearch(t, s, "anything")

	book := &domain.BookRecord{SearchID: search.ID, Title: "Untitled Find"}
	if err := s.CreateBook(ctx, book); err != nil {
		t.Fatalf("create book: %v", err)
	}

	books, err := s.ListBooksBySearch(ctx, search.ID)
	if err != nil {
		t.Fatalf("list books: %v", err)
	}
	if books[0].Genre != domain.UnknownGenre {
		t.Errorf("genre = %q, want %q", books[0].Genre, domain.UnknownGenre)
	}
}

func TestListBooksInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	search := makeTestSearch(t, s, "ordered")

	titles := []string{"Alpha", "Bravo", "Charlie", "Delta"}
	for _, title := range titles {
		book := &domain.BookRecord{SearchID: search.ID, Title: title}
		if err := s.CreateBook(ctx, book); err != nil {
			t.Fatalf("create %q: %v", title, err)
		}
	}

	books, err := s.ListBooksBySearch(ctx, search.ID)
	if err != nil {
		t.Fatalf("list books: %v", err)
	}
	if len(books) != len(titles) {
		t.Fatalf("got %d books, want %d", len(books), len(titles))
	}
	for i, title := range titles {
		if books[i].Title != title {
			t.Errorf("books[%d].Title = %q, want %q", i, books[i].Title, title)
		}
	}
}

func TestListBookTitles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	search := makeTestSearch(t, s, "titles")
	other := makeTestSearch(t, s, "other")

	for i := range 3 {
		book := &domain.BookRecord{SearchID: search.ID, Title: fmt.Sprintf("Book %d", i)}
		if err := s.CreateBook(ctx, book); err != nil {
			t.Fatalf("create book: %v", err)
		}
	}
	// A book under a different search must not leak into the exclusion set.
	if err := s.CreateBook(ctx, &domain.BookRecord{SearchID: other.ID, Title: "Stranger"}); err != nil {
		t.Fatalf("create other book: %v", err)
	}

	titles, err := s.ListBookTitles(ctx, search.ID)
	if err != nil {
		t.Fatalf("list titles: %v", err)
	}
	if len(titles) != 3 {
		t.Fatalf("got %d titles, want 3", len(titles))
	}
	for _, title := range titles {
		if title == "Stranger" {
			t.Error("title from another search leaked into exclusion set")
		}
	}
}

func TestListBooksEmptySearch(t *testing.T) {
	s := newTestStore(t)
	search := makeTestSearch(t, s, "empty")

	books, err := s.ListBooksBySearch(context.Background(), search.ID)
	if err != nil {
		t.Fatalf("list books: %v", err)
	}
	if len(books) != 0 {
		t.Errorf("got %d books, want 0", len(books))
	}
}
