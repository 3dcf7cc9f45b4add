package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shelfwise/shelfwise-server/internal/domain"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, search_id, title, author, cover_url, first_publish_year,
	edition_count, has_fulltext, genre, reason, open_library_data`

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a domain.BookRecord.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.BookRecord, error) {
	var (
		book        domain.BookRecord
		author      sql.NullString
		coverURL    sql.NullString
		publishYear sql.NullInt64
		editions    sql.NullInt64
		hasFulltext int
	)

	err := scanner.Scan(
		&book.ID,
		&book.SearchID,
		&book.Title,
		&author,
		&coverURL,
		&publishYear,
		&editions,
		&hasFulltext,
		&book.Genre,
		&book.Reason,
		&book.OpenLibraryData,
	)
	if err != nil {
		return nil, err
	}

	book.Author = author.String
	book.CoverURL = coverURL.String
	book.FirstPublishYear = int(publishYear.Int64)
	book.EditionCount = int(editions.Int64)
	book.HasFulltext = hasFulltext != 0

	return &book, nil
}

// CreateBook appends a book record to its search and assigns its ID.
// Book rows are append-only; there is no update or delete.
func (s *Store) CreateBook(ctx context.Context, book *domain.BookRecord) error {
	if book.Genre == "" {
		book.Genre = domain.UnknownGenre
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO books (
			search_id, title, author, cover_url, first_publish_year,
			edition_count, has_fulltext, genre, reason, open_library_data
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.SearchID,
		book.Title,
		nullString(book.Author),
		nullString(book.CoverURL),
		nullInt(book.FirstPublishYear),
		nullInt(book.EditionCount),
		boolToInt(book.HasFulltext),
		book.Genre,
		book.Reason,
		book.OpenLibraryData,
	)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}

	book.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("book id: %w", err)
	}
	return nil
}

// ListBooksBySearch returns all books for a search in insertion order.
func (s *Store) ListBooksBySearch(ctx context.Context, searchID int64) ([]*domain.BookRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE search_id = ? ORDER BY id ASC`, searchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.BookRecord
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, rows.Err()
}

// ListBookTitles returns the titles already persisted for a search, in
// insertion order. Used as the exclusion set for incremental requests.
func (s *Store) ListBookTitles(ctx context.Context, searchID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title FROM books WHERE search_id = ? ORDER BY id ASC`, searchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}
