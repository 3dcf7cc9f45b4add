package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shelfwise/shelfwise-server/internal/domain"
	"github.com/shelfwise/shelfwise-server/internal/store"
)

// searchColumns is the ordered list of columns selected in search queries.
// Must match the scan order in scanSearch.
const searchColumns = `id, query, created_at, llm_response`

// scanSearch scans a sql.Row (or sql.Rows via its Scan method) into a domain.Search.
func scanSearch(scanner interface{ Scan(dest ...any) error }) (*domain.Search, error) {
	var (
		search    domain.Search
		createdAt string
	)

	err := scanner.Scan(
		&search.ID,
		&search.Query,
		&createdAt,
		&search.LLMResponse,
	)
	if err != nil {
		return nil, err
	}

	search.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &search, nil
}

// CreateSearch inserts a new search row and assigns its ID and creation time.
func (s *Store) CreateSearch(ctx context.Context, search *domain.Search) error {
	if search.CreatedAt.IsZero() {
		search.CreatedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO searches (query, created_at, llm_response)
		VALUES (?, ?, ?)`,
		search.Query,
		formatTime(search.CreatedAt),
		search.LLMResponse,
	)
	if err != nil {
		return fmt.Errorf("insert search: %w", err)
	}

	search.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("search id: %w", err)
	}
	return nil
}

// GetSearch retrieves a search by ID.
// Returns store.ErrNotFound if the search does not exist.
func (s *Store) GetSearch(ctx context.Context, id int64) (*domain.Search, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+searchColumns+` FROM searches WHERE id = ?`, id)

	search, err := scanSearch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return search, nil
}

// ListSearches returns all searches in storage order (ascending id).
func (s *Store) ListSearches(ctx context.Context) ([]*domain.Search, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+searchColumns+` FROM searches ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var searches []*domain.Search
	for rows.Next() {
		search, err := scanSearch(rows)
		if err != nil {
			return nil, err
		}
		searches = append(searches, search)
	}
	return searches, rows.Err()
}
