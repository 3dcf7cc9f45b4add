package openlibrary

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public Open Library endpoint.
	DefaultBaseURL = "https://openlibrary.org"

	coversBaseURL = "https://covers.openlibrary.org/b/id"
)

// Client provides access to the Open Library search API for book metadata.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

// NewClient creates a new Open Library client. The base URL is configurable
// so tests can point at a local server; pass "" for the public endpoint.
// Rate limited to stay well under Open Library's courtesy limits.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		// 1 request per second, burst of 3.
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 3),
		logger:      logger,
	}
}

// wait blocks until the rate limiter allows a request.
func (c *Client) wait(ctx context.Context) error {
	return c.rateLimiter.Wait(ctx)
}
