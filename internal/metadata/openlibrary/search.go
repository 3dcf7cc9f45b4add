package openlibrary

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"
	"net/url"
)

// Lookup searches Open Library for the given title and returns the normalized
// facts of the first (best) match. It returns nil when there is no match.
// Transport and parse failures are logged and reported as "no match" rather
// than raised; the recommendation flow drops unmatched titles silently.
func (c *Client) Lookup(ctx context.Context, title string) *BookFacts {
	if err := c.wait(ctx); err != nil {
		c.logger.Warn("catalog lookup rate limit wait failed", "title", title, "error", err)
		return nil
	}

	params := url.Values{}
	params.Set("q", title)
	searchURL := c.baseURL + "/search.json?" + params.Encode()

	c.logger.Debug("searching Open Library", "title", title, "url", searchURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		c.logger.Warn("catalog lookup request build failed", "title", title, "error", err)
		return nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("catalog lookup request failed", "title", title, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("catalog lookup returned non-OK status", "title", title, "status", resp.StatusCode)
		return nil
	}

	var searchResp searchResponse
	if err := json.UnmarshalRead(resp.Body, &searchResp); err != nil {
		c.logger.Warn("catalog lookup response malformed", "title", title, "error", err)
		return nil
	}

	if len(searchResp.Docs) == 0 {
		c.logger.Debug("no catalog match", "title", title)
		return nil
	}

	// The first result is authoritative; no re-ranking.
	raw := searchResp.Docs[0]
	var doc searchDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		c.logger.Warn("catalog match malformed", "title", title, "error", err)
		return nil
	}

	facts := &BookFacts{
		Title:            doc.Title,
		FirstPublishYear: doc.FirstPublishYear,
		EditionCount:     doc.EditionCount,
		HasFulltext:      doc.HasFulltext,
		Raw:              string(raw),
	}
	if facts.Title == "" {
		facts.Title = "Unknown"
	}
	if len(doc.AuthorName) > 0 {
		facts.Author = doc.AuthorName[0]
	}
	if doc.CoverID != 0 {
		facts.CoverURL = fmt.Sprintf("%s/%d-M.jpg", coversBaseURL, doc.CoverID)
	}

	return facts
}
