package ai

import (
	"context"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"fmt"
	"strings"

	"github.com/shelfwise/shelfwise-server/internal/domain"
)

// Recommendation is a model-proposed book, not yet catalog-verified.
type Recommendation struct {
	Title  string `json:"title"`
	Genre  string `json:"genre"`
	Reason string `json:"reason"`
}

// fallbackRecommendations is served whenever the model call fails or returns
// unusable output. The user always gets something.
var fallbackRecommendations = []Recommendation{
	{Title: "Fallback: The Great Gatsby", Genre: "Classic", Reason: "A classic novel."},
	{Title: "Fallback: To Kill a Mockingbird", Genre: "Classic", Reason: "A powerful story."},
}

// Recommend asks the model for up to maxResults book recommendations for the
// query, never reusing any of excludeTitles. It returns the recommendations
// plus the raw model text for audit storage.
//
// The result holds at most maxResults elements, possibly fewer; every element
// carries a title. On model or parse failure a fixed fallback list is
// returned instead of an error.
func (c *Client) Recommend(ctx context.Context, query string, maxResults int, excludeTitles []string) ([]Recommendation, string) {
	prompt := buildRecommendPrompt(query, maxResults, excludeTitles)

	raw, err := c.gen.generate(ctx, prompt, true)
	if err != nil {
		c.logger.Error("recommendation request failed, serving fallback",
			"query", query,
			"error", err,
		)
		return fallback(), raw
	}

	recs, err := parseRecommendations(raw, maxResults)
	if err != nil {
		c.logger.Error("recommendation response unusable, serving fallback",
			"query", query,
			"error", err,
			"raw_response", raw,
		)
		return fallback(), raw
	}

	c.logger.Debug("model recommendations received",
		"query", query,
		"count", len(recs),
		"excluded", len(excludeTitles),
	)
	return recs, raw
}

func fallback() []Recommendation {
	out := make([]Recommendation, len(fallbackRecommendations))
	copy(out, fallbackRecommendations)
	return out
}

// parseRecommendations decodes the model output defensively: the array must
// be valid JSON, but individual elements that are not title-bearing objects
// are dropped rather than failing the batch.
func parseRecommendations(raw string, maxResults int) ([]Recommendation, error) {
	var elements []jsontext.Value
	if err := json.Unmarshal([]byte(raw), &elements); err != nil {
		return nil, fmt.Errorf("decode recommendation array: %w", err)
	}

	recs := make([]Recommendation, 0, len(elements))
	for _, element := range elements {
		var rec Recommendation
		if err := json.Unmarshal(element, &rec); err != nil {
			continue
		}
		if strings.TrimSpace(rec.Title) == "" {
			continue
		}
		if rec.Genre == "" {
			rec.Genre = domain.UnknownGenre
		}
		recs = append(recs, rec)
		if len(recs) == maxResults {
			break
		}
	}
	return recs, nil
}

// buildRecommendPrompt constructs the recommendation instruction.
func buildRecommendPrompt(query string, maxResults int, excludeTitles []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are an expert book recommendation/finder system. Based on the query, suggest books.
Focus mostly on recommending books that are similar plot-wise, theme-wise, or stylistically.
For each recommendation, include: title of the book, genre, and a short paragraph explaining why it was chosen, detailing aspects of its plot, themes, and mood that match the query.
Take into account: if the query is a book title, suggest similar books in the same genre or style. If the query is a general description, suggest books that fit that description. If the user is looking for a specific genre, suggest only books in that genre.

IMPORTANT:
Respond ONLY with a valid JSON array containing exactly %d recommendations (or fewer if not enough relevant books are found). Order it by relevance, most relevant first.
If the user is trying to find a specific book, and you know the book being described, you should add it to the response.
If the user is trying to find books similar to specific author(s), you should not recommend books by the same author(s) (unless told otherwise).
DO NOT RECOMMEND ANYTHING THAT IS NOT A BOOK.
`, maxResults)

	if len(excludeTitles) > 0 {
		b.WriteString("NEVER recommend any of the following titles, they were already suggested:\n")
		for _, title := range excludeTitles {
			fmt.Fprintf(&b, "- %s\n", title)
		}
	}

	b.WriteString(`The JSON array should follow this structure for each element:
{
  "title": "Book Title",
  "genre": "Genre of the book",
  "reason": "A detailed explanation connecting the book's stylistic elements with the provided description."
}

Query: `)
	b.WriteString(query)

	return b.String()
}
