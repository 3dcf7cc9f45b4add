// Package ai provides the Gemini-backed recommendation client and profile
// narrator for the Shelfwise server.
package ai

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"google.golang.org/genai"
)

const (
	// DefaultModel is the text-generation model used for both
	// recommendations and profile narration.
	DefaultModel = "gemini-2.0-flash"

	// DefaultTemperature favors creative, varied recommendations over
	// deterministic repetition. This is a discovery tool, not a factual
	// lookup.
	DefaultTemperature = 1.2
)

// Config holds the model client configuration.
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
}

// Client talks to the hosted text-generation model. It is constructed once at
// startup and injected where needed; there is no process-wide model state.
type Client struct {
	gen    generator
	logger *slog.Logger
}

// New creates a model client for the Gemini API.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("model API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Client{
		gen: &geminiGenerator{
			client:      gc,
			model:       cfg.Model,
			temperature: cfg.Temperature,
		},
		logger: logger,
	}, nil
}

// generator abstracts the model SDK surface used by this package.
// Tests substitute a stub implementation.
type generator interface {
	// generate performs a single-shot completion. jsonOutput requests the
	// structured-output (JSON MIME type) decoding mode.
	generate(ctx context.Context, prompt string, jsonOutput bool) (string, error)

	// stream performs a streaming completion, yielding text fragments as
	// they arrive. A yielded error terminates the sequence.
	stream(ctx context.Context, prompt string) iter.Seq2[string, error]
}

// geminiGenerator implements generator on the official Gemini SDK.
type geminiGenerator struct {
	client      *genai.Client
	model       string
	temperature float32
}

func (g *geminiGenerator) config(jsonOutput bool) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	}
	if jsonOutput {
		cfg.ResponseMIMEType = "application/json"
	}
	return cfg
}

func (g *geminiGenerator) generate(ctx context.Context, prompt string, jsonOutput bool) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config(jsonOutput))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}

func (g *geminiGenerator) stream(ctx context.Context, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for resp, err := range g.client.Models.GenerateContentStream(ctx, g.model, genai.Text(prompt), g.config(false)) {
			if err != nil {
				yield("", err)
				return
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			if !yield(text, nil) {
				return
			}
		}
	}
}
