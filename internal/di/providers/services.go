package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/shelfwise/shelfwise-server/internal/ai"
	"github.com/shelfwise/shelfwise-server/internal/config"
	"github.com/shelfwise/shelfwise-server/internal/logger"
	"github.com/shelfwise/shelfwise-server/internal/metadata/openlibrary"
	"github.com/shelfwise/shelfwise-server/internal/service"
)

// ProvideAIClient provides the Gemini-backed generation client.
func ProvideAIClient(i do.Injector) (*ai.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client, err := ai.New(context.Background(), ai.Config{
		APIKey:      cfg.AI.APIKey,
		Model:       cfg.AI.Model,
		Temperature: float32(cfg.AI.Temperature),
	}, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("AI client initialized", "model", cfg.AI.Model)

	return client, nil
}

// ProvideCatalogClient provides the Open Library catalog client.
func ProvideCatalogClient(i do.Injector) (*openlibrary.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return openlibrary.NewClient(cfg.Catalog.OpenLibraryURL, log.Logger), nil
}

// ProvideDiscoveryService provides the book discovery orchestrator.
func ProvideDiscoveryService(i do.Injector) (*service.DiscoveryService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	aiClient := do.MustInvoke[*ai.Client](i)
	catalog := do.MustInvoke[*openlibrary.Client](i)

	return service.NewDiscoveryService(
		storeHandle.Store,
		aiClient,
		catalog,
		cfg.Discovery.NewSearchCount,
		cfg.Discovery.MoreBooksCount,
		log.Logger,
	), nil
}
