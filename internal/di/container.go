// Package di provides dependency injection configuration for the Shelfwise server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/shelfwise/shelfwise-server/internal/ai"
	"github.com/shelfwise/shelfwise-server/internal/config"
	"github.com/shelfwise/shelfwise-server/internal/di/providers"
	"github.com/shelfwise/shelfwise-server/internal/logger"
	"github.com/shelfwise/shelfwise-server/internal/metadata/openlibrary"
	"github.com/shelfwise/shelfwise-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// External clients
	do.Provide(injector, providers.ProvideAIClient)
	do.Provide(injector, providers.ProvideCatalogClient)

	// Business services
	do.Provide(injector, providers.ProvideDiscoveryService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns once every provider has run.
// This triggers lazy initialization in dependency order.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*ai.Client](injector)
	_ = do.MustInvoke[*openlibrary.Client](injector)
	_ = do.MustInvoke[*service.DiscoveryService](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
