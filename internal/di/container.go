// Package di provides dependency injection configuration for the game catalog server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/j0yzhu/GameWebApp/internal/auth"
	"github.com/j0yzhu/GameWebApp/internal/config"
	"github.com/j0yzhu/GameWebApp/internal/di/providers"
	"github.com/j0yzhu/GameWebApp/internal/logger"
	"github.com/j0yzhu/GameWebApp/internal/service"
	"github.com/j0yzhu/GameWebApp/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Auth layer
	do.Provide(injector, providers.ProvidePasswordHasher)
	do.Provide(injector, providers.ProvideSessionKey)
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideLoginLimiter)

	// Repository layer
	do.Provide(injector, providers.ProvideRepositories)

	// Business services
	do.Provide(injector, providers.ProvideGameService)
	do.Provide(injector, providers.ProvideUserService)
	do.Provide(injector, providers.ProvideReviewService)
	do.Provide(injector, providers.ProvideWishlistService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services, which starts the HTTP server.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*validation.Validator](injector)

	if _, err := do.Invoke[*auth.SessionService](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*providers.LoginLimiterHandle](injector)

	if _, err := do.Invoke[*providers.RepositoriesHandle](injector); err != nil {
		return err
	}

	_ = do.MustInvoke[*service.GameService](injector)
	_ = do.MustInvoke[*service.UserService](injector)
	_ = do.MustInvoke[*service.ReviewService](injector)
	_ = do.MustInvoke[*service.WishlistService](injector)

	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	return nil
}
