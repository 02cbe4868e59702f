package providers

import (
	"github.com/samber/do/v2"

	"github.com/j0yzhu/GameWebApp/internal/auth"
	"github.com/j0yzhu/GameWebApp/internal/logger"
	"github.com/j0yzhu/GameWebApp/internal/service"
)

// ProvideGameService provides the catalog service.
func ProvideGameService(i do.Injector) (*service.GameService, error) {
	repos := do.MustInvoke[*RepositoriesHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewGameService(repos.Games, log.Logger), nil
}

// ProvideUserService provides the account service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	repos := do.MustInvoke[*RepositoriesHandle](i)
	hasher := do.MustInvoke[*auth.PasswordHasher](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewUserService(repos.Users, hasher, log.Logger), nil
}

// ProvideReviewService provides the review service.
func ProvideReviewService(i do.Injector) (*service.ReviewService, error) {
	repos := do.MustInvoke[*RepositoriesHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewReviewService(repos.Repositories, log.Logger), nil
}

// ProvideWishlistService provides the wishlist service.
func ProvideWishlistService(i do.Injector) (*service.WishlistService, error) {
	repos := do.MustInvoke[*RepositoriesHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewWishlistService(repos.Repositories, log.Logger), nil
}
