package api

import (
	"github.com/j0yzhu/GameWebApp/internal/service"
	"github.com/j0yzhu/GameWebApp/internal/store"
)

// Services groups the business logic services used by the server.
type Services struct {
	Games    *service.GameService
	Users    *service.UserService
	Reviews  *service.ReviewService
	Wishlist *service.WishlistService

	// Health reports repository reachability. Nil for variants that are
	// always reachable.
	Health store.Pinger
}
