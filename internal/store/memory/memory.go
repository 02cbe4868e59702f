package memory

import "github.com/j0yzhu/GameWebApp/internal/store"

// New creates an empty in-memory variant of every repository. Deleting a
// user also deletes their reviews and wishes.
func New() *store.Repositories {
	games := NewGameRepository()
	users := NewUserRepository()
	reviews := NewReviewRepository(users, games)
	wishlist := NewWishlistRepository(users, games)

	users.OnDelete(reviews.purgeUser)
	users.OnDelete(wishlist.purgeUser)

	return &store.Repositories{
		Games:    games,
		Users:    users,
		Reviews:  reviews,
		Wishlist: wishlist,
	}
}
