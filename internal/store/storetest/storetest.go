// Package storetest holds the behaviour every store variant must share.
// Variant packages call Run from their own tests.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j0yzhu/GameWebApp/internal/domain"
	"github.com/j0yzhu/GameWebApp/internal/store"
)

// Factory returns a fresh, empty variant for one test.
type Factory func(t *testing.T) *store.Repositories

// Catalog is the fixture seeded by Seed: five games, three of them Action.
//
//	id  title           released      genres             publisher
//	10  zeta Quest      Oct 21, 2008  Action, Adventure  Valve
//	20  Alpha Strike    Jan 5, 2010   Action             Ubisoft
//	30  beta Run        (none)        Racing             Valve
//	40  Alpha Strike    Jan 5, 2010   Action             Ubisoft
//	50  Gamma           coming soon   Puzzle             Indie
func Catalog() []*domain.Game {
	game := func(id int, title, released, publisher string, genres ...string) *domain.Game {
		g, _ := domain.NewGame(id, title)
		g.ReleaseDate = released
		g.Price = float64(id) / 10
		g.Description = title + " description"
		g.Publisher = &domain.Publisher{Name: publisher}
		for _, name := range genres {
			g.AddGenre(domain.NewGenre(name))
		}
		return g
	}
	return []*domain.Game{
		game(10, "zeta Quest", "Oct 21, 2008", "Valve", "Action", "Adventure"),
		game(20, "Alpha Strike", "Jan 5, 2010", "Ubisoft", "Action"),
		game(30, "beta Run", "", "Valve", "Racing"),
		game(40, "Alpha Strike", "Jan 5, 2010", "Ubisoft", "Action"),
		game(50, "Gamma", "coming soon", "Indie", "Puzzle"),
	}
}

// Usernames seeded by Seed.
var Usernames = []string{"carol", "alice", "bob"}

// Seed loads the catalog and users into repos.
func Seed(t *testing.T, repos *store.Repositories) {
	t.Helper()
	ctx := context.Background()

	for _, g := range Catalog() {
		require.NoError(t, repos.Games.AddGame(ctx, g))
	}
	for _, name := range Usernames {
		require.NoError(t, repos.Users.AddUser(ctx, &domain.User{Username: name, PasswordHash: "hash-" + name}))
	}
}

func ids(games []*domain.Game) []int {
	out := make([]int, len(games))
	for i, g := range games {
		out[i] = g.ID
	}
	return out
}

func all() store.ListOptions { return store.ListOptions{} }

// Run exercises every repository contract against the variant built by newRepos.
func Run(t *testing.T, newRepos Factory) {
	t.Run("Games", func(t *testing.T) { runGames(t, newRepos) })
	t.Run("Users", func(t *testing.T) { runUsers(t, newRepos) })
	t.Run("Reviews", func(t *testing.T) { runReviews(t, newRepos) })
	t.Run("Wishlist", func(t *testing.T) { runWishlist(t, newRepos) })
}

func runGames(t *testing.T, newRepos Factory) {
	ctx := context.Background()

	t.Run("GetGame", func(t *testing.T) {
		repos := newRepos(t)
		Seed(t, repos)

		game, err := repos.Games.GetGame(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, "zeta Quest", game.Title)
		assert.Equal(t, "Oct 21, 2008", game.ReleaseDate)
		assert.InDelta(t, 1.0, game.Price, 0.0001)
		require.NotNil(t, game.Publisher)
		assert.Equal(t, "Valve", game.Publisher.Name)
		assert.Equal(t, []domain.Genre{{Name: "Action"}, {Name: "Adventure"}}, game.Genres)

		_, err = repos.Games.GetGame(ctx, 999)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("AddGame duplicate", func(t *testing.T) {
		repos := newRepos(t)
		Seed(t, repos)

		dup, _ := domain.NewGame(10, "Another")
		assert.ErrorIs(t, repos.Games.AddGame(ctx, dup), store.ErrAlreadyExists)

		n, err := repos.Games.NumberOfGames(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, n)
	})

	t.Run("AddGame cascades genres and publisher", func(t *testing.T) {
		repos := newRepos(t)
		Seed(t, repos)

		genres, err := repos.Games.Genres(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.Genre{{Name: "Action"}, {Name: "Adventure"}, {Name: "Puzzle"}, {Name: "Racing"}}, genres)

		publishers, err := repos.Games.Publishers(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.Publisher{{Name: "Indie"}, {Name: "Ubisoft"}, {Name: "Valve"}}, publishers)

		genre, err := repos.Games.GetGenre(ctx, "Racing")
		require.NoError(t, err)
		assert.Equal(t, "Racing", genre.Name)

		_, err = repos.Games.GetGenre(ctx, "racing")
		assert.ErrorIs(t, err, store.ErrNotFound, "genre names are case-sensitive")

		_, err = repos.Games.GetPublisher(ctx, "Nobody")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("AddGenre and AddPublisher", func(t *testing.T) {
		repos := newRepos(t)

		require.NoError(t, repos.Games.AddGenre(ctx, domain.Genre{Name: "Strategy"}))
		assert.ErrorIs(t, repos.Games.AddGenre(ctx, domain.Genre{Name: "Strategy"}), store.ErrAlreadyExists)

		require.NoError(t, repos.Games.AddPublisher(ctx, domain.Publisher{Name: "Sega"}))
		assert.ErrorIs(t, repos.Games.AddPublisher(ctx, domain.Publisher{Name: "Sega"}), store.ErrAlreadyExists)

		// A game may reference genres and publishers already present.
		g, _ := domain.NewGame(1, "Total War")
		g.AddGenre(domain.Genre{Name: "Strategy"})
		g.Publisher = &domain.Publisher{Name: "Sega"}
		require.NoError(t, repos.Games.AddGame(ctx, g))

		got, err := repos.Games.GetGame(ctx, 1)
		require.NoError(t, err)
		assert.True(t, got.HasGenre("Strategy"))
		assert.True(t, got.PublishedBy("Sega"))
	})

	t.Run("Games natural order", func(t *testing.T) {
		repos := newRepos(t)
		Seed(t, repos)

		games, err := repos.Games.Games(ctx, all())
		require.NoError(t, err)
		assert.Equal(t, []int{10, 20, 30, 40, 50}, ids(games))

		games, err = repos.Games.Games(ctx, store.ListOptions{Reverse: true})
		require.NoError(t, err)
		assert.Equal(t, []int{50, 40, 30, 20, 10}, ids(games))

		games, err = repos.Games.Games(ctx, store.ListOptions{Offset: 2, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, []int{30, 40}, ids(games))

		games, err = repos.Games.Games(ctx, store.ListOptions{Offset: 10, Limit: 2})
		require.NoError(t, err)
		assert.Empty(t, games)
	})

	t.Run("GamesSortedAlphabetically", func(t *testing.T) {
		repos := newRepos(t)
		Seed(t, repos)

		forward, err := repos.Games.GamesSortedAlphabetically(ctx, all())
		require.NoError(t, err)
		assert.Equal(t, []int{20, 40, 30, 50, 10}, ids(forward))

		again, err := repos.Games.GamesSortedAlphabetically(ctx, all())
		require.NoError(t, err)
		assert.Equal(t, ids(forward), ids(again), "sorting is idempotent")

		reverse, err := repos.Games.GamesSortedAlphabetically(ctx, store.ListOptions{Reverse: true})
		require.NoError(t, err)
		assert.Equal(t, []int{10, 50, 30, 40, 20}, ids(reverse), "reverse is the exact reversal")

		page, err := repos.Games.GamesSortedAlphabetically(ctx, store.ListOptions{Offset: 1, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, []int{40, 30}, ids(page))
	})

	t.Run("GamesSortedByDate", func(t *testing.T) {
		repos := newRepos(t)
		Seed(t, repos)

		oldest, err := repos.Games.GamesSortedByDate(ctx, all())
		require.NoError(t, err)
		assert.Equal(t, []int{10, 20, 40, 30, 50}, ids(oldest))

		newest, err := repos.Games.GamesSortedByDate(ctx, store.ListOptions{Reverse: true})
		require.NoError(t, err)
		assert.Equal(t, []int{40, 20, 10, 30, 50}, ids(newest), "undated games stay last")

		page, err := repos.Games.GamesSortedByDate(ctx, store.ListOptions{Offset: 2, Limit: 2, Reverse: true})
		require.NoError(t, err)
		assert.Equal(t, []int{10, 30}, ids(page))
	})

	t.Run("GamesWithGenre", func(t *testing.T) {
		repos := newRepos(t)
		Seed(t, repos)

		games, err := repos.Games.GamesWithGenre(ctx, "Action", store.ListOptions{Offset: 0, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, []int{10, 20, 40}, ids(games))

		games, err = repos.Games.GamesWithGenre(ctx, "Action", store.ListOptions{Offset: 10, Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, games)

		_, err = repos.Games.GamesWithGenre(ctx, "Horror", all())
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("GamesByPublisher", func(t *testing.T) {
		repos := newRepos(t)
		Seed(t, repos)

		games, err := repos.Games.GamesByPublisher(ctx, "Valve", all())
		require.NoError(t, err)
		assert.Equal(t, []int{10, 30}, ids(games))

		games, err = repos.Games.GamesByPublisher(ctx, "Valve", store.ListOptions{Reverse: true})
		require.NoError(t, err)
		assert.Equal(t, []int{30, 10}, ids(games))

		_, err = repos.Games.GamesByPublisher(ctx, "Nobody", all())
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("SearchGames finds title matches", func(t *testing.T) {
		repos := newRepos(t)
		Seed(t, repos)

		games, err := repos.Games.SearchGames(ctx, "alpha strike", store.ListOptions{Limit: 2})
		require.NoError(t, err)
		require.Len(t, games, 2)
		assert.ElementsMatch(t, []int{20, 40}, ids(games))
	})

	t.Run("GamesSortedAlphabetically folds non-ASCII capitals", func(t *testing.T) {
		repos := newRepos(t)
		for id, title := range map[int]string{1: "Ébène", 2: "éa", 3: "Zoo"} {
			g, err := domain.NewGame(id, title)
			require.NoError(t, err)
			require.NoError(t, repos.Games.AddGame(ctx, g))
		}

		games, err := repos.Games.GamesSortedAlphabetically(ctx, all())
		require.NoError(t, err)
		assert.Equal(t, []int{3, 2, 1}, ids(games))

		games, err = repos.Games.GamesSortedAlphabetically(ctx, store.ListOptions{Reverse: true})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, ids(games))
	})
}

func runUsers(t *testing.T, newRepos Factory) {
	ctx := context.Background()

	t.Run("GetUser", func(t *testing.T) {
		repos := newRepos(t)
		Seed(t, repos)

		user, err := repos.Users.GetUser(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "hash-alice", user.PasswordHash)

		_, err = repos.Users.GetUser(ctx, "Alice")
		assert.ErrorIs(t, err, store.ErrNotFound, "usernames are case-sensitive")
	})

	t.Run("Users ordered by username", func(t *testing.T) {
		repos := newRepos(t)
		Seed(t, repos)

		users, err := repos.Users.Users(ctx, all())
		require.NoError(t, err)
		require.Len(t, users, 3)
		assert.Equal(t, "alice", users[0].Username)
		assert.Equal(t, "bob", users[1].Username)
		assert.Equal(t, "carol", users[2].Username)

		users, err = repos.Users.Users(ctx, store.ListOptions{Limit: 2, Reverse: true})
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "carol", users[0].Username)
		assert.Equal(t, "bob", users[1].Username)

		n, err := repos.Users.NumberOfUsers(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("AddUser duplicate", func(t *testing.T) {
		repos := newRepos(t)
		Seed(t, repos)

		err := repos.Users.AddUser(ctx, &domain.User{Username: "alice", PasswordHash: "other"})
		assert.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("DeleteUser", func(t *testing.T) {
		repos := newRepos(t)
		Seed(t, repos)

		require.NoError(t, repos.Users.DeleteUser(ctx, "bob"))
		_, err := repos.Users.GetUser(ctx, "bob")
		assert.ErrorIs(t, err, store.ErrNotFound)

		assert.ErrorIs(t, repos.Users.DeleteUser(ctx, "bob"), store.ErrNotFound)
	})

	t.Run("DeleteUser then register the same name", func(t *testing.T) {
		repos := newRepos(t)
		Seed(t, repos)

		require.NoError(t, repos.Reviews.AddReview(ctx, review(t, repos, "bob", 20, 5, "Loved it")))
		require.NoError(t, repos.Wishlist.AddWish(ctx, wish(t, repos, "bob", 30, time.Now())))
		require.NoError(t, repos.Users.DeleteUser(ctx, "bob"))
		require.NoError(t, repos.Users.AddUser(ctx, &domain.User{Username: "bob", PasswordHash: "hash-new"}))

		reviews, err := repos.Reviews.ReviewsByUser(ctx, "bob")
		require.NoError(t, err)
		assert.Empty(t, reviews, "a new account starts without the old reviews")

		reviews, err = repos.Reviews.ReviewsForGame(ctx, 20)
		require.NoError(t, err)
		assert.Empty(t, reviews)

		wishes, err := repos.Wishlist.WishlistByUser(ctx, "bob")
		require.NoError(t, err)
		assert.Empty(t, wishes, "a new account starts without the old wishes")

		require.NoError(t, repos.Reviews.AddReview(ctx, review(t, repos, "bob", 20, 2, "Loved it")))
		require.NoError(t, repos.Wishlist.AddWish(ctx, wish(t, repos, "bob", 30, time.Now())))
	})
}

func review(t *testing.T, repos *store.Repositories, username string, gameID, rating int, comment string) *domain.Review {
	t.Helper()
	ctx := context.Background()

	user, err := repos.Users.GetUser(ctx, username)
	require.NoError(t, err)
	game, err := repos.Games.GetGame(ctx, gameID)
	require.NoError(t, err)
	r, err := domain.NewReview(user, game, rating, comment)
	require.NoError(t, err)
	return r
}

func runReviews(t *testing.T, newRepos Factory) {
	ctx := context.Background()

	t.Run("AddReview identity", func(t *testing.T) {
		repos := newRepos(t)
		Seed(t, repos)

		require.NoError(t, repos.Reviews.AddReview(ctx, review(t, repos, "alice", 10, 4, "Great")))

		err := repos.Reviews.AddReview(ctx, review(t, repos, "alice", 10, 2, "Great"))
		assert.ErrorIs(t, err, store.ErrAlreadyExists)

		require.NoError(t, repos.Reviews.AddReview(ctx, review(t, repos, "alice", 10, 2, "Still great")))

		reviews, err := repos.Reviews.ReviewsForGame(ctx, 10)
		require.NoError(t, err)
		require.Len(t, reviews, 2)
		assert.Equal(t, "Great", reviews[0].Comment)
		assert.Equal(t, 4, reviews[0].Rating)
		assert.Equal(t, "Still great", reviews[1].Comment)
		assert.Equal(t, "alice", reviews[1].User.Username)
		assert.Equal(t, "zeta Quest", reviews[1].Game.Title)
	})

	t.Run("ReviewsByUser", func(t *testing.T) {
		repos := newRepos(t)
		Seed(t, repos)

		require.NoError(t, repos.Reviews.AddReview(ctx, review(t, repos, "bob", 20, 5, "Loved it")))
		require.NoError(t, repos.Reviews.AddReview(ctx, review(t, repos, "alice", 20, 1, "Nope")))
		require.NoError(t, repos.Reviews.AddReview(ctx, review(t, repos, "bob", 50, 3, "Fine")))

		reviews, err := repos.Reviews.ReviewsByUser(ctx, "bob")
		require.NoError(t, err)
		require.Len(t, reviews, 2)
		assert.Equal(t, 20, reviews[0].Game.ID)
		assert.Equal(t, 50, reviews[1].Game.ID)

		reviews, err = repos.Reviews.ReviewsByUser(ctx, "carol")
		require.NoError(t, err)
		assert.Empty(t, reviews)
	})

	t.Run("AddReview unknown user or game", func(t *testing.T) {
		repos := newRepos(t)
		Seed(t, repos)

		game, err := repos.Games.GetGame(ctx, 10)
		require.NoError(t, err)
		r, err := domain.NewReview(&domain.User{Username: "ghost"}, game, 3, "boo")
		require.NoError(t, err)
		assert.ErrorIs(t, repos.Reviews.AddReview(ctx, r), store.ErrNotFound)

		user, err := repos.Users.GetUser(ctx, "alice")
		require.NoError(t, err)
		missing, _ := domain.NewGame(999, "Missing")
		r, err = domain.NewReview(user, missing, 3, "where")
		require.NoError(t, err)
		assert.ErrorIs(t, repos.Reviews.AddReview(ctx, r), store.ErrNotFound)

		reviews, err := repos.Reviews.ReviewsByUser(ctx, "alice")
		require.NoError(t, err)
		assert.Empty(t, reviews)
	})

	t.Run("deleted author drops reviews", func(t *testing.T) {
		repos := newRepos(t)
		Seed(t, repos)

		require.NoError(t, repos.Reviews.AddReview(ctx, review(t, repos, "bob", 20, 5, "Loved it")))
		require.NoError(t, repos.Reviews.AddReview(ctx, review(t, repos, "alice", 20, 1, "Nope")))
		require.NoError(t, repos.Users.DeleteUser(ctx, "bob"))

		reviews, err := repos.Reviews.ReviewsForGame(ctx, 20)
		require.NoError(t, err)
		require.Len(t, reviews, 1)
		assert.Equal(t, "alice", reviews[0].User.Username)
	})
}

func wish(t *testing.T, repos *store.Repositories, username string, gameID int, at time.Time) *domain.Wish {
	t.Helper()
	ctx := context.Background()

	user, err := repos.Users.GetUser(ctx, username)
	require.NoError(t, err)
	game, err := repos.Games.GetGame(ctx, gameID)
	require.NoError(t, err)
	w, err := domain.NewWish(user, game, at)
	require.NoError(t, err)
	return w
}

func runWishlist(t *testing.T, newRepos Factory) {
	ctx := context.Background()
	base := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)

	t.Run("AddWish and list by time", func(t *testing.T) {
		repos := newRepos(t)
		Seed(t, repos)

		require.NoError(t, repos.Wishlist.AddWish(ctx, wish(t, repos, "alice", 30, base.Add(2*time.Hour))))
		require.NoError(t, repos.Wishlist.AddWish(ctx, wish(t, repos, "alice", 10, base)))
		require.NoError(t, repos.Wishlist.AddWish(ctx, wish(t, repos, "bob", 10, base.Add(time.Hour))))

		wishes, err := repos.Wishlist.WishlistByUser(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, wishes, 2)
		assert.Equal(t, 10, wishes[0].Game.ID)
		assert.Equal(t, 30, wishes[1].Game.ID)
		assert.True(t, base.Equal(wishes[0].WishTime))

		wishes, err = repos.Wishlist.WishlistByGame(ctx, 10)
		require.NoError(t, err)
		require.Len(t, wishes, 2)
		assert.Equal(t, "alice", wishes[0].User.Username)
		assert.Equal(t, "bob", wishes[1].User.Username)
	})

	t.Run("AddWish unknown user or game", func(t *testing.T) {
		repos := newRepos(t)
		Seed(t, repos)

		game, err := repos.Games.GetGame(ctx, 10)
		require.NoError(t, err)
		w, err := domain.NewWish(&domain.User{Username: "ghost"}, game, base)
		require.NoError(t, err)
		assert.ErrorIs(t, repos.Wishlist.AddWish(ctx, w), store.ErrNotFound)

		user, err := repos.Users.GetUser(ctx, "alice")
		require.NoError(t, err)
		missing, _ := domain.NewGame(999, "Missing")
		w, err = domain.NewWish(user, missing, base)
		require.NoError(t, err)
		assert.ErrorIs(t, repos.Wishlist.AddWish(ctx, w), store.ErrNotFound)
	})

	t.Run("AddWish duplicate", func(t *testing.T) {
		repos := newRepos(t)
		Seed(t, repos)

		require.NoError(t, repos.Wishlist.AddWish(ctx, wish(t, repos, "alice", 10, base)))
		err := repos.Wishlist.AddWish(ctx, wish(t, repos, "alice", 10, base.Add(time.Minute)))
		assert.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("RemoveWish", func(t *testing.T) {
		repos := newRepos(t)
		Seed(t, repos)

		assert.ErrorIs(t, repos.Wishlist.RemoveWish(ctx, "alice", 10), store.ErrNotFound)

		require.NoError(t, repos.Wishlist.AddWish(ctx, wish(t, repos, "alice", 10, base)))
		require.NoError(t, repos.Wishlist.RemoveWish(ctx, "alice", 10))

		wishes, err := repos.Wishlist.WishlistByUser(ctx, "alice")
		require.NoError(t, err)
		assert.Empty(t, wishes)

		assert.ErrorIs(t, repos.Wishlist.RemoveWish(ctx, "alice", 10), store.ErrNotFound)
	})
}
