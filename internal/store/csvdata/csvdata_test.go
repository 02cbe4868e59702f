package csvdata

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j0yzhu/GameWebApp/internal/auth"
	"github.com/j0yzhu/GameWebApp/internal/store/memory"
)

func newTestLoader(t *testing.T, dir string) *Loader {
	t.Helper()
	hasher, err := auth.NewPasswordHasher(auth.AlgorithmBcrypt, 4)
	require.NoError(t, err)
	l := NewLoader(dir, hasher, nil)
	l.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	return l
}

func TestPopulate(t *testing.T) {
	ctx := context.Background()
	repos := memory.New()

	report, err := newTestLoader(t, "testdata").Populate(ctx, repos)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Games)
	assert.Equal(t, 2, report.Users)
	assert.Equal(t, 2, report.Reviews)
	assert.Equal(t, 3, report.Wishes)
	// games: duplicate, bad id; users: duplicate, blank name;
	// reviews: duplicate, unknown user, unknown game, bad rating;
	// wishes: duplicate, unknown user.
	assert.Equal(t, 10, report.Skipped)
}

func TestPopulate_Games(t *testing.T) {
	ctx := context.Background()
	repos := memory.New()
	_, err := newTestLoader(t, "testdata").Populate(ctx, repos)
	require.NoError(t, err)

	game, err := repos.Games.GetGame(ctx, 311120)
	require.NoError(t, err)
	assert.Equal(t, "The Long Dark", game.Title)
	assert.Equal(t, "Aug 1, 2017", game.ReleaseDate)
	assert.InDelta(t, 34.99, game.Price, 0.001)
	assert.Equal(t, "http://www.thelongdark.com", game.WebsiteURL)
	require.NotNil(t, game.Publisher)
	assert.Equal(t, "Hinterland Studio Inc.", game.Publisher.Name)
	assert.Len(t, game.Genres, 4)
	assert.True(t, game.HasGenre("Simulation"))

	// The BOM-prefixed AppID header still resolves.
	_, err = repos.Games.GetGame(ctx, 7940)
	require.NoError(t, err)

	noPublisher, err := repos.Games.GetGame(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, noPublisher.Publisher)
	assert.Empty(t, noPublisher.Genres)

	genres, err := repos.Games.Genres(ctx)
	require.NoError(t, err)
	assert.Len(t, genres, 6)
}

func TestPopulate_HashesPlaintextPasswords(t *testing.T) {
	ctx := context.Background()
	repos := memory.New()
	l := newTestLoader(t, "testdata")
	_, err := l.Populate(ctx, repos)
	require.NoError(t, err)

	user, err := repos.Users.GetUser(ctx, "thorke")
	require.NoError(t, err)
	assert.True(t, auth.IsPasswordHash(user.PasswordHash))
	assert.NotEqual(t, "hunter2", user.PasswordHash)

	hasher := l.hasher.(*auth.PasswordHasher)
	assert.True(t, hasher.Verify(user.PasswordHash, "hunter2"))

	existing, err := repos.Users.GetUser(ctx, "fmercury")
	require.NoError(t, err)
	assert.Equal(t, "$2b$04$u6N9DJ0Pqk7yK2gwxwF3HeRk7l1C8mQyZxE6Y1cJqJcHzkQ1rQ3qK", existing.PasswordHash)
}

func TestPopulate_Wishes(t *testing.T) {
	ctx := context.Background()
	repos := memory.New()
	_, err := newTestLoader(t, "testdata").Populate(ctx, repos)
	require.NoError(t, err)

	wishes, err := repos.Wishlist.WishlistByUser(ctx, "thorke")
	require.NoError(t, err)
	require.Len(t, wishes, 2)
	assert.Equal(t, 311120, wishes[0].Game.ID)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), wishes[0].WishTime)
	assert.Equal(t, 1228870, wishes[1].Game.ID, "missing wish_time defaults to now")

	wishes, err = repos.Wishlist.WishlistByGame(ctx, 311120)
	require.NoError(t, err)
	require.Len(t, wishes, 2)
	assert.Equal(t, "fmercury", wishes[0].User.Username)
}

func TestPopulate_OptionalFilesMissing(t *testing.T) {
	dir := t.TempDir()
	data, err := os.ReadFile(filepath.Join("testdata", GamesFile))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, GamesFile), data, 0o600))

	report, err := newTestLoader(t, dir).Populate(context.Background(), memory.New())
	require.NoError(t, err)
	assert.Equal(t, 4, report.Games)
	assert.Zero(t, report.Users)
}

func TestPopulate_GamesFileRequired(t *testing.T) {
	_, err := newTestLoader(t, t.TempDir()).Populate(context.Background(), memory.New())
	assert.Error(t, err)
}

func TestPopulate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestLoader(t, "testdata").Populate(ctx, memory.New())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPopulate_SecondRunSkipsEverything(t *testing.T) {
	ctx := context.Background()
	repos := memory.New()
	l := newTestLoader(t, "testdata")

	_, err := l.Populate(ctx, repos)
	require.NoError(t, err)
	report, err := l.Populate(ctx, repos)
	require.NoError(t, err)

	assert.Zero(t, report.Games)
	assert.Zero(t, report.Users)
	assert.Zero(t, report.Reviews)
	assert.Zero(t, report.Wishes)

	n, err := repos.Games.NumberOfGames(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestParseWishTime(t *testing.T) {
	for _, s := range []string{"2024-03-01T10:00:00Z", "2024-03-01 10:00:00", "2024-03-01 10:00:00.123456", "2024-03-01"} {
		_, err := parseWishTime(s)
		assert.NoError(t, err, s)
	}
	_, err := parseWishTime("yesterday")
	assert.Error(t, err)
}
