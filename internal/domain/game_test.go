package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGame(t *testing.T) {
	_, err := NewGame(0, "Portal")
	assert.ErrorIs(t, err, ErrInvalidGameID)

	_, err = NewGame(-3, "Portal")
	assert.ErrorIs(t, err, ErrInvalidGameID)

	_, err = NewGame(1, "  ")
	assert.ErrorIs(t, err, ErrInvalidTitle)

	game, err := NewGame(400, " Portal ")
	require.NoError(t, err)
	assert.Equal(t, 400, game.ID)
	assert.Equal(t, "Portal", game.Title)
	assert.Empty(t, game.Genres)
}

func TestGame_AddGenre(t *testing.T) {
	game := &Game{ID: 1, Title: "Portal"}

	game.AddGenre(NewGenre("Puzzle"))
	game.AddGenre(NewGenre("Action"))
	game.AddGenre(NewGenre("Puzzle"))

	require.Len(t, game.Genres, 2)
	assert.Equal(t, "Action", game.Genres[0].Name)
	assert.Equal(t, "Puzzle", game.Genres[1].Name)
	assert.True(t, game.HasGenre("Action"))
	assert.False(t, game.HasGenre("action"))
}

func TestGame_PublishedBy(t *testing.T) {
	game := &Game{ID: 1}
	assert.False(t, game.PublishedBy("Valve"))

	game.Publisher = &Publisher{Name: "Valve"}
	assert.True(t, game.PublishedBy("Valve"))
	assert.False(t, game.PublishedBy("valve"))
}

func TestParseReleaseDate(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
		want  time.Time
	}{
		{"Oct 21, 2008", true, time.Date(2008, time.October, 21, 0, 0, 0, 0, time.UTC)},
		{"October 21, 2008", true, time.Date(2008, time.October, 21, 0, 0, 0, 0, time.UTC)},
		{"21 Oct, 2008", true, time.Date(2008, time.October, 21, 0, 0, 0, 0, time.UTC)},
		{"Oct 2008", true, time.Date(2008, time.October, 1, 0, 0, 0, 0, time.UTC)},
		{"2008-10-21", true, time.Date(2008, time.October, 21, 0, 0, 0, 0, time.UTC)},
		{"", false, time.Time{}},
		{"coming soon", false, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseReleaseDate(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestGame_Equal(t *testing.T) {
	a := &Game{ID: 7, Title: "A"}
	b := &Game{ID: 7, Title: "B"}
	c := &Game{ID: 8, Title: "A"}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
	assert.Negative(t, CompareGames(a, c))
}

func TestNewReview(t *testing.T) {
	user := &User{Username: "alice"}
	game := &Game{ID: 1, Title: "Portal"}

	review, err := NewReview(user, game, 5, "  great  ")
	require.NoError(t, err)
	assert.Equal(t, "great", review.Comment)

	_, err = NewReview(user, game, 6, "too good")
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = NewReview(user, game, -1, "bad")
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = NewReview(user, game, 3, "   ")
	assert.ErrorIs(t, err, ErrInvalidComment)

	long := make([]rune, MaxCommentLength+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err = NewReview(user, game, 3, string(long))
	assert.ErrorIs(t, err, ErrInvalidComment)

	_, err = NewReview(nil, game, 3, "ok")
	assert.ErrorIs(t, err, ErrMissingUser)
	_, err = NewReview(user, nil, 3, "ok")
	assert.ErrorIs(t, err, ErrMissingGame)
}

func TestReview_SameAs(t *testing.T) {
	user := &User{Username: "alice"}
	game := &Game{ID: 1}

	a, _ := NewReview(user, game, 4, "fun")
	b, _ := NewReview(user, game, 1, "fun")
	c, _ := NewReview(user, game, 4, "very fun")

	assert.True(t, a.SameAs(b))
	assert.False(t, a.SameAs(c))
}

func TestNewWish(t *testing.T) {
	user := &User{Username: "alice"}
	game := &Game{ID: 1}

	before := time.Now().UTC()
	wish, err := NewWish(user, game, time.Time{})
	require.NoError(t, err)
	assert.False(t, wish.WishTime.Before(before.Add(-time.Second)))

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	wish, err = NewWish(user, game, at)
	require.NoError(t, err)
	assert.Equal(t, at, wish.WishTime)

	other, _ := NewWish(user, game, time.Time{})
	assert.True(t, wish.SameAs(other))

	_, err = NewWish(nil, game, at)
	assert.ErrorIs(t, err, ErrMissingUser)
}
