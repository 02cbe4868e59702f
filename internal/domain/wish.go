package domain

import "time"

// Wish records that a user wants a game. At most one wish exists per (user, game).
type Wish struct {
	User     *User     `json:"user"`
	Game     *Game     `json:"game"`
	WishTime time.Time `json:"wish_time"`
}

// NewWish builds a wish. A zero time is replaced with the current time.
func NewWish(user *User, game *Game, at time.Time) (*Wish, error) {
	if user == nil {
		return nil, ErrMissingUser
	}
	if game == nil {
		return nil, ErrMissingGame
	}
	if at.IsZero() {
		at = time.Now()
	}
	return &Wish{User: user, Game: game, WishTime: at.UTC()}, nil
}

// SameAs reports whether two wishes are for the same user and game.
func (w *Wish) SameAs(other *Wish) bool {
	return w.User.Username == other.User.Username && w.Game.ID == other.Game.ID
}
