package domain

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// Review limits.
const (
	MinRating        = 0
	MaxRating        = 5
	MaxCommentLength = 300
)

var (
	ErrInvalidRating  = errors.New("rating must be between 0 and 5")
	ErrInvalidComment = errors.New("comment must be between 1 and 300 characters")
	ErrMissingUser    = errors.New("user is required")
	ErrMissingGame    = errors.New("game is required")
)

// Review is a rated comment left by a user on a game.
// A user may review the same game more than once, but not with an identical comment.
type Review struct {
	User    *User  `json:"user"`
	Game    *Game  `json:"game"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// NewReview validates and builds a review. The comment is trimmed.
func NewReview(user *User, game *Game, rating int, comment string) (*Review, error) {
	if user == nil {
		return nil, ErrMissingUser
	}
	if game == nil {
		return nil, ErrMissingGame
	}
	if rating < MinRating || rating > MaxRating {
		return nil, ErrInvalidRating
	}
	comment = strings.TrimSpace(comment)
	if comment == "" || utf8.RuneCountInString(comment) > MaxCommentLength {
		return nil, ErrInvalidComment
	}
	return &Review{User: user, Game: game, Rating: rating, Comment: comment}, nil
}

// SameAs reports whether two reviews share the (user, game, comment) identity.
func (r *Review) SameAs(other *Review) bool {
	return r.User.Username == other.User.Username &&
		r.Game.ID == other.Game.ID &&
		r.Comment == other.Comment
}
