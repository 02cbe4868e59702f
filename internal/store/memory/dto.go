package memory

import (
	"time"

	"github.com/j0yzhu/GameWebApp/internal/domain"
)

// UserDTO is the stored form of a user.
type UserDTO struct {
	Username     string
	PasswordHash string
}

func newUserDTO(u *domain.User) UserDTO {
	return UserDTO{Username: u.Username, PasswordHash: u.PasswordHash}
}

func (d UserDTO) toUser() *domain.User {
	return &domain.User{Username: d.Username, PasswordHash: d.PasswordHash}
}

// ReviewDTO is the stored form of a review. Its user and game are held by
// identity and resolved through the user and game repositories on read.
type ReviewDTO struct {
	Username string
	GameID   int
	Rating   int
	Comment  string
}

func newReviewDTO(r *domain.Review) ReviewDTO {
	return ReviewDTO{
		Username: r.User.Username,
		GameID:   r.Game.ID,
		Rating:   r.Rating,
		Comment:  r.Comment,
	}
}

// sameAs compares the (user, game, comment) identity.
func (d ReviewDTO) sameAs(o ReviewDTO) bool {
	return d.Username == o.Username && d.GameID == o.GameID && d.Comment == o.Comment
}

// WishDTO is the stored form of a wish.
type WishDTO struct {
	Username string
	GameID   int
	WishTime time.Time
}

func newWishDTO(w *domain.Wish) WishDTO {
	return WishDTO{Username: w.User.Username, GameID: w.Game.ID, WishTime: w.WishTime}
}
