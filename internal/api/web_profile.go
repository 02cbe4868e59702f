package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	domainerrors "github.com/j0yzhu/GameWebApp/internal/errors"
	"github.com/j0yzhu/GameWebApp/internal/validation"
)

// profileReview is a review listed on a profile.
type profileReview struct {
	GameTitle string
	GameURL   string
	Rating    int
	Comment   string
}

// profileWish is a wishlist entry listed on a profile.
type profileWish struct {
	GameTitle string
	GameURL   string
	Added     string
}

// profilePage is the content of profile.html.
type profilePage struct {
	Username string
	IsSelf   bool
	Reviews  []profileReview
	Wishes   []profileWish
}

// GET /profile
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.renderProfile(w, r, currentUser(r.Context()))
}

// GET /profile/{username}
func (s *Server) handleUserProfile(w http.ResponseWriter, r *http.Request) {
	s.renderProfile(w, r, pathParam(r, "username"))
}

func (s *Server) renderProfile(w http.ResponseWriter, r *http.Request, username string) {
	ctx := r.Context()

	user, err := s.services.Users.GetUser(ctx, username)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	reviews, err := s.services.Reviews.ReviewsByUser(ctx, user.Username)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	wishes, err := s.services.Wishlist.WishesByUser(ctx, user.Username)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	content := profilePage{
		Username: user.Username,
		IsSelf:   user.Username == currentUser(ctx),
	}
	for _, review := range reviews {
		content.Reviews = append(content.Reviews, profileReview{
			GameTitle: review.Game.Title,
			GameURL:   s.routes.Path(EndpointGame, "id", strconv.Itoa(review.Game.ID)),
			Rating:    review.Rating,
			Comment:   review.Comment,
		})
	}
	for _, wish := range wishes {
		content.Wishes = append(content.Wishes, profileWish{
			GameTitle: wish.Game.Title,
			GameURL:   s.routes.Path(EndpointGame, "id", strconv.Itoa(wish.Game.ID)),
			Added:     wish.WishTime.Format(time.DateOnly),
		})
	}

	s.render(w, r, http.StatusOK, pageProfile, user.Username, content)
}

// handleWishlistAdd puts a game on the current user's wishlist.
// POST /wishlist/add/{id}
func (s *Server) handleWishlistAdd(w http.ResponseWriter, r *http.Request) {
	gameID, err := validation.GameID(chi.URLParam(r, "id"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	if _, err := s.services.Wishlist.AddWish(r.Context(), currentUser(r.Context()), gameID); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			s.renderStatus(w, r, http.StatusBadRequest, "This game is already in your wishlist.")
			return
		}
		s.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, s.routes.Path(EndpointGame, "id", strconv.Itoa(gameID)), http.StatusSeeOther)
}

// handleWishlistRemove takes a game off the current user's wishlist.
// POST /wishlist/remove/{id}
func (s *Server) handleWishlistRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	gameID, err := validation.GameID(chi.URLParam(r, "id"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	if _, err := s.services.Games.GetGame(ctx, gameID); err != nil {
		s.renderError(w, r, err)
		return
	}

	if err := s.services.Wishlist.RemoveWish(ctx, currentUser(ctx), gameID); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			s.renderStatus(w, r, http.StatusBadRequest, "This game is not in your wishlist.")
			return
		}
		s.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, s.routes.Path(EndpointGame, "id", strconv.Itoa(gameID)), http.StatusSeeOther)
}

// handleReviewAdd posts a review by the current user.
// POST /review/add
func (s *Server) handleReviewAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderStatus(w, r, http.StatusBadRequest, "The submitted form could not be read.")
		return
	}

	form, err := s.validator.ParseReviewForm(r.PostForm)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	ctx := r.Context()
	if _, err := s.services.Reviews.AddReview(ctx, currentUser(ctx), form.GameID, form.Rating, form.Comment); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			s.renderStatus(w, r, http.StatusBadRequest, "You have already posted this review.")
			return
		}
		s.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, s.routes.Path(EndpointGame, "id", strconv.Itoa(form.GameID)), http.StatusSeeOther)
}
