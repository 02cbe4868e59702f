package domain

import (
	"errors"
	"slices"
	"strings"
	"time"
)

// Validation errors returned by the domain constructors.
var (
	ErrInvalidGameID = errors.New("game id must be a positive integer")
	ErrInvalidTitle  = errors.New("game title must not be empty")
)

// releaseDateLayouts are the formats found in the Steam export, most common first.
var releaseDateLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan, 2006",
	"2 January, 2006",
	"Jan 2006",
	"2006-01-02",
}

// Game is a catalog entry. Identity and ordering are by ID.
type Game struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Price       float64    `json:"price"`
	ReleaseDate string     `json:"release_date,omitempty"` // Free text as published, e.g. "Oct 21, 2008"
	Description string     `json:"description,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	WebsiteURL  string     `json:"website_url,omitempty"`
	Publisher   *Publisher `json:"publisher,omitempty"`
	Genres      []Genre    `json:"genres"` // Unique by name, kept sorted
}

// NewGame creates a game with the required identity fields.
func NewGame(id int, title string) (*Game, error) {
	if id <= 0 {
		return nil, ErrInvalidGameID
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrInvalidTitle
	}
	return &Game{ID: id, Title: title, Genres: []Genre{}}, nil
}

// AddGenre attaches a genre. Adding a genre the game already has is a no-op.
func (g *Game) AddGenre(genre Genre) {
	i, found := slices.BinarySearchFunc(g.Genres, genre, CompareGenres)
	if found {
		return
	}
	g.Genres = slices.Insert(g.Genres, i, genre)
}

// HasGenre reports whether the game is tagged with the named genre.
func (g *Game) HasGenre(name string) bool {
	for _, genre := range g.Genres {
		if genre.Name == name {
			return true
		}
	}
	return false
}

// PublishedBy reports whether the game's publisher has the given name.
func (g *Game) PublishedBy(name string) bool {
	return g.Publisher != nil && g.Publisher.Name == name
}

// ReleaseTime parses ReleaseDate. The second result is false when the date is
// missing or not in a recognised format.
func (g *Game) ReleaseTime() (time.Time, bool) {
	return ParseReleaseDate(g.ReleaseDate)
}

// ParseReleaseDate parses a free-text release date.
func ParseReleaseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// TitleKey is the case-folded title used for alphabetical ordering.
func (g *Game) TitleKey() string {
	return strings.ToLower(g.Title)
}

// Equal reports whether two games share an identity.
func (g *Game) Equal(other *Game) bool {
	if g == nil || other == nil {
		return g == other
	}
	return g.ID == other.ID
}

// CompareGames orders games by ID.
func CompareGames(a, b *Game) int {
	return a.ID - b.ID
}
