package domain

import "strings"

// Genre is a category a game can be tagged with. Its name is its identity
// and is case-sensitive: "RPG" and "rpg" are different genres.
type Genre struct {
	Name string `json:"name"`
}

// NewGenre returns a genre with surrounding whitespace removed from the name.
func NewGenre(name string) Genre {
	return Genre{Name: strings.TrimSpace(name)}
}

func (g Genre) String() string {
	return g.Name
}

// CompareGenres orders genres by name.
func CompareGenres(a, b Genre) int {
	return strings.Compare(a.Name, b.Name)
}

// Publisher is the company that released a game, identified by name.
type Publisher struct {
	Name string `json:"name"`
}

// NewPublisher returns a publisher with surrounding whitespace removed from the name.
func NewPublisher(name string) Publisher {
	return Publisher{Name: strings.TrimSpace(name)}
}

func (p Publisher) String() string {
	return p.Name
}

// ComparePublishers orders publishers by name.
func ComparePublishers(a, b Publisher) int {
	return strings.Compare(a.Name, b.Name)
}
