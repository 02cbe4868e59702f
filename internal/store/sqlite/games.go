package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/j0yzhu/GameWebApp/internal/domain"
	"github.com/j0yzhu/GameWebApp/internal/store"
)

// gameColumns is the ordered list of columns selected in game queries.
// Must match the scan order in scanGame. Queries alias games as g.
const gameColumns = `g.id, g.title, g.publisher_name, g.price, g.release_date,
	g.description, g.image_url, g.website_url`

// querier is satisfied by *sql.Tx and *sql.DB.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanGame scans a sql.Row (or sql.Rows via its Scan method) into a domain.Game.
// Genres are attached separately by attachGenres.
func scanGame(scanner interface{ Scan(dest ...any) error }) (*domain.Game, error) {
	g := &domain.Game{Genres: []domain.Genre{}}

	var (
		publisher   sql.NullString
		releaseDate sql.NullString
		description sql.NullString
		imageURL    sql.NullString
		websiteURL  sql.NullString
	)

	err := scanner.Scan(
		&g.ID,
		&g.Title,
		&publisher,
		&g.Price,
		&releaseDate,
		&description,
		&imageURL,
		&websiteURL,
	)
	if err != nil {
		return nil, err
	}

	if publisher.Valid {
		g.Publisher = &domain.Publisher{Name: publisher.String}
	}
	g.ReleaseDate = releaseDate.String
	g.Description = description.String
	g.ImageURL = imageURL.String
	g.WebsiteURL = websiteURL.String

	return g, nil
}

// queryGames runs a game query and returns the games with their genres.
func queryGames(ctx context.Context, q querier, query string, args ...any) ([]*domain.Game, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}

	games := []*domain.Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if err := attachGenres(ctx, q, games); err != nil {
		return nil, err
	}
	return games, nil
}

// attachGenres loads the genres of every game in one query.
func attachGenres(ctx context.Context, q querier, games []*domain.Game) error {
	if len(games) == 0 {
		return nil
	}

	byID := make(map[int]*domain.Game, len(games))
	placeholders := make([]string, 0, len(games))
	args := make([]any, 0, len(games))
	for _, g := range games {
		if _, seen := byID[g.ID]; seen {
			continue
		}
		byID[g.ID] = g
		placeholders = append(placeholders, "?")
		args = append(args, g.ID)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT game_id, genre_name FROM game_genres
		WHERE game_id IN (`+strings.Join(placeholders, ",")+`)
		ORDER BY genre_name`, args...)
	if err != nil {
		return fmt.Errorf("query game genres: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			gameID int
			name   string
		)
		if err := rows.Scan(&gameID, &name); err != nil {
			return fmt.Errorf("scan game genre: %w", err)
		}
		byID[gameID].AddGenre(domain.Genre{Name: name})
	}
	if err := rows.Err(); err != nil {
		return err
	}

	// Games repeated in the input share genres with their first occurrence.
	for _, g := range games {
		g.Genres = byID[g.ID].Genres
	}
	return nil
}

func (s *Store) GetGame(ctx context.Context, id int) (*domain.Game, error) {
	var game *domain.Game
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		games, err := queryGames(ctx, tx, `SELECT `+gameColumns+` FROM games g WHERE g.id = ?`, id)
		if err != nil {
			return err
		}
		if len(games) == 0 {
			return store.ErrNotFound.WithMessagef("game with id %d does not exist", id)
		}
		game = games[0]
		return nil
	})
	return game, err
}

func (s *Store) GetGenre(ctx context.Context, name string) (domain.Genre, error) {
	var genre domain.Genre
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		return getGenre(ctx, tx, name, &genre)
	})
	return genre, err
}

func getGenre(ctx context.Context, q querier, name string, genre *domain.Genre) error {
	err := q.QueryRowContext(ctx, `SELECT name FROM genres WHERE name = ?`, name).Scan(&genre.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound.WithMessagef("genre %q does not exist", name)
	}
	return err
}

func (s *Store) GetPublisher(ctx context.Context, name string) (domain.Publisher, error) {
	var publisher domain.Publisher
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		return getPublisher(ctx, tx, name, &publisher)
	})
	return publisher, err
}

func getPublisher(ctx context.Context, q querier, name string, publisher *domain.Publisher) error {
	err := q.QueryRowContext(ctx, `SELECT name FROM publishers WHERE name = ?`, name).Scan(&publisher.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound.WithMessagef("publisher %q does not exist", name)
	}
	return err
}

func (s *Store) NumberOfGames(ctx context.Context) (int, error) {
	var n int
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&n)
	})
	return n, err
}

// AddGame inserts a game with its genre links, adding any missing genres
// and publisher first.
func (s *Store) AddGame(ctx context.Context, game *domain.Game) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var publisher sql.NullString
		if game.Publisher != nil {
			publisher = sql.NullString{String: game.Publisher.Name, Valid: true}
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO publishers (name) VALUES (?)`, game.Publisher.Name); err != nil {
				return fmt.Errorf("insert publisher: %w", err)
			}
		}

		var releaseDay sql.NullString
		if t, ok := game.ReleaseTime(); ok {
			releaseDay = sql.NullString{String: t.Format("2006-01-02"), Valid: true}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO games (
				id, title, title_key, publisher_name, price, release_date, release_day,
				description, image_url, website_url
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			game.ID,
			game.Title,
			game.TitleKey(),
			publisher,
			game.Price,
			nullString(game.ReleaseDate),
			releaseDay,
			nullString(game.Description),
			nullString(game.ImageURL),
			nullString(game.WebsiteURL),
		)
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessagef("game with id %d already exists", game.ID)
		}
		if err != nil {
			return fmt.Errorf("insert game: %w", err)
		}

		for _, genre := range game.Genres {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO genres (name) VALUES (?)`, genre.Name); err != nil {
				return fmt.Errorf("insert genre: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO game_genres (game_id, genre_name) VALUES (?, ?)`, game.ID, genre.Name); err != nil {
				return fmt.Errorf("insert game genre: %w", err)
			}
		}
		return nil
	})
}

func (s *Store) AddGenre(ctx context.Context, genre domain.Genre) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO genres (name) VALUES (?)`, genre.Name)
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessagef("genre %q already exists", genre.Name)
		}
		return err
	})
}

func (s *Store) AddPublisher(ctx context.Context, publisher domain.Publisher) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO publishers (name) VALUES (?)`, publisher.Name)
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessagef("publisher %q already exists", publisher.Name)
		}
		return err
	})
}

func (s *Store) Genres(ctx context.Context) ([]domain.Genre, error) {
	genres := []domain.Genre{}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		return queryNames(ctx, tx, `SELECT name FROM genres ORDER BY name`, func(name string) {
			genres = append(genres, domain.Genre{Name: name})
		})
	})
	return genres, err
}

func (s *Store) Publishers(ctx context.Context) ([]domain.Publisher, error) {
	publishers := []domain.Publisher{}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		return queryNames(ctx, tx, `SELECT name FROM publishers ORDER BY name`, func(name string) {
			publishers = append(publishers, domain.Publisher{Name: name})
		})
	})
	return publishers, err
}

func queryNames(ctx context.Context, q querier, query string, fn func(string)) error {
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		fn(name)
	}
	return rows.Err()
}

// listGames runs a windowed game listing in its own transaction.
func (s *Store) listGames(ctx context.Context, opts store.ListOptions, where, orderBy string, args ...any) ([]*domain.Game, error) {
	var games []*domain.Game
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		games, err = queryGames(ctx, tx,
			`SELECT `+gameColumns+` FROM games g `+where+` ORDER BY `+orderBy+` LIMIT ? OFFSET ?`,
			append(args, limit(opts), offset(opts))...)
		return err
	})
	return games, err
}

func (s *Store) Games(ctx context.Context, opts store.ListOptions) ([]*domain.Game, error) {
	return s.listGames(ctx, opts, "", "g.id "+direction(opts))
}

func (s *Store) GamesSortedAlphabetically(ctx context.Context, opts store.ListOptions) ([]*domain.Game, error) {
	dir := direction(opts)
	return s.listGames(ctx, opts, "", "g.title_key "+dir+", g.id "+dir)
}

// GamesSortedByDate keeps undated games last in both directions, in ascending ID order.
func (s *Store) GamesSortedByDate(ctx context.Context, opts store.ListOptions) ([]*domain.Game, error) {
	orderBy := "g.release_day IS NULL, g.release_day ASC, g.id ASC"
	if opts.Reverse {
		orderBy = "g.release_day IS NULL, g.release_day DESC, " +
			"CASE WHEN g.release_day IS NULL THEN g.id ELSE -g.id END ASC"
	}
	return s.listGames(ctx, opts, "", orderBy)
}

// SearchGames matches titles containing term, ignoring ASCII case.
func (s *Store) SearchGames(ctx context.Context, term string, opts store.ListOptions) ([]*domain.Game, error) {
	return s.listGames(ctx, opts, `WHERE g.title LIKE ? ESCAPE '\'`, "g.id "+direction(opts),
		"%"+escapeLike(term)+"%")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (s *Store) GamesWithGenre(ctx context.Context, genre string, opts store.ListOptions) ([]*domain.Game, error) {
	var games []*domain.Game
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := getGenre(ctx, tx, genre, &domain.Genre{}); err != nil {
			return err
		}
		var err error
		games, err = queryGames(ctx, tx, `
			SELECT `+gameColumns+` FROM games g
			JOIN game_genres gg ON gg.game_id = g.id
			WHERE gg.genre_name = ?
			ORDER BY g.id `+direction(opts)+` LIMIT ? OFFSET ?`,
			genre, limit(opts), offset(opts))
		return err
	})
	return games, err
}

func (s *Store) GamesByPublisher(ctx context.Context, publisher string, opts store.ListOptions) ([]*domain.Game, error) {
	var games []*domain.Game
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := getPublisher(ctx, tx, publisher, &domain.Publisher{}); err != nil {
			return err
		}
		var err error
		games, err = queryGames(ctx, tx, `
			SELECT `+gameColumns+` FROM games g
			WHERE g.publisher_name = ?
			ORDER BY g.id `+direction(opts)+` LIMIT ? OFFSET ?`,
			publisher, limit(opts), offset(opts))
		return err
	})
	return games, err
}
