// Package csvdata populates a store variant from the CSV data directory.
//
// The directory holds games.csv (required) and, optionally, users.csv,
// reviews.csv and wishlist.csv. Rows that duplicate existing entities or
// reference unknown users or games are skipped and counted.
package csvdata

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/j0yzhu/GameWebApp/internal/auth"
	"github.com/j0yzhu/GameWebApp/internal/domain"
	"github.com/j0yzhu/GameWebApp/internal/store"
)

// File names inside the data directory.
const (
	GamesFile    = "games.csv"
	UsersFile    = "users.csv"
	ReviewsFile  = "reviews.csv"
	WishlistFile = "wishlist.csv"
)

// wishTimeLayouts are accepted for the optional wish_time column.
var wishTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Hasher hashes plaintext passwords found in users.csv.
type Hasher interface {
	Hash(password string) (string, error)
}

// Report counts what Populate loaded.
type Report struct {
	Games   int
	Users   int
	Reviews int
	Wishes  int
	Skipped int
}

// Loader reads the CSV files of one data directory.
type Loader struct {
	dir    string
	hasher Hasher
	logger *slog.Logger
	now    func() time.Time
}

// NewLoader creates a loader for dir.
func NewLoader(dir string, hasher Hasher, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{dir: dir, hasher: hasher, logger: logger, now: time.Now}
}

// Populate loads every file into repos: games first, then users, reviews
// and wishes, so references always resolve against loaded data.
func (l *Loader) Populate(ctx context.Context, repos *store.Repositories) (Report, error) {
	var report Report

	steps := []struct {
		file     string
		required bool
		load     func(context.Context, *store.Repositories, *table, *Report) error
	}{
		{GamesFile, true, l.loadGames},
		{UsersFile, false, l.loadUsers},
		{ReviewsFile, false, l.loadReviews},
		{WishlistFile, false, l.loadWishes},
	}

	for _, step := range steps {
		path := filepath.Join(l.dir, step.file)
		t, closeFn, err := openTable(path)
		if errors.Is(err, fs.ErrNotExist) && !step.required {
			l.logger.Debug("optional data file missing", "file", path)
			continue
		}
		if err != nil {
			return report, fmt.Errorf("open %s: %w", step.file, err)
		}

		err = step.load(ctx, repos, t, &report)
		closeFn()
		if err != nil {
			return report, fmt.Errorf("load %s: %w", step.file, err)
		}
	}

	l.logger.Info("data populated",
		"dir", l.dir,
		"games", report.Games,
		"users", report.Users,
		"reviews", report.Reviews,
		"wishes", report.Wishes,
		"skipped", report.Skipped,
	)
	return report, nil
}

// table reads CSV rows addressed by header name.
type table struct {
	reader  *csv.Reader
	columns map[string]int
	line    int
}

func openTable(path string) (*table, func(), error) {
	//#nosec G304 -- path is built from the configured data directory
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		columns[strings.TrimSpace(name)] = i
	}

	return &table{reader: r, columns: columns, line: 1}, func() { f.Close() }, nil
}

// next returns the following row, or io.EOF.
func (t *table) next() (row, error) {
	record, err := t.reader.Read()
	if err != nil {
		return row{}, err
	}
	t.line++
	return row{record: record, columns: t.columns, line: t.line}, nil
}

// each calls fn for every row until the table ends or ctx is done.
func (t *table) each(ctx context.Context, fn func(row) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		r, err := t.next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return fmt.Errorf("line %d: %w", parseErr.Line, err)
		}
		if err != nil {
			return err
		}
		if err := fn(r); err != nil {
			return err
		}
	}
}

type row struct {
	record  []string
	columns map[string]int
	line    int
}

// get returns the trimmed value of a column, or "" when the column is absent.
func (r row) get(column string) string {
	i, ok := r.columns[column]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

func (r row) int(column string) (int, error) {
	return strconv.Atoi(r.get(column))
}

func (l *Loader) skip(report *Report, file string, line int, reason string, err error) {
	report.Skipped++
	l.logger.Debug("skipping row", "file", file, "line", line, "reason", reason, "error", err)
}

func (l *Loader) loadGames(ctx context.Context, repos *store.Repositories, t *table, report *Report) error {
	return t.each(ctx, func(r row) error {
		appID, err := r.int("AppID")
		if err != nil {
			l.skip(report, GamesFile, r.line, "invalid AppID", err)
			return nil
		}
		game, err := domain.NewGame(appID, r.get("Name"))
		if err != nil {
			l.skip(report, GamesFile, r.line, "invalid game", err)
			return nil
		}

		if price := r.get("Price"); price != "" {
			if game.Price, err = strconv.ParseFloat(price, 64); err != nil {
				l.skip(report, GamesFile, r.line, "invalid price", err)
				return nil
			}
		}
		game.ReleaseDate = r.get("Release date")
		game.Description = r.get("About the game")
		game.ImageURL = r.get("Header image")
		game.WebsiteURL = r.get("Website")

		if name := r.get("Publishers"); name != "" {
			publisher := domain.NewPublisher(name)
			game.Publisher = &publisher
		}
		for _, name := range strings.Split(r.get("Genres"), ",") {
			if genre := domain.NewGenre(name); genre.Name != "" {
				game.AddGenre(genre)
			}
		}

		err = repos.Games.AddGame(ctx, game)
		if errors.Is(err, store.ErrAlreadyExists) {
			l.skip(report, GamesFile, r.line, "duplicate game", err)
			return nil
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", r.line, err)
		}
		report.Games++
		return nil
	})
}

func (l *Loader) loadUsers(ctx context.Context, repos *store.Repositories, t *table, report *Report) error {
	return t.each(ctx, func(r row) error {
		password := r.get("password")
		if password == "" {
			l.skip(report, UsersFile, r.line, "missing password", nil)
			return nil
		}
		if !auth.IsPasswordHash(password) {
			hash, err := l.hasher.Hash(password)
			if err != nil {
				l.skip(report, UsersFile, r.line, "unhashable password", err)
				return nil
			}
			password = hash
		}

		user, err := domain.NewUser(r.get("username"), password)
		if err != nil {
			l.skip(report, UsersFile, r.line, "invalid user", err)
			return nil
		}

		err = repos.Users.AddUser(ctx, user)
		if errors.Is(err, store.ErrAlreadyExists) {
			l.skip(report, UsersFile, r.line, "duplicate user", err)
			return nil
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", r.line, err)
		}
		report.Users++
		return nil
	})
}

// resolve looks up the user and game a row refers to. A nil user means the
// row should be skipped.
func resolve(ctx context.Context, repos *store.Repositories, r row) (*domain.User, *domain.Game, error) {
	gameID, err := r.int("game_id")
	if err != nil {
		return nil, nil, nil
	}
	user, err := repos.Users.GetUser(ctx, r.get("username"))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	game, err := repos.Games.GetGame(ctx, gameID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return user, game, nil
}

func (l *Loader) loadReviews(ctx context.Context, repos *store.Repositories, t *table, report *Report) error {
	return t.each(ctx, func(r row) error {
		user, game, err := resolve(ctx, repos, r)
		if err != nil {
			return fmt.Errorf("line %d: %w", r.line, err)
		}
		if user == nil {
			l.skip(report, ReviewsFile, r.line, "unknown user or game", nil)
			return nil
		}

		rating, err := r.int("rating")
		if err != nil {
			l.skip(report, ReviewsFile, r.line, "invalid rating", err)
			return nil
		}
		review, err := domain.NewReview(user, game, rating, r.get("comment"))
		if err != nil {
			l.skip(report, ReviewsFile, r.line, "invalid review", err)
			return nil
		}

		err = repos.Reviews.AddReview(ctx, review)
		if errors.Is(err, store.ErrAlreadyExists) {
			l.skip(report, ReviewsFile, r.line, "duplicate review", err)
			return nil
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", r.line, err)
		}
		report.Reviews++
		return nil
	})
}

func (l *Loader) loadWishes(ctx context.Context, repos *store.Repositories, t *table, report *Report) error {
	return t.each(ctx, func(r row) error {
		user, game, err := resolve(ctx, repos, r)
		if err != nil {
			return fmt.Errorf("line %d: %w", r.line, err)
		}
		if user == nil {
			l.skip(report, WishlistFile, r.line, "unknown user or game", nil)
			return nil
		}

		at := l.now()
		if raw := r.get("wish_time"); raw != "" {
			if at, err = parseWishTime(raw); err != nil {
				l.skip(report, WishlistFile, r.line, "invalid wish_time", err)
				return nil
			}
		}

		wish, err := domain.NewWish(user, game, at)
		if err != nil {
			l.skip(report, WishlistFile, r.line, "invalid wish", err)
			return nil
		}

		err = repos.Wishlist.AddWish(ctx, wish)
		if errors.Is(err, store.ErrAlreadyExists) {
			l.skip(report, WishlistFile, r.line, "duplicate wish", err)
			return nil
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", r.line, err)
		}
		report.Wishes++
		return nil
	})
}

func parseWishTime(s string) (time.Time, error) {
	for _, layout := range wishTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}
