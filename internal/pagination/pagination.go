// Package pagination windows repository listings into pages and builds the
// links between them.
package pagination

import (
	"context"
	"math"
	"net/url"
	"strconv"

	"github.com/j0yzhu/GameWebApp/internal/store"
)

// Params selects a page. Callers validate them; the engine trusts its input.
type Params struct {
	Page    int
	PerPage int
	Reverse bool
}

// Offset is the index of the first item on the page. It saturates at
// math.MaxInt instead of wrapping, so far pages stay past the end.
func (p Params) Offset() int {
	if p.Page <= 1 || p.PerPage <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PerPage {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PerPage
}

// ListOptions converts the params into a repository window of exactly one page.
func (p Params) ListOptions() store.ListOptions {
	return store.ListOptions{Offset: p.Offset(), Limit: p.PerPage, Reverse: p.Reverse}
}

// Fetch lists items for a repository window.
type Fetch[T any] func(ctx context.Context, opts store.ListOptions) ([]T, error)

// Resolver builds a URL for a named endpoint.
type Resolver interface {
	URLFor(endpoint string, params url.Values) string
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(endpoint string, params url.Values) string

// URLFor calls f.
func (f ResolverFunc) URLFor(endpoint string, params url.Values) string {
	return f(endpoint, params)
}

// Page is one window of a listing.
type Page[T any] struct {
	Items       []T
	Page        int
	PerPage     int
	HasNextPage bool
	// TotalPages is zero when the listing has no total-count oracle.
	TotalPages int

	resolver Resolver
	endpoint string
	params   url.Values
}

// Paginate fetches one page with a single query. It asks for PerPage+1 rows
// and reports a next page when the extra row comes back. Errors from fetch
// are returned as is.
func Paginate[T any](ctx context.Context, p Params, fetch Fetch[T]) (*Page[T], error) {
	opts := p.ListOptions()
	opts.Limit++

	items, err := fetch(ctx, opts)
	if err != nil {
		return nil, err
	}

	hasNext := len(items) > p.PerPage
	if hasNext {
		items = items[:p.PerPage]
	}
	return newPage(p, items, hasNext), nil
}

// PaginateTwice fetches the requested page and then the following one.
// It suits listings that cannot over-fetch.
func PaginateTwice[T any](ctx context.Context, p Params, fetch Fetch[T]) (*Page[T], error) {
	items, err := fetch(ctx, p.ListOptions())
	if err != nil {
		return nil, err
	}

	next := p
	next.Page++
	following, err := fetch(ctx, next.ListOptions())
	if err != nil {
		return nil, err
	}
	return newPage(p, items, len(following) > 0), nil
}

// Slice pages an in-memory result set.
func Slice[T any](items []T, p Params) *Page[T] {
	start, end := p.ListOptions().Window(len(items))
	return newPage(p, items[start:end], end < len(items))
}

func newPage[T any](p Params, items []T, hasNext bool) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:       items,
		Page:        p.Page,
		PerPage:     p.PerPage,
		HasNextPage: hasNext,
	}
}

// TotalPages is ceil(total/perPage), never less than one.
func TotalPages(total, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}

// WithTotal records the listing size so the last page can be linked.
func (pg *Page[T]) WithTotal(total int) *Page[T] {
	pg.TotalPages = TotalPages(total, pg.PerPage)
	return pg
}

// WithLinks attaches the endpoint used to build page links. Params are copied
// into every link alongside the page number.
func (pg *Page[T]) WithLinks(r Resolver, endpoint string, params url.Values) *Page[T] {
	pg.resolver = r
	pg.endpoint = endpoint
	pg.params = params
	return pg
}

// NextPageURL links to the following page, or "" on the last page.
func (pg *Page[T]) NextPageURL() string {
	if !pg.HasNextPage {
		return ""
	}
	return pg.urlFor(pg.Page + 1)
}

// PrevPageURL links to the preceding page, or "" on page one.
func (pg *Page[T]) PrevPageURL() string {
	if pg.Page <= 1 {
		return ""
	}
	return pg.urlFor(pg.Page - 1)
}

// FirstPageURL links to page one.
func (pg *Page[T]) FirstPageURL() string {
	return pg.urlFor(1)
}

// LastPageURL links to the final page, or "" when no total is known.
func (pg *Page[T]) LastPageURL() string {
	if pg.TotalPages == 0 {
		return ""
	}
	return pg.urlFor(pg.TotalPages)
}

func (pg *Page[T]) urlFor(page int) string {
	if pg.resolver == nil {
		return ""
	}
	params := url.Values{}
	for k, v := range pg.params {
		params[k] = append([]string(nil), v...)
	}
	params.Set("page", strconv.Itoa(page))
	return pg.resolver.URLFor(pg.endpoint, params)
}

// Links is the serialisable set of page links.
type Links struct {
	Next  string `json:"next,omitempty"`
	Prev  string `json:"prev,omitempty"`
	First string `json:"first,omitempty"`
	Last  string `json:"last,omitempty"`
}

// Links returns all page links at once.
func (pg *Page[T]) Links() Links {
	return Links{
		Next:  pg.NextPageURL(),
		Prev:  pg.PrevPageURL(),
		First: pg.FirstPageURL(),
		Last:  pg.LastPageURL(),
	}
}

// Map converts the items of a page, keeping its position and links.
func Map[T, U any](pg *Page[T], fn func(T) U) *Page[U] {
	items := make([]U, len(pg.Items))
	for i, item := range pg.Items {
		items[i] = fn(item)
	}
	return &Page[U]{
		Items:       items,
		Page:        pg.Page,
		PerPage:     pg.PerPage,
		HasNextPage: pg.HasNextPage,
		TotalPages:  pg.TotalPages,
		resolver:    pg.resolver,
		endpoint:    pg.endpoint,
		params:      pg.params,
	}
}
