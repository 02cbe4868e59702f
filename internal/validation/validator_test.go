package validation_test

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"

	domainerrors "github.com/j0yzhu/GameWebApp/internal/errors"
	"github.com/j0yzhu/GameWebApp/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireValidation(t *testing.T, err error, field string) {
	t.Helper()

	var appErr *domainerrors.Error
	require.True(t, errors.As(err, &appErr), "expected *errors.Error, got %v", err)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus())
	assert.Contains(t, appErr.Message, field)

	details, ok := appErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, field)
}

func TestParseListing_Defaults(t *testing.T) {
	v := validation.New()

	l, err := v.ParseListing(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, validation.Listing{Page: 1, Count: 20, SortBy: "default", Ascending: true}, l)

	l, err = v.ParseListing(url.Values{"sort_by": {"release_date"}})
	require.NoError(t, err)
	assert.False(t, l.Ascending, "release date listings default to newest first")
}

func TestParseListing_Values(t *testing.T) {
	v := validation.New()

	l, err := v.ParseListing(url.Values{
		"page":      {"3"},
		"count":     {"50"},
		"sort_by":   {"title"},
		"ascending": {"FALSE"},
	})
	require.NoError(t, err)
	assert.Equal(t, validation.Listing{Page: 3, Count: 50, SortBy: "title", Ascending: false}, l)
}

func TestParseListing_Errors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name  string
		query url.Values
		field string
	}{
		{"page zero", url.Values{"page": {"0"}}, "page"},
		{"page not a number", url.Values{"page": {"two"}}, "page"},
		{"page offset overflows", url.Values{"page": {"576460752303423489"}, "count": {"32"}}, "page"},
		{"count zero", url.Values{"count": {"0"}}, "count"},
		{"count above max", url.Values{"count": {"51"}}, "count"},
		{"unknown sort", url.Values{"sort_by": {"price"}}, "sort_by"},
		{"ascending not boolean", url.Values{"ascending": {"yes"}}, "ascending"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.ParseListing(tt.query)
			requireValidation(t, err, tt.field)
		})
	}
}

func TestWithMaxCount(t *testing.T) {
	v := validation.New().WithMaxCount(5)
	assert.Equal(t, 5, v.MaxCount())

	_, err := v.ParseListing(url.Values{"count": {"6"}})
	requireValidation(t, err, "count")

	assert.Equal(t, validation.MaxCount, validation.New().WithMaxCount(0).MaxCount())
}

func TestParseListing_MaxPage(t *testing.T) {
	v := validation.New()

	l, err := v.ParseListing(url.Values{"page": {strconv.Itoa(v.MaxPage())}, "count": {"50"}})
	require.NoError(t, err)
	assert.Equal(t, v.MaxPage(), l.Page)

	_, err = v.ParseListing(url.Values{"page": {strconv.Itoa(v.MaxPage() + 1)}})
	requireValidation(t, err, "page")
}

func TestParseBool(t *testing.T) {
	for _, raw := range []string{"true", "True", "TRUE"} {
		b, err := validation.ParseBool(raw)
		require.NoError(t, err)
		assert.True(t, b)
	}
	b, err := validation.ParseBool("fAlSe")
	require.NoError(t, err)
	assert.False(t, b)

	_, err = validation.ParseBool("1")
	assert.Error(t, err)
}

func TestParseReviewForm(t *testing.T) {
	v := validation.New()

	f, err := v.ParseReviewForm(url.Values{"game_id": {"7"}, "rating": {"5"}, "comment": {"  loved it  "}})
	require.NoError(t, err)
	assert.Equal(t, validation.ReviewForm{GameID: 7, Rating: 5, Comment: "loved it"}, f)

	tests := []struct {
		name  string
		form  url.Values
		field string
	}{
		{"bad game id", url.Values{"game_id": {"0"}, "rating": {"3"}, "comment": {"x"}}, "game_id"},
		{"rating not a number", url.Values{"game_id": {"1"}, "rating": {"five"}, "comment": {"x"}}, "rating"},
		{"rating too high", url.Values{"game_id": {"1"}, "rating": {"6"}, "comment": {"x"}}, "rating"},
		{"rating negative", url.Values{"game_id": {"1"}, "rating": {"-1"}, "comment": {"x"}}, "rating"},
		{"blank comment", url.Values{"game_id": {"1"}, "rating": {"3"}, "comment": {"   "}}, "comment"},
		{"long comment", url.Values{"game_id": {"1"}, "rating": {"3"}, "comment": {strings.Repeat("é", 301)}}, "comment"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.ParseReviewForm(tt.form)
			requireValidation(t, err, tt.field)
		})
	}

	_, err = v.ParseReviewForm(url.Values{"game_id": {"1"}, "rating": {"0"}, "comment": {strings.Repeat("é", 300)}})
	assert.NoError(t, err)
}

func TestParseCredentials(t *testing.T) {
	v := validation.New()

	c, err := v.ParseCredentials(url.Values{"username": {" alice "}, "password": {" p "}})
	require.NoError(t, err)
	assert.Equal(t, validation.Credentials{Username: "alice", Password: " p "}, c)

	_, err = v.ParseCredentials(url.Values{"username": {"al"}, "password": {"p"}})
	requireValidation(t, err, "username")

	_, err = v.ParseCredentials(url.Values{"username": {"alice"}})
	requireValidation(t, err, "password")
}

func TestNamesAndIDs(t *testing.T) {
	term, err := validation.SearchTerm("  zelda ")
	require.NoError(t, err)
	assert.Equal(t, "zelda", term)

	_, err = validation.SearchTerm("   ")
	requireValidation(t, err, "q")

	_, err = validation.Name("genre", "")
	requireValidation(t, err, "genre")

	id, err := validation.GameID(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	_, err = validation.GameID("-3")
	requireValidation(t, err, "game_id")
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	err := v.Validate(validation.Credentials{Password: "secret"})
	require.Error(t, err)

	// Should use JSON tag name "username", not struct field name "Username"
	assert.Contains(t, err.Error(), "username")
	assert.NotContains(t, err.Error(), "Username")
}
