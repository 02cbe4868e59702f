// Package validation checks raw request input before it reaches the services.
// Every failure is returned as an errors.CodeValidation error whose details
// map JSON field names to messages.
package validation

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	domainerrors "github.com/j0yzhu/GameWebApp/internal/errors"
)

// Listing defaults and limits.
const (
	DefaultPage       = 1
	DefaultCount      = 20
	MaxCount          = 50
	DefaultSortBy     = "default"
	MinUsernameLength = 3
)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v        *validator.Validate
	maxCount int
}

// New creates a validator configured for our domain.
func New() *Validator {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		// Remove options like omitempty, -
		for i := range len(name) {
			if name[i] == ',' {
				return name[:i]
			}
		}
		return name
	})

	return &Validator{v: v, maxCount: MaxCount}
}

// WithMaxCount returns a copy of v that accepts page sizes up to n.
func (v *Validator) WithMaxCount(n int) *Validator {
	if n <= 0 {
		n = MaxCount
	}
	return &Validator{v: v.v, maxCount: n}
}

// MaxCount is the largest accepted page size.
func (v *Validator) MaxCount() int {
	return v.maxCount
}

// Validate validates a struct and returns a domain error.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// Listing is a validated listing query.
type Listing struct {
	Page      int    `json:"page" validate:"gte=1"`
	Count     int    `json:"count" validate:"gte=1"`
	SortBy    string `json:"sort_by" validate:"oneof=default title release_date"`
	Ascending bool   `json:"ascending"`
}

// ValidateListing checks an already parsed listing query, including the
// configured page size limit.
func (v *Validator) ValidateListing(l Listing) error {
	if err := v.Validate(l); err != nil {
		return err
	}
	if l.Count > v.maxCount {
		return fieldError("count", fmt.Sprintf("must be less than or equal to %d", v.maxCount))
	}
	if l.Page > v.MaxPage() {
		return fieldError("page", fmt.Sprintf("must be less than or equal to %d", v.MaxPage()))
	}
	return nil
}

// MaxPage is the largest accepted page number. The offset of any page up to
// it at the largest page size fits in an int.
func (v *Validator) MaxPage() int {
	return math.MaxInt / v.maxCount
}

// ParseListing reads page, count, sort_by and ascending from a query string.
// Absent values take their defaults. Ascending defaults to true, except for
// release date ordering which lists the newest games first.
func (v *Validator) ParseListing(q url.Values) (Listing, error) {
	l := Listing{
		Page:   DefaultPage,
		Count:  DefaultCount,
		SortBy: DefaultSortBy,
	}

	var err error
	if l.Page, err = intParam(q, "page", DefaultPage); err != nil {
		return Listing{}, err
	}
	if l.Count, err = intParam(q, "count", DefaultCount); err != nil {
		return Listing{}, err
	}
	if raw := strings.TrimSpace(q.Get("sort_by")); raw != "" {
		l.SortBy = raw
	}

	l.Ascending = l.SortBy != "release_date"
	if raw := q.Get("ascending"); raw != "" {
		if l.Ascending, err = ParseBool(raw); err != nil {
			return Listing{}, fieldError("ascending", err.Error())
		}
	}

	if err := v.ValidateListing(l); err != nil {
		return Listing{}, err
	}
	return l, nil
}

// ParseBool accepts "true" or "false" in any letter case.
func ParseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, errors.New("must be true or false")
	}
}

// ReviewForm is the input for posting a review.
type ReviewForm struct {
	GameID  int    `json:"game_id" validate:"gte=1"`
	Rating  int    `json:"rating" validate:"gte=0,lte=5"`
	Comment string `json:"comment" validate:"required,max=300"`
}

// ParseReviewForm reads game_id, rating and comment from a submitted form.
// The comment is trimmed before its length is checked.
func (v *Validator) ParseReviewForm(form url.Values) (ReviewForm, error) {
	gameID, err := GameID(form.Get("game_id"))
	if err != nil {
		return ReviewForm{}, err
	}
	rating, err := strconv.Atoi(strings.TrimSpace(form.Get("rating")))
	if err != nil {
		return ReviewForm{}, fieldError("rating", "must be an integer")
	}

	f := ReviewForm{
		GameID:  gameID,
		Rating:  rating,
		Comment: strings.TrimSpace(form.Get("comment")),
	}
	if err := v.Validate(f); err != nil {
		return ReviewForm{}, err
	}
	return f, nil
}

// Credentials is the input for registering or logging in.
type Credentials struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required"`
}

// ParseCredentials reads username and password from a submitted form. The
// username is trimmed; the password is taken as is.
func (v *Validator) ParseCredentials(form url.Values) (Credentials, error) {
	c := Credentials{
		Username: strings.TrimSpace(form.Get("username")),
		Password: form.Get("password"),
	}
	if err := v.Validate(c); err != nil {
		return Credentials{}, err
	}
	return c, nil
}

// GameID parses a positive game identifier.
func GameID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id < 1 {
		return 0, fieldError("game_id", "must be a positive integer")
	}
	return id, nil
}

// SearchTerm trims a search term and rejects blank ones.
func SearchTerm(raw string) (string, error) {
	return Name("q", raw)
}

// Name trims a genre, publisher or similar name and rejects blank ones.
func Name(field, raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fieldError(field, "is required")
	}
	return name, nil
}

func intParam(q url.Values, field string, def int) (int, error) {
	raw := strings.TrimSpace(q.Get(field))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fieldError(field, "must be an integer")
	}
	return n, nil
}

func fieldError(field, msg string) error {
	return domainerrors.ValidationWithDetails(
		fmt.Sprintf("validation failed: %s %s", field, msg),
		map[string]string{field: msg},
	)
}

// formatError converts validator errors to domain errors.
func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Collect all field errors
	fieldErrors := make(map[string]string)
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = v.friendlyMessage(e)
	}

	fields := make([]string, 0, len(fieldErrors))
	for field := range fieldErrors {
		fields = append(fields, field)
	}
	slices.Sort(fields)

	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = field + " " + fieldErrors[field]
	}

	return domainerrors.ValidationWithDetails("validation failed: "+strings.Join(parts, "; "), fieldErrors)
}

func (v *Validator) friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return "must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", e.Param())
		}
		return "must be at most " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	default:
		return "is invalid"
	}
}
