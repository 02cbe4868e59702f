// Package service holds the catalog's business operations. Services sit
// between HTTP handlers and the repositories: they resolve references,
// paginate listings and translate storage failures into the error taxonomy of
// package errors.
package service

import (
	"errors"
	"fmt"

	"github.com/j0yzhu/GameWebApp/internal/domain"
	domainerrors "github.com/j0yzhu/GameWebApp/internal/errors"
	"github.com/j0yzhu/GameWebApp/internal/store"
)

// translate converts a repository error into the service taxonomy. The
// subject names what was being looked up or written, e.g. "game 7".
func translate(err error, subject string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		return domainerrors.Wrapf(err, domainerrors.CodeNotFound, "%s not found", subject)
	case errors.Is(err, store.ErrAlreadyExists):
		return domainerrors.Wrapf(err, domainerrors.CodeAlreadyExists, "%s already exists", subject)
	default:
		return domainerrors.Wrapf(err, domainerrors.CodeInternal, "%s: storage failure", subject)
	}
}

// invalid converts a domain constructor error into a validation error.
func invalid(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidGameID),
		errors.Is(err, domain.ErrInvalidTitle),
		errors.Is(err, domain.ErrInvalidUsername),
		errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, domain.ErrInvalidComment),
		errors.Is(err, domain.ErrMissingUser),
		errors.Is(err, domain.ErrMissingGame):
		return domainerrors.Wrap(err, domainerrors.CodeValidation, err.Error())
	default:
		return fmt.Errorf("build entity: %w", err)
	}
}
