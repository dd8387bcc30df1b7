package usecase

import (
	"errors"

	"github.com/xavierca1/ligue-convenios/internal/entity"
)

// DomainError is a business rejection. Err carries the entity error kind
// (entity.ErrNotFound, entity.ErrForbidden, ...) so callers can use errors.Is.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func errUnauthorized() error {
	return &DomainError{Code: "UNAUTHORIZED", Message: "sessão ausente ou inválida", Err: entity.ErrUnauthorized}
}

func errForbidden(msg string) error {
	return &DomainError{Code: "FORBIDDEN", Message: msg, Err: entity.ErrForbidden}
}

func errValidation(msg string) error {
	return &DomainError{Code: "VALIDATION_ERROR", Message: msg, Err: entity.ErrValidation}
}

// fromRepository turns a repository error into a DomainError when it carries a
// known kind, and into a TechnicalError otherwise.
func fromRepository(err error, code, msg string) error {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		return &DomainError{Code: "NOT_FOUND", Message: err.Error(), Err: err}
	case errors.Is(err, entity.ErrConflict):
		return &DomainError{Code: "CONFLICT", Message: err.Error(), Err: err}
	default:
		return &TechnicalError{Code: code, Message: msg + ": " + err.Error(), Err: err}
	}
}
