// Package errs defines the error taxonomy of the data-access layer:
// NotFound, Conflict (store constraint violations), Validation and Internal.
// Everything else propagates unchanged; the layer never retries.
package errs

import (
	"database/sql"
	"errors"
	"fmt"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// Kind classifies an Error.
type Kind string

const (
	KindNotFound   Kind = "NOT_FOUND"
	KindConflict   Kind = "CONFLICT"
	KindValidation Kind = "VALIDATION"
	KindInternal   Kind = "INTERNAL"
)

// Error is the typed error surfaced by repositories.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// NotFound reports a missing record. Note the asymmetry in the repository
// contract: FindByID returns nil for a missing id, Update returns this.
func NotFound(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %q not found", entity, id)}
}

// Conflict reports a store-level constraint violation (foreign key,
// uniqueness). The driver error rides along as the cause.
func Conflict(message string, cause error) *Error {
	return &Error{Kind: KindConflict, Message: message, Cause: cause}
}

// Validation reports a rejected payload.
func Validation(message string, cause error) *Error {
	return &Error{Kind: KindValidation, Message: message, Cause: cause}
}

// Internal wraps an unexpected failure.
func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, Cause: cause}
}

func is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool { return is(err, KindNotFound) }

// IsConflict reports whether err is a constraint violation.
func IsConflict(err error) bool { return is(err, KindConflict) }

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return is(err, KindValidation) }

// FromStore maps a driver error into the taxonomy. Constraint violations
// become Conflict; sql.ErrNoRows becomes NotFound for the given entity/id;
// anything else is returned unchanged so connection-level failures surface
// as-is.
func FromStore(err error, entity, id string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return NotFound(entity, id)
	}
	var serr sqlite3.Error
	if errors.As(err, &serr) && serr.Code == sqlite3.ErrConstraint {
		return Conflict(fmt.Sprintf("constraint violated writing %s", entity), err)
	}
	return err
}
