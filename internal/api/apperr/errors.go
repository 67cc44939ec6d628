// Package apperr defines the error taxonomy shared by services and
// handlers: validation, authorization, not-found, conflict and
// invalid-credential failures, plus translation of raw storage errors
// into that taxonomy.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuthorization
	KindNotFound
	KindConflict
	KindInvalidCredential
)

// FieldError identifies a single failing field in a validation report.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Kind   Kind
	Msg    string
	Fields []FieldError
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation builds a field-level validation failure.
func Validation(msg string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Msg: msg, Fields: fields}
}

// Forbidden builds an authorization denial.
func Forbidden(msg string) *Error {
	return &Error{Kind: KindAuthorization, Msg: msg}
}

// NotFound reports an absent entity.
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Msg: resource + " not found"}
}

// Conflict reports a uniqueness violation or a creation race.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Msg: msg}
}

// InvalidCredential reports a bad confirmation code.
func InvalidCredential(msg string) *Error {
	return &Error{Kind: KindInvalidCredential, Msg: msg}
}

// KindOf extracts the taxonomy kind from err, KindUnknown for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// uniqueViolation is the Postgres error code for unique constraint failures.
const uniqueViolation = "23505"

// FromDB translates a storage-layer error into the taxonomy. Record-not-found
// becomes NotFound for the given resource; duplicate-key errors, including
// raw pgconn unique violations from concurrent inserts, become Conflict.
// Anything else passes through untouched.
func FromDB(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &Error{Kind: KindNotFound, Msg: resource + " not found", Err: err}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &Error{Kind: KindConflict, Msg: resource + " already exists", Err: err}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &Error{Kind: KindConflict, Msg: resource + " already exists", Err: err}
	}
	return err
}

// Status maps an error to the HTTP status code its kind calls for.
func Status(err error) int {
	switch KindOf(err) {
	case KindValidation, KindInvalidCredential:
		return http.StatusBadRequest
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
