package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
)

// Postgres SQLSTATE codes the classifier understands.
const (
	pgUniqueViolation       = "23505"
	pgExclusionViolation    = "23P01"
	pgNotNullViolation      = "23502"
	pgCheckViolation        = "23514"
	pgStringTooLong         = "22001"
	pgInvalidTextRepresent  = "22P02"
	pgForeignKeyViolation   = "23503"
	codeValidationFailed    = "VALIDATION_FAILED"
	codeUnauthorized        = "UNAUTHORIZED"
	codeNotFound            = "NOT_FOUND"
	codeConflict            = "CONFLICT"
	codeInternalServerError = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(codeValidationFailed, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       codeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

// NewNotFoundMessage is NewNotFound with a caller supplied message.
func NewNotFoundMessage(message string) error {
	return NewDomainError(codeNotFound, message, http.StatusNotFound, nil)
}

func NewUnauthorized(message string) error {
	return NewDomainError(codeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(codeConflict, message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       codeInternalServerError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsNotFound reports whether err classifies as a missing record.
func IsNotFound(err error) bool {
	de := ToDomainError(err)
	return de != nil && de.HTTPStatus == http.StatusNotFound
}

// ToDomainError classifies any error into the taxonomy. Storage errors are
// recognized by shape so call sites never special-case them.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, redis.Nil) {
		return notFound("resource", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgExclusionViolation:
			return &DomainError{
				Code:       codeConflict,
				Message:    "resource already exists",
				HTTPStatus: http.StatusConflict,
				Details:    map[string]any{"constraint": pgErr.ConstraintName},
				Err:        err,
			}
		case pgInvalidTextRepresent:
			return notFound("resource", err)
		case pgNotNullViolation, pgCheckViolation, pgStringTooLong, pgForeignKeyViolation:
			return &DomainError{
				Code:       codeValidationFailed,
				Message:    "invalid field value",
				HTTPStatus: http.StatusBadRequest,
				Details:    map[string]any{"column": pgErr.ColumnName, "constraint": pgErr.ConstraintName},
				Err:        err,
			}
		}
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make(map[string]any, len(validationErrs))
		for _, fe := range validationErrs {
			details[fe.Field()] = fe.Tag()
		}
		message := "invalid request"
		if len(validationErrs) > 0 {
			message = fmt.Sprintf("%s is invalid", validationErrs[0].Field())
		}
		return &DomainError{
			Code:       codeValidationFailed,
			Message:    message,
			HTTPStatus: http.StatusBadRequest,
			Details:    details,
			Err:        err,
		}
	}

	return &DomainError{
		Code:       codeInternalServerError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// MapError converts generic errors to DomainError.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}

func notFound(resource string, err error) *DomainError {
	return &DomainError{
		Code:       codeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{},
		Err:        err,
	}
}
