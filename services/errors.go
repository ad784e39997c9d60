package services

import (
	"errors"

	"gorm.io/gorm"
)

// Error kinds. Handlers map them to HTTP statuses.
var (
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflict")
	ErrValidation           = errors.New("validation failed")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrPayloadTooLarge      = errors.New("payload too large")
)

// AppError carries a user-facing message alongside its kind and cause.
type AppError struct {
	Kind    error
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *AppError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func NotFound(entity string) error {
	return &AppError{Kind: ErrNotFound, Message: entity + " not found"}
}

func Conflict(message string) error {
	return &AppError{Kind: ErrConflict, Message: message}
}

func Validation(message string) error {
	return &AppError{Kind: ErrValidation, Message: message}
}

func Unauthorized(message string) error {
	return &AppError{Kind: ErrUnauthorized, Message: message}
}

func Forbidden(message string) error {
	return &AppError{Kind: ErrForbidden, Message: message}
}

func UnsupportedMediaType(message string) error {
	return &AppError{Kind: ErrUnsupportedMediaType, Message: message}
}

func PayloadTooLarge(message string) error {
	return &AppError{Kind: ErrPayloadTooLarge, Message: message}
}

// notFoundAs turns a missing row into NotFound(entity); other errors pass through.
func notFoundAs(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(entity)
	}
	return err
}

// conflictOnDuplicate turns a unique-key violation into a Conflict.
func conflictOnDuplicate(err error, message string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &AppError{Kind: ErrConflict, Message: message, Err: err}
	}
	return err
}
