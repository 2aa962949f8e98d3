package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnrecognizedFieldKey     = errors.New("unrecognized field key")
	ErrOrphanField              = errors.New("field outside of any record")
	ErrInconsistentAssemblerKey = errors.New("field key has no record slot")
	ErrUnknownAttribute         = errors.New("unknown attribute")
	ErrNotFound                 = errors.New("not found")
	ErrInvalidInput             = errors.New("invalid input")
	ErrCatalogUnavailable       = errors.New("catalog unavailable")
	ErrInternal                 = errors.New("internal error")
	ErrTimeout                  = errors.New("operation timed out")
)

type AppError struct {
	Err     error
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, message string) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: message,
	}
}

func Newf(sentinel error, format string, args ...any) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: fmt.Sprintf(format, args...),
	}
}

// KeyError reports a failure tied to a field or attribute key.
type KeyError struct {
	Key string
	Err error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("%s: %q", e.Err.Error(), e.Key)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

// LineError locates a load failure in the source database. Line is 1-based.
type LineError struct {
	Line int
	Raw  string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d %q: %s", e.Line, e.Raw, e.Err.Error())
}

func (e *LineError) Unwrap() error {
	return e.Err
}

func HTTPStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUnknownAttribute):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnrecognizedFieldKey),
		errors.Is(err, ErrOrphanField),
		errors.Is(err, ErrInconsistentAssemblerKey):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrCatalogUnavailable), errors.Is(err, ErrTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
