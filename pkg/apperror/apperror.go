package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrPermission   = errors.New("permission denied")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal server error")
	ErrUnauthorized = errors.New("unauthorized")
)

type Kind string

const (
	KindValidation   Kind = "validation"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindUnknown      Kind = "unknown"
)

type AppError struct {
	BaseError   error
	Message     string
	Details     string
	FieldErrors map[string][]string
	Err         error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (Details: %s, Cause: %v)", e.BaseError.Error(), e.Message, e.Details, e.Err)
	}
	return fmt.Sprintf("%s: %s (Details: %s)", e.BaseError.Error(), e.Message, e.Details)
}

func (e *AppError) Unwrap() error {
	return e.BaseError
}

func NewAppError(base error, msg, details string, err error) *AppError {
	return &AppError{BaseError: base, Message: msg, Details: details, Err: err}
}

func NewNotFound(resource, identifier string) *AppError {
	msg := fmt.Sprintf("%s not found", resource)
	details := fmt.Sprintf("%s with identifier '%s' was not found", resource, identifier)
	return NewAppError(ErrNotFound, msg, details, nil)
}

func NewInvalidInput(details string, err error) *AppError {
	return NewAppError(ErrInvalidInput, "Invalid input provided", details, err)
}

// NewValidation reports every failing field at once.
func NewValidation(fieldErrors map[string][]string) *AppError {
	e := NewAppError(ErrInvalidInput, "Invalid input provided", fmt.Sprintf("%d field(s) failed validation", len(fieldErrors)), nil)
	e.FieldErrors = fieldErrors
	return e
}

func NewConflict(resource, field, value string) *AppError {
	msg := fmt.Sprintf("%s conflict", resource)
	details := fmt.Sprintf("%s with %s '%s' already exists", resource, field, value)
	e := NewAppError(ErrConflict, msg, details, nil)
	e.FieldErrors = map[string][]string{field: {fmt.Sprintf("%s already taken", field)}}
	return e
}

func NewInternal(details string, err error) *AppError {
	return NewAppError(ErrInternal, "An internal server error occurred", details, err)
}

func NewUnauthorized(details string, err error) *AppError {
	return NewAppError(ErrUnauthorized, "Authentication required", details, err)
}

func NewPermissionDenied(details string) *AppError {
	return NewAppError(ErrPermission, "Permission denied", details, nil)
}

// KindOf classifies any error. Unclassified errors are unknown.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return KindValidation
	case errors.Is(err, ErrPermission):
		return KindForbidden
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	default:
		return KindUnknown
	}
}

// IsHidden reports whether err means the caller may not see the resource:
// either it does not exist or the caller has no access to it. Management
// views render both the same way so channel slugs cannot be enumerated.
func IsHidden(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrPermission)
}

// FieldErrorsOf returns the per-field messages carried by err, if any.
func FieldErrorsOf(err error) map[string][]string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.FieldErrors
	}
	return nil
}

func ToHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrPermission) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrConflict) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// ToVisibleHTTPStatus is ToHTTPStatus with forbidden collapsed into 404.
func ToVisibleHTTPStatus(err error) int {
	if IsHidden(err) {
		return http.StatusNotFound
	}
	return ToHTTPStatus(err)
}

func (e *AppError) ToJSON() gin.H {
	body := gin.H{
		"error":   string(KindOf(e)),
		"message": e.Message,
	}
	if len(e.FieldErrors) > 0 {
		body["field_errors"] = e.FieldErrors
	}
	return body
}
