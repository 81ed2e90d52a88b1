// Package errors defines the structured application error used across the
// service, with a type taxonomy that maps onto HTTP status codes.
package errors

import (
	"fmt"
	"net/http"

	"github.com/planejatrip/planejatrip-backend/logger"
)

type ErrorType string

const (
	ValidationError      ErrorType = "VALIDATION_ERROR"
	NotFoundError        ErrorType = "NOT_FOUND"
	AuthError            ErrorType = "AUTHENTICATION_ERROR"
	DatabaseError        ErrorType = "DATABASE_ERROR"
	ServerError          ErrorType = "SERVER_ERROR"
	ForbiddenError       ErrorType = "FORBIDDEN"
	ConflictError        ErrorType = "CONFLICT"
	TripNotFoundError    ErrorType = "TRIP_NOT_FOUND"
	TripAccessError      ErrorType = "TRIP_ACCESS_DENIED"
	VersionConflictError ErrorType = "VERSION_CONFLICT"
	RateLimitError       ErrorType = "RATE_LIMIT_EXCEEDED"
)

// AppError is a structured application error.
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       string    `json:"code,omitempty"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the wrapped raw error, if any.
func (e *AppError) Unwrap() error {
	return e.Raw
}

// GetHTTPStatus returns the HTTP status the error should be reported with.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return getHTTPStatus(e.Type)
}

// New creates an AppError of the given type.
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap attaches AppError context to a raw error.
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

func NotFound(entity string, id interface{}) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    fmt.Sprintf("%s not found", entity),
		Detail:     fmt.Sprintf("ID: %v", id),
		HTTPStatus: http.StatusNotFound,
	}
}

func ValidationFailed(message string, details string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusBadRequest,
	}
}

func AuthenticationFailed(message string) *AppError {
	return &AppError{
		Type:       AuthError,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

func Unauthorized(code, message string) *AppError {
	return &AppError{
		Type:       AuthError,
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

func NewDatabaseError(err error) *AppError {
	// Log the original error, return a sanitized message to the caller.
	logger.GetLogger().Errorw("Database error", "error", err)
	return &AppError{
		Type:       DatabaseError,
		Message:    "Database operation failed",
		Detail:     "Please try again later",
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

func InternalServerError(message string) *AppError {
	return &AppError{
		Type:       ServerError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

func Forbidden(code string, message string) *AppError {
	return &AppError{
		Type:       ForbiddenError,
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

func TripNotFound(id string) *AppError {
	return &AppError{
		Type:       TripNotFoundError,
		Message:    "Trip not found",
		Detail:     fmt.Sprintf("Trip ID: %s", id),
		HTTPStatus: http.StatusNotFound,
	}
}

func TripAccessDenied(email, tripID string) *AppError {
	return &AppError{
		Type:       TripAccessError,
		Message:    "Access to trip denied",
		Detail:     fmt.Sprintf("User %s cannot modify trip %s", logger.MaskEmail(email), tripID),
		HTTPStatus: http.StatusForbidden,
	}
}

func NewConflictError(code string, message string, detail string) *AppError {
	return &AppError{
		Type:       ConflictError,
		Code:       code,
		Message:    message,
		Detail:     detail,
		HTTPStatus: http.StatusConflict,
	}
}

// NoAccountFound reports an invite targeting an email with no registered
// profile. Distinguishable from the other invite conflicts by code.
func NoAccountFound(email string) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Code:       "no_account_found",
		Message:    "No account found for this email",
		Detail:     logger.MaskEmail(email),
		HTTPStatus: http.StatusNotFound,
	}
}

// AlreadyParticipant reports an invite targeting someone already on the trip.
func AlreadyParticipant(email string) *AppError {
	return NewConflictError("already_participates",
		"This user already participates in the trip", logger.MaskEmail(email))
}

// DuplicateInvite reports a second invite for the same (trip, guest) pair.
func DuplicateInvite(email string) *AppError {
	return NewConflictError("already_invited",
		"An invite for this trip was already sent to this user", logger.MaskEmail(email))
}

// VersionConflict reports a lost compare-and-swap on a trip document: the
// snapshot the caller mutated is no longer the current one.
func VersionConflict(tripID string) *AppError {
	return &AppError{
		Type:       VersionConflictError,
		Code:       "version_conflict",
		Message:    "Trip was modified concurrently",
		Detail:     fmt.Sprintf("Trip ID: %s, reload and retry", tripID),
		HTTPStatus: http.StatusConflict,
	}
}

// RateLimitExceeded reports a throttled request, with the retry window in
// seconds carried in the detail.
func RateLimitExceeded(message string, retryAfterSeconds int) *AppError {
	return &AppError{
		Type:       RateLimitError,
		Code:       "rate_limit_exceeded",
		Message:    message,
		Detail:     fmt.Sprintf("Retry after %d seconds", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError:
		return http.StatusBadRequest
	case NotFoundError, TripNotFoundError:
		return http.StatusNotFound
	case AuthError:
		return http.StatusUnauthorized
	case ForbiddenError, TripAccessError:
		return http.StatusForbidden
	case ConflictError, VersionConflictError:
		return http.StatusConflict
	case RateLimitError:
		return http.StatusTooManyRequests
	case DatabaseError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
