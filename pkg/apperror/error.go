package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies a failure for status mapping and logging.
type Kind string

const (
	KindValidation         Kind = "validation_error"
	KindServiceUnavailable Kind = "service_unavailable"
	KindDispatchFailed     Kind = "dispatch_failed"
	KindNotFound           Kind = "not_found"
	KindCorsRejected       Kind = "cors_rejected"
	KindMalformedBody      Kind = "malformed_body"
	KindRateLimited        Kind = "rate_limited"
	KindPayloadTooLarge    Kind = "payload_too_large"
	KindInternal           Kind = "internal"
)

type AppError struct {
	Kind    Kind        `json:"kind"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Err     error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ServerFault reports whether the error originates on our side and must be logged as such.
func (e *AppError) ServerFault() bool {
	return e.Code >= http.StatusInternalServerError
}

func New(kind Kind, code int, message string, err error) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation carries per-field details back to the client.
func Validation(details interface{}) *AppError {
	e := New(KindValidation, http.StatusBadRequest, "Validation error", nil)
	e.Details = details
	return e
}

func ServiceUnavailable(err error) *AppError {
	return New(KindServiceUnavailable, http.StatusInternalServerError,
		"Email service temporarily unavailable. Please try again later.", err)
}

func DispatchFailed(err error) *AppError {
	return New(KindDispatchFailed, http.StatusInternalServerError,
		"Failed to send message. Please try again later or contact us directly.", err)
}

func NotFound() *AppError {
	return New(KindNotFound, http.StatusNotFound, "Endpoint not found", nil)
}

func CorsRejected(origin string) *AppError {
	return New(KindCorsRejected, http.StatusForbidden, "CORS policy violation", errors.New("origin not allowed: "+origin))
}

func MalformedBody(err error) *AppError {
	return New(KindMalformedBody, http.StatusBadRequest, "Invalid JSON in request body", err)
}

func RateLimited() *AppError {
	return New(KindRateLimited, http.StatusTooManyRequests, "Too many requests from this IP, please try again later.", nil)
}

func PayloadTooLarge(err error) *AppError {
	return New(KindPayloadTooLarge, http.StatusRequestEntityTooLarge, "Request body too large", err)
}

func Internal(err error) *AppError {
	return New(KindInternal, http.StatusInternalServerError, "Internal server error", err)
}

// As extracts an *AppError from err, wrapping unknown errors as Internal.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// IsKind reports whether err is an *AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}
