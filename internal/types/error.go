package types

import "fmt"

// Error type identifiers used in the error envelope and log lines.
const (
	ErrTypeValidation   = "validation"
	ErrTypeNotFound     = "not_found"
	ErrTypeUnauthorized = "unauthorized"
	ErrTypeForbidden    = "forbidden"
	ErrTypeConflict     = "conflict"
	ErrTypeQuota        = "quota"
	ErrTypeUpstream     = "upstream"
	ErrTypeInternal     = "internal"
)

type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Details string `json:"details,omitempty"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// NewValidationError returns a 400 error for a missing or malformed field.
func NewValidationError(message string) *CustomError {
	return &CustomError{Code: 400, Message: message, Type: ErrTypeValidation}
}

// NewNotFoundError returns a 404 error for an absent resource.
func NewNotFoundError(message string) *CustomError {
	return &CustomError{Code: 404, Message: message, Type: ErrTypeNotFound}
}

// NewUnauthorizedError returns a 401 error for a missing or invalid token.
func NewUnauthorizedError(message string) *CustomError {
	return &CustomError{Code: 401, Message: message, Type: ErrTypeUnauthorized}
}

// NewForbiddenError returns a 403 error for an authenticated non-owner.
func NewForbiddenError(message string) *CustomError {
	return &CustomError{Code: 403, Message: message, Type: ErrTypeForbidden}
}

// NewConflictError returns a 400 error with a distinguishable conflict type,
// used for duplicate email and duplicate title cases.
func NewConflictError(message string) *CustomError {
	return &CustomError{Code: 400, Message: message, Type: ErrTypeConflict}
}

// NewQuotaError returns a 400 error for a goal-quota rejection.
func NewQuotaError(message string) *CustomError {
	return &CustomError{Code: 400, Message: message, Type: ErrTypeQuota}
}

// NewUpstreamError returns a 5xx-range error for an inference service
// failure. The details string indicates which sub-case occurred.
func NewUpstreamError(code int, message, details string) *CustomError {
	return &CustomError{Code: code, Message: message, Type: ErrTypeUpstream, Details: details}
}
