package dto

import "net/http"

// Error codes shared by handlers and middleware for failures that are
// raised at the HTTP layer rather than in the domain.
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// errorCodeStatus maps domain error codes to HTTP status codes.
// Codes not listed here fall back to 500.
var errorCodeStatus = map[string]int{
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeValidation:  http.StatusBadRequest,
	"INVALID_INPUT":    http.StatusBadRequest,
	"INVALID_AMOUNT":   http.StatusBadRequest,
	"INVALID_METHOD":   http.StatusBadRequest,
	"INVALID_DUE_DATE": http.StatusBadRequest,
	"INVALID_PASSWORD": http.StatusBadRequest,
	"INVALID_NAME":     http.StatusBadRequest,
	"INVALID_EMAIL":    http.StatusBadRequest,
	"INVALID_PHONE":    http.StatusBadRequest,
	"INVALID_ROLE":     http.StatusBadRequest,
	"INVALID_CUSTOMER": http.StatusBadRequest,
	"INVALID_INVOICE":  http.StatusBadRequest,

	ErrCodeUnauthorized:   http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,
	"TOKEN_ERROR":         http.StatusUnauthorized,

	ErrCodeForbidden:   http.StatusForbidden,
	"ACCOUNT_INACTIVE": http.StatusForbidden,

	ErrCodeNotFound:  http.StatusNotFound,
	"USER_NOT_FOUND": http.StatusNotFound,

	"ALREADY_EXISTS":    http.StatusConflict,
	"ALREADY_ACTIVE":    http.StatusConflict,
	"ALREADY_INACTIVE":  http.StatusConflict,
	"HAS_PAYMENTS":      http.StatusConflict,
	"HAS_OPEN_INVOICES": http.StatusConflict,
	"CONFLICT":          http.StatusConflict,

	"OVERPAYMENT": http.StatusUnprocessableEntity,

	"RATE_LIMITED": http.StatusTooManyRequests,

	ErrCodeInternal: http.StatusInternalServerError,
}

// HTTPStatus returns the HTTP status code for a domain error code.
func HTTPStatus(code string) int {
	if status, ok := errorCodeStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
