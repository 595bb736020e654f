package dto

import "net/http"

// Error codes raised by the HTTP layer itself. Domain and application errors
// carry their own codes and are mapped through ErrorCodeHTTPStatus.
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid    = "TOKEN_INVALID"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeRateLimited     = "RATE_LIMIT_EXCEEDED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeUnavailable     = "SERVICE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// 400 Bad Request
	ErrCodeValidation:     http.StatusBadRequest,
	ErrCodeBadRequest:     http.StatusBadRequest,
	"INVALID_INPUT":       http.StatusBadRequest,
	"INSUFFICIENT_STOCK":  http.StatusBadRequest,
	"CART_EMPTY":          http.StatusBadRequest,
	"EMPTY_ORDER":         http.StatusBadRequest,
	"INVALID_PAY_METHOD":  http.StatusBadRequest,
	"INVALID_ADDRESS":     http.StatusBadRequest,
	"SKU_NOT_FOUND":       http.StatusBadRequest,
	"INVALID_COUNT":       http.StatusBadRequest,
	"INVALID_ORDER":       http.StatusBadRequest,
	"INVALID_PAYMENT":     http.StatusBadRequest,
	"INVALID_CATEGORY":    http.StatusBadRequest,
	"PASSWORD_MISMATCH":   http.StatusBadRequest,
	"TERMS_NOT_ACCEPTED":  http.StatusBadRequest,
	"INVALID_USERNAME":    http.StatusBadRequest,
	"INVALID_MOBILE":      http.StatusBadRequest,
	"INVALID_PASSWORD":    http.StatusBadRequest,
	"INVALID_EMAIL":       http.StatusBadRequest,
	"ADDRESS_LIMIT":       http.StatusBadRequest,
	"INVALID_CREDENTIALS": http.StatusBadRequest,
	"INVALID_STATE":       http.StatusBadRequest,

	// 401 Unauthorized
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// 403 Forbidden
	ErrCodeForbidden: http.StatusForbidden,

	// 404 Not Found
	ErrCodeNotFound:        http.StatusNotFound,
	"ADDRESS_NOT_FOUND":    http.StatusNotFound,
	"AREA_NOT_FOUND":       http.StatusNotFound,
	"USER_NOT_FOUND":       http.StatusNotFound,
	"ORDER_NOT_FOUND":      http.StatusNotFound,
	"CART_ENTRY_NOT_FOUND": http.StatusNotFound,

	// 409 Conflict
	"STOCK_CONTENTION":     http.StatusConflict,
	"DUPLICATE_ORDER":      http.StatusConflict,
	"ALREADY_EXISTS":       http.StatusConflict,
	"PAYMENT_RECORDED":     http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// 413 Payload Too Large
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	// 429 Too Many Requests
	ErrCodeRateLimited: http.StatusTooManyRequests,

	// 500 Internal Server Error
	ErrCodeInternal: http.StatusInternalServerError,

	// 503 Service Unavailable
	ErrCodeUnavailable:    http.StatusServiceUnavailable,
	"PAYMENT_UNAVAILABLE": http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsRetryable reports whether the client may resubmit the same request
func IsRetryable(code string) bool {
	return code == "STOCK_CONTENTION" || code == "DUPLICATE_ORDER"
}
