package dto

import "net/http"

// API error codes returned in the error envelope
const (
	ErrCodeValidation      = "ERR_VALIDATION"
	ErrCodeUnauthorized    = "ERR_UNAUTHORIZED"
	ErrCodeForbidden       = "ERR_FORBIDDEN"
	ErrCodeNotFound        = "ERR_NOT_FOUND"
	ErrCodeConflict        = "ERR_CONFLICT"
	ErrCodeInvalidState    = "ERR_INVALID_STATE"
	ErrCodePayloadTooLarge = "ERR_PAYLOAD_TOO_LARGE"
	ErrCodeUnsupported     = "ERR_UNSUPPORTED_MEDIA_TYPE"
	ErrCodeImportRejected  = "ERR_IMPORT_REJECTED"
	ErrCodeInternal        = "ERR_INTERNAL"
)

// ErrorCodeHTTPStatus maps API error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeForbidden:       http.StatusForbidden,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeConflict:        http.StatusConflict,
	ErrCodeInvalidState:    http.StatusConflict,
	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeUnsupported:     http.StatusUnsupportedMediaType,
	ErrCodeImportRejected:  http.StatusUnprocessableEntity,
	ErrCodeInternal:        http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for an API error code,
// defaulting to 500 for unknown codes
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodeMapping translates domain error codes to API error codes.
// Domain codes not listed here fall back to ERR_VALIDATION, which covers
// the INVALID_* family emitted by aggregate constructors.
var domainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeConflict,
	"CONCURRENCY_CONFLICT": ErrCodeConflict,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"INVALID_STATE":        ErrCodeInvalidState,
	"NOT_VERIFIED":         ErrCodeForbidden,
	"ALREADY_VERIFIED":     ErrCodeConflict,
	"ALREADY_APPROVED":     ErrCodeConflict,
	"OTP_EXPIRED":          ErrCodeUnauthorized,
	"OTP_MISMATCH":         ErrCodeUnauthorized,
	"SEQUENCE_EXHAUSTED":   ErrCodeConflict,
}

// NormalizeErrorCode maps a domain error code to its API error code
func NormalizeErrorCode(domainCode string) string {
	if code, ok := domainErrorCodeMapping[domainCode]; ok {
		return code
	}
	return ErrCodeValidation
}
