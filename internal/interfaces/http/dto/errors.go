package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	ErrCodeValidationFormat   = "ERR_VALIDATION_FORMAT"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	ErrCodeNotFound         = "ERR_NOT_FOUND"
	ErrCodeCategoryNotFound = "ERR_CATEGORY_NOT_FOUND"
	ErrCodeAlreadyExists    = "ERR_ALREADY_EXISTS"
	ErrCodeConflict         = "ERR_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState     = "ERR_INVALID_STATE"
	ErrCodeBusinessRule     = "ERR_BUSINESS_RULE"
	ErrCodeHasChildren      = "ERR_HAS_CHILDREN"
	ErrCodeHasProducts      = "ERR_HAS_PRODUCTS"
	ErrCodeMaxDepthExceeded = "ERR_MAX_DEPTH_EXCEEDED"
)

// Input error codes
const (
	ErrCodeBadRequest       = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput     = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON      = "ERR_INVALID_JSON"
	ErrCodeVisitorRequired  = "ERR_VISITOR_REQUIRED"
	ErrCodeRequestTooLarge  = "ERR_REQUEST_TOO_LARGE"
	ErrCodeFileTooLarge     = "ERR_FILE_TOO_LARGE"
	ErrCodeUnsupportedMedia = "ERR_UNSUPPORTED_MEDIA_TYPE"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeCategoryNotFound: http.StatusNotFound,
	ErrCodeAlreadyExists:    http.StatusConflict,
	ErrCodeConflict:         http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:     http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:     http.StatusUnprocessableEntity,
	ErrCodeHasChildren:      http.StatusUnprocessableEntity,
	ErrCodeHasProducts:      http.StatusUnprocessableEntity,
	ErrCodeMaxDepthExceeded: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeInvalidInput:     http.StatusBadRequest,
	ErrCodeInvalidJSON:      http.StatusBadRequest,
	ErrCodeVisitorRequired:  http.StatusBadRequest,
	ErrCodeRequestTooLarge:  http.StatusRequestEntityTooLarge,
	ErrCodeFileTooLarge:     http.StatusRequestEntityTooLarge,
	ErrCodeUnsupportedMedia: http.StatusUnsupportedMediaType,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unlisted ERR_INVALID_* codes are 400, unlisted *_NOT_FOUND codes 404,
// everything else 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasPrefix(code, "ERR_INVALID_"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps domain error codes to API codes
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":              ErrCodeNotFound,
	"ALREADY_EXISTS":         ErrCodeAlreadyExists,
	"INVALID_INPUT":          ErrCodeInvalidInput,
	"INVALID_STATE":          ErrCodeInvalidState,
	"UNAUTHORIZED":           ErrCodeUnauthorized,
	"FORBIDDEN":              ErrCodeForbidden,
	"VALIDATION_ERROR":       ErrCodeValidation,
	"BAD_REQUEST":            ErrCodeBadRequest,
	"INTERNAL_ERROR":         ErrCodeInternal,
	"CATEGORY_NOT_FOUND":     ErrCodeCategoryNotFound,
	"HAS_CHILDREN":           ErrCodeHasChildren,
	"HAS_PRODUCTS":           ErrCodeHasProducts,
	"MAX_DEPTH_EXCEEDED":     ErrCodeMaxDepthExceeded,
	"VISITOR_REQUIRED":       ErrCodeVisitorRequired,
	"FILE_TOO_LARGE":         ErrCodeFileTooLarge,
	"UNSUPPORTED_MEDIA_TYPE": ErrCodeUnsupportedMedia,
}

// NormalizeErrorCode converts a domain error code to the API format.
// ERR_ codes pass through; other codes gain the ERR_ prefix.
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	if code == "" || strings.HasPrefix(code, "ERR_") {
		return code
	}
	return "ERR_" + code
}
