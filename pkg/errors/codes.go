package errors

import "net/http"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes shared by every module.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_005"
	ErrCodeTimeout            ErrorCode = "COMMON_006"
	ErrCodeValidation         ErrorCode = "COMMON_007"
	ErrCodeSerialization      ErrorCode = "COMMON_008"
	ErrCodeDatabaseError      ErrorCode = "COMMON_009"
	ErrCodeCacheError         ErrorCode = "COMMON_010"
	ErrCodeExternalService    ErrorCode = "COMMON_011"
)

// Matching module error codes.
const (
	ErrCodeListingNotFound ErrorCode = "MATCH_001"
	ErrCodeBuyerNotFound   ErrorCode = "MATCH_002"
)

// Valuation module error codes.
const (
	ErrCodeMLUnavailable     ErrorCode = "VAL_001"
	ErrCodeMLBadResponse     ErrorCode = "VAL_002"
	ErrCodeFinancialsInvalid ErrorCode = "VAL_003"
)

// CodeOK is returned by GetCode for a nil error.
const CodeOK = ErrorCode("OK")

// CodeUnknown is the sentinel used by Wrap when no classification is supplied.
const CodeUnknown = ErrorCode("UNKNOWN")

// HTTPStatus maps an error code to the HTTP status the interface layer should
// return. Unrecognised codes map to 500 so a missing entry here shows up in
// error-rate dashboards rather than leaking a misleading 4xx.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case CodeOK:
		return http.StatusOK
	case ErrCodeBadRequest, ErrCodeValidation, ErrCodeFinancialsInvalid:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeListingNotFound, ErrCodeBuyerNotFound:
		return http.StatusNotFound
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeServiceUnavailable, ErrCodeMLUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
