// Package errors provides the unified error type and factory functions for the
// MSME marketplace engine.  Every layer (domain, matching, valuation,
// infrastructure, interfaces) uses AppError as the single carrier for
// structured error information, enabling consistent HTTP responses, logging,
// and monitoring.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// stackDepth is the maximum number of frames captured per error.
const stackDepth = 32

// captureStack returns a formatted call-stack string starting two frames above
// the caller (skipping captureStack itself and New/Wrap).
func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		// Trim standard-library noise to keep traces readable.
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// AppError is the single structured error type used throughout the engine.
// It satisfies the standard error interface and supports Go 1.13+ error
// wrapping so that errors.Is / errors.As / errors.Unwrap work transparently
// across all layers.
//
// Usage:
//
//	return errors.New(errors.ErrCodeListingNotFound, "listing lst_42 not found")
//	return errors.Wrap(repoErr, errors.ErrCodeDatabaseError, "failed to load buyer pool")
//	return errors.NotFound("buyer byr_7 not found").WithDetail("pool=active")
type AppError struct {
	// Code is the typed error code that uniquely identifies the failure category.
	Code ErrorCode

	// Message is the primary human-readable description of the error, suitable
	// for inclusion in API responses returned to callers.
	Message string

	// Detail carries supplementary context (query parameters, entity IDs, etc.)
	// that aids debugging without leaking sensitive internals to end users.
	Detail string

	// Cause is the underlying error that triggered this AppError.
	Cause error

	// Stack contains the formatted call-stack captured at the point of error
	// creation.  Stack is intentionally not included in Error() output to keep
	// API error messages clean; structured logging middleware reads the field
	// directly.
	Stack string
}

// Error implements the standard error interface.
// Format: "[<code>] <message>: <detail>", the detail segment omitted when empty.
func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error, enabling errors.Is and errors.As
// to traverse the full error chain.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a shallow copy of the receiver with Detail set.
// It is safe to call on a nil pointer (returns nil).
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithCause returns a shallow copy of the receiver with Cause set to err.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

// New constructs a fresh AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Wrap constructs an AppError that wraps an existing error.  If err is nil,
// Wrap returns nil so it can be used inline on a returned error.
//
// When err is already an *AppError and code is CodeUnknown the original code
// is preserved, preventing loss of the original domain classification during
// cross-layer propagation.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == CodeUnknown {
		var ae *AppError
		if errors.As(err, &ae) {
			code = ae.Code
		}
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
		Stack:   captureStack(1),
	}
}

// IsCode reports whether any error in err's chain is an *AppError with the
// given code.
func IsCode(err error, code ErrorCode) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) && ae.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// IsNotFound reports whether any error in err's chain is an *AppError with
// ErrCodeNotFound, ErrCodeListingNotFound, or ErrCodeBuyerNotFound.
func IsNotFound(err error) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) {
			switch ae.Code {
			case ErrCodeNotFound, ErrCodeListingNotFound, ErrCodeBuyerNotFound:
				return true
			}
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode extracts the ErrorCode from the first *AppError found in err's
// chain.  If no *AppError is present, CodeUnknown is returned.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// NotFound constructs an ErrCodeNotFound AppError.  Prefer the domain-specific
// ErrCodeListingNotFound / ErrCodeBuyerNotFound at repository call sites; this
// generic form is appropriate in generic router or cache layers.
func NotFound(message string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: message,
		Stack:   captureStack(1),
	}
}

// InvalidParam constructs an ErrCodeBadRequest AppError.
func InvalidParam(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Validation constructs an ErrCodeValidation AppError.
func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Internal constructs an ErrCodeInternal AppError.  Use this for unexpected
// server-side failures where no more specific code applies.
func Internal(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Unavailable constructs an ErrCodeServiceUnavailable AppError.
func Unavailable(message string) *AppError {
	return &AppError{
		Code:    ErrCodeServiceUnavailable,
		Message: message,
		Stack:   captureStack(1),
	}
}
