package domain

import (
	"errors"
	"fmt"
)

// Predefined domain errors
var (
	// ErrNotFound resource does not exist
	ErrNotFound = errors.New("resource not found")
	// ErrAlreadyExists resource already exists
	ErrAlreadyExists = errors.New("resource already exists")
	// ErrInvalidInput invalid input
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized unauthorized
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden access forbidden
	ErrForbidden = errors.New("forbidden")
	// ErrInternal internal error
	ErrInternal = errors.New("internal error")
	// ErrUnknownReport report name is not in the registry
	ErrUnknownReport = errors.New("unknown report type")
	// ErrDatasetExpired dataset is past its cache TTL
	ErrDatasetExpired = errors.New("dataset expired")
	// ErrEmptyDataset ingested file had no data rows
	ErrEmptyDataset = errors.New("dataset has no rows")
)

// DomainError carries a stable code plus a user-safe message.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface (for logs and internal propagation)
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// UserMessage returns the user-facing message without internal detail
func (e *DomainError) UserMessage() string {
	return e.Message
}

// Unwrap returns the wrapped error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a resource-not-found error
func NewNotFoundError(resourceType, name string) error {
	return &DomainError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s '%s' not found", resourceType, name),
		Err:     ErrNotFound,
	}
}

// NewAlreadyExistsError creates a resource-already-exists error
func NewAlreadyExistsError(resourceType, name string) error {
	return &DomainError{
		Code:    "ALREADY_EXISTS",
		Message: fmt.Sprintf("%s '%s' already exists", resourceType, name),
		Err:     ErrAlreadyExists,
	}
}

// NewInvalidInputError creates an invalid-input error
func NewInvalidInputError(message string) error {
	return &DomainError{
		Code:    "INVALID_INPUT",
		Message: message,
		Err:     ErrInvalidInput,
	}
}

// NewUnknownReportError creates an unknown-report-type error
func NewUnknownReportError(name string) error {
	return &DomainError{
		Code:    "UNKNOWN_REPORT",
		Message: fmt.Sprintf("report type '%s' is not supported", name),
		Err:     ErrUnknownReport,
	}
}

// NewInternalError creates an internal error
func NewInternalError(err error) error {
	return &DomainError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred", // no internal detail leaks out
		Err:     fmt.Errorf("%w: %v", ErrInternal, err),
	}
}

// IsNotFound reports whether err is a resource-not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists reports whether err is a resource-already-exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsInvalidInput reports whether err is an invalid-input error
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUnknownReport reports whether err names an unsupported report type
func IsUnknownReport(err error) bool {
	return errors.Is(err, ErrUnknownReport)
}

// IsInternalError reports whether err is an internal error
func IsInternalError(err error) bool {
	return errors.Is(err, ErrInternal)
}
