package errors

import (
	"errors"
	"fmt"
)

// ValidationError - required input is missing or malformed. Maps to 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidation builds a ValidationError listing the missing fields.
func NewValidation(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// UpstreamTransportError - network failure, timeout or non-2xx from an
// external system. The upstream status code and body are preserved verbatim.
type UpstreamTransportError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamTransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream call failed: %v", e.Err)
	}
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

func (e *UpstreamTransportError) Unwrap() error {
	return e.Err
}

// BookingRejectedError - the PMS explicitly signaled a booking failure.
// Message and code come from the upstream error payload.
type BookingRejectedError struct {
	Message string
	Code    string
}

func (e *BookingRejectedError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("booking rejected: %s (code %s)", e.Message, e.Code)
	}
	return fmt.Sprintf("booking rejected: %s", e.Message)
}

// CalculationError - the PMS signaled a failure for an extra-charge
// calculation, or omitted the total-charge field.
type CalculationError struct {
	Message string
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("extra charge calculation failed: %s", e.Message)
}

// UnexpectedShapeError - the upstream response matched none of the known
// success or error patterns. Raw keeps the body for diagnosis.
type UnexpectedShapeError struct {
	Raw string
}

func (e *UnexpectedShapeError) Error() string {
	return "unexpected upstream response shape"
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
