package coordinator

import (
	"errors"
	"fmt"
)

// ToggleErrorCode categorizes toggle failures.
type ToggleErrorCode string

const (
	// ErrCodeResolverCommunication indicates a resolver call failed or timed out.
	ErrCodeResolverCommunication ToggleErrorCode = "RESOLVER_COMMUNICATION"

	// ErrCodeStaleReference indicates the target id no longer exists in the catalogue.
	ErrCodeStaleReference ToggleErrorCode = "STALE_REFERENCE"

	// ErrCodeComponentRequired indicates a required component was toggled directly.
	ErrCodeComponentRequired ToggleErrorCode = "COMPONENT_REQUIRED"

	// ErrCodeRequestInFlight indicates a request for the same id has not finished yet.
	ErrCodeRequestInFlight ToggleErrorCode = "REQUEST_IN_FLIGHT"
)

// ToggleError is returned by Select, Unselect and Toggle.
type ToggleError struct {
	Code ToggleErrorCode
	Op   Op
	ID   string
	Err  error
}

// Sentinels for errors.Is; they match any ToggleError with the same code.
var (
	ErrResolverCommunication = &ToggleError{Code: ErrCodeResolverCommunication}
	ErrStaleReference        = &ToggleError{Code: ErrCodeStaleReference}
	ErrComponentRequired     = &ToggleError{Code: ErrCodeComponentRequired}
	ErrRequestInFlight       = &ToggleError{Code: ErrCodeRequestInFlight}
)

// Error implements the error interface.
func (e *ToggleError) Error() string {
	msg := string(e.Code)
	if e.Op != "" || e.ID != "" {
		msg = fmt.Sprintf("%s: %s %s", e.Code, e.Op, e.ID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ToggleError) Unwrap() error { return e.Err }

// Is matches sentinels by code.
func (e *ToggleError) Is(target error) bool {
	t, ok := target.(*ToggleError)
	if !ok {
		return false
	}
	return t.Code == e.Code && t.ID == "" && t.Err == nil
}

func newToggleError(code ToggleErrorCode, op Op, id string, err error) *ToggleError {
	return &ToggleError{Code: code, Op: op, ID: id, Err: err}
}

// IsResolverError returns true if the resolver could not be reached or rejected the call.
// Uses errors.As to handle wrapped errors.
func IsResolverError(err error) bool {
	return hasCode(err, ErrCodeResolverCommunication)
}

// IsStaleReference returns true if the target disappeared while the request was running.
// Callers drop these silently.
func IsStaleReference(err error) bool {
	return hasCode(err, ErrCodeStaleReference)
}

// IsComponentRequired returns true if a required component was toggled.
func IsComponentRequired(err error) bool {
	return hasCode(err, ErrCodeComponentRequired)
}

// IsRequestInFlight returns true if the id already had a request running.
func IsRequestInFlight(err error) bool {
	return hasCode(err, ErrCodeRequestInFlight)
}

func hasCode(err error, code ToggleErrorCode) bool {
	var te *ToggleError
	if errors.As(err, &te) {
		return te.Code == code
	}
	return false
}
