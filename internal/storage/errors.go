package storage

import (
	"errors"
	"fmt"
)

// Error codes shared by every backend. Request-level failures are marked
// recoverable so callers may retry or fall back; open/schema failures and
// unsupported operations are not.
const (
	CodeGetError      = "GET_ERROR"
	CodeSetError      = "SET_ERROR"
	CodeDeleteError   = "DELETE_ERROR"
	CodeDBOpenError   = "DB_OPEN_ERROR"
	CodeClearError    = "CLEAR_ERROR"
	CodeAPIError      = "API_ERROR"
	CodeTimeoutError  = "TIMEOUT_ERROR"
	CodeNetworkError  = "NETWORK_ERROR"
	CodeSessionError  = "SESSION_ERROR"
	CodeUnsupportedOp = "UNSUPPORTED_OPERATION"
)

// Error is the failure type every backend surfaces. Code is stable and
// machine-readable; Recoverable tells callers whether retrying (or falling
// back to another backend) can help.
type Error struct {
	Code        string
	Message     string
	Recoverable bool
	Err         error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a storage error with the given code.
func NewError(code, message string, recoverable bool, cause error) *Error {
	return &Error{Code: code, Message: message, Recoverable: recoverable, Err: cause}
}

// AsError unwraps err into a *Error if one is in the chain.
func AsError(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsRecoverable reports whether err is a storage error marked recoverable.
func IsRecoverable(err error) bool {
	if se, ok := AsError(err); ok {
		return se.Recoverable
	}
	return false
}
