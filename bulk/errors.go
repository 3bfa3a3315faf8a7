package bulk

import "fmt"

// Code classifies a request-level rejection. Failures of individual
// operations inside an accepted batch are not coded; they travel as free
// text in their OperationResult.
type Code string

const (
	// CodeAuthFailed means no authenticated session exists for the run.
	CodeAuthFailed Code = "AUTH_FAILED"

	// CodeFieldError means the request shape or an operation's fields are
	// invalid.
	CodeFieldError Code = "FIELD_ERROR"

	// CodePermissionDenied means the session may not perform the request.
	CodePermissionDenied Code = "PERMISSION_DENIED"
)

// Error is a request-level rejection. Exactly one is returned per failed
// invocation; it is never produced once execution of a valid batch has
// started.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newFieldError(format string, args ...any) *Error {
	return &Error{Code: CodeFieldError, Message: fmt.Sprintf(format, args...)}
}
