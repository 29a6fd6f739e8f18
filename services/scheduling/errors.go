package scheduling

import (
	"errors"
	"fmt"
)

// Error codes shared by every scheduling and booking operation.
const (
	CodeNotFound         = "notFound"
	CodeConflict         = "conflict"
	CodeOrderCreation    = "orderCreation"
	CodePermissionDenied = "permissionDenied"
	CodeExternalService  = "externalService"
	CodeInvalidArgument  = "invalidArgument"
	CodeOutOfRange       = "outOfRange"
)

// Error is a classified failure. Two Errors match under errors.Is when
// their codes are equal, so callers compare against the sentinels below.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrNotFound         = &Error{Code: CodeNotFound, Message: "not found"}
	ErrConflict         = &Error{Code: CodeConflict, Message: "conflict"}
	ErrOrderCreation    = &Error{Code: CodeOrderCreation, Message: "order creation failed"}
	ErrPermissionDenied = &Error{Code: CodePermissionDenied, Message: "permission denied"}
	ErrExternalService  = &Error{Code: CodeExternalService, Message: "external service failure"}
	ErrInvalidArgument  = &Error{Code: CodeInvalidArgument, Message: "invalid argument"}
	ErrOutOfRange       = &Error{Code: CodeOutOfRange, Message: "index out of range"}
)

func NotFound(format string, args ...any) error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &Error{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

func OrderCreation(format string, args ...any) error {
	return &Error{Code: CodeOrderCreation, Message: fmt.Sprintf(format, args...)}
}

func PermissionDenied(format string, args ...any) error {
	return &Error{Code: CodePermissionDenied, Message: fmt.Sprintf(format, args...)}
}

func InvalidArgument(format string, args ...any) error {
	return &Error{Code: CodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func OutOfRange(format string, args ...any) error {
	return &Error{Code: CodeOutOfRange, Message: fmt.Sprintf(format, args...)}
}

// ExternalService wraps a failure of a remote dependency.
func ExternalService(err error, format string, args ...any) error {
	return &Error{Code: CodeExternalService, Message: fmt.Sprintf(format, args...), Err: err}
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
