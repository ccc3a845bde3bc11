package security

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error for the HTTP boundary.
type Kind int

const (
	KindInvalid Kind = iota + 1
	KindConflict
	KindNotFound
	KindConfig
)

// Machine-readable codes returned to the dashboard.
const (
	CodePlanLimitReached  = "PLAN_LIMIT_REACHED"
	CodeNameConflict      = "NAME_CONFLICT"
	CodeAlreadyRegistered = "ALREADY_REGISTERED"
	CodeAlreadyIsolated   = "ALREADY_ISOLATED"
	CodeNotIsolated       = "NOT_ISOLATED"
	CodeUnsupportedAction = "UNSUPPORTED_ACTION"
	CodeInvalidAction     = "INVALID_ACTION"
	CodeNoBackup          = "NO_BACKUP"
	CodeNoTenant          = "NO_TENANT"
	CodeDeviceNotFound    = "DEVICE_NOT_FOUND"
)

// Error is a domain failure with a message safe to show the end user.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

// AsError returns the domain error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// HasCode reports whether err carries the given domain code.
func HasCode(err error, code string) bool {
	e, ok := AsError(err)
	return ok && e.Code == code
}
