package errs

import (
	"errors"
	"fmt"
)

type Code int

const (
	CodeUnknown Code = iota
	CodeInvalidArgument
	CodeBackendUnavailable
	CodeWriteFailure
	CodeParseFailure
	CodeResourceUnavailable
	CodeResourceExhausted
)

func (c Code) String() string {
	switch c {
	case CodeInvalidArgument:
		return "invalid_argument"
	case CodeBackendUnavailable:
		return "backend_unavailable"
	case CodeWriteFailure:
		return "write_failure"
	case CodeParseFailure:
		return "parse_failure"
	case CodeResourceUnavailable:
		return "resource_unavailable"
	case CodeResourceExhausted:
		return "resource_exhausted"
	default:
		return "unknown"
	}
}

// Error is the typed error every core package returns. Op names the failing
// operation, Err is the underlying cause (may be nil).
type Error struct {
	Code Code
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Op == "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code Code, op string, err error, format string, args ...any) *Error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Code: code, Op: op, Msg: msg, Err: err}
}

func InvalidArgument(op, format string, args ...any) error {
	return newError(CodeInvalidArgument, op, nil, format, args...)
}

func BackendUnavailable(op string, err error, format string, args ...any) error {
	return newError(CodeBackendUnavailable, op, err, format, args...)
}

func WriteFailure(op string, err error, format string, args ...any) error {
	return newError(CodeWriteFailure, op, err, format, args...)
}

func ParseFailure(op string, err error, format string, args ...any) error {
	return newError(CodeParseFailure, op, err, format, args...)
}

func ResourceUnavailable(op, format string, args ...any) error {
	return newError(CodeResourceUnavailable, op, nil, format, args...)
}

func ResourceExhausted(op, format string, args ...any) error {
	return newError(CodeResourceExhausted, op, nil, format, args...)
}

// CodeOf returns the code of the first *Error found in err's tree, following
// both single and joined wrapping.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
