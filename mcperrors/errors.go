// Package mcperrors holds the closed set of error kinds reported to callers and the
// typed errors that produce them. Code below the dispatcher returns these types
// (possibly wrapped); Translate looks through the chain with errors.As and turns
// any error into exactly one structured payload.
package mcperrors

import (
	"fmt"
	"strings"
	"time"
)

// Kind is the stable code carried in the error payload of a response.
type Kind string

const (
	KindParseError       Kind = "PARSE_ERROR"
	KindToolNotFound     Kind = "TOOL_NOT_FOUND"
	KindMissingParameter Kind = "MISSING_PARAMETER"
	KindTypeMismatch     Kind = "TYPE_MISMATCH"
	KindUnknownParameter Kind = "UNKNOWN_PARAMETER"
	KindAuth             Kind = "AUTH_ERROR"
	KindNotFound         Kind = "NOT_FOUND"
	KindTransientFailure Kind = "TRANSIENT_FAILURE"
	KindUnknown          Kind = "UNKNOWN_ERROR"
)

// ParseError is returned when an input line is not a JSON request object.
type ParseError struct {
	Err error
}

func (err *ParseError) Error() string {
	return fmt.Sprintf("invalid request line: %v", err.Err)
}

func (err *ParseError) Unwrap() error { return err.Err }

// ToolNotFoundError is returned when a request names a tool that was never registered.
type ToolNotFoundError struct {
	Name      string
	Available []string
}

func (err *ToolNotFoundError) Error() string {
	if err.Name == "" {
		return "request does not name a tool"
	}
	return fmt.Sprintf("tool %q is not registered", err.Name)
}

// DuplicateToolError is returned when a tool name is registered twice.
type DuplicateToolError struct {
	Name string
}

func (err *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q is already registered", err.Name)
}

// ParamHint is attached to every parameter validation error so a programmatic
// caller can correct the call without reading prose.
type ParamHint struct {
	Tool     string
	Accepted []string
	Example  string
}

// MissingParameterError is returned when a required parameter is absent.
type MissingParameterError struct {
	ParamHint
	Name string
}

func (err *MissingParameterError) Error() string {
	return fmt.Sprintf("missing required parameter %q", err.Name)
}

// TypeMismatchError is returned when a parameter cannot be converted to its declared
// type or breaks one of its declared constraints.
type TypeMismatchError struct {
	ParamHint
	Name     string
	Expected string
	Got      string
}

func (err *TypeMismatchError) Error() string {
	return fmt.Sprintf("parameter %q: expected %s, got %s", err.Name, err.Expected, err.Got)
}

// UnknownParameterError is returned when params contains an undeclared key.
type UnknownParameterError struct {
	ParamHint
	Name string
}

func (err *UnknownParameterError) Error() string {
	return fmt.Sprintf("unknown parameter %q; accepted parameters: %s", err.Name, strings.Join(err.Accepted, ", "))
}

// RemoteError is a non-retried HTTP failure reported by the remote API.
type RemoteError struct {
	StatusCode int
	Method     string
	Path       string
	// Errors holds the messages of a {"errors": [...]} body when the API sent one.
	Errors []string
	Body   string
}

func (err *RemoteError) Error() string {
	s := fmt.Sprintf("%s %s: remote API returned status %d", err.Method, err.Path, err.StatusCode)
	if len(err.Errors) > 0 {
		return s + ": " + strings.Join(err.Errors, "; ")
	}
	if err.Body != "" {
		return s + ": " + err.Body
	}
	return s
}

// TransientFailureError is returned once every attempt of a retried call has failed.
type TransientFailureError struct {
	Attempts uint
	Err      error
}

func (err *TransientFailureError) Error() string {
	return fmt.Sprintf("remote API unavailable after %d attempts: %v", err.Attempts, err.Err)
}

func (err *TransientFailureError) Unwrap() error { return err.Err }

// TimeoutError is returned when a call, all attempts included, outlives its budget.
type TimeoutError struct {
	Timeout  time.Duration
	Attempts uint
	Err      error
}

func (err *TimeoutError) Error() string {
	s := fmt.Sprintf("remote call exceeded timeout of %s after %d attempts", err.Timeout, err.Attempts)
	if err.Err != nil {
		s += fmt.Sprintf(": %v", err.Err)
	}
	return s
}

func (err *TimeoutError) Unwrap() error { return err.Err }
