package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Code classifies an error - store and infrastructure failures reuse HTTP
// status codes, change application failures use codes above the status range
type Code int

const (
	Internal   Code = http.StatusInternalServerError
	NotFound   Code = http.StatusNotFound
	Forbidden  Code = http.StatusForbidden
	Validation Code = http.StatusBadRequest
)

const (
	// UnsupportedOperation rejects a modification whose action is not recognized
	UnsupportedOperation Code = 1000 + iota
	// UnknownField rejects a value naming a field absent from the entity type
	UnknownField
	// UnsupportedFieldType rejects a value irreconcilable with the declared field kind
	UnsupportedFieldType
	// EnumParse rejects text matching no enum member
	EnumParse
)

// Error is a coded error carrying a message per wrap site
type Error struct {
	Code     Code     `json:"code"`
	Messages []string `json:"messages"`
	Err      error    `json:"err,omitempty"`
}

// Error returns the error as a json string - a zero code renders as 200
func (e *Error) Error() string {
	out := *e
	if out.Code == 0 {
		out.Code = http.StatusOK
	}
	bits, _ := json.Marshal(out)
	return string(bits)
}

// RemoveError returns a copy holding the code and messages with the wrapped
// error dropped
func (e *Error) RemoveError() *Error {
	return &Error{
		Code:     e.Code,
		Messages: e.Messages,
	}
}

// Extract returns err as an *Error - non coded errors get a zero code wrapper
func Extract(err error) *Error {
	if e, ok := err.(*Error); ok {
		return e
	}
	return &Error{
		Err: err,
	}
}

// New returns a coded Error carrying the formatted message
func New(code Code, msg string, args ...any) error {
	return &Error{
		Code:     code,
		Messages: []string{fmt.Sprintf(msg, args...)},
	}
}

// Wrap appends the formatted message to err and raises its code when one is
// given - a nil err stays nil and an existing code is kept when code is zero
func Wrap(err error, code Code, msg string, args ...any) error {
	if err == nil {
		return nil
	}
	e, ok := err.(*Error)
	if !ok {
		e = &Error{
			Err: err,
		}
	}
	if msg != "" {
		e.Messages = append(e.Messages, fmt.Sprintf(msg, args...))
	}
	if code > 0 {
		e.Code = code
	}
	return e
}
