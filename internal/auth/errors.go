package auth

import (
	"errors"
	"strings"
)

// Provider error codes, "auth/<slug>".
const (
	CodeInvalidEmail      = "auth/invalid-email"
	CodeMissingEmail      = "auth/missing-email"
	CodeMissingPassword   = "auth/missing-password"
	CodeWeakPassword      = "auth/weak-password"
	CodeMissingName       = "auth/missing-name"
	CodeEmailAlreadyInUse = "auth/email-already-in-use"
	CodeUserNotFound      = "auth/user-not-found"
	CodeWrongPassword     = "auth/wrong-password"
	CodeInternal          = "auth/internal-error"
)

// Error carries a provider code and the underlying cause, if any.
type Error struct {
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message turns the code into the text shown on the login form, e.g.
// "auth/wrong-password" becomes "wrong password".
func (e *Error) Message() string {
	slug := e.Code
	if i := strings.IndexByte(slug, '/'); i >= 0 {
		slug = slug[i+1:]
	}
	return strings.ReplaceAll(slug, "-", " ")
}

// Message returns the form-level notice for any error returned by a
// Provider.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr.Message()
	}
	return err.Error()
}

// HasCode reports whether err is an *Error with the given code.
func HasCode(err error, code string) bool {
	var authErr *Error
	return errors.As(err, &authErr) && authErr.Code == code
}

func newError(code string, cause error) *Error {
	return &Error{Code: code, Err: cause}
}
