package types

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a styling engine error.
type ErrorCode string

// Error codes, grouped by family.
const (
	// S01xx: Lexer errors
	ErrStringNotClosed ErrorCode = "S0101"
	ErrInvalidNumber   ErrorCode = "S0102"
	ErrInvalidEscape   ErrorCode = "S0103"
	ErrInvalidOperator ErrorCode = "S0104"
	ErrVariableSyntax  ErrorCode = "S0105"

	// S02xx: Parser errors
	ErrSyntax          ErrorCode = "S0201"
	ErrExpectedToken   ErrorCode = "S0202"
	ErrUnknownFunction ErrorCode = "S0203"
	ErrDepthExceeded   ErrorCode = "S0204"

	// S03xx: Define expansion errors
	ErrCyclicDefine ErrorCode = "S0301"

	// T0xxx: Structural type errors at evaluation time
	ErrNotAMethod    ErrorCode = "T0101"
	ErrBadMethodKind ErrorCode = "T0102"

	// D0xxx: Evaluation errors
	ErrArgumentCount ErrorCode = "D0101"
	ErrArgumentType  ErrorCode = "D0102"
	ErrComponentOut  ErrorCode = "D0103"
	ErrBadRegexp     ErrorCode = "D0104"
	ErrNotAColor     ErrorCode = "D0105"
	ErrEvalDepth     ErrorCode = "D0106"

	// C0xxx: Shader compilation
	ErrNotCompilable ErrorCode = "C0101"

	// R0xxx: Style document / readiness errors
	ErrNotReady         ErrorCode = "R0101"
	ErrBadPropertyValue ErrorCode = "R0201"
	ErrUnknownProperty  ErrorCode = "R0202"
	ErrLoadFailed       ErrorCode = "R0301"
	ErrDocumentDecode   ErrorCode = "R0302"
)

// Error represents a structured styling engine error.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int
	Token    string
	Err      error
}

// NewError creates a new coded error. Pass position -1 when the error has no
// meaningful source location.
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Position: position,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithToken adds token information to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// IsCode reports whether err is a *Error carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}
