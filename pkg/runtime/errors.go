package runtime

import "fmt"

// ErrorKind classifies evaluation failures.
type ErrorKind string

const (
	ErrorLexical    ErrorKind = "lexical"
	ErrorSyntax     ErrorKind = "syntax"
	ErrorName       ErrorKind = "name"
	ErrorType       ErrorKind = "type"
	ErrorBorrow     ErrorKind = "borrow"
	ErrorStructural ErrorKind = "structural"
)

// Error is the single error type surfaced by evaluation. Error returns the
// bare message so callers can compare it verbatim.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func NewErrorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
