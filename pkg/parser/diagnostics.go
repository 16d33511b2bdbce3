package parser

import "fmt"

type ErrorKind string

const (
	ErrorLexical ErrorKind = "lexical"
	ErrorSyntax  ErrorKind = "syntax"
)

// SyntaxError reports a lexing or parsing failure. Error returns only the
// message; the position is available for CLI diagnostics.
type SyntaxError struct {
	Kind    ErrorKind
	Message string
	Pos     Position
}

func (e *SyntaxError) Error() string {
	return e.Message
}

// Describe renders the error with its source position.
func (e *SyntaxError) Describe() string {
	return fmt.Sprintf("%s error at %s: %s", e.Kind, e.Pos, e.Message)
}

func newLexicalError(pos Position, format string, args ...any) *SyntaxError {
	return &SyntaxError{Kind: ErrorLexical, Message: fmt.Sprintf(format, args...), Pos: pos}
}

func newSyntaxError(pos Position, format string, args ...any) *SyntaxError {
	return &SyntaxError{Kind: ErrorSyntax, Message: fmt.Sprintf(format, args...), Pos: pos}
}
