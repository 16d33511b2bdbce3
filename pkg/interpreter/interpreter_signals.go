package interpreter

import (
	"errors"

	"github.com/SirMathhman/Tuff-sub000/pkg/parser"
	"github.com/SirMathhman/Tuff-sub000/pkg/runtime"
)

// Error is the error type returned by every evaluation entry point.
type Error = runtime.Error

type returnSignal struct {
	value runtime.Value
}

func (r returnSignal) Error() string {
	return "return"
}

// normalizeError folds parser diagnostics into the runtime error type so
// callers only ever see *Error.
func normalizeError(err error) error {
	if err == nil {
		return nil
	}
	var rtErr *runtime.Error
	if errors.As(err, &rtErr) {
		return rtErr
	}
	var synErr *parser.SyntaxError
	if errors.As(err, &synErr) {
		kind := runtime.ErrorSyntax
		if synErr.Kind == parser.ErrorLexical {
			kind = runtime.ErrorLexical
		}
		return &runtime.Error{Kind: kind, Message: synErr.Message}
	}
	return &runtime.Error{Kind: runtime.ErrorStructural, Message: err.Error()}
}
