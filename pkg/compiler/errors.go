package compiler

import (
	"errors"
	"fmt"
)

// Error classes. Every *Error unwraps to exactly one of these, so callers
// can branch with errors.Is.
var (
	ErrLexical     = errors.New("lexical issue")
	ErrSyntax      = errors.New("syntax error")
	ErrSemantic    = errors.New("semantic error")
	ErrUnsupported = errors.New("unsupported construct")
)

// Error is a fatal compile diagnostic.
type Error struct {
	Kind    error  // one of ErrLexical, ErrSyntax, ErrSemantic, ErrUnsupported
	Line    int    // 1-based source line, 0 when unknown
	Token   string // offending token text
	Msg     string
	Snippet string // trimmed source line
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%v: %s", e.Kind, e.Msg)
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	if e.Snippet != "" {
		msg += "\n  |> " + e.Snippet
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Kind }

func semanticError(token, format string, args ...any) error {
	return &Error{Kind: ErrSemantic, Token: token, Msg: fmt.Sprintf(format, args...)}
}

func unsupportedError(token, format string, args ...any) error {
	return &Error{Kind: ErrUnsupported, Token: token, Msg: fmt.Sprintf(format, args...)}
}
