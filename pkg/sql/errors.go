package sql

import (
	"errors"
	"fmt"
)

var (
	ErrUnterminatedString = errors.New("unterminated string literal")
	ErrUnexpectedToken    = errors.New("unexpected token")
	ErrUnknownStatement   = errors.New("unknown statement")
	ErrTreeShape          = errors.New("tree shape mismatch")
)

// SyntaxError reports a lexing or parsing failure at a byte offset of the
// statement text. Kind is one of the sentinel errors above and is what
// errors.Is matches against.
type SyntaxError struct {
	Kind     error
	Expected string
	Found    Token
	Pos      int
}

func (e *SyntaxError) Error() string {
	switch {
	case e.Kind == ErrUnterminatedString:
		return fmt.Sprintf("%v starting at offset %d", e.Kind, e.Pos)
	case e.Expected != "":
		return fmt.Sprintf("expected %s, found %q at offset %d", e.Expected, e.Found.String(), e.Pos)
	}
	return fmt.Sprintf("%v %q at offset %d", e.Kind, e.Found.String(), e.Pos)
}

func (e *SyntaxError) Unwrap() error {
	return e.Kind
}

func unexpected(expected string, found Token) error {
	return &SyntaxError{Kind: ErrUnexpectedToken, Expected: expected, Found: found, Pos: found.Pos}
}

func shapeErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrTreeShape, fmt.Sprintf(format, args...))
}
