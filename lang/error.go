package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	// Lexer errors.
	ErrUnterminatedString = NewError("unterminated string")
	ErrUnterminatedGuard  = NewError("unterminated guarded string")
	ErrInvalidCharacter   = NewError("invalid character")

	// Parser errors.
	ErrUnexpectedToken = NewError("unexpected token")
	ErrUnclosedParen   = NewError("unclosed parenthesis")
	ErrExpectedColon   = NewError("expected colon")
	ErrMixedListMap    = NewError("mixed list and map entries")
	ErrDepthExceeded   = NewError("maximum nesting depth exceeded")

	// Evaluator errors.
	ErrUnboundSymbol = NewError("unbound symbol")
	ErrNotCallable   = NewError("value is not callable")
	ErrArityMismatch = NewError("argument count mismatch")
	ErrTypeMismatch  = NewError("invalid argument type")
	ErrStepBudget    = NewError("evaluation step budget exhausted")

	ErrReadInput = NewError("failed to read input")
)

// Error represents an error with optional structured logging attributes
// and a source position. It implements both error and slog.LogValuer.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
	pos   *Position   // Source position, if known
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg> at <pos>: <err>" // all fields set
	//   2. "<msg> at <pos>"        // wrapped error is nil
	//   3. "<msg>"                 // position is unknown
	//   4. "<err>"                 // base error message is empty
	part := make([]string, 0, 2)

	if e.msg != "" {
		msg := e.msg
		if e.pos != nil {
			msg += " at " + e.pos.String()
		}

		part = append(part, msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target shares the receiver's base message.
// Derived errors (With, WithPosition, Wrap) compare equal to their
// sentinel, so errors.Is(err, ErrUnexpectedToken) works as expected.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.pos != nil {
		attrs = append(attrs, slog.String("pos", e.pos.String()))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
		pos:   e.pos,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
		pos:   e.pos,
	}
}

// WithPosition attaches a source position to the error.
// This creates a new Error instance to maintain immutability.
func (e *Error) WithPosition(pos Position) *Error {
	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: e.attrs,
		pos:   &pos,
	}
}

// Position returns the source position attached to the error, and
// whether one is known.
func (e *Error) Position() (Position, bool) {
	if e.pos == nil {
		return Position{}, false
	}

	return *e.pos, true
}

// SyntaxError decorates a lex or parse Error with the source text it
// came from, so it can render the offending line with a caret marker.
type SyntaxError struct {
	Err    *Error
	Source string // The original source input
}

// NewSyntaxError pairs err with the source it was produced from.
func NewSyntaxError(err *Error, source string) *SyntaxError {
	return &SyntaxError{Err: err, Source: source}
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Err == nil {
		return "syntax error"
	}

	pos, ok := e.Err.Position()
	if !ok || e.Source == "" {
		return e.Err.Error()
	}

	return e.Err.Error() + ":\n" + e.snippet(pos)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *SyntaxError) Unwrap() error { return e.Err }

// snippet formats the offending source line with a caret marker
// pointing at the error column.
func (e *SyntaxError) snippet(pos Position) string {
	lines := strings.Split(e.Source, "\n")

	if pos.Line < 1 || pos.Line > len(lines) {
		return ""
	}

	line := lines[pos.Line-1]

	var src strings.Builder

	// Print the line with line number
	src.WriteString("  ")
	src.WriteString(strconv.Itoa(pos.Line))
	src.WriteString(" | ")
	src.WriteString(line)
	src.WriteRune('\n')

	// Print marker pointing to the column
	// Calculate the width needed for line number display
	lineNumWidth := len(strconv.Itoa(pos.Line))
	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	padding := strings.Repeat(" ", lineNumWidth+5)

	// Add spaces to reach the error column
	if pos.Column > 0 {
		padding += strings.Repeat(" ", pos.Column-1)
	}

	src.WriteString(padding + "^")

	return src.String()
}
