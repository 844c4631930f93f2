package openhours

import (
	"fmt"
	"strings"
)

// ErrorKind represents the type of error that occurred.
type ErrorKind string

const (
	ErrorKindLex   ErrorKind = "lex"
	ErrorKindParse ErrorKind = "parse"
)

// Span represents a range of character positions in the input.
type Span struct {
	Start int
	End   int
}

// Error represents a failure while lexing or parsing an opening_hours
// expression. Once an expression parses, evaluation cannot fail.
type Error struct {
	Kind     ErrorKind
	Message  string
	Span     *Span
	Input    string
	Expected string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// LexError creates a new lexer error.
func LexError(message string, span Span, input string) *Error {
	return &Error{
		Kind:    ErrorKindLex,
		Message: message,
		Span:    &span,
		Input:   input,
	}
}

// ParseError creates a new parser error.
func ParseError(message string, span Span, input string, expected string) *Error {
	return &Error{
		Kind:     ErrorKindParse,
		Message:  message,
		Span:     &span,
		Input:    input,
		Expected: expected,
	}
}

// Position returns the byte offset at which the error was detected.
func (e *Error) Position() int {
	if e.Span == nil {
		return 0
	}
	return e.Span.Start
}

// DisplayRich formats a rich error message with underline and an optional
// expected-token hint.
func (e *Error) DisplayRich() string {
	if e.Span != nil && e.Input != "" {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("error: %s\n", e.Message))
		sb.WriteString(fmt.Sprintf("  %s\n", e.Input))

		padding := strings.Repeat(" ", e.Span.Start+2)
		underlineLen := e.Span.End - e.Span.Start
		if underlineLen < 1 {
			underlineLen = 1
		}
		underline := strings.Repeat("^", underlineLen)
		sb.WriteString(padding)
		sb.WriteString(underline)

		if e.Expected != "" {
			sb.WriteString(fmt.Sprintf(" expected: %s", e.Expected))
		}

		return sb.String()
	}

	return fmt.Sprintf("error: %s", e.Message)
}
