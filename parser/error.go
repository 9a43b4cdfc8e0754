package parser

import "fmt"

// SyntaxError is returned for any grammar violation the parser detects,
// carrying enough position information for the host to frame a
// code-snippet highlight (spec.md §7).
type SyntaxError struct {
	Line    int32
	Column  int32
	Message string
}

func NewSyntaxError(line, column int32, message string) SyntaxError {
	return SyntaxError{Line: line, Column: column, Message: message}
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}
