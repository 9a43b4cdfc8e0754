package compiler

import "fmt"

type SemanticError struct {
	Message string
}

func (e SemanticError) Error() string {
	return fmt.Sprintf("💥 SemanticError: %s", e.Message)
}

type DeveloperError struct {
	Message string
}

func (e DeveloperError) Error() string {
	return fmt.Sprintf("🤖 DeveloperError: %s", e.Message)
}

// CompileError is a source-positioned compilation failure (undefined
// name, break/continue outside a loop, arity mismatch, and the other
// static errors a source file can actually trigger). Unlike
// SemanticError/DeveloperError it is collected rather than panicked,
// so one compile pass can report more than one problem.
type CompileError struct {
	Line    int32
	Column  int32
	Message string
}

func (e CompileError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}
