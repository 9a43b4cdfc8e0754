package compiler

import "github.com/hollow-vm/vclvm/bytecode"

// Procedure is one compiled function body: a top-level `sub`'s grouped
// bodies (concatenated in declaration order), or the synthesized
// `__ctor__` holding every top-level statement that isn't a sub.
type Procedure struct {
	Name       string
	ParamNames []string
	Code       bytecode.Instructions
	Constants  []any
	Positions  map[int]bytecode.Position
}

// SubRef is the compile-time descriptor for a named subroutine,
// carried in a procedure's constant pool and read by OpGlobalSub to
// bind a callable value to its name at `__ctor__` time.
type SubRef struct {
	Name       string
	ProcIndex  int
	ParamCount int
}

// CompiledCode is the in-memory artifact handed to the runtime:
// every compiled procedure, the entry procedure's index, and the
// source file list referenced by each instruction's Position.
type CompiledCode struct {
	Procedures  []*Procedure
	EntryIndex  int
	SourceFiles []string
}

const entryProcedureName = "__ctor__"

// AclPatternRef is one compiled pattern line of an `acl` block.
type AclPatternRef struct {
	Negated bool
	Pattern string
}

// AclRef is the compile-time descriptor for an `acl` declaration,
// carried in a procedure's constant pool and read by OpLoadAcl to
// build the runtime ACL value (the pattern engine itself lives in
// package acl).
type AclRef struct {
	Name     string
	Patterns []AclPatternRef
}
