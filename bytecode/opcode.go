// Package bytecode implements the instruction buffer the compiler emits
// into and the runtime executes: a variable-length opcode stream with
// 24-bit little-endian operands, a forward-branch label abstraction,
// and a source-location side map for diagnostics.
package bytecode

import "fmt"

// Opcode identifies one instruction. The mnemonic names match spec.md
// §4.6's opcode families directly so disassembly and the spec read the
// same vocabulary.
type Opcode byte

const (
	// Arithmetic: stack-only and specialized immediate forms. The
	// "iv" suffix adds the top of stack to a constant-pool literal,
	// "vi" is the reverse operand order (needed because subtraction
	// and division aren't commutative).
	OpAdd Opcode = iota
	OpAddIV
	OpAddVI
	OpSub
	OpSubIV
	OpSubVI
	OpMul
	OpMulIV
	OpMulVI
	OpDiv
	OpDivIV
	OpDivVI
	OpMod

	// Comparison and match. Equality and the match operators are
	// defined on any value pair; ordering operators fail at runtime
	// for non-comparable operands.
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpMatch
	OpNotMatch

	// Boolean and arithmetic unary. There is no eager (non-short-circuit)
	// and/or opcode: && and || always compile to a branch-and-keep
	// sequence (see compiler.VisitLogical), so only negation needs an
	// opcode here.
	OpNot
	OpNeg
	OpPos

	// Property (string-literal index), attribute (dash-allowed
	// string-literal index), and index (runtime key) access. Unset
	// variants remove the binding instead of reading or writing it.
	// Compound assignment (`+=` and friends) desugars at compile time
	// into Get, the arithmetic op, then Set — there is no dedicated
	// opcode for it.
	OpPropGet
	OpPropSet
	OpPropUnset
	OpAttrGet
	OpAttrSet
	OpAttrUnset
	OpIndexGet
	OpIndexSet
	OpIndexUnset

	// OpDup duplicates the top of stack. Used when compiling a
	// compound-assignment target (e.g. `set x:hdr += 1;`) so the
	// receiver expression is evaluated once but consumed by both the
	// Get half and the Set half of the desugared read-modify-write.
	OpDup
	// OpDup2 duplicates the top two stack values as a pair, preserving
	// order (used for compound assignment through an index target,
	// where both the receiver and the index must survive into the Get
	// half and the Set half).
	OpDup2

	// Stack-slot locals.
	OpLoad  // sload: push locals[operand]
	OpStore // sstore: pop into locals[operand]
	OpPop   // spop: pop `operand` values (scope exit, loop unwind)

	// Global variables, addressed by name-constant index.
	OpGlobalGet
	OpGlobalSet

	// Control flow. jt/jf pop and branch; brt/brf branch while also
	// conditionally popping, used where the condition value must
	// survive on the stack into exactly one arm (short-circuit &&/||).
	OpJump
	OpJumpIfTrue
	OpJumpIfFalse
	OpBranchIfTrue
	OpBranchIfFalse

	// Calls and subroutine registration.
	OpCall       // call N: invoke callee below N args
	OpReturn     // ret: pop the return value off the stack and return it
	OpTerm       // term: end of procedure, implicit return
	OpGlobalSub  // gsub: register a named subroutine global
	OpLocalSub   // lsub: push an anonymous subroutine value

	// Loop helpers. forprep only builds the iterator (the compiler
	// follows it with a jmp to the forend test); forend advances it
	// and branches back while it has more elements; iterk/iterv bind
	// the current key/value to their loop-local slots.
	OpForPrep
	OpForEnd
	OpIterKey
	OpIterValue
	OpBreak
	OpContinue

	// Literal loads, all except the boolean/null trio taking a
	// constant-pool index.
	OpLoadInt
	OpLoadReal
	OpLoadStr
	OpLoadSize
	OpLoadDuration
	OpLoadExt
	OpLoadAcl
	OpLoadDict // operand: entry count; pairs read off the stack
	OpLoadList // operand: element count; elements read off the stack
	OpLoadTrue
	OpLoadFalse
	OpLoadNull
	OpLoadAction // laction: operand is a constant-pool index holding an action code string

	// Diagnostics and conversions.
	OpDebug // operand: source-file index
	OpConvStr
	OpConvInt
	OpConvReal
	OpConvBool
	OpType
	OpStrConcat // scat: operand is the segment count to pop and join
)

// mnemonics mirrors spec.md's short opcode names, used by the
// disassembler and in error messages.
var mnemonics = map[Opcode]string{
	OpAdd: "add", OpAddIV: "addiv", OpAddVI: "addvi",
	OpSub: "sub", OpSubIV: "subiv", OpSubVI: "subvi",
	OpMul: "mul", OpMulIV: "muliv", OpMulVI: "mulvi",
	OpDiv: "div", OpDivIV: "diviv", OpDivVI: "divvi",
	OpMod: "mod",

	OpEq: "eq", OpNe: "ne", OpLt: "lt", OpLe: "le", OpGt: "gt", OpGe: "ge",
	OpMatch: "match", OpNotMatch: "nomatch",

	OpNot: "not", OpNeg: "neg", OpPos: "pos",

	OpDup: "dup", OpDup2: "dup2",

	OpPropGet: "pget", OpPropSet: "pset", OpPropUnset: "punset",
	OpAttrGet: "aget", OpAttrSet: "aset", OpAttrUnset: "aunset",
	OpIndexGet: "iget", OpIndexSet: "iset", OpIndexUnset: "iunset",

	OpLoad: "sload", OpStore: "sstore", OpPop: "spop",
	OpGlobalGet: "gget", OpGlobalSet: "gset",

	OpJump: "jmp", OpJumpIfTrue: "jt", OpJumpIfFalse: "jf",
	OpBranchIfTrue: "brt", OpBranchIfFalse: "brf",

	OpCall: "call", OpReturn: "ret", OpTerm: "term",
	OpGlobalSub: "gsub", OpLocalSub: "lsub",

	OpForPrep: "forprep", OpForEnd: "forend",
	OpIterKey: "iterk", OpIterValue: "iterv",
	OpBreak: "brk", OpContinue: "cont",

	OpLoadInt: "lint", OpLoadReal: "lreal", OpLoadStr: "lstr",
	OpLoadSize: "lsize", OpLoadDuration: "lduration", OpLoadExt: "lext",
	OpLoadAcl: "lacl", OpLoadDict: "ldict", OpLoadList: "llist",
	OpLoadTrue: "ltrue", OpLoadFalse: "lfalse", OpLoadNull: "lnull",
	OpLoadAction: "laction",

	OpDebug: "debug",
	OpConvStr: "cstr", OpConvInt: "cint", OpConvReal: "creal", OpConvBool: "cbool",
	OpType: "type", OpStrConcat: "scat",
}

// hasOperand reports whether op carries a single 24-bit operand. Every
// opcode not listed here is a bare one-byte instruction.
var hasOperand = map[Opcode]bool{
	OpAddIV: true, OpAddVI: true, OpSubIV: true, OpSubVI: true,
	OpMulIV: true, OpMulVI: true, OpDivIV: true, OpDivVI: true,

	OpPropGet: true, OpPropSet: true, OpPropUnset: true,
	OpAttrGet: true, OpAttrSet: true, OpAttrUnset: true,

	OpLoad: true, OpStore: true, OpPop: true,
	OpGlobalGet: true, OpGlobalSet: true,

	OpJump: true, OpJumpIfTrue: true, OpJumpIfFalse: true,
	OpBranchIfTrue: true, OpBranchIfFalse: true,

	OpCall: true, OpGlobalSub: true, OpLocalSub: true,

	OpForPrep: true, OpForEnd: true, OpIterKey: true, OpIterValue: true,
	OpBreak: true, OpContinue: true,

	OpLoadInt: true, OpLoadReal: true, OpLoadStr: true, OpLoadSize: true,
	OpLoadDuration: true, OpLoadExt: true, OpLoadAcl: true,
	OpLoadDict: true, OpLoadList: true, OpLoadAction: true,

	OpDebug: true, OpStrConcat: true,
}

// Mnemonic returns op's short spec name, or a numeric fallback for an
// unrecognized byte (can only happen reading corrupt bytecode).
func (op Opcode) Mnemonic() string {
	if m, ok := mnemonics[op]; ok {
		return m
	}
	return fmt.Sprintf("op(%d)", byte(op))
}

// HasOperand reports whether op is encoded with a trailing 24-bit
// operand.
func (op Opcode) HasOperand() bool {
	return hasOperand[op]
}

// Size returns the number of bytes op's encoded instruction occupies.
func (op Opcode) Size() int {
	if op.HasOperand() {
		return 4
	}
	return 1
}
