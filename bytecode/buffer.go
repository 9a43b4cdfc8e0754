package bytecode

import (
	"fmt"
	"reflect"
)

// unpatchedOperand is the sentinel written for a forward branch whose
// target isn't known yet. Any label left at this value when a Builder
// is finalized indicates a compiler bug, not a source error.
const unpatchedOperand = 0x00FFFFFF

// Position records the source location of an instruction's first byte,
// for error messages and the debug opcode.
type Position struct {
	SourceIndex int32
	Line        int32
	Column      int32
}

// Label is a forward-reference to a not-yet-known instruction offset.
// A Builder hands one out when emitting a branch whose target is a
// later point in the same procedure; Patch must be called exactly
// once before the Builder is finalized.
type Label struct {
	operandPos int // byte offset of the label's 3-byte operand field
	patched    bool
}

// Builder accumulates one procedure's instruction stream, its constant
// pool, and the parallel source-position map.
type Builder struct {
	code      []byte
	positions map[int]Position // instruction start offset -> Position
	constants []any
}

// NewBuilder returns an empty instruction builder.
func NewBuilder() *Builder {
	return &Builder{positions: make(map[int]Position)}
}

// Len returns the current number of bytes emitted, i.e. the offset the
// next instruction will be written at.
func (b *Builder) Len() int {
	return len(b.code)
}

// Emit appends a bare (no-operand) instruction and records its source
// position.
func (b *Builder) Emit(op Opcode, pos Position) int {
	if op.HasOperand() {
		panic(fmt.Sprintf("bytecode: %s requires an operand", op.Mnemonic()))
	}
	at := len(b.code)
	b.positions[at] = pos
	b.code = append(b.code, byte(op))
	return at
}

// EmitOperand appends an instruction carrying a known 24-bit operand.
func (b *Builder) EmitOperand(op Opcode, operand int, pos Position) int {
	if !op.HasOperand() {
		panic(fmt.Sprintf("bytecode: %s takes no operand", op.Mnemonic()))
	}
	at := len(b.code)
	b.positions[at] = pos
	b.code = append(b.code, byte(op))
	b.code = append(b.code, encode24(operand)...)
	return at
}

// EmitLabel appends a branch instruction with a sentinel operand and
// returns a Label that must later be resolved with Patch.
func (b *Builder) EmitLabel(op Opcode, pos Position) Label {
	at := b.EmitOperand(op, unpatchedOperand, pos)
	return Label{operandPos: at + 1}
}

// Patch overwrites a Label's operand with target, the byte offset the
// branch should jump to. It is a programming error to patch a Label
// more than once, or never.
func (b *Builder) Patch(l *Label, target int) {
	if l.patched {
		panic("bytecode: label patched twice")
	}
	copy(b.code[l.operandPos:l.operandPos+3], encode24(target))
	l.patched = true
}

// PatchHere patches l to the builder's current offset, the common case
// of "jump to right after this point".
func (b *Builder) PatchHere(l *Label) {
	b.Patch(l, b.Len())
}

// AddConstant returns the index of v in the constant pool. A value of a
// comparable type that equals one already pooled reuses that entry;
// anything else is appended.
func (b *Builder) AddConstant(v any) int {
	if v != nil && reflect.TypeOf(v).Comparable() {
		for i, c := range b.constants {
			if c == v {
				return i
			}
		}
	}
	b.constants = append(b.constants, v)
	return len(b.constants) - 1
}

// Finish returns the completed instruction stream, constant pool, and
// source map. It panics if any Label was never patched, which would
// otherwise silently execute as a jump to a bogus offset.
func (b *Builder) Finish() (Instructions, []any, map[int]Position) {
	code := make([]byte, len(b.code))
	copy(code, b.code)
	for off := 0; off < len(code); {
		op := Opcode(code[off])
		if op.HasOperand() && decode24(code[off+1:off+4]) == unpatchedOperand {
			panic(fmt.Sprintf("bytecode: unpatched label at offset %d (%s)", off, op.Mnemonic()))
		}
		off += op.Size()
	}
	return Instructions(code), b.constants, b.positions
}

// Instructions is a finalized, read-only instruction stream.
type Instructions []byte

// ReadOperand decodes the 24-bit little-endian operand starting right
// after the opcode byte at ip.
func (ins Instructions) ReadOperand(ip int) int {
	return decode24(ins[ip+1 : ip+4])
}

func encode24(v int) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16)}
}

func decode24(b []byte) int {
	return int(b[0]) | int(b[1])<<8 | int(b[2])<<16
}
