package bytecode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollow-vm/vclvm/bytecode"
)

func TestEmitAndReadOperand(t *testing.T) {
	b := bytecode.NewBuilder()
	idx := b.AddConstant(int64(42))
	b.EmitOperand(bytecode.OpLoadInt, idx, bytecode.Position{Line: 1})

	ins, consts, _ := b.Finish()
	require.Len(t, ins, 4)
	assert.Equal(t, byte(bytecode.OpLoadInt), ins[0])
	assert.Equal(t, idx, ins.ReadOperand(0))
	assert.Equal(t, int64(42), consts[idx])
}

func TestLabelPatchResolvesForwardJump(t *testing.T) {
	b := bytecode.NewBuilder()
	b.Emit(bytecode.OpLoadTrue, bytecode.Position{})
	label := b.EmitLabel(bytecode.OpJumpIfFalse, bytecode.Position{})
	b.Emit(bytecode.OpLoadNull, bytecode.Position{})
	target := b.Len()
	b.PatchHere(&label)

	ins, _, _ := b.Finish()
	jumpIP := 1 // after the 1-byte OpLoadTrue
	assert.Equal(t, target, ins.ReadOperand(jumpIP))
}

func TestFinishPanicsOnUnpatchedLabel(t *testing.T) {
	b := bytecode.NewBuilder()
	b.EmitLabel(bytecode.OpJump, bytecode.Position{})

	assert.Panics(t, func() {
		b.Finish()
	})
}

func TestPatchTwiceIsAProgrammingError(t *testing.T) {
	b := bytecode.NewBuilder()
	label := b.EmitLabel(bytecode.OpJump, bytecode.Position{})
	b.PatchHere(&label)

	assert.Panics(t, func() {
		b.PatchHere(&label)
	})
}

func TestOperandlessOpcodeSizeIsOne(t *testing.T) {
	assert.Equal(t, 1, bytecode.OpAdd.Size())
	assert.Equal(t, 4, bytecode.OpLoadInt.Size())
}

func TestDisassembleResolvesConstants(t *testing.T) {
	b := bytecode.NewBuilder()
	idx := b.AddConstant("hello")
	b.EmitOperand(bytecode.OpLoadStr, idx, bytecode.Position{})
	b.Emit(bytecode.OpTerm, bytecode.Position{})

	ins, consts, _ := b.Finish()
	out := bytecode.Disassemble(ins, consts)
	assert.Contains(t, out, "lstr")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "term")
}
