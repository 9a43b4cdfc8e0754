package vm

import (
	"github.com/hollow-vm/vclvm/compiler"
	"github.com/hollow-vm/vclvm/value"
)

// Frame is one call's activation record (spec.md §4.9): base is the
// stack index of local 0, pc is the byte offset of the next
// instruction to fetch within Proc.Code, and caller holds the callee
// Value that was invoked to create this frame (used for stack traces
// and left nil for the synthesized entry frame).
type Frame struct {
	Proc        *compiler.Procedure
	Base        int
	ArgSize     int
	PC          int
	Caller      value.Value
	SourceIndex int32
	InstrCount  int

	iters []iterState
}

// iterState is one active `for` loop's cursor: the iterator itself
// plus the key/value pair forprep/forend last fetched from it, read by
// iterk/iterv without re-advancing.
type iterState struct {
	it  value.Iterator
	key value.Value
	val value.Value
}

func (f *Frame) pushIter(it value.Iterator) {
	f.iters = append(f.iters, iterState{it: it})
}

func (f *Frame) topIter() *iterState {
	return &f.iters[len(f.iters)-1]
}

func (f *Frame) popIter() {
	f.iters = f.iters[:len(f.iters)-1]
}
