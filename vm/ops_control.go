package vm

import (
	"fmt"

	"github.com/hollow-vm/vclvm/bytecode"
	"github.com/hollow-vm/vclvm/value"
)

func init() {
	register(bytecode.OpJump, func(vm *VM, operand int) (*RunResult, error) {
		vm.currentFrame().PC = operand
		return nil, nil
	})
	register(bytecode.OpJumpIfTrue, func(vm *VM, operand int) (*RunResult, error) {
		if value.ToBoolean(vm.stack.Pop()) {
			vm.currentFrame().PC = operand
		}
		return nil, nil
	})
	register(bytecode.OpJumpIfFalse, func(vm *VM, operand int) (*RunResult, error) {
		if !value.ToBoolean(vm.stack.Pop()) {
			vm.currentFrame().PC = operand
		}
		return nil, nil
	})
	register(bytecode.OpBranchIfTrue, func(vm *VM, operand int) (*RunResult, error) {
		if value.ToBoolean(vm.stack.Peek()) {
			vm.currentFrame().PC = operand
		} else {
			vm.stack.Pop()
		}
		return nil, nil
	})
	register(bytecode.OpBranchIfFalse, func(vm *VM, operand int) (*RunResult, error) {
		if !value.ToBoolean(vm.stack.Peek()) {
			vm.currentFrame().PC = operand
		} else {
			vm.stack.Pop()
		}
		return nil, nil
	})

	register(bytecode.OpForPrep, func(vm *VM, operand int) (*RunResult, error) {
		coll := vm.stack.Pop()
		obj, ok := coll.(value.Object)
		if !ok {
			return nil, fmt.Errorf("cannot iterate a %s", value.TypeOf(coll))
		}
		it, err := obj.NewIterator()
		if err != nil {
			return nil, err
		}
		vm.currentFrame().pushIter(it)
		return nil, nil
	})
	register(bytecode.OpForEnd, func(vm *VM, operand int) (*RunResult, error) {
		frame := vm.currentFrame()
		cur := frame.topIter()
		key, val, ok := cur.it.Next()
		if !ok {
			frame.popIter()
			return nil, nil
		}
		cur.key, cur.val = key, val
		frame.PC = operand
		return nil, nil
	})
	register(bytecode.OpIterKey, func(vm *VM, operand int) (*RunResult, error) {
		frame := vm.currentFrame()
		key := frame.topIter().key
		if s, ok := key.(string); ok {
			// Dict iterators yield raw Go string keys; strings on the
			// stack are always *value.String.
			key = value.NewString(vm.Collector, s)
		}
		vm.stack.Set(frame.Base+operand, key)
		return nil, nil
	})
	register(bytecode.OpIterValue, func(vm *VM, operand int) (*RunResult, error) {
		frame := vm.currentFrame()
		vm.stack.Set(frame.Base+operand, frame.topIter().val)
		return nil, nil
	})
	register(bytecode.OpBreak, func(vm *VM, operand int) (*RunResult, error) {
		frame := vm.currentFrame()
		frame.popIter()
		frame.PC = operand
		return nil, nil
	})
	register(bytecode.OpContinue, func(vm *VM, operand int) (*RunResult, error) {
		vm.currentFrame().PC = operand
		return nil, nil
	})
}
