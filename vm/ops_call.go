package vm

import (
	"fmt"

	"github.com/hollow-vm/vclvm/bytecode"
	"github.com/hollow-vm/vclvm/compiler"
	"github.com/hollow-vm/vclvm/value"
)

func init() {
	// call N: the callee sits at base-1, its N already-pushed arguments
	// at base..base+N-1. A compiled SubRoutine reuses those stack slots
	// directly as its frame's locals; anything else goes through the
	// Invoke capability with a copied argument slice.
	register(bytecode.OpCall, func(vm *VM, operand int) (*RunResult, error) {
		base := vm.stack.Len() - operand
		callee := vm.stack.At(base - 1)

		if sub, ok := callee.(*value.SubRoutine); ok {
			if sub.ParamCount != operand {
				return nil, fmt.Errorf("%s expects %d argument(s), got %d", sub.Name, sub.ParamCount, operand)
			}
			if len(vm.frames) >= vm.MaxFrameDepth {
				return nil, fmt.Errorf("call stack exceeds maximum depth %d", vm.MaxFrameDepth)
			}
			vm.pushFrame(vm.Code.Procedures[sub.ProcIndex], base, operand, callee)
			return nil, nil
		}

		if hf, ok := callee.(*HostFunction); ok {
			args := vm.stack.PopN(operand)
			vm.stack.Pop() // discard the callee slot
			return vm.callHostFunction(hf, args)
		}

		args := vm.stack.PopN(operand)
		vm.stack.Pop() // discard the callee slot
		obj, ok := callee.(value.Object)
		if !ok {
			return nil, fmt.Errorf("%s is not callable", value.TypeOf(callee))
		}
		result, status, err := obj.Invoke(args)
		if err != nil {
			return nil, err
		}
		if status == value.StatusUnimplemented {
			return nil, fmt.Errorf("%s is not callable", value.TypeOf(callee))
		}
		vm.stack.Push(result)
		return nil, nil
	})

	// ret pops the value a `return` expression produced, unwinds the
	// current frame, and hands the value to the caller in place of the
	// callee slot. Returning out of the outermost frame has nowhere to
	// hand the value to, so it ends the run instead.
	register(bytecode.OpReturn, func(vm *VM, operand int) (*RunResult, error) {
		ret := vm.stack.Pop()
		frame := vm.currentFrame()
		vm.stack.Truncate(frame.Base - 1)
		vm.frames = vm.frames[:len(vm.frames)-1]
		if len(vm.frames) == 0 {
			return &RunResult{Status: RunTerminated, Action: actionCodeOf(ret), ActionValue: ret}, nil
		}
		vm.stack.Push(ret)
		return nil, nil
	})

	// term marks the end of a procedure reached without an explicit
	// return. Per the runtime's calling convention this always clears
	// every frame and the whole stack, even inside a nested call — a
	// helper sub that falls off its end ends the entire run rather than
	// returning control to whatever called it.
	register(bytecode.OpTerm, func(vm *VM, operand int) (*RunResult, error) {
		action := value.NewAction(vm.Collector, value.ActionOK, nil)
		vm.frames = nil
		vm.stack = nil
		return &RunResult{Status: RunTerminated, Action: value.ActionOK, ActionValue: action}, nil
	})

	register(bytecode.OpGlobalSub, func(vm *VM, operand int) (*RunResult, error) {
		ref := vm.constant(operand).(compiler.SubRef)
		vm.Globals[ref.Name] = value.NewSubRoutine(vm.Collector, vm, ref.Name, ref.ProcIndex, ref.ParamCount)
		return nil, nil
	})

	// lsub is unreached by the current grammar (no function-literal
	// expression exists yet) but follows OpGlobalSub's shape: it pushes
	// the SubRoutine value as an expression result instead of binding a
	// global, for whenever the grammar grows one.
	register(bytecode.OpLocalSub, func(vm *VM, operand int) (*RunResult, error) {
		ref := vm.constant(operand).(compiler.SubRef)
		vm.stack.Push(value.NewSubRoutine(vm.Collector, vm, ref.Name, ref.ProcIndex, ref.ParamCount))
		return nil, nil
	})
}

func actionCodeOf(v value.Value) value.ActionCode {
	if a, ok := v.(*value.Action); ok {
		return a.Code
	}
	return value.ActionOK
}
