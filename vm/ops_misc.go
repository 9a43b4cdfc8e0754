package vm

import (
	"fmt"

	"github.com/hollow-vm/vclvm/bytecode"
	"github.com/hollow-vm/vclvm/value"
)

func toDisplayString(vm *VM, v value.Value) *value.String {
	return value.NewString(vm.Collector, value.ToDisplay(v))
}

func init() {
	// debug is reserved for a future source-location pragma; the
	// grammar doesn't emit it yet. Recording the source index on the
	// frame keeps it available to whatever diagnostic hook lands next.
	register(bytecode.OpDebug, func(vm *VM, operand int) (*RunResult, error) {
		vm.currentFrame().SourceIndex = int32(operand)
		return nil, nil
	})

	register(bytecode.OpStrConcat, func(vm *VM, operand int) (*RunResult, error) {
		parts := vm.stack.PopN(operand)
		var s string
		for _, p := range parts {
			s += value.ToDisplay(p)
		}
		vm.stack.Push(value.NewString(vm.Collector, s))
		return nil, nil
	})

	// The conv* opcodes and `type` aren't reached by the current
	// grammar either (no cast-expression or type() builtin exists yet)
	// but are wired against the day one does.
	register(bytecode.OpConvStr, func(vm *VM, operand int) (*RunResult, error) {
		v := vm.stack.Pop()
		if obj, ok := v.(value.Object); ok {
			s, err := obj.ToString()
			if err != nil {
				return nil, err
			}
			vm.stack.Push(value.NewString(vm.Collector, s))
			return nil, nil
		}
		vm.stack.Push(toDisplayString(vm, v))
		return nil, nil
	})
	register(bytecode.OpConvInt, func(vm *VM, operand int) (*RunResult, error) {
		v := vm.stack.Pop()
		switch x := v.(type) {
		case int32:
			vm.stack.Push(x)
		case float64:
			vm.stack.Push(int32(x))
		case bool:
			if x {
				vm.stack.Push(int32(1))
			} else {
				vm.stack.Push(int32(0))
			}
		case value.Object:
			n, err := x.ToInteger()
			if err != nil {
				return nil, err
			}
			vm.stack.Push(n)
		default:
			return nil, fmt.Errorf("cannot convert %s to integer", value.TypeOf(v))
		}
		return nil, nil
	})
	register(bytecode.OpConvReal, func(vm *VM, operand int) (*RunResult, error) {
		v := vm.stack.Pop()
		switch x := v.(type) {
		case float64:
			vm.stack.Push(x)
		case int32:
			vm.stack.Push(float64(x))
		case bool:
			if x {
				vm.stack.Push(float64(1))
			} else {
				vm.stack.Push(float64(0))
			}
		case value.Object:
			r, err := x.ToReal()
			if err != nil {
				return nil, err
			}
			vm.stack.Push(r)
		default:
			return nil, fmt.Errorf("cannot convert %s to real", value.TypeOf(v))
		}
		return nil, nil
	})
	register(bytecode.OpConvBool, func(vm *VM, operand int) (*RunResult, error) {
		vm.stack.Push(value.ToBoolean(vm.stack.Pop()))
		return nil, nil
	})
	register(bytecode.OpType, func(vm *VM, operand int) (*RunResult, error) {
		v := vm.stack.Pop()
		vm.stack.Push(value.NewString(vm.Collector, value.TypeOf(v).String()))
		return nil, nil
	})
}
