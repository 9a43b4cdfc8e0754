package vm

import (
	"fmt"

	"github.com/hollow-vm/vclvm/bytecode"
	"github.com/hollow-vm/vclvm/value"
)

// binOp builds a handler for a plain stack-stack binary opcode: pop
// rhs then lhs, apply fn, push the result. A StatusUnimplemented
// result is a runtime failure (spec.md §4.9's "Operator opcodes").
func binOp(fn func(lhs, rhs value.Value) (value.Value, value.Status, error)) opFunc {
	return func(vm *VM, operand int) (*RunResult, error) {
		rhs := vm.stack.Pop()
		lhs := vm.stack.Pop()
		result, status, err := fn(lhs, rhs)
		if err != nil {
			return nil, err
		}
		if status == value.StatusUnimplemented {
			return nil, fmt.Errorf("operator not supported between %s and %s", value.TypeOf(lhs), value.TypeOf(rhs))
		}
		if s, ok := result.(string); ok {
			// String.Add returns a raw Go string; wrap it like every
			// other string pushed onto the stack.
			result = value.NewString(vm.Collector, s)
		}
		vm.stack.Push(result)
		return nil, nil
	}
}

// immOp builds a handler for an *iv/*vi immediate-form opcode: one
// operand comes from the constant pool, the other from the stack.
// constFirst true means the constant is the left operand (the "iv"
// forms); false means the stack value is the left operand ("vi").
func immOp(fn func(lhs, rhs value.Value) (value.Value, value.Status, error), constFirst bool) opFunc {
	return func(vm *VM, operand int) (*RunResult, error) {
		stackVal := vm.stack.Pop()
		constVal := vm.constant(operand)
		var lhs, rhs value.Value
		if constFirst {
			lhs, rhs = constVal, stackVal
		} else {
			lhs, rhs = stackVal, constVal
		}
		result, status, err := fn(lhs, rhs)
		if err != nil {
			return nil, err
		}
		if status == value.StatusUnimplemented {
			return nil, fmt.Errorf("operator not supported between %s and %s", value.TypeOf(lhs), value.TypeOf(rhs))
		}
		vm.stack.Push(result)
		return nil, nil
	}
}

func boolBinOp(fn func(lhs, rhs value.Value) (bool, value.Status, error)) opFunc {
	return func(vm *VM, operand int) (*RunResult, error) {
		rhs := vm.stack.Pop()
		lhs := vm.stack.Pop()
		result, status, err := fn(lhs, rhs)
		if err != nil {
			return nil, err
		}
		if status == value.StatusUnimplemented {
			return nil, fmt.Errorf("operator not supported between %s and %s", value.TypeOf(lhs), value.TypeOf(rhs))
		}
		vm.stack.Push(result)
		return nil, nil
	}
}

func cmpOp(ok func(c int) bool) opFunc {
	return func(vm *VM, operand int) (*RunResult, error) {
		rhs := vm.stack.Pop()
		lhs := vm.stack.Pop()
		c, status, err := value.Compare(lhs, rhs)
		if err != nil {
			return nil, err
		}
		if status == value.StatusUnimplemented {
			return nil, fmt.Errorf("%s and %s are not ordered", value.TypeOf(lhs), value.TypeOf(rhs))
		}
		vm.stack.Push(ok(c))
		return nil, nil
	}
}

func init() {
	register(bytecode.OpAdd, binOp(value.Add))
	register(bytecode.OpSub, binOp(value.Sub))
	register(bytecode.OpMul, binOp(value.Mul))
	register(bytecode.OpDiv, binOp(value.Div))
	register(bytecode.OpMod, binOp(value.Mod))

	register(bytecode.OpAddIV, immOp(value.Add, true))
	register(bytecode.OpAddVI, immOp(value.Add, false))
	register(bytecode.OpSubIV, immOp(value.Sub, true))
	register(bytecode.OpSubVI, immOp(value.Sub, false))
	register(bytecode.OpMulIV, immOp(value.Mul, true))
	register(bytecode.OpMulVI, immOp(value.Mul, false))
	register(bytecode.OpDivIV, immOp(value.Div, true))
	register(bytecode.OpDivVI, immOp(value.Div, false))

	register(bytecode.OpEq, boolBinOp(value.Equals))
	register(bytecode.OpNe, boolBinOp(func(l, r value.Value) (bool, value.Status, error) {
		eq, status, err := value.Equals(l, r)
		return !eq, status, err
	}))
	register(bytecode.OpLt, cmpOp(func(c int) bool { return c < 0 }))
	register(bytecode.OpLe, cmpOp(func(c int) bool { return c <= 0 }))
	register(bytecode.OpGt, cmpOp(func(c int) bool { return c > 0 }))
	register(bytecode.OpGe, cmpOp(func(c int) bool { return c >= 0 }))
	register(bytecode.OpMatch, boolBinOp(value.Match))
	register(bytecode.OpNotMatch, boolBinOp(value.NotMatch))

	register(bytecode.OpNot, func(vm *VM, operand int) (*RunResult, error) {
		vm.stack.Push(!value.ToBoolean(vm.stack.Pop()))
		return nil, nil
	})
	register(bytecode.OpNeg, func(vm *VM, operand int) (*RunResult, error) {
		v := vm.stack.Pop()
		result, status, err := value.Sub(int32(0), v)
		if err != nil {
			return nil, err
		}
		if status == value.StatusUnimplemented {
			return nil, fmt.Errorf("cannot negate a %s", value.TypeOf(v))
		}
		vm.stack.Push(result)
		return nil, nil
	})
	register(bytecode.OpPos, func(vm *VM, operand int) (*RunResult, error) {
		return nil, nil // no-op: unary + leaves the operand as-is
	})

	register(bytecode.OpDup, func(vm *VM, operand int) (*RunResult, error) {
		vm.stack.Push(vm.stack.Peek())
		return nil, nil
	})
	register(bytecode.OpDup2, func(vm *VM, operand int) (*RunResult, error) {
		n := vm.stack.Len()
		a, b := vm.stack.At(n-2), vm.stack.At(n-1)
		vm.stack.Push(a)
		vm.stack.Push(b)
		return nil, nil
	})
}
