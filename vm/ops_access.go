package vm

import (
	"fmt"

	"github.com/hollow-vm/vclvm/bytecode"
	"github.com/hollow-vm/vclvm/value"
)

func asObject(v value.Value, verb string) (value.Object, error) {
	obj, ok := v.(value.Object)
	if !ok {
		return nil, fmt.Errorf("cannot %s a %s", verb, value.TypeOf(v))
	}
	return obj, nil
}

func init() {
	register(bytecode.OpLoad, func(vm *VM, operand int) (*RunResult, error) {
		frame := vm.currentFrame()
		vm.stack.Push(vm.stack.At(frame.Base + operand))
		return nil, nil
	})
	register(bytecode.OpStore, func(vm *VM, operand int) (*RunResult, error) {
		frame := vm.currentFrame()
		vm.stack.Set(frame.Base+operand, vm.stack.Pop())
		return nil, nil
	})
	register(bytecode.OpPop, func(vm *VM, operand int) (*RunResult, error) {
		vm.stack.Truncate(vm.stack.Len() - operand)
		return nil, nil
	})

	register(bytecode.OpGlobalGet, func(vm *VM, operand int) (*RunResult, error) {
		name := vm.nameConstant(operand)
		v, ok := vm.Globals[name]
		if !ok {
			return nil, fmt.Errorf("undefined global %q", name)
		}
		vm.stack.Push(v)
		return nil, nil
	})
	register(bytecode.OpGlobalSet, func(vm *VM, operand int) (*RunResult, error) {
		name := vm.nameConstant(operand)
		vm.Globals[name] = vm.stack.Pop()
		return nil, nil
	})

	register(bytecode.OpPropGet, func(vm *VM, operand int) (*RunResult, error) {
		name := vm.nameConstant(operand)
		obj, err := asObject(vm.stack.Pop(), "read a property of")
		if err != nil {
			return nil, err
		}
		v, status, err := obj.GetProperty(name)
		if err != nil {
			return nil, err
		}
		if status == value.StatusUnimplemented {
			return nil, fmt.Errorf("%s has no property %q", value.TypeOf(obj), name)
		}
		vm.stack.Push(v)
		return nil, nil
	})
	register(bytecode.OpPropSet, func(vm *VM, operand int) (*RunResult, error) {
		name := vm.nameConstant(operand)
		v := vm.stack.Pop()
		obj, err := asObject(vm.stack.Pop(), "set a property of")
		if err != nil {
			return nil, err
		}
		status, err := obj.SetProperty(name, v)
		if err != nil {
			return nil, err
		}
		if status == value.StatusUnimplemented {
			return nil, fmt.Errorf("%s has no settable property %q", value.TypeOf(obj), name)
		}
		return nil, nil
	})
	register(bytecode.OpPropUnset, func(vm *VM, operand int) (*RunResult, error) {
		name := vm.nameConstant(operand)
		obj, err := asObject(vm.stack.Pop(), "unset a property of")
		if err != nil {
			return nil, err
		}
		status, err := obj.Unset(value.UnsetProperty, name)
		if err != nil {
			return nil, err
		}
		if status == value.StatusUnimplemented {
			return nil, fmt.Errorf("%s has no unsettable property %q", value.TypeOf(obj), name)
		}
		return nil, nil
	})

	register(bytecode.OpAttrGet, func(vm *VM, operand int) (*RunResult, error) {
		name := vm.nameConstant(operand)
		obj, err := asObject(vm.stack.Pop(), "read an attribute of")
		if err != nil {
			return nil, err
		}
		v, status, err := obj.GetAttribute(name)
		if err != nil {
			return nil, err
		}
		if status == value.StatusUnimplemented {
			return nil, fmt.Errorf("%s has no attribute %q", value.TypeOf(obj), name)
		}
		vm.stack.Push(v)
		return nil, nil
	})
	register(bytecode.OpAttrSet, func(vm *VM, operand int) (*RunResult, error) {
		name := vm.nameConstant(operand)
		v := vm.stack.Pop()
		obj, err := asObject(vm.stack.Pop(), "set an attribute of")
		if err != nil {
			return nil, err
		}
		status, err := obj.SetAttribute(name, v)
		if err != nil {
			return nil, err
		}
		if status == value.StatusUnimplemented {
			return nil, fmt.Errorf("%s has no settable attribute %q", value.TypeOf(obj), name)
		}
		return nil, nil
	})
	register(bytecode.OpAttrUnset, func(vm *VM, operand int) (*RunResult, error) {
		name := vm.nameConstant(operand)
		obj, err := asObject(vm.stack.Pop(), "unset an attribute of")
		if err != nil {
			return nil, err
		}
		status, err := obj.Unset(value.UnsetAttribute, name)
		if err != nil {
			return nil, err
		}
		if status == value.StatusUnimplemented {
			return nil, fmt.Errorf("%s has no unsettable attribute %q", value.TypeOf(obj), name)
		}
		return nil, nil
	})

	register(bytecode.OpIndexGet, func(vm *VM, operand int) (*RunResult, error) {
		idx := vm.stack.Pop()
		obj, err := asObject(vm.stack.Pop(), "index into")
		if err != nil {
			return nil, err
		}
		v, status, err := obj.GetIndex(idx)
		if err != nil {
			return nil, err
		}
		if status == value.StatusUnimplemented {
			return nil, fmt.Errorf("%s cannot be indexed by %s", value.TypeOf(obj), value.TypeOf(idx))
		}
		vm.stack.Push(v)
		return nil, nil
	})
	register(bytecode.OpIndexSet, func(vm *VM, operand int) (*RunResult, error) {
		v := vm.stack.Pop()
		idx := vm.stack.Pop()
		obj, err := asObject(vm.stack.Pop(), "index into")
		if err != nil {
			return nil, err
		}
		status, err := obj.SetIndex(idx, v)
		if err != nil {
			return nil, err
		}
		if status == value.StatusUnimplemented {
			return nil, fmt.Errorf("%s cannot be indexed by %s", value.TypeOf(obj), value.TypeOf(idx))
		}
		return nil, nil
	})
	register(bytecode.OpIndexUnset, func(vm *VM, operand int) (*RunResult, error) {
		idx := vm.stack.Pop()
		obj, err := asObject(vm.stack.Pop(), "index into")
		if err != nil {
			return nil, err
		}
		status, err := obj.Unset(value.UnsetIndex, idx)
		if err != nil {
			return nil, err
		}
		if status == value.StatusUnimplemented {
			return nil, fmt.Errorf("%s cannot be indexed by %s", value.TypeOf(obj), value.TypeOf(idx))
		}
		return nil, nil
	})
}
