package vm

import (
	"fmt"

	"github.com/hollow-vm/vclvm/bytecode"
	"github.com/hollow-vm/vclvm/compiler"
	"github.com/hollow-vm/vclvm/token"
	"github.com/hollow-vm/vclvm/value"
)

// dictKeyOf mirrors value.Dict's own key normalization (a string or a
// *value.String), duplicated here since that helper is unexported and
// dict construction is the one place the VM builds keys itself rather
// than going through the capability protocol.
func dictKeyOf(v value.Value) (string, error) {
	switch k := v.(type) {
	case string:
		return k, nil
	case *value.String:
		return k.Raw(), nil
	default:
		return "", fmt.Errorf("dict key must be a string, got %s", value.TypeOf(v))
	}
}

func init() {
	register(bytecode.OpLoadNull, func(vm *VM, operand int) (*RunResult, error) {
		vm.stack.Push(nil)
		return nil, nil
	})
	register(bytecode.OpLoadTrue, func(vm *VM, operand int) (*RunResult, error) {
		vm.stack.Push(true)
		return nil, nil
	})
	register(bytecode.OpLoadFalse, func(vm *VM, operand int) (*RunResult, error) {
		vm.stack.Push(false)
		return nil, nil
	})
	register(bytecode.OpLoadInt, func(vm *VM, operand int) (*RunResult, error) {
		n := vm.constant(operand).(int64)
		vm.stack.Push(int32(n))
		return nil, nil
	})
	register(bytecode.OpLoadReal, func(vm *VM, operand int) (*RunResult, error) {
		vm.stack.Push(vm.constant(operand).(float64))
		return nil, nil
	})
	register(bytecode.OpLoadStr, func(vm *VM, operand int) (*RunResult, error) {
		vm.stack.Push(vm.stringLiteral(vm.currentFrame().Proc, operand))
		return nil, nil
	})
	register(bytecode.OpLoadSize, func(vm *VM, operand int) (*RunResult, error) {
		p := vm.constant(operand).(token.SizeParts)
		vm.stack.Push(value.Size{GB: p.GB, MB: p.MB, KB: p.KB, B: p.B})
		return nil, nil
	})
	register(bytecode.OpLoadDuration, func(vm *VM, operand int) (*RunResult, error) {
		p := vm.constant(operand).(token.DurationParts)
		vm.stack.Push(value.Duration{H: p.H, Min: p.Min, S: p.S, MS: p.MS})
		return nil, nil
	})
	register(bytecode.OpLoadAction, func(vm *VM, operand int) (*RunResult, error) {
		name := vm.nameConstant(operand)
		code, ok := value.ActionCodeByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown action code %q", name)
		}
		vm.stack.Push(value.NewAction(vm.Collector, code, nil))
		return nil, nil
	})
	register(bytecode.OpLoadList, func(vm *VM, operand int) (*RunResult, error) {
		elems := vm.stack.PopN(operand)
		vm.stack.Push(value.NewList(vm.Collector, 0, elems...))
		return nil, nil
	})
	register(bytecode.OpLoadDict, func(vm *VM, operand int) (*RunResult, error) {
		pairs := vm.stack.PopN(operand * 2)
		d := value.NewDict(vm.Collector)
		for i := 0; i < operand; i++ {
			key, err := dictKeyOf(pairs[2*i])
			if err != nil {
				return nil, err
			}
			d.Set(key, pairs[2*i+1])
		}
		vm.stack.Push(d)
		return nil, nil
	})
	register(bytecode.OpLoadExt, func(vm *VM, operand int) (*RunResult, error) {
		name := vm.nameConstant(operand)
		if factory, ok := vm.ExtensionFactories[name]; ok {
			obj, err := factory.NewExtension(vm)
			if err != nil {
				return nil, err
			}
			vm.stack.Push(obj)
			return nil, nil
		}
		def, ok := vm.ExtensionTypes[name]
		if !ok {
			return nil, fmt.Errorf("unknown extension type %q", name)
		}
		vm.stack.Push(value.NewExtension(vm.Collector, def))
		return nil, nil
	})
	register(bytecode.OpLoadAcl, func(vm *VM, operand int) (*RunResult, error) {
		ref := vm.constant(operand).(compiler.AclRef)
		patterns := make([]value.AclPattern, len(ref.Patterns))
		for i, p := range ref.Patterns {
			patterns[i] = value.AclPattern{Negated: p.Negated, Pattern: p.Pattern}
		}
		vm.stack.Push(value.NewAcl(vm.Collector, ref.Name, patterns, nil))
		return nil, nil
	})
}
