package vm

import (
	"fmt"

	"github.com/hollow-vm/vclvm/value"
)

// HostStatus is the outcome of a HostFunction call. It extends
// value.Status with Yield: a host function can suspend the whole VM
// mid-call, the same way an exhausted instruction budget does, and
// have its eventual resume value complete the call expression that
// invoked it. value.Object.Invoke's Status vocabulary has no room for
// that (spec.md §7 keeps the object protocol VM-agnostic), so a
// yield-capable host function needs this VM-aware type instead.
type HostStatus uint8

const (
	HostOK HostStatus = iota
	HostFailed
	HostUnimplemented
	HostYield
)

// HostFunction is a value.Object a host registers into Globals (or an
// extension's fields) so VCL code can call out to Go through the
// ordinary `call` opcode. ops_call.go's OpCall handler recognizes
// *HostFunction and dispatches through Fn directly, before it ever
// reaches the generic Object.Invoke fallback.
type HostFunction struct {
	value.BaseObject
	Name string
	Fn   func(vm *VM, args []value.Value) (value.Value, HostStatus, error)
}

// NewHostFunction allocates a HostFunction tracked by collector.
func NewHostFunction(collector *value.Collector, name string, fn func(vm *VM, args []value.Value) (value.Value, HostStatus, error)) *HostFunction {
	h := &HostFunction{Name: name, Fn: fn}
	collector.Track(h)
	return h
}

func (h *HostFunction) Type() value.TypeTag           { return value.TagFunction }
func (h *HostFunction) DoMark(mark func(value.Object)) {}
func (h *HostFunction) ToDisplay() string              { return fmt.Sprintf("function %s", h.Name) }

// callHostFunction runs hf.Fn and translates its HostStatus into
// either a pushed call result or a RunResult that stops the dispatch
// loop. On HostYield the call leaves nothing on the stack: Resume's
// existing resumeValue push (vm.go) supplies the result the suspended
// call expression is waiting for.
func (vm *VM) callHostFunction(hf *HostFunction, args []value.Value) (*RunResult, error) {
	result, status, err := hf.Fn(vm, args)
	if err != nil {
		return nil, err
	}
	switch status {
	case HostOK:
		vm.stack.Push(result)
		return nil, nil
	case HostYield:
		vm.yielded = true
		vm.preempted = false
		return &RunResult{Status: RunYield}, nil
	case HostUnimplemented:
		return nil, fmt.Errorf("%s is not callable", hf.Name)
	default:
		return nil, fmt.Errorf("%s failed", hf.Name)
	}
}
