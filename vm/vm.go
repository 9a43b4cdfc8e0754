// Package vm implements the stack-based threaded interpreter that
// executes a compiler.CompiledCode (spec.md §4.9). Dispatch is a
// [256]opFunc jump table built once at package init, since Go has
// neither computed-goto nor guaranteed tail-call elimination to make
// true threaded dispatch worthwhile; each opFunc handles exactly one
// Opcode.
package vm

import (
	"fmt"
	"strings"

	"github.com/hollow-vm/vclvm/bytecode"
	"github.com/hollow-vm/vclvm/compiler"
	"github.com/hollow-vm/vclvm/value"
)

// opFunc executes one instruction. operand is 0 for opcodes with no
// operand. It returns a non-nil *RunResult to stop the run loop (a
// yield or terminate), or an error to fail the current instruction.
type opFunc func(vm *VM, operand int) (*RunResult, error)

var dispatchTable [256]opFunc

func register(op bytecode.Opcode, fn opFunc) {
	dispatchTable[op] = fn
}

// VM is one Context's runtime: the frame stack, the value stack, and
// the yield/resume suspension flag (spec.md §4.9).
type VM struct {
	Code      *compiler.CompiledCode
	Collector *value.Collector
	Globals   map[string]value.Value

	MaxFrameDepth int

	// ExtensionTypes holds the field shapes host.Engine registered for
	// `new`/extension-literal construction, keyed by extension name.
	ExtensionTypes map[string]*value.ExtensionType

	// ExtensionFactories optionally overrides the bare value.Extension
	// OpLoadExt otherwise constructs: a registered factory runs its own
	// construction logic (spec.md §4.10's
	// "ExtensionFactory.NewExtension(Context)") and hands back whatever
	// value.Object it wants stored, before OpPropSet populates fields
	// from the literal's initializer list.
	ExtensionFactories map[string]ExtensionFactory

	frames  []*Frame
	stack   Stack
	yielded bool
	// preempted marks a yield taken between instructions (budget or
	// yield signal) rather than by a host function awaiting a result.
	preempted bool

	// yieldSignal lets a host cooperatively preempt the dispatch loop
	// between instructions; checked once per instruction.
	yieldSignal func() bool

	// immutable backs every wrapped string literal and interpolation
	// result, per value.String's doc comment: string heap objects are
	// long-lived enough to never need collecting within one run.
	immutable  *value.Collector
	stringLits map[*compiler.Procedure][]*value.String
}

// New builds a VM bound to code, sharing globals (the Context's
// mutable global table) and collector (the Context's GC). maxFrames
// <= 0 uses a default ceiling.
func New(code *compiler.CompiledCode, collector *value.Collector, globals map[string]value.Value, maxFrames int) *VM {
	if maxFrames <= 0 {
		maxFrames = 1000
	}
	if globals == nil {
		globals = make(map[string]value.Value)
	}
	return &VM{
		Code:               code,
		Collector:          collector,
		Globals:            globals,
		MaxFrameDepth:       maxFrames,
		ExtensionTypes:      make(map[string]*value.ExtensionType),
		ExtensionFactories:  make(map[string]ExtensionFactory),
		immutable:           value.NewEngineCollector(),
		stringLits:          make(map[*compiler.Procedure][]*value.String),
	}
}

// stringLiteral returns the cached *value.String wrapping proc's
// string constant at idx, wrapping it lazily on first use.
func (vm *VM) stringLiteral(proc *compiler.Procedure, idx int) *value.String {
	cache := vm.stringLits[proc]
	if cache == nil {
		cache = make([]*value.String, len(proc.Constants))
		vm.stringLits[proc] = cache
	}
	if cache[idx] == nil {
		cache[idx] = value.NewString(vm.immutable, proc.Constants[idx].(string))
	}
	return cache[idx]
}

// SetYieldSignal installs a cooperative preemption check, polled once
// per dispatched instruction (spec.md §4.9's "signal-settable yield
// flag").
func (vm *VM) SetYieldSignal(fn func() bool) { vm.yieldSignal = fn }

// InvokeProcedure implements value.Invoker, letting a SubRoutine value
// call back into this VM without value/ depending on vm/.
func (vm *VM) InvokeProcedure(procIndex int, args []value.Value) (value.Value, value.Status, error) {
	if procIndex < 0 || procIndex >= len(vm.Code.Procedures) {
		return nil, value.StatusFailed, fmt.Errorf("invalid procedure index %d", procIndex)
	}
	// Reserve the callee slot `ret` truncates back to, even though
	// there's no real callee Value here (this entry isn't reached
	// through `call`) — base-1 must exist for every frame.
	vm.stack.Push(nil)
	for _, a := range args {
		vm.stack.Push(a)
	}
	base := vm.stack.Len() - len(args)
	vm.pushFrame(vm.Code.Procedures[procIndex], base, len(args), nil)
	result := vm.run(-1)
	switch result.Status {
	case RunFailed:
		return nil, value.StatusFailed, result.Err
	case RunTerminated:
		// Either an explicit `return` unwound back past this
		// invocation's one frame, or the body fell through to `term` —
		// either way ActionValue carries whatever value resulted.
		return result.ActionValue, value.StatusOK, nil
	default:
		return nil, value.StatusFailed, fmt.Errorf("invocation yielded, which InvokeProcedure cannot resume")
	}
}

// InvokeNamed begins a fresh top-level call to the procedure at
// procIndex with args, for a host driving calls from outside any
// running VM (host.Context.Invoke), as opposed to InvokeProcedure's
// role serving value.Invoker for a SubRoutine reached through the
// generic Object.Invoke path. Unlike InvokeProcedure it returns the raw
// RunResult uncollapsed, so a RunYield result (the called procedure
// invoked a yielding host function) can be carried back to the host and
// continued with Resume exactly like Start's.
func (vm *VM) InvokeNamed(procIndex int, args []value.Value) (*RunResult, error) {
	if procIndex < 0 || procIndex >= len(vm.Code.Procedures) {
		return nil, fmt.Errorf("invalid procedure index %d", procIndex)
	}
	vm.stack.Push(nil)
	for _, a := range args {
		vm.stack.Push(a)
	}
	base := vm.stack.Len() - len(args)
	vm.pushFrame(vm.Code.Procedures[procIndex], base, len(args), nil)
	return vm.run(-1), nil
}

func (vm *VM) pushFrame(proc *compiler.Procedure, base, argSize int, caller value.Value) {
	vm.frames = append(vm.frames, &Frame{
		Proc: proc, Base: base, ArgSize: argSize, PC: 0, Caller: caller,
	})
}

func (vm *VM) currentFrame() *Frame {
	return vm.frames[len(vm.frames)-1]
}

// Start begins execution at the entry procedure, running at most
// instrBudget instructions (a negative budget means unlimited).
func (vm *VM) Start(instrBudget int) *RunResult {
	entry := vm.Code.Procedures[vm.Code.EntryIndex]
	vm.frames = []*Frame{{Proc: entry, Base: 0, PC: 0}}
	vm.stack = nil
	return vm.run(instrBudget)
}

// Resume continues a yielded VM. After a host function yielded,
// resumeValue is pushed onto the stack as that call's result, for the
// instruction immediately after the call. After a budget or yield-signal
// preemption nothing is pushed and resumeValue is ignored, so the run
// continues from exactly where it stopped.
func (vm *VM) Resume(resumeValue value.Value, instrBudget int) *RunResult {
	if !vm.yielded {
		return &RunResult{Status: RunFailed, Err: fmt.Errorf("resume called on a VM that did not yield")}
	}
	vm.yielded = false
	if !vm.preempted {
		vm.stack.Push(resumeValue)
	}
	vm.preempted = false
	return vm.run(instrBudget)
}

func (vm *VM) run(instrBudget int) *RunResult {
	for {
		if vm.yieldSignal != nil && vm.yieldSignal() {
			vm.yielded = true
			vm.preempted = true
			return &RunResult{Status: RunYield}
		}
		if instrBudget == 0 {
			vm.yielded = true
			vm.preempted = true
			return &RunResult{Status: RunYield}
		}
		if instrBudget > 0 {
			instrBudget--
		}

		frame := vm.currentFrame()
		frame.InstrCount++
		if frame.PC >= len(frame.Proc.Code) {
			return vm.fail(fmt.Errorf("pc ran off the end of procedure %q", frame.Proc.Name))
		}
		op := bytecode.Opcode(frame.Proc.Code[frame.PC])
		var operand int
		if op.HasOperand() {
			operand = frame.Proc.Code.ReadOperand(frame.PC)
		}
		fn := dispatchTable[op]
		if fn == nil {
			return vm.fail(fmt.Errorf("unimplemented opcode %s", op.Mnemonic()))
		}
		frame.PC += op.Size()

		result, err := fn(vm, operand)
		if err != nil {
			return vm.fail(err)
		}
		if result != nil {
			return result
		}
	}
}

func (vm *VM) fail(err error) *RunResult {
	return &RunResult{Status: RunFailed, Err: RuntimeError{Message: err.Error(), Trace: vm.trace()}}
}

func (vm *VM) trace() string {
	var b strings.Builder
	for i := len(vm.frames) - 1; i >= 0; i-- {
		f := vm.frames[i]
		fmt.Fprintf(&b, "  at %s (pc=%d)\n", f.Proc.Name, f.PC)
	}
	return b.String()
}

func (vm *VM) constant(idx int) any {
	return vm.currentFrame().Proc.Constants[idx]
}

func (vm *VM) nameConstant(idx int) string {
	return vm.constant(idx).(string)
}
