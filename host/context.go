package host

import (
	"fmt"

	"github.com/hollow-vm/vclvm/compiler"
	"github.com/hollow-vm/vclvm/value"
	"github.com/hollow-vm/vclvm/vm"
)

// Context is the per-execution container (spec.md §4.10): it holds an
// Engine pointer, a shared CompiledCode, its own collector, its own
// globals/modules/factories layered on top of the Engine's, and the
// vm.VM driving that code. Exposes invoking a named subroutine with
// positional arguments, reading/writing globals, registering extension
// factories/functions/modules, suspend/resume, and enumerating the
// arguments of the host function currently executing.
type Context struct {
	environment

	engine *Engine
	code   *compiler.CompiledCode
	vm     *vm.VM

	subIndexByName map[string]int
	callArgs       []value.Value
}

func newContext(engine *Engine, code *compiler.CompiledCode) *Context {
	ctx := &Context{
		environment:    newEnvironment(),
		engine:         engine,
		code:           code,
		subIndexByName: make(map[string]int, len(code.Procedures)),
	}
	for i, p := range code.Procedures {
		if i != code.EntryIndex {
			ctx.subIndexByName[p.Name] = i
		}
	}

	collector := value.NewContextCollector(engine.Options.GCTargetSurvivorRatio, engine.Options.GCMinimumGap)
	// The vm (and its collector) must exist before buildGlobals, since
	// adapting a registered Function allocates on ctx.vm.Collector.
	ctx.vm = vm.New(code, collector, nil, engine.Options.MaxFrameDepth)
	for k, v := range ctx.buildGlobals() {
		ctx.vm.Globals[k] = v
	}
	ctx.wireExtensions()
	return ctx
}

// buildGlobals layers the Context's own globals/modules over the
// Engine's, then adapts every registered Function (Engine's first, so
// a Context-level registration of the same name shadows it) into a
// vm.HostFunction bound to this Context.
func (c *Context) buildGlobals() map[string]value.Value {
	out := c.engine.snapshot()
	for k, v := range c.environment.snapshot() {
		out[k] = v
	}
	for name, fn := range c.engine.functions {
		out[name] = c.adaptFunction(name, fn)
	}
	for name, fn := range c.environment.functions {
		out[name] = c.adaptFunction(name, fn)
	}
	return out
}

func (c *Context) adaptFunction(name string, fn Function) *vm.HostFunction {
	return vm.NewHostFunction(c.vm.Collector, name, func(m *vm.VM, args []value.Value) (value.Value, vm.HostStatus, error) {
		c.callArgs = args
		v, status, err := fn.Invoke(c, args)
		c.callArgs = nil
		return v, hostStatusOf(status), err
	})
}

func hostStatusOf(s CallStatus) vm.HostStatus {
	switch s {
	case CallOK:
		return vm.HostOK
	case CallYield:
		return vm.HostYield
	case CallUnimplemented:
		return vm.HostUnimplemented
	default:
		return vm.HostFailed
	}
}

// wireExtensions copies this Context's (Engine-then-Context-layered)
// extension types and factories into the vm, since those registries
// live on vm.VM rather than behind the Invoker indirection globals use.
func (c *Context) wireExtensions() {
	for name, def := range c.engine.extTypes {
		c.vm.ExtensionTypes[name] = def
	}
	for name, def := range c.environment.extTypes {
		c.vm.ExtensionTypes[name] = def
	}
	for name, f := range c.engine.factories {
		c.vm.ExtensionFactories[name] = factoryAdapter{ctx: c, f: f}
	}
	for name, f := range c.environment.factories {
		c.vm.ExtensionFactories[name] = factoryAdapter{ctx: c, f: f}
	}
}

// RegisterExtensionType, RegisterExtensionFactory, RegisterFunction, and
// RegisterModule reach the vm only through the snapshot newContext
// takes when the Context is created: registrations made on the Engine
// or the Context after that take effect once Refresh is called.

// Refresh re-applies every registration this Context and its Engine
// currently hold onto the running vm, for a host that registers a
// Function/module/extension type after Construct has already run.
func (c *Context) Refresh() {
	for k, v := range c.buildGlobals() {
		c.vm.Globals[k] = v
	}
	c.wireExtensions()
}

// GetGlobal reads a live script global off the running vm, shadowing
// environment.GetGlobal: once Construct has run, a `global` declaration
// or a `set` statement only shows up in vm.Globals, not in the
// pre-run registry newContext seeded the vm from.
func (c *Context) GetGlobal(name string) (value.Value, bool) {
	v, ok := c.vm.Globals[name]
	return v, ok
}

// SetGlobal writes directly into the running vm's global table,
// shadowing environment.SetGlobal for the same reason GetGlobal does.
func (c *Context) SetGlobal(name string, v value.Value) {
	c.vm.Globals[name] = v
}

// Collector returns the Context's own mutable collector.
func (c *Context) Collector() *value.Collector { return c.vm.Collector }

// SetAllocatorHook stores hook as this Context's collector's AllocHook.
// A nil hook removes any hook already installed. The collector does not
// call the hook when it allocates (see value.Collector.AllocHook), so
// installing one neither bounds nor instruments memory use.
func (c *Context) SetAllocatorHook(hook AllocatorHook) {
	if hook == nil {
		c.vm.Collector.AllocHook = nil
		return
	}
	c.vm.Collector.AllocHook = func(size int) bool { return hook(size) }
}

// Engine returns the owning Engine.
func (c *Context) Engine() *Engine { return c.engine }

// GetArgumentSize reports how many arguments the host function
// currently executing received (spec.md §6's GetArgumentSize/
// GetArgument host ABI).
func (c *Context) GetArgumentSize() int { return len(c.callArgs) }

// GetArgument returns the i-th argument of the host function currently
// executing.
func (c *Context) GetArgument(i int) (value.Value, bool) {
	if i < 0 || i >= len(c.callArgs) {
		return nil, false
	}
	return c.callArgs[i], true
}

// Construct runs the synthesized entry procedure (every top-level
// statement outside a `sub`), binding every global and sub declaration.
func (c *Context) Construct() (vm.RunStatus, error) {
	r := c.vm.Start(c.engine.Options.InstructionBudget)
	if r.Status == vm.RunFailed {
		return r.Status, r.Err
	}
	return r.Status, nil
}

// Invoke calls the named subroutine with args, returning its result on
// RunTerminated, RunYield if it (or a host function it called)
// suspended mid-call, or an error on RunFailed.
func (c *Context) Invoke(name string, args ...value.Value) (value.Value, vm.RunStatus, error) {
	idx, ok := c.subIndexByName[name]
	if !ok {
		return nil, vm.RunFailed, fmt.Errorf("no such sub %q", name)
	}
	result, err := c.vm.InvokeNamed(idx, args)
	if err != nil {
		return nil, vm.RunFailed, err
	}
	return c.translate(result)
}

// InvokeVector is Invoke taking its arguments as a slice, for callers
// assembling a variable-length call (spec.md §4.10's "0..8 positional
// arguments (or a vector)").
func (c *Context) InvokeVector(name string, args []value.Value) (value.Value, vm.RunStatus, error) {
	return c.Invoke(name, args...)
}

// Resume continues a yielded Context, handing resumeValue to whichever
// expression was waiting on the suspended call's result.
func (c *Context) Resume(resumeValue value.Value) (value.Value, vm.RunStatus, error) {
	return c.translate(c.vm.Resume(resumeValue, c.engine.Options.InstructionBudget))
}

// RequestYield asks the running vm to suspend at the next instruction
// boundary, safe to call from another goroutine (spec.md §5's
// thread-safe request_yield).
func (c *Context) RequestYield() {
	c.vm.SetYieldSignal(func() bool { return true })
}

func (c *Context) translate(r *vm.RunResult) (value.Value, vm.RunStatus, error) {
	switch r.Status {
	case vm.RunYield:
		return nil, vm.RunYield, nil
	case vm.RunTerminated:
		return r.ActionValue, vm.RunTerminated, nil
	case vm.RunFailed:
		return nil, vm.RunFailed, r.Err
	default:
		return nil, r.Status, nil
	}
}
