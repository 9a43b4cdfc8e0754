package host

import (
	"github.com/dolthub/swiss"

	"github.com/hollow-vm/vclvm/value"
)

// environment is the name->value/module/factory registry shared by
// Engine and Context (spec.md §4.10's "Holds ... its own
// globals/modules/factories" applies to both levels identically, the
// same way the original runtime's template Environment<T, GC> served
// both its Engine and Context). Global variables are backed by a
// swiss.Map rather than a plain Go map: this is the same symbol-table
// role value.Collector's root set already uses dolthub/swiss for, and
// an Engine/Context's global table sees the same
// register-many/look-up-often access pattern.
type environment struct {
	globals   *swiss.Map[string, value.Value]
	modules   map[string]*value.Module
	factories map[string]ExtensionFactory
	extTypes  map[string]*value.ExtensionType
	functions map[string]Function
}

func newEnvironment() environment {
	return environment{
		globals:   swiss.NewMap[string, value.Value](8),
		modules:   make(map[string]*value.Module),
		factories: make(map[string]ExtensionFactory),
		extTypes:  make(map[string]*value.ExtensionType),
		functions: make(map[string]Function),
	}
}

// SetGlobal adds or overwrites a global variable.
func (e *environment) SetGlobal(name string, v value.Value) {
	e.globals.Put(name, v)
}

// GetGlobal reads a global variable.
func (e *environment) GetGlobal(name string) (value.Value, bool) {
	return e.globals.Get(name)
}

// RemoveGlobal deletes a global variable, reporting whether it existed.
func (e *environment) RemoveGlobal(name string) bool {
	if _, ok := e.globals.Get(name); !ok {
		return false
	}
	e.globals.Delete(name)
	return true
}

// GlobalCount reports how many global variables are registered.
func (e *environment) GlobalCount() int { return e.globals.Count() }

// RegisterModule makes m resolvable under its own name from script code.
func (e *environment) RegisterModule(m *value.Module) {
	e.modules[m.Name] = m
}

// RemoveModule unregisters the named module, reporting whether it
// existed.
func (e *environment) RemoveModule(name string) bool {
	if _, ok := e.modules[name]; !ok {
		return false
	}
	delete(e.modules, name)
	return true
}

// GetModule looks up a registered module by name.
func (e *environment) GetModule(name string) (*value.Module, bool) {
	m, ok := e.modules[name]
	return m, ok
}

// RegisterExtensionFactory associates typeName with f, consulted
// whenever the VM evaluates an extension literal or `new` statement
// naming typeName.
func (e *environment) RegisterExtensionFactory(typeName string, f ExtensionFactory) {
	e.factories[typeName] = f
}

// RemoveExtensionFactory unregisters typeName's factory, reporting
// whether one existed.
func (e *environment) RemoveExtensionFactory(typeName string) bool {
	if _, ok := e.factories[typeName]; !ok {
		return false
	}
	delete(e.factories, typeName)
	return true
}

// GetExtensionFactory looks up the factory registered for typeName.
func (e *environment) GetExtensionFactory(typeName string) (ExtensionFactory, bool) {
	f, ok := e.factories[typeName]
	return f, ok
}

// RegisterExtensionType declares typeName's field shape for the
// factory-less default construction path (plain value.Extension,
// populated directly from the literal's field initializers with no
// custom factory logic).
func (e *environment) RegisterExtensionType(def *value.ExtensionType) {
	e.extTypes[def.Name] = def
}

// RegisterFunction makes fn callable from script code under name.
func (e *environment) RegisterFunction(name string, fn Function) {
	e.functions[name] = fn
}

// snapshot flattens the environment into the plain map vm.New expects,
// with modules included under their own names alongside ordinary
// globals (an `import`ed module and a `global` variable share one
// lookup namespace at runtime, per spec.md §6's grammar).
func (e *environment) snapshot() map[string]value.Value {
	out := make(map[string]value.Value, e.globals.Count()+len(e.modules))
	e.globals.Iter(func(k string, v value.Value) bool {
		out[k] = v
		return false
	})
	for name, m := range e.modules {
		out[name] = m
	}
	return out
}
