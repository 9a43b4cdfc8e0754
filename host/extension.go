package host

import (
	"github.com/hollow-vm/vclvm/value"
	"github.com/hollow-vm/vclvm/vm"
)

// ExtensionFactory produces Extension objects on demand when the VM
// evaluates an extension literal (or a `new` statement) referencing a
// registered type name (spec.md §4.10). Implementations typically
// return a *value.Extension built with value.NewExtension against a
// *value.ExtensionType describing the fields the literal may set, but
// may return any value.Object to carry opaque host data the way the
// original runtime's customizable Extension subclasses did.
type ExtensionFactory interface {
	NewExtension(ctx *Context) (value.Object, error)
}

// factoryAdapter bridges a host.ExtensionFactory (Context-aware) to the
// vm.ExtensionFactory interface (VM-aware) that ops_literal.go's
// OpLoadExt actually consults, since package vm cannot import package
// host without a cycle.
type factoryAdapter struct {
	ctx *Context
	f   ExtensionFactory
}

func (a factoryAdapter) NewExtension(_ *vm.VM) (value.Object, error) {
	return a.f.NewExtension(a.ctx)
}
