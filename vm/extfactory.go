package vm

import "github.com/hollow-vm/vclvm/value"

// ExtensionFactory produces a value.Object for a registered extension
// type name when OpLoadExt evaluates an extension literal (spec.md
// §4.10's ExtensionFactory surface). A host adapts its own
// host.ExtensionFactory (which takes a *host.Context) into one of
// these via a closure, since this package can't import host without a
// cycle.
type ExtensionFactory interface {
	NewExtension(vm *VM) (value.Object, error)
}
