package host

import "github.com/hollow-vm/vclvm/value"

// CallStatus is the outcome of a host Function call. It mirrors
// vm.HostStatus (including Yield, which value.Status cannot carry) so
// a host implementing Function never needs to import vm directly.
type CallStatus uint8

const (
	CallOK CallStatus = iota
	CallFailed
	CallUnimplemented
	CallYield
)

// Function is a host-implemented callable registered into an Engine or
// Context under a name, reachable from script code through an ordinary
// call expression (spec.md §4.10). Invoke receives both the Context the
// call is running on — so it can read GetArgumentSize/GetArgument, or
// register further state on ctx — and the argument vector directly, a
// Go-idiomatic shortcut around that same ABI.
type Function interface {
	Invoke(ctx *Context, args []value.Value) (value.Value, CallStatus, error)
}

// FunctionFunc adapts a plain function into a Function, the way
// http.HandlerFunc adapts a func into a Handler.
type FunctionFunc func(ctx *Context, args []value.Value) (value.Value, CallStatus, error)

func (f FunctionFunc) Invoke(ctx *Context, args []value.Value) (value.Value, CallStatus, error) {
	return f(ctx, args)
}
