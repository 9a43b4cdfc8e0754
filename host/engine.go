// Package host implements the embedding surface (spec.md §4.10):
// Engine as the process-wide container of engine-level globals,
// modules, and extension factories, and Context as the per-execution
// container that drives one CompiledCode through a vm.VM. This is the
// one component with no teacher analogue at all — informatter-nilan's
// CLI reads a file and runs it in one shot — so the shape here follows
// original_source/include/vcl/vcl.h's Engine/Context/Environment<T,GC>
// split instead, translated from its C++ template-inheritance idiom
// into Go composition (an embedded environment struct) and from boxed
// shared_ptr<CompiledCode> into a plain Go pointer a host is expected
// to treat as immutable once built.
package host

import (
	"github.com/pkg/errors"

	"github.com/hollow-vm/vclvm/ast"
	"github.com/hollow-vm/vclvm/compiler"
	"github.com/hollow-vm/vclvm/config"
	"github.com/hollow-vm/vclvm/diag"
	"github.com/hollow-vm/vclvm/parser"
	"github.com/hollow-vm/vclvm/source"
	"github.com/hollow-vm/vclvm/value"
)

// Engine is the process-wide container of engine-level globals,
// modules, and extension factories (spec.md §4.10). It owns the
// immutable collector every CompiledCode's literal pool and every
// Context sharing that code reads from, and compiles source into
// CompiledCode artifacts Contexts are built against.
type Engine struct {
	environment

	Options config.Options
	Logger  diag.Logger

	collector *value.Collector
}

// New returns an Engine configured by the first element of opts (any
// further elements are ignored), defaulting to config.New() when opts
// is empty. Setting Options.Regexer installs it as value.DefaultRegexer,
// since every value.String captures the regex engine at construction
// time; do this before compiling or running any script.
func New(opts ...config.Options) *Engine {
	o := config.New()
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Regexer == nil {
		o.Regexer = value.DefaultRegexer
	}
	value.DefaultRegexer = o.Regexer
	compiler.SetMaxListLength(o.ListMaxLength)

	return &Engine{
		environment: newEnvironment(),
		Options:     o,
		Logger:      diag.Default,
		collector:   value.NewEngineCollector(),
	}
}

// Collector returns the Engine's immutable collector.
func (e *Engine) Collector() *value.Collector { return e.collector }

// AllocatorHook is the signature SetAllocatorHook accepts and stores on
// a Collector's AllocHook field. The collector never calls it, so its
// return value fails no allocation.
type AllocatorHook func(size int) bool

// SetAllocatorHook installs hook on the Engine's own immutable
// collector (governing engine-level literals and module constants). A
// nil hook removes any hook already installed. Per-Context allocation
// during script execution is governed separately by
// Context.SetAllocatorHook.
func (e *Engine) SetAllocatorHook(hook AllocatorHook) {
	if hook == nil {
		e.collector.AllocHook = nil
		return
	}
	e.collector.AllocHook = func(size int) bool { return hook(size) }
}

// Compile resolves entryPath through loader (expanding includes,
// respecting Options.MaxIncludeDepth) and compiles the resulting
// compilation unit into a CompiledCode artifact, shareable across any
// number of Contexts (spec.md §6's "in-memory only" CompiledCode
// artifact).
func (e *Engine) Compile(loader source.Loader, entryPath string) (*compiler.CompiledCode, error) {
	repo := source.NewRepo(loader, ast.NewArena(), parser.NewNameSeed(0))
	repo.SetMaxIncludeDepth(e.Options.MaxIncludeDepth)

	unit, err := repo.Build(entryPath)
	if err != nil {
		return nil, errors.Wrapf(err, "host: building compilation unit for %q", entryPath)
	}
	code, errs := compiler.Compile(unit)
	if len(errs) > 0 {
		return nil, CompileErrors(errs)
	}
	return code, nil
}

// CompileString compiles a single in-memory source string as if it
// were the sole file entryPath, with no include support. Convenient for
// tests and one-off scripts.
func (e *Engine) CompileString(entryPath, src string) (*compiler.CompiledCode, error) {
	loader := func(path string) (string, bool) {
		if path == entryPath {
			return src, true
		}
		return "", false
	}
	return e.Compile(loader, entryPath)
}

// NewContext builds a Context driving code, inheriting this Engine's
// globals/modules/extension factories as the base environment a
// Context's own registrations shadow.
func (e *Engine) NewContext(code *compiler.CompiledCode) *Context {
	return newContext(e, code)
}

// CompileErrors aggregates every error compiler.Compile collected for
// one Compile call, rather than failing fast on the first. Errors from
// building the compilation unit (an unresolved include, a parse error,
// or a duplicate sub whose parameters disagree, whose message names
// both definitions' locations) are returned on their own instead,
// wrapped with the entry path.
type CompileErrors []error

func (errs CompileErrors) Error() string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	msg := errs[0].Error()
	for _, e := range errs[1:] {
		msg += "; " + e.Error()
	}
	return msg
}

// Unwrap exposes every collected error to errors.Is/errors.As.
func (errs CompileErrors) Unwrap() []error { return errs }
