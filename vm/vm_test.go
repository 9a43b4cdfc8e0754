package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollow-vm/vclvm/ast"
	"github.com/hollow-vm/vclvm/compiler"
	"github.com/hollow-vm/vclvm/lexer"
	"github.com/hollow-vm/vclvm/parser"
	"github.com/hollow-vm/vclvm/source"
	"github.com/hollow-vm/vclvm/value"
	"github.com/hollow-vm/vclvm/vm"
)

func compile(t *testing.T, src string) *compiler.CompiledCode {
	t.Helper()
	loader := func(path string) (string, bool) {
		if path == "main.vcl" {
			return src, true
		}
		return "", false
	}
	repo := source.NewRepo(loader, ast.NewArena(), parser.NewNameSeed(0))
	unit, err := repo.Build("main.vcl")
	require.NoError(t, err)
	code, errs := compiler.Compile(unit)
	require.Empty(t, errs)
	require.NotNil(t, code)
	return code
}

func subIndex(code *compiler.CompiledCode, name string) int {
	for i, p := range code.Procedures {
		if p.Name == name {
			return i
		}
	}
	return -1
}

func newVM(code *compiler.CompiledCode, globals map[string]value.Value) *vm.VM {
	return vm.New(code, value.NewContextCollector(0.5, 16), globals, 0)
}

// run compiles src, runs its entry procedure to completion on a fresh
// VM and returns the VM (so the caller can inspect Globals) along
// with its RunResult.
func run(t *testing.T, src string) (*vm.VM, *vm.RunResult) {
	t.Helper()
	code := compile(t, src)
	m := newVM(code, nil)
	result := m.Start(-1)
	return m, result
}

// invoke compiles src, runs the entry procedure (binding every `sub`),
// then calls the named sub with args and returns the VM alongside
// whatever that call produced.
func invoke(t *testing.T, src, subName string, args ...value.Value) (*vm.VM, value.Value, value.Status) {
	t.Helper()
	code := compile(t, src)
	m := newVM(code, nil)
	entryResult := m.Start(-1)
	require.Equal(t, vm.RunTerminated, entryResult.Status)
	v, status, err := m.InvokeProcedure(subIndex(code, subName), args)
	require.NoError(t, err)
	return m, v, status
}

func TestArithmeticAndGlobalRoundTrip(t *testing.T) {
	m, result := run(t, `global x = 1 + 2 * 3;`)
	require.Equal(t, vm.RunTerminated, result.Status)
	assert.Equal(t, int32(7), m.Globals["x"])
}

func TestComparisonAndLogical(t *testing.T) {
	m, result := run(t, `global ok = (1 < 2) && (3 >= 3);`)
	require.Equal(t, vm.RunTerminated, result.Status)
	assert.Equal(t, true, m.Globals["ok"])
}

func TestIfElseBranching(t *testing.T) {
	src := `
global picked = 0;
sub vcl_recv {
    if (1 > 2) {
        set picked = 1;
    } elseif (2 > 3) {
        set picked = 2;
    } else {
        set picked = 3;
    }
}
`
	m, _, status := invoke(t, src, "vcl_recv")
	assert.Equal(t, value.StatusOK, status)
	assert.Equal(t, int32(3), m.Globals["picked"])
}

func TestSubCallReturnsValue(t *testing.T) {
	src := `
sub double(n) {
    return (n * 2);
}
global result = double(21);
`
	m, result := run(t, src)
	require.Equal(t, vm.RunTerminated, result.Status)
	assert.Equal(t, int32(42), m.Globals["result"])
}

func TestForLoopOverEmptyListRunsBodyZeroTimes(t *testing.T) {
	src := `
global count = 0;
sub vcl_recv {
    declare xs = [];
    for (v : xs) {
        set count += 1;
    }
}
`
	m, _, status := invoke(t, src, "vcl_recv")
	assert.Equal(t, value.StatusOK, status)
	assert.Equal(t, int32(0), m.Globals["count"])
}

func TestForLoopSumsListElements(t *testing.T) {
	src := `
global total = 0;
sub vcl_recv {
    declare xs = [1, 2, 3, 4];
    for (v : xs) {
        set total += v;
    }
}
`
	m, _, status := invoke(t, src, "vcl_recv")
	assert.Equal(t, value.StatusOK, status)
	assert.Equal(t, int32(10), m.Globals["total"])
}

func TestForLoopBreakStopsEarly(t *testing.T) {
	src := `
global seen = 0;
sub vcl_recv {
    declare xs = [1, 2, 3, 4, 5];
    for (v : xs) {
        if (v == 3) {
            break;
        }
        set seen += 1;
    }
}
`
	m, _, status := invoke(t, src, "vcl_recv")
	assert.Equal(t, value.StatusOK, status)
	assert.Equal(t, int32(2), m.Globals["seen"])
}

func TestForLoopContinueSkipsElement(t *testing.T) {
	src := `
global total = 0;
sub vcl_recv {
    declare xs = [1, 2, 3, 4];
    for (v : xs) {
        if (v == 2) {
            continue;
        }
        set total += v;
    }
}
`
	m, _, status := invoke(t, src, "vcl_recv")
	assert.Equal(t, value.StatusOK, status)
	assert.Equal(t, int32(8), m.Globals["total"])
}

func TestForLoopKeyValueOverDict(t *testing.T) {
	src := `
global keys = "";
sub vcl_recv {
    declare m = {"a": 1, "b": 2};
    for (k, v : m) {
        set keys += k;
    }
}
`
	m, _, status := invoke(t, src, "vcl_recv")
	assert.Equal(t, value.StatusOK, status)
	s, ok := m.Globals["keys"].(*value.String)
	require.True(t, ok)
	assert.Equal(t, "ab", s.Raw())
}

func TestCompoundAssignmentOnDictIndex(t *testing.T) {
	src := `
global m = {"a": 1, "b": 2};
sub vcl_recv {
    set m["a"] += 10;
}
`
	m, _, status := invoke(t, src, "vcl_recv")
	assert.Equal(t, value.StatusOK, status)

	d, ok := m.Globals["m"].(*value.Dict)
	require.True(t, ok)
	v, ok := d.Get("a")
	require.True(t, ok)
	assert.Equal(t, int32(11), v)
}

func TestAclLoadBindsGlobal(t *testing.T) {
	src := `
acl internal {
    "10.0.0.0/8";
    !"10.1.0.0/16";
}
`
	m, result := run(t, src)
	require.Equal(t, vm.RunTerminated, result.Status)
	a, ok := m.Globals["internal"].(*value.Acl)
	require.True(t, ok)
	require.Len(t, a.Patterns, 2)
	assert.Equal(t, "10.0.0.0/8", a.Patterns[0].Pattern)
	assert.False(t, a.Patterns[0].Negated)
	assert.True(t, a.Patterns[1].Negated)
}

func TestListAndDictLiteralConstruction(t *testing.T) {
	m, result := run(t, `
global xs = [1, 2, 3];
global m = {"a": 1, "b": 2};
`)
	require.Equal(t, vm.RunTerminated, result.Status)

	xs, ok := m.Globals["xs"].(*value.List)
	require.True(t, ok)
	assert.Equal(t, 3, xs.Len())

	d, ok := m.Globals["m"].(*value.Dict)
	require.True(t, ok)
	assert.Equal(t, 2, d.Len())
}

func TestStringInterpolationAndConcatenation(t *testing.T) {
	m, result := run(t, `
global name = "world";
global greeting = 'hello ${name}!';
`)
	require.Equal(t, vm.RunTerminated, result.Status)
	s, ok := m.Globals["greeting"].(*value.String)
	require.True(t, ok)
	assert.Equal(t, "hello world!", s.Raw())
}

func TestExtensionLiteralPropertyAccess(t *testing.T) {
	src := `
backend web {
    .host = "10.0.0.1";
    .port = "8080";
}
global host = web.host;
`
	code := compile(t, src)
	m := newVM(code, nil)
	m.ExtensionTypes["backend"] = &value.ExtensionType{
		Name:       "backend",
		FieldNames: []string{"host", "port"},
	}
	result := m.Start(-1)
	require.Equal(t, vm.RunTerminated, result.Status)
	s, ok := m.Globals["host"].(*value.String)
	require.True(t, ok)
	assert.Equal(t, "10.0.0.1", s.Raw())
}

func TestUnsetDictIndex(t *testing.T) {
	src := `
global m = {"a": 1, "b": 2};
sub vcl_recv {
    unset m["a"];
}
`
	m, _, status := invoke(t, src, "vcl_recv")
	assert.Equal(t, value.StatusOK, status)

	d := m.Globals["m"].(*value.Dict)
	_, ok := d.Get("a")
	assert.False(t, ok)
}

// TestYieldAndResume drives Start/Resume directly (rather than going
// through InvokeProcedure, which cannot resume) so a mid-run yield
// signal has somewhere to fire and a subsequent Resume has the same
// frame/stack to continue from.
func TestYieldAndResume(t *testing.T) {
	src := `
global count = 0;
global xs = [1, 2, 3, 4];
sub sum_all() {
    for (v : xs) {
        set count += v;
    }
    return;
}
global done = sum_all();
`
	code := compile(t, src)
	m := newVM(code, nil)

	polls := 0
	m.SetYieldSignal(func() bool {
		polls++
		return polls == 4
	})
	r := m.Start(-1)
	require.Equal(t, vm.RunYield, r.Status)

	m.SetYieldSignal(func() bool { return false })
	r = m.Resume(nil, -1)
	require.Equal(t, vm.RunTerminated, r.Status)
	assert.Equal(t, int32(10), m.Globals["count"])
}

func TestRuntimeErrorReportsTrace(t *testing.T) {
	src := `
sub vcl_recv {
    declare x = 1 / 0;
}
`
	_, v, status := invokeExpectError(t, src, "vcl_recv")
	assert.Nil(t, v)
	assert.Equal(t, value.StatusFailed, status)
}

// TestHostFunctionYieldAndResume exercises a host-registered function
// that yields on its first call and resumes with a value supplied by
// the caller, completing the call expression that invoked it.
func TestHostFunctionYieldAndResume(t *testing.T) {
	src := `global greeting = multi_yield("x", "y");`
	code := compile(t, src)
	collector := value.NewContextCollector(0.5, 16)
	calls := 0
	hf := vm.NewHostFunction(collector, "multi_yield", func(m *vm.VM, args []value.Value) (value.Value, vm.HostStatus, error) {
		calls++
		return nil, vm.HostYield, nil
	})
	m := vm.New(code, collector, map[string]value.Value{"multi_yield": hf}, 0)

	r := m.Start(-1)
	require.Equal(t, vm.RunYield, r.Status)
	assert.Equal(t, 1, calls)

	r = m.Resume(value.NewString(collector, "xxyy"), -1)
	require.Equal(t, vm.RunTerminated, r.Status)
	s, ok := m.Globals["greeting"].(*value.String)
	require.True(t, ok)
	assert.Equal(t, "xxyy", s.Raw())
}

func invokeExpectError(t *testing.T, src, subName string) (*vm.VM, value.Value, value.Status) {
	t.Helper()
	code := compile(t, src)
	m := newVM(code, nil)
	entryResult := m.Start(-1)
	require.Equal(t, vm.RunTerminated, entryResult.Status)
	v, status, err := m.InvokeProcedure(subIndex(code, subName), nil)
	require.Error(t, err)
	var rerr vm.RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Contains(t, rerr.Trace, "vcl_recv")
	return m, v, status
}
