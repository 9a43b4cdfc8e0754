package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollow-vm/vclvm/ast"
	"github.com/hollow-vm/vclvm/bytecode"
	"github.com/hollow-vm/vclvm/compiler"
	"github.com/hollow-vm/vclvm/lexer"
	"github.com/hollow-vm/vclvm/parser"
	"github.com/hollow-vm/vclvm/source"
	"github.com/hollow-vm/vclvm/token"
)

func buildUnit(t *testing.T, src string) *source.CompilationUnit {
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
	return unit
}

func compile(t *testing.T, src string) *compiler.CompiledCode {
	t.Helper()
	unit := buildUnit(t, src)
	code, errs := compiler.Compile(unit)
	require.Empty(t, errs)
	require.NotNil(t, code)
	return code
}

func entryProc(code *compiler.CompiledCode) *compiler.Procedure {
	return code.Procedures[code.EntryIndex]
}

func mnemonics(ins bytecode.Instructions) []string {
	var out []string
	for ip := 0; ip < len(ins); {
		op := bytecode.Opcode(ins[ip])
		out = append(out, op.Mnemonic())
		ip += op.Size()
	}
	return out
}

func TestCompileGlobalAssignment(t *testing.T) {
	code := compile(t, `global counter = 1 + 2;`)
	entry := entryProc(code)
	assert.Contains(t, mnemonics(entry.Code), "gset")
}

func TestCompileSubProducesSeparateProcedure(t *testing.T) {
	code := compile(t, `
sub vcl_recv {
    declare x = 1;
    return;
}
`)
	require.Len(t, code.Procedures, 2)
	var sub *compiler.Procedure
	for _, p := range code.Procedures {
		if p.Name == "vcl_recv" {
			sub = p
		}
	}
	require.NotNil(t, sub)
	assert.Contains(t, mnemonics(sub.Code), "term")

	entry := entryProc(code)
	assert.Contains(t, mnemonics(entry.Code), "gsub")
}

func TestCompileGroupedSubsConcatenateBodies(t *testing.T) {
	code := compile(t, `
sub vcl_recv {
    declare a = 1;
}
sub vcl_recv {
    declare b = 2;
}
`)
	var sub *compiler.Procedure
	for _, p := range code.Procedures {
		if p.Name == "vcl_recv" {
			sub = p
		}
	}
	require.NotNil(t, sub)
	// Two declares, each followed by an sstore: expect two "sstore" mnemonics.
	count := 0
	for _, m := range mnemonics(sub.Code) {
		if m == "sstore" {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestCompileIfElseBranches(t *testing.T) {
	code := compile(t, `
sub vcl_recv {
    if (1 < 2) {
        declare x = 1;
    } else {
        declare y = 2;
    }
}
`)
	var sub *compiler.Procedure
	for _, p := range code.Procedures {
		if p.Name == "vcl_recv" {
			sub = p
		}
	}
	require.NotNil(t, sub)
	ms := mnemonics(sub.Code)
	assert.Contains(t, ms, "jf")
	assert.Contains(t, ms, "jmp")
}

func TestCompileForLoopEmitsIterationOpcodes(t *testing.T) {
	code := compile(t, `
sub vcl_recv {
    for (k, v : headers) {
        break;
    }
}
`)
	var sub *compiler.Procedure
	for _, p := range code.Procedures {
		if p.Name == "vcl_recv" {
			sub = p
		}
	}
	require.NotNil(t, sub)
	ms := mnemonics(sub.Code)
	assert.Contains(t, ms, "forprep")
	assert.Contains(t, ms, "iterk")
	assert.Contains(t, ms, "iterv")
	assert.Contains(t, ms, "forend")
}

func TestBreakOutsideLoopIsACompileError(t *testing.T) {
	// The parser already rejects `break` outside a loop, so the unit is
	// assembled by hand to reach the compiler's own check.
	arena := ast.NewArena()
	sub := arena.SubStmt(ast.SubStmt{
		Name: token.NewLiteral(token.IDENTIFIER, "vcl_recv", "vcl_recv", 1, 1),
		Body: []ast.Stmt{arena.BreakStmt(ast.BreakStmt{})},
	})
	unit := &source.CompilationUnit{
		Statements:  []source.UnitStatement{{SubList: []*ast.SubStmt{sub}}},
		SourceFiles: []string{"main.vcl"},
	}
	_, errs := compiler.Compile(unit)
	assert.NotEmpty(t, errs)
}

func TestCompileCompoundAssignmentDesugarsToGetArithSet(t *testing.T) {
	code := compile(t, `
sub vcl_recv {
    set req.http.X += 1;
}
`)
	var sub *compiler.Procedure
	for _, p := range code.Procedures {
		if p.Name == "vcl_recv" {
			sub = p
		}
	}
	require.NotNil(t, sub)
	ms := mnemonics(sub.Code)
	assert.Contains(t, ms, "pget")
	assert.Contains(t, ms, "add")
	assert.Contains(t, ms, "pset")
}

func TestCompileAclRegistersGlobal(t *testing.T) {
	code := compile(t, `
acl internal {
    "192.168.0.0/16";
    !"10.0.0.1";
}
`)
	entry := entryProc(code)
	ms := mnemonics(entry.Code)
	assert.Contains(t, ms, "lacl")
	assert.Contains(t, ms, "gset")
}

func TestCompileCallStmtInvokesAndDiscardsResult(t *testing.T) {
	code := compile(t, `
sub helper {
    return;
}
sub vcl_recv {
    call helper();
}
`)
	var recv *compiler.Procedure
	for _, p := range code.Procedures {
		if p.Name == "vcl_recv" {
			recv = p
		}
	}
	require.NotNil(t, recv)
	ms := mnemonics(recv.Code)
	assert.Contains(t, ms, "call")
	assert.Contains(t, ms, "spop")
}
