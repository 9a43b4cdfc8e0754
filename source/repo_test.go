package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollow-vm/vclvm/ast"
	"github.com/hollow-vm/vclvm/parser"
	"github.com/hollow-vm/vclvm/source"
)

func newRepo(files map[string]string) *source.Repo {
	loader := func(path string) (string, bool) {
		src, ok := files[path]
		return src, ok
	}
	return source.NewRepo(loader, ast.NewArena(), parser.NewNameSeed(0))
}

func TestBuildFlattensIncludes(t *testing.T) {
	files := map[string]string{
		"main.vcl": `
vcl 4.1;
include "helpers.vcl";
sub vcl_recv {
    return;
}
`,
		"helpers.vcl": `
global shared = 1;
`,
	}
	repo := newRepo(files)
	unit, err := repo.Build("main.vcl")
	require.NoError(t, err)
	require.Len(t, unit.Statements, 3)

	_, isVcl := unit.Statements[0].Stmt.(*ast.VclStmt)
	assert.True(t, isVcl)

	global, isGlobal := unit.Statements[1].Stmt.(*ast.GlobalStmt)
	require.True(t, isGlobal)
	assert.Equal(t, "shared", global.Name.Lexeme)

	require.NotNil(t, unit.Statements[2].SubList)
	assert.Equal(t, "vcl_recv", unit.Statements[2].SubList[0].Name.Lexeme)
}

func TestBuildGroupsSameNamedSubsIntoOneList(t *testing.T) {
	files := map[string]string{
		"main.vcl": `
sub vcl_recv {
    declare a = 1;
}
sub vcl_recv {
    declare b = 2;
}
`,
	}
	repo := newRepo(files)
	unit, err := repo.Build("main.vcl")
	require.NoError(t, err)
	require.Len(t, unit.Statements, 1)
	require.Len(t, unit.Statements[0].SubList, 2)
}

func TestBuildRejectsMismatchedSubArity(t *testing.T) {
	files := map[string]string{
		"main.vcl": `
sub vcl_recv(a) {
    return;
}
sub vcl_recv(a, b) {
    return;
}
`,
	}
	repo := newRepo(files)
	_, err := repo.Build("main.vcl")
	assert.Error(t, err)
}

func TestBuildDetectsIncludeCycle(t *testing.T) {
	files := map[string]string{
		"a.vcl": `include "b.vcl";`,
		"b.vcl": `include "a.vcl";`,
	}
	repo := newRepo(files)
	_, err := repo.Build("a.vcl")
	assert.Error(t, err)
}

func TestBuildAllowsDiamondIncludeWithoutDuplication(t *testing.T) {
	files := map[string]string{
		"main.vcl": `
include "left.vcl";
include "right.vcl";
`,
		"left.vcl":  `include "shared.vcl";`,
		"right.vcl": `include "shared.vcl";`,
		"shared.vcl": `
global common = 1;
`,
	}
	repo := newRepo(files)
	unit, err := repo.Build("main.vcl")
	require.NoError(t, err)
	require.Len(t, unit.Statements, 1)
}

func TestBuildResolvesViaSearchPath(t *testing.T) {
	files := map[string]string{
		"main.vcl":        `include "helpers/shared.vcl";`,
		"lib/helpers/shared.vcl": `global x = 1;`,
	}
	repo := newRepo(files)
	repo.AddSearchPath("lib")
	unit, err := repo.Build("main.vcl")
	require.NoError(t, err)
	require.Len(t, unit.Statements, 1)
}

func TestBuildRejectsAbsolutePathByDefault(t *testing.T) {
	files := map[string]string{
		"main.vcl": `include "/etc/passwd.vcl";`,
	}
	repo := newRepo(files)
	_, err := repo.Build("main.vcl")
	assert.Error(t, err)
}

func TestBuildRespectsMaxIncludeDepth(t *testing.T) {
	files := map[string]string{
		"a.vcl": `include "b.vcl";`,
		"b.vcl": `include "c.vcl";`,
		"c.vcl": `global x = 1;`,
	}
	repo := newRepo(files)
	repo.SetMaxIncludeDepth(1)
	_, err := repo.Build("a.vcl")
	assert.Error(t, err)
}
