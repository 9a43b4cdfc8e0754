package fold_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollow-vm/vclvm/ast"
	"github.com/hollow-vm/vclvm/fold"
	"github.com/hollow-vm/vclvm/lexer"
	"github.com/hollow-vm/vclvm/parser"
)

func foldSource(t *testing.T, src string) ([]ast.Stmt, *fold.Folder) {
	t.Helper()
	lex := lexer.New(src)
	arena := ast.NewArena()
	p := parser.New(lex, arena, parser.NewNameSeed(0))
	stmts := p.Parse()
	require.Empty(t, p.Errors())

	f := fold.New(arena)
	return f.Program(stmts), f
}

func declaredValue(t *testing.T, stmts []ast.Stmt) any {
	t.Helper()
	sub := stmts[0].(*ast.SubStmt)
	decl := sub.Body[0].(*ast.DeclareStmt)
	lit, ok := decl.Initializer.(*ast.Literal)
	require.True(t, ok, "expected initializer to fold to a literal, got %T", decl.Initializer)
	return lit.Value
}

func TestFoldsIntegerArithmeticWithPrecedence(t *testing.T) {
	stmts, f := foldSource(t, `
sub vcl_recv {
    declare x = 1 + 2 * 3;
}
`)
	require.Empty(t, f.Errors())
	assert.Equal(t, int64(7), declaredValue(t, stmts))
}

func TestFoldsRealPromotion(t *testing.T) {
	stmts, f := foldSource(t, `
sub vcl_recv {
    declare x = 1 + 2.5;
}
`)
	require.Empty(t, f.Errors())
	assert.Equal(t, 3.5, declaredValue(t, stmts))
}

func TestFoldsStringConcat(t *testing.T) {
	stmts, f := foldSource(t, `
sub vcl_recv {
    declare x = "foo" + "bar";
}
`)
	require.Empty(t, f.Errors())
	assert.Equal(t, "foobar", declaredValue(t, stmts))
}

func TestFoldsComparison(t *testing.T) {
	stmts, f := foldSource(t, `
sub vcl_recv {
    declare x = 3 < 5;
}
`)
	require.Empty(t, f.Errors())
	assert.Equal(t, true, declaredValue(t, stmts))
}

func TestDivisionByZeroIsFoldTimeError(t *testing.T) {
	_, f := foldSource(t, `
sub vcl_recv {
    declare x = 1 / 0;
}
`)
	require.NotEmpty(t, f.Errors())
}

func TestModRequiresIntegerOperands(t *testing.T) {
	_, f := foldSource(t, `
sub vcl_recv {
    declare x = 1.5 % 2;
}
`)
	require.NotEmpty(t, f.Errors())
}

func TestShortCircuitAndElidesRight(t *testing.T) {
	stmts, f := foldSource(t, `
sub vcl_recv {
    declare x = false && some_call();
}
`)
	require.Empty(t, f.Errors())
	assert.Equal(t, false, declaredValue(t, stmts))
}

func TestShortCircuitOrElidesRight(t *testing.T) {
	stmts, f := foldSource(t, `
sub vcl_recv {
    declare x = true || some_call();
}
`)
	require.Empty(t, f.Errors())
	assert.Equal(t, true, declaredValue(t, stmts))
}

func TestAndPromotesRightWhenLeftTrue(t *testing.T) {
	stmts, f := foldSource(t, `
sub vcl_recv {
    declare x = true && some_var;
}
`)
	require.Empty(t, f.Errors())
	sub := stmts[0].(*ast.SubStmt)
	decl := sub.Body[0].(*ast.DeclareStmt)
	v, ok := decl.Initializer.(*ast.Variable)
	require.True(t, ok)
	assert.Equal(t, "some_var", v.Name.Lexeme)
}

func TestFoldsTernaryOnLiteralCondition(t *testing.T) {
	stmts, f := foldSource(t, `
sub vcl_recv {
    declare x = if(1 < 2, 10, 20);
}
`)
	require.Empty(t, f.Errors())
	assert.Equal(t, int64(10), declaredValue(t, stmts))
}

func TestFoldsNestedUnaryAndGrouping(t *testing.T) {
	stmts, f := foldSource(t, `
sub vcl_recv {
    declare x = -(1 + 2);
}
`)
	require.Empty(t, f.Errors())
	assert.Equal(t, int64(-3), declaredValue(t, stmts))
}

func TestDoesNotFoldVariableReads(t *testing.T) {
	stmts, f := foldSource(t, `
sub vcl_recv {
    declare x = req.url + "suffix";
}
`)
	require.Empty(t, f.Errors())
	sub := stmts[0].(*ast.SubStmt)
	decl := sub.Body[0].(*ast.DeclareStmt)
	binary, ok := decl.Initializer.(*ast.Binary)
	require.True(t, ok, "expected a side-effectful read to survive folding unreduced")
	_, isProp := binary.Left.(*ast.PropertyAccess)
	assert.True(t, isProp)
}

func TestFoldsListElementsRecursively(t *testing.T) {
	stmts, f := foldSource(t, `
sub vcl_recv {
    declare xs = [1 + 1, 2 + 2];
}
`)
	require.Empty(t, f.Errors())
	sub := stmts[0].(*ast.SubStmt)
	decl := sub.Body[0].(*ast.DeclareStmt)
	list := decl.Initializer.(*ast.ListLiteral)
	require.Len(t, list.Elements, 2)
	assert.Equal(t, int64(2), list.Elements[0].(*ast.Literal).Value)
	assert.Equal(t, int64(4), list.Elements[1].(*ast.Literal).Value)
}
