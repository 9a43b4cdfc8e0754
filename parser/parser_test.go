package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollow-vm/vclvm/ast"
	"github.com/hollow-vm/vclvm/lexer"
	"github.com/hollow-vm/vclvm/parser"
)

func parse(t *testing.T, src string) ([]ast.Stmt, *parser.Parser) {
	t.Helper()
	lex := lexer.New(src)
	arena := ast.NewArena()
	p := parser.New(lex, arena, parser.NewNameSeed(0))
	stmts := p.Parse()
	return stmts, p
}

func TestVclAndSubDeclaration(t *testing.T) {
	src := `
vcl 4.1;
sub vcl_recv {
    set req.url = "/ok";
    return (lookup);
}
`
	stmts, p := parse(t, src)
	require.Empty(t, p.Errors())
	require.Len(t, stmts, 2)

	vcl, ok := stmts[0].(*ast.VclStmt)
	require.True(t, ok)
	assert.Equal(t, "4.1", vcl.Version.Lexeme)

	sub, ok := stmts[1].(*ast.SubStmt)
	require.True(t, ok)
	assert.Equal(t, "vcl_recv", sub.Name.Lexeme)
	require.Len(t, sub.Body, 2)

	set, ok := sub.Body[0].(*ast.SetStmt)
	require.True(t, ok)
	target, ok := set.Target.(*ast.PropertyAccess)
	require.True(t, ok)
	assert.Equal(t, "url", target.Name.Lexeme)

	ret, ok := sub.Body[1].(*ast.ReturnStmt)
	require.True(t, ok)
	assert.Equal(t, ast.ReturnAction, ret.Kind)
	assert.Equal(t, "lookup", ret.Action.Lexeme)
}

func TestIfElifElseChain(t *testing.T) {
	src := `
sub vcl_recv {
    if (req.method == "GET") {
        set req.url = "/get";
    } elif (req.method == "POST") {
        set req.url = "/post";
    } else {
        set req.url = "/other";
    }
}
`
	stmts, p := parse(t, src)
	require.Empty(t, p.Errors())
	sub := stmts[0].(*ast.SubStmt)
	ifStmt := sub.Body[0].(*ast.IfStmt)
	require.Len(t, ifStmt.Elifs, 1)
	require.NotEmpty(t, ifStmt.Else)

	cond := ifStmt.Cond.(*ast.Binary)
	assert.Equal(t, "==", cond.Operator.Lexeme)
}

func TestForLoopTwoVariables(t *testing.T) {
	src := `
sub vcl_recv {
    for (k, v : req.headers) {
        call log_header(k, v);
    }
}
`
	stmts, p := parse(t, src)
	require.Empty(t, p.Errors())
	sub := stmts[0].(*ast.SubStmt)
	forStmt := sub.Body[0].(*ast.ForStmt)
	assert.Equal(t, "k", forStmt.KeyName.Lexeme)
	assert.Equal(t, "v", forStmt.ValueName.Lexeme)

	call := forStmt.Body[0].(*ast.CallStmt)
	assert.Equal(t, "log_header", call.Name.Lexeme)
	require.Len(t, call.Args, 2)
}

func TestForLoopSingleVariable(t *testing.T) {
	src := `
sub vcl_recv {
    for (x : some_list) {
        break;
    }
}
`
	stmts, p := parse(t, src)
	require.Empty(t, p.Errors())
	sub := stmts[0].(*ast.SubStmt)
	forStmt := sub.Body[0].(*ast.ForStmt)
	assert.Equal(t, "x", forStmt.KeyName.Lexeme)
	assert.Empty(t, forStmt.ValueName.Lexeme)
}

func TestBreakOutsideForIsAnError(t *testing.T) {
	src := `
sub vcl_recv {
    break;
}
`
	_, p := parse(t, src)
	require.NotEmpty(t, p.Errors())
}

func TestExpressionPrecedence(t *testing.T) {
	src := `
sub vcl_recv {
    declare x = 1 + 2 * 3 == 7 && true;
}
`
	stmts, p := parse(t, src)
	require.Empty(t, p.Errors())
	sub := stmts[0].(*ast.SubStmt)
	decl := sub.Body[0].(*ast.DeclareStmt)

	logical := decl.Initializer.(*ast.Logical)
	assert.Equal(t, "&&", logical.Operator.Lexeme)

	eq := logical.Left.(*ast.Binary)
	assert.Equal(t, "==", eq.Operator.Lexeme)

	add := eq.Left.(*ast.Binary)
	assert.Equal(t, "+", add.Operator.Lexeme)
	mul := add.Right.(*ast.Binary)
	assert.Equal(t, "*", mul.Operator.Lexeme)
}

func TestTernaryExpression(t *testing.T) {
	src := `
sub vcl_recv {
    declare x = if(req.method == "GET", 1, 0);
}
`
	stmts, p := parse(t, src)
	require.Empty(t, p.Errors())
	sub := stmts[0].(*ast.SubStmt)
	decl := sub.Body[0].(*ast.DeclareStmt)
	ternary := decl.Initializer.(*ast.Ternary)
	assert.NotNil(t, ternary.Cond)
	assert.NotNil(t, ternary.Then)
	assert.NotNil(t, ternary.Else)
}

func TestAttributeAccessAllowsHyphenatedName(t *testing.T) {
	src := `
sub vcl_recv {
    set req.http:x-forwarded-for = "1.2.3.4";
}
`
	stmts, p := parse(t, src)
	require.Empty(t, p.Errors())
	sub := stmts[0].(*ast.SubStmt)
	set := sub.Body[0].(*ast.SetStmt)
	attr := set.Target.(*ast.AttributeAccess)
	assert.Equal(t, "x-forwarded-for", attr.Name.Lexeme)
}

func TestListAndDictLiterals(t *testing.T) {
	src := `
sub vcl_recv {
    declare xs = [1, 2, 3];
    declare m = {"a": 1, "b": 2};
}
`
	stmts, p := parse(t, src)
	require.Empty(t, p.Errors())
	sub := stmts[0].(*ast.SubStmt)

	list := sub.Body[0].(*ast.DeclareStmt).Initializer.(*ast.ListLiteral)
	assert.Len(t, list.Elements, 3)

	dict := sub.Body[1].(*ast.DeclareStmt).Initializer.(*ast.DictLiteral)
	require.Len(t, dict.Entries, 2)
	assert.Equal(t, "a", dict.Entries[0].Key.(*ast.Literal).Value)
}

func TestExtensionInstanceTopLevel(t *testing.T) {
	src := `
Director dir {
    .quorum = 1;
    .retries = 3;
}
`
	stmts, p := parse(t, src)
	require.Empty(t, p.Errors())
	inst := stmts[0].(*ast.ExtensionInstanceStmt)
	assert.Equal(t, "Director", inst.TypeName.Lexeme)
	assert.Equal(t, "dir", inst.Name.Lexeme)
	require.Len(t, inst.Init.Fields, 2)
	assert.Equal(t, "quorum", inst.Init.Fields[0].Name.Lexeme)
}

func TestAclDeclaration(t *testing.T) {
	src := `
acl internal {
    "10.0.0.0/8";
    !"10.1.0.0/16";
}
`
	stmts, p := parse(t, src)
	require.Empty(t, p.Errors())
	acl := stmts[0].(*ast.AclStmt)
	require.Len(t, acl.Patterns, 2)
	assert.False(t, acl.Patterns[0].Negated)
	assert.True(t, acl.Patterns[1].Negated)
}

func TestInterpolatedString(t *testing.T) {
	src := `
sub vcl_recv {
    declare msg = 'count: ${1 + 1} done';
}
`
	stmts, p := parse(t, src)
	require.Empty(t, p.Errors())
	sub := stmts[0].(*ast.SubStmt)
	decl := sub.Body[0].(*ast.DeclareStmt)
	istr := decl.Initializer.(*ast.InterpolatedString)
	require.Len(t, istr.Segments, 2)
	require.Len(t, istr.Exprs, 1)
	assert.Equal(t, "count: ", istr.Segments[0])
	assert.Equal(t, " done", istr.Segments[1])
}

func TestReturnChunkAndBareForms(t *testing.T) {
	src := `
sub vcl_recv {
    return;
}
sub vcl_deliver {
    return { "hello" };
}
`
	stmts, p := parse(t, src)
	require.Empty(t, p.Errors())

	bare := stmts[0].(*ast.SubStmt).Body[0].(*ast.ReturnStmt)
	assert.Equal(t, ast.ReturnBare, bare.Kind)
	assert.Nil(t, bare.Value)

	chunk := stmts[1].(*ast.SubStmt).Body[0].(*ast.ReturnStmt)
	assert.Equal(t, ast.ReturnChunk, chunk.Kind)
	assert.NotNil(t, chunk.Value)
}

func TestSyntaxErrorRecoversAndReportsMultiple(t *testing.T) {
	src := `
sub broken {
    set ;
    set req.url = "/ok";
}
sub also_broken {
    unset ;
}
`
	_, p := parse(t, src)
	assert.GreaterOrEqual(t, len(p.Errors()), 2)
}

func TestSizeAndDurationLiteralsParse(t *testing.T) {
	src := `
sub vcl_recv {
    declare cap = 2gb500mb;
    declare ttl = 1h30min;
}
`
	stmts, p := parse(t, src)
	require.Empty(t, p.Errors())
	sub := stmts[0].(*ast.SubStmt)

	size := sub.Body[0].(*ast.DeclareStmt).Initializer.(*ast.Literal)
	assert.NotNil(t, size.Value)

	dur := sub.Body[1].(*ast.DeclareStmt).Initializer.(*ast.Literal)
	assert.NotNil(t, dur.Value)
}
