package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hollow-vm/vclvm/ast"
	"github.com/hollow-vm/vclvm/token"
)

// countingVisitor counts how many Binary/Literal nodes it visits; enough
// to prove Accept dispatches to the right method without building a full
// evaluator.
type countingVisitor struct {
	ast.ExpressionVisitor
	binaries int
	literals int
}

func (c *countingVisitor) VisitBinary(n *ast.Binary) any {
	c.binaries++
	n.Left.Accept(c)
	n.Right.Accept(c)
	return nil
}

func (c *countingVisitor) VisitLiteral(n *ast.Literal) any {
	c.literals++
	return n.Value
}

func TestArenaAllocatesDistinctNodes(t *testing.T) {
	arena := ast.NewArena()
	one := arena.Literal(ast.Literal{Value: int64(1)})
	two := arena.Literal(ast.Literal{Value: int64(2)})
	assert.NotSame(t, one, two)

	sum := arena.Binary(ast.Binary{Left: one, Operator: token.New(token.ADD, 1, 1), Right: two})

	v := &countingVisitor{}
	sum.Accept(v)
	assert.Equal(t, 1, v.binaries)
	assert.Equal(t, 2, v.literals)
}

func TestForStmtSingleVariableLeavesValueNameEmpty(t *testing.T) {
	arena := ast.NewArena()
	loop := arena.ForStmt(ast.ForStmt{
		KeyName:  token.NewLiteral(token.IDENTIFIER, "i", "i", 1, 1),
		Iterable: arena.Variable(ast.Variable{Name: token.NewLiteral(token.IDENTIFIER, "xs", "xs", 1, 1)}),
	})
	assert.Empty(t, loop.ValueName.Lexeme)
}
