// Package compiler walks a flattened compilation unit and emits
// bytecode for it. It keeps the teacher's AST-compiler shape — a
// visitor that emits directly rather than building an intermediate
// tree — generalized to spec.md §4.7's base-relative locals, grouped
// sub-procedures, and loop/break/continue label stacks.
package compiler

import (
	"fmt"

	"github.com/hollow-vm/vclvm/ast"
	"github.com/hollow-vm/vclvm/bytecode"
	"github.com/hollow-vm/vclvm/source"
	"github.com/hollow-vm/vclvm/token"
)

// actionCodes mirrors the grammar's reserved `return (<action>)` codes
// (spec.md §6).
var actionCodes = map[string]bool{
	"ok": true, "fail": true, "pipe": true, "hash": true, "purge": true,
	"lookup": true, "restart": true, "fetch": true, "miss": true,
	"deliver": true, "retry": true, "abandon": true, "extension": true,
}

// Compiler emits bytecode for one CompilationUnit. Subs are compiled
// into their own Procedure; every other top-level statement is
// appended, in source order, to the synthesized entry procedure.
type Compiler struct {
	unit *source.CompilationUnit

	cur        *procState
	procedures []*Procedure

	errors []error
}

// Compile compiles unit into a CompiledCode artifact. Compilation
// continues past the first error within a procedure where possible,
// collecting every CompileError it finds.
func Compile(unit *source.CompilationUnit) (*CompiledCode, []error) {
	c := &Compiler{unit: unit}
	entry := c.compileEntry()
	if len(c.errors) > 0 {
		return nil, c.errors
	}
	entryIndex := len(c.procedures)
	c.procedures = append(c.procedures, entry)
	return &CompiledCode{
		Procedures:  c.procedures,
		EntryIndex:  entryIndex,
		SourceFiles: unit.SourceFiles,
	}, nil
}

func (c *Compiler) compileEntry() *Procedure {
	c.cur = newProcState()
	for _, us := range c.unit.Statements {
		if us.SubList != nil {
			c.compileSubList(us)
			continue
		}
		c.compileStmtSafely(us.Stmt)
	}
	c.cur.builder.Emit(bytecode.OpTerm, bytecode.Position{})
	return c.finishProcedure(entryProcedureName, nil)
}

// compileSubList compiles one grouped sub declaration into its own
// procedure and registers it as a global in the entry procedure at
// the point the first occurrence appeared.
func (c *Compiler) compileSubList(us source.UnitStatement) {
	first := us.SubList[0]
	name := first.Name.Lexeme
	paramNames := make([]string, len(first.Params))
	for i, p := range first.Params {
		paramNames[i] = p.Lexeme
	}

	procIndex := len(c.procedures) // the slot this procedure lands in once appended below
	saved := c.cur
	c.cur = newProcState()
	for _, p := range paramNames {
		if _, err := c.cur.declareLocal(p); err != nil {
			c.errorf(first.Name, "%s", err.Error())
		}
		c.cur.defineLocal()
	}
	for _, sub := range us.SubList {
		for _, stmt := range sub.Body {
			c.compileStmtSafely(stmt)
		}
	}
	c.cur.builder.Emit(bytecode.OpTerm, bytecode.Position{})
	proc := c.finishProcedure(name, paramNames)
	c.procedures = append(c.procedures, proc)
	c.cur = saved

	ref := SubRef{Name: name, ProcIndex: procIndex, ParamCount: len(paramNames)}
	idx := c.cur.builder.AddConstant(ref)
	c.cur.builder.EmitOperand(bytecode.OpGlobalSub, idx, posOf(first.Name))
}

func (c *Compiler) finishProcedure(name string, params []string) *Procedure {
	code, consts, positions := c.cur.builder.Finish()
	return &Procedure{Name: name, ParamNames: params, Code: code, Constants: consts, Positions: positions}
}

// compileStmtSafely runs stmt.Accept, recovering any panic into a
// recorded error (the panic value formatted with %v) so one bad
// statement doesn't abort the whole procedure.
func (c *Compiler) compileStmtSafely(stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			c.errors = append(c.errors, fmt.Errorf("%v", r))
		}
	}()
	stmt.Accept(c)
}

func (c *Compiler) errorf(tok token.Token, format string, args ...any) {
	c.errors = append(c.errors, CompileError{
		Line: tok.Line, Column: tok.Column, Message: fmt.Sprintf(format, args...),
	})
}

func posOf(tok token.Token) bytecode.Position {
	return bytecode.Position{Line: tok.Line, Column: tok.Column}
}

func (c *Compiler) emit(op bytecode.Opcode, tok token.Token) int {
	return c.cur.builder.Emit(op, posOf(tok))
}

func (c *Compiler) emitOperand(op bytecode.Opcode, operand int, tok token.Token) int {
	return c.cur.builder.EmitOperand(op, operand, posOf(tok))
}

func (c *Compiler) emitLabel(op bytecode.Opcode, tok token.Token) bytecode.Label {
	return c.cur.builder.EmitLabel(op, posOf(tok))
}

// --- expressions ---------------------------------------------------

func (c *Compiler) VisitBinary(n *ast.Binary) any {
	n.Left.Accept(c)
	n.Right.Accept(c)
	switch n.Operator.Type {
	case token.ADD:
		c.emit(bytecode.OpAdd, n.Operator)
	case token.SUB:
		c.emit(bytecode.OpSub, n.Operator)
	case token.MUL:
		c.emit(bytecode.OpMul, n.Operator)
	case token.DIV:
		c.emit(bytecode.OpDiv, n.Operator)
	case token.MOD:
		c.emit(bytecode.OpMod, n.Operator)
	case token.EQUAL_EQUAL:
		c.emit(bytecode.OpEq, n.Operator)
	case token.NOT_EQUAL:
		c.emit(bytecode.OpNe, n.Operator)
	case token.LESS:
		c.emit(bytecode.OpLt, n.Operator)
	case token.LESS_EQUAL:
		c.emit(bytecode.OpLe, n.Operator)
	case token.LARGER:
		c.emit(bytecode.OpGt, n.Operator)
	case token.LARGER_EQUAL:
		c.emit(bytecode.OpGe, n.Operator)
	case token.MATCH:
		c.emit(bytecode.OpMatch, n.Operator)
	case token.NOT_MATCH:
		c.emit(bytecode.OpNotMatch, n.Operator)
	default:
		c.errorf(n.Operator, "unsupported binary operator %q", n.Operator.Lexeme)
	}
	return nil
}

func (c *Compiler) VisitLogical(n *ast.Logical) any {
	n.Left.Accept(c)
	switch n.Operator.Type {
	case token.OR:
		// If the left operand is truthy, short-circuit: keep it on the
		// stack and skip the right operand entirely.
		keep := c.emitLabel(bytecode.OpBranchIfTrue, n.Operator)
		n.Right.Accept(c)
		c.cur.builder.PatchHere(&keep)
	case token.AND:
		keep := c.emitLabel(bytecode.OpBranchIfFalse, n.Operator)
		n.Right.Accept(c)
		c.cur.builder.PatchHere(&keep)
	default:
		c.errorf(n.Operator, "unsupported logical operator %q", n.Operator.Lexeme)
	}
	return nil
}

func (c *Compiler) VisitUnary(n *ast.Unary) any {
	n.Right.Accept(c)
	switch n.Operator.Type {
	case token.SUB:
		c.emit(bytecode.OpNeg, n.Operator)
	case token.ADD:
		c.emit(bytecode.OpPos, n.Operator)
	case token.BANG:
		c.emit(bytecode.OpNot, n.Operator)
	default:
		c.errorf(n.Operator, "unsupported unary operator %q", n.Operator.Lexeme)
	}
	return nil
}

func (c *Compiler) VisitTernary(n *ast.Ternary) any {
	n.Cond.Accept(c)
	toElse := c.cur.builder.EmitLabel(bytecode.OpJumpIfFalse, bytecode.Position{})
	n.Then.Accept(c)
	toEnd := c.cur.builder.EmitLabel(bytecode.OpJump, bytecode.Position{})
	c.cur.builder.PatchHere(&toElse)
	n.Else.Accept(c)
	c.cur.builder.PatchHere(&toEnd)
	return nil
}

func (c *Compiler) VisitLiteral(n *ast.Literal) any {
	switch v := n.Value.(type) {
	case nil:
		c.emit(bytecode.OpLoadNull, n.Token)
	case bool:
		if v {
			c.emit(bytecode.OpLoadTrue, n.Token)
		} else {
			c.emit(bytecode.OpLoadFalse, n.Token)
		}
	case int64:
		idx := c.cur.builder.AddConstant(v)
		c.emitOperand(bytecode.OpLoadInt, idx, n.Token)
	case float64:
		idx := c.cur.builder.AddConstant(v)
		c.emitOperand(bytecode.OpLoadReal, idx, n.Token)
	case string:
		idx := c.cur.builder.AddConstant(v)
		c.emitOperand(bytecode.OpLoadStr, idx, n.Token)
	case token.SizeParts:
		idx := c.cur.builder.AddConstant(v)
		c.emitOperand(bytecode.OpLoadSize, idx, n.Token)
	case token.DurationParts:
		idx := c.cur.builder.AddConstant(v)
		c.emitOperand(bytecode.OpLoadDuration, idx, n.Token)
	default:
		c.errorf(n.Token, "unrepresentable literal of type %T", v)
	}
	return nil
}

func (c *Compiler) VisitGrouping(n *ast.Grouping) any {
	n.Inner.Accept(c)
	return nil
}

func (c *Compiler) VisitVariable(n *ast.Variable) any {
	name := n.Name.Lexeme
	if slot := c.cur.resolveLocal(name); slot != -1 {
		c.emitOperand(bytecode.OpLoad, slot, n.Name)
		return nil
	}
	idx := c.cur.builder.AddConstant(name)
	c.emitOperand(bytecode.OpGlobalGet, idx, n.Name)
	return nil
}

// MaxListLength bounds a single list or dict literal's element count.
// A host embeds config.Options.ListMaxLength here via SetMaxListLength
// before compiling; left at its default otherwise.
var MaxListLength = 262144

// SetMaxListLength overrides MaxListLength, letting a host apply
// config.Options.ListMaxLength without this package importing config
// (which itself depends on value, not compiler).
func SetMaxListLength(n int) { MaxListLength = n }

func (c *Compiler) VisitListLiteral(n *ast.ListLiteral) any {
	if len(n.Elements) > MaxListLength {
		c.errorf(token.Token{}, "list literal has %d elements, exceeding the %d maximum", len(n.Elements), MaxListLength)
		return nil
	}
	for _, e := range n.Elements {
		e.Accept(c)
	}
	c.emitOperand(bytecode.OpLoadList, len(n.Elements), token.Token{})
	return nil
}

func (c *Compiler) VisitDictLiteral(n *ast.DictLiteral) any {
	if len(n.Entries) > MaxListLength {
		c.errorf(token.Token{}, "dict literal has %d entries, exceeding the %d maximum", len(n.Entries), MaxListLength)
		return nil
	}
	for _, entry := range n.Entries {
		entry.Key.Accept(c)
		entry.Value.Accept(c)
	}
	c.emitOperand(bytecode.OpLoadDict, len(n.Entries), token.Token{})
	return nil
}

func (c *Compiler) VisitExtensionLiteral(n *ast.ExtensionLiteral) any {
	typeIdx := c.cur.builder.AddConstant(n.TypeName.Lexeme)
	c.emitOperand(bytecode.OpLoadExt, typeIdx, n.TypeName)
	for _, f := range n.Fields {
		// OpPropSet consumes both the receiver and the value, so the
		// extension value needs a fresh copy on top before each field
		// to survive into the next iteration and the final result.
		c.emit(bytecode.OpDup, f.Name)
		f.Value.Accept(c)
		nameIdx := c.cur.builder.AddConstant(f.Name.Lexeme)
		c.emitOperand(bytecode.OpPropSet, nameIdx, f.Name)
	}
	return nil
}

func (c *Compiler) VisitPropertyAccess(n *ast.PropertyAccess) any {
	n.Receiver.Accept(c)
	idx := c.cur.builder.AddConstant(n.Name.Lexeme)
	c.emitOperand(bytecode.OpPropGet, idx, n.Name)
	return nil
}

func (c *Compiler) VisitAttributeAccess(n *ast.AttributeAccess) any {
	n.Receiver.Accept(c)
	idx := c.cur.builder.AddConstant(n.Name.Lexeme)
	c.emitOperand(bytecode.OpAttrGet, idx, n.Name)
	return nil
}

func (c *Compiler) VisitIndexAccess(n *ast.IndexAccess) any {
	n.Receiver.Accept(c)
	n.Index.Accept(c)
	c.emit(bytecode.OpIndexGet, token.Token{})
	return nil
}

func (c *Compiler) VisitCallExpr(n *ast.CallExpr) any {
	n.Callee.Accept(c)
	for _, arg := range n.Args {
		arg.Accept(c)
	}
	c.emitOperand(bytecode.OpCall, len(n.Args), token.Token{})
	return nil
}

func (c *Compiler) VisitInterpolatedString(n *ast.InterpolatedString) any {
	segCount := len(n.Segments)
	for i, seg := range n.Segments {
		idx := c.cur.builder.AddConstant(seg)
		c.emitOperand(bytecode.OpLoadStr, idx, token.Token{})
		if i < len(n.Exprs) {
			n.Exprs[i].Accept(c)
		}
	}
	total := segCount + len(n.Exprs)
	c.emitOperand(bytecode.OpStrConcat, total, token.Token{})
	return nil
}
