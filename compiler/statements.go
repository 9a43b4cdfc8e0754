package compiler

import (
	"github.com/hollow-vm/vclvm/ast"
	"github.com/hollow-vm/vclvm/bytecode"
	"github.com/hollow-vm/vclvm/token"
)

// compileBlock compiles stmts in a fresh lexical scope, emitting an
// OpPop for any locals that go out of scope at the end.
func (c *Compiler) compileBlock(stmts []ast.Stmt) {
	c.cur.beginScope()
	for _, s := range stmts {
		c.compileStmtSafely(s)
	}
	if popped := c.cur.endScope(); popped > 0 {
		c.emitOperand(bytecode.OpPop, popped, token.Token{})
	}
}

func (c *Compiler) VisitVclStmt(n *ast.VclStmt) any       { return nil }
func (c *Compiler) VisitIncludeStmt(n *ast.IncludeStmt) any { return nil }
func (c *Compiler) VisitImportStmt(n *ast.ImportStmt) any  { return nil }

// VisitSubStmt is never reached: sub bodies are compiled directly from
// their grouped source.UnitStatement.SubList by compileSubList, not by
// walking a generic statement list.
func (c *Compiler) VisitSubStmt(n *ast.SubStmt) any {
	panic(DeveloperError{Message: "VisitSubStmt reached; subs must be compiled via compileSubList"})
}

func (c *Compiler) VisitAclStmt(n *ast.AclStmt) any {
	patterns := make([]AclPatternRef, len(n.Patterns))
	for i, p := range n.Patterns {
		pattern, _ := p.Pattern.Literal.(string)
		patterns[i] = AclPatternRef{Negated: p.Negated, Pattern: pattern}
	}
	ref := AclRef{Name: n.Name.Lexeme, Patterns: patterns}
	idx := c.cur.builder.AddConstant(ref)
	c.emitOperand(bytecode.OpLoadAcl, idx, n.Name)

	nameIdx := c.cur.builder.AddConstant(n.Name.Lexeme)
	c.emitOperand(bytecode.OpGlobalSet, nameIdx, n.Name)
	return nil
}

func (c *Compiler) VisitGlobalStmt(n *ast.GlobalStmt) any {
	n.Value.Accept(c)
	idx := c.cur.builder.AddConstant(n.Name.Lexeme)
	c.emitOperand(bytecode.OpGlobalSet, idx, n.Name)
	return nil
}

func (c *Compiler) VisitExtensionInstanceStmt(n *ast.ExtensionInstanceStmt) any {
	n.Init.Accept(c)
	idx := c.cur.builder.AddConstant(n.Name.Lexeme)
	c.emitOperand(bytecode.OpGlobalSet, idx, n.Name)
	return nil
}

// compileStoreTarget compiles the right-hand-side value for target
// (handling compound-assignment desugaring), then emits whatever
// store instruction writes it back to target.
func (c *Compiler) compileStoreTarget(target ast.Expression, operator token.Token, value ast.Expression) {
	arith, isCompound := compoundArith(operator.Type)

	switch t := target.(type) {
	case *ast.Variable:
		name := t.Name.Lexeme
		slot := c.cur.resolveLocal(name)
		if isCompound {
			if slot != -1 {
				c.emitOperand(bytecode.OpLoad, slot, t.Name)
			} else {
				idx := c.cur.builder.AddConstant(name)
				c.emitOperand(bytecode.OpGlobalGet, idx, t.Name)
			}
			value.Accept(c)
			c.emit(arith, operator)
		} else {
			value.Accept(c)
		}
		if slot != -1 {
			c.emitOperand(bytecode.OpStore, slot, t.Name)
		} else {
			idx := c.cur.builder.AddConstant(name)
			c.emitOperand(bytecode.OpGlobalSet, idx, t.Name)
		}

	case *ast.PropertyAccess:
		t.Receiver.Accept(c)
		nameIdx := c.cur.builder.AddConstant(t.Name.Lexeme)
		if isCompound {
			c.emit(bytecode.OpDup, t.Name)
			c.emitOperand(bytecode.OpPropGet, nameIdx, t.Name)
			value.Accept(c)
			c.emit(arith, operator)
		} else {
			value.Accept(c)
		}
		c.emitOperand(bytecode.OpPropSet, nameIdx, t.Name)

	case *ast.AttributeAccess:
		t.Receiver.Accept(c)
		nameIdx := c.cur.builder.AddConstant(t.Name.Lexeme)
		if isCompound {
			c.emit(bytecode.OpDup, t.Name)
			c.emitOperand(bytecode.OpAttrGet, nameIdx, t.Name)
			value.Accept(c)
			c.emit(arith, operator)
		} else {
			value.Accept(c)
		}
		c.emitOperand(bytecode.OpAttrSet, nameIdx, t.Name)

	case *ast.IndexAccess:
		t.Receiver.Accept(c)
		t.Index.Accept(c)
		if isCompound {
			c.emit(bytecode.OpDup2, operator)
			c.emit(bytecode.OpIndexGet, operator)
			value.Accept(c)
			c.emit(arith, operator)
		} else {
			value.Accept(c)
		}
		c.emit(bytecode.OpIndexSet, operator)

	default:
		c.errorf(operator, "invalid assignment target")
	}
}

func compoundArith(tt token.TokenType) (bytecode.Opcode, bool) {
	switch tt {
	case token.ADD_ASSIGN:
		return bytecode.OpAdd, true
	case token.SUB_ASSIGN:
		return bytecode.OpSub, true
	case token.MUL_ASSIGN:
		return bytecode.OpMul, true
	case token.DIV_ASSIGN:
		return bytecode.OpDiv, true
	case token.MOD_ASSIGN:
		return bytecode.OpMod, true
	default:
		return 0, false
	}
}

func (c *Compiler) VisitSetStmt(n *ast.SetStmt) any {
	c.compileStoreTarget(n.Target, n.Operator, n.Value)
	return nil
}

func (c *Compiler) VisitUnsetStmt(n *ast.UnsetStmt) any {
	switch t := n.Target.(type) {
	case *ast.PropertyAccess:
		t.Receiver.Accept(c)
		idx := c.cur.builder.AddConstant(t.Name.Lexeme)
		c.emitOperand(bytecode.OpPropUnset, idx, t.Name)
	case *ast.AttributeAccess:
		t.Receiver.Accept(c)
		idx := c.cur.builder.AddConstant(t.Name.Lexeme)
		c.emitOperand(bytecode.OpAttrUnset, idx, t.Name)
	case *ast.IndexAccess:
		t.Receiver.Accept(c)
		t.Index.Accept(c)
		c.emit(bytecode.OpIndexUnset, token.Token{})
	default:
		c.errorf(token.Token{}, "unset target must be a property, attribute, or index access")
	}
	return nil
}

func (c *Compiler) VisitDeclareStmt(n *ast.DeclareStmt) any {
	slot, err := c.cur.declareLocal(n.Name.Lexeme)
	if err != nil {
		c.errorf(n.Name, "%s", err.Error())
		return nil
	}
	if n.Initializer != nil {
		n.Initializer.Accept(c)
	} else {
		c.emit(bytecode.OpLoadNull, n.Name)
	}
	c.emitOperand(bytecode.OpStore, slot, n.Name)
	c.cur.defineLocal()
	return nil
}

func (c *Compiler) VisitNewStmt(n *ast.NewStmt) any {
	slot, err := c.cur.declareLocal(n.Name.Lexeme)
	if err != nil {
		c.errorf(n.Name, "%s", err.Error())
		return nil
	}
	n.Value.Accept(c)
	c.emitOperand(bytecode.OpStore, slot, n.Name)
	c.cur.defineLocal()
	return nil
}

func (c *Compiler) VisitReturnStmt(n *ast.ReturnStmt) any {
	switch n.Kind {
	case ast.ReturnBare:
		c.emit(bytecode.OpLoadNull, token.Token{})
	case ast.ReturnChunk:
		if n.Value != nil {
			n.Value.Accept(c)
		} else {
			c.emit(bytecode.OpLoadNull, token.Token{})
		}
	case ast.ReturnAction:
		if n.Action.Lexeme != "" {
			idx := c.cur.builder.AddConstant(n.Action.Lexeme)
			c.emitOperand(bytecode.OpLoadAction, idx, n.Action)
		} else {
			n.Value.Accept(c)
		}
	}
	c.emit(bytecode.OpReturn, token.Token{})
	return nil
}

func (c *Compiler) VisitIfStmt(n *ast.IfStmt) any {
	n.Cond.Accept(c)
	toNext := c.cur.builder.EmitLabel(bytecode.OpJumpIfFalse, bytecode.Position{})
	c.compileBlock(n.Then)
	end := c.cur.builder.EmitLabel(bytecode.OpJump, bytecode.Position{})
	c.cur.builder.PatchHere(&toNext)

	elifEnds := []bytecode.Label{end}
	for _, elif := range n.Elifs {
		elif.Cond.Accept(c)
		toNextElif := c.cur.builder.EmitLabel(bytecode.OpJumpIfFalse, bytecode.Position{})
		c.compileBlock(elif.Body)
		elifEnd := c.cur.builder.EmitLabel(bytecode.OpJump, bytecode.Position{})
		elifEnds = append(elifEnds, elifEnd)
		c.cur.builder.PatchHere(&toNextElif)
	}

	if n.Else != nil {
		c.compileBlock(n.Else)
	}

	for i := range elifEnds {
		c.cur.builder.PatchHere(&elifEnds[i])
	}
	return nil
}

func (c *Compiler) VisitForStmt(n *ast.ForStmt) any {
	n.Iterable.Accept(c)
	loop := c.cur.pushLoop()

	c.cur.beginScope()
	keySlot, _ := c.cur.declareLocal(n.KeyName.Lexeme)
	c.cur.defineLocal()
	valueSlot := -1
	if n.ValueName.Lexeme != "" {
		valueSlot, _ = c.cur.declareLocal(n.ValueName.Lexeme)
		c.cur.defineLocal()
	}
	c.cur.markBodyBase(loop)

	// Compiled as a bottom-tested loop: forprep builds the iterator
	// without fetching anything, an unconditional jump sends control
	// straight to the forend test/advance below the body, and forend
	// re-enters at bodyStart on every subsequent pass. This is what
	// makes an empty collection run the body zero times — the very
	// first test happens before iterk/iterv ever execute.
	c.emitOperand(bytecode.OpForPrep, keySlot, n.KeyName)
	toTest := c.cur.builder.EmitLabel(bytecode.OpJump, bytecode.Position{})

	bodyStart := c.cur.builder.Len()
	if valueSlot != -1 {
		c.emitOperand(bytecode.OpIterKey, keySlot, n.KeyName)
		c.emitOperand(bytecode.OpIterValue, valueSlot, n.ValueName)
	} else {
		// A lone loop variable binds the element value, not its key.
		c.emitOperand(bytecode.OpIterValue, keySlot, n.KeyName)
	}

	for _, s := range n.Body {
		c.compileStmtSafely(s)
	}

	testPos := c.cur.builder.Len()
	c.cur.builder.PatchHere(&toTest)
	forEnd := c.cur.builder.EmitLabel(bytecode.OpForEnd, bytecode.Position{})
	c.cur.builder.Patch(&forEnd, bodyStart)

	for _, l := range loop.continues {
		c.cur.builder.Patch(l, testPos)
	}

	// The normal (condition-false) fallthrough from OpForEnd lands here:
	// pop the loop's own scope (key/value slots and anything declared
	// in the body). `break` unwinds the same locals itself before
	// jumping, so its target is right after this pop, never through it.
	if popped := c.cur.endScope(); popped > 0 {
		c.emitOperand(bytecode.OpPop, popped, token.Token{})
	}
	afterLoop := c.cur.builder.Len()
	for _, l := range loop.breaks {
		c.cur.builder.Patch(l, afterLoop)
	}
	c.cur.popLoop()
	return nil
}

func (c *Compiler) VisitBreakStmt(n *ast.BreakStmt) any {
	loop, ok := c.cur.currentLoop()
	if !ok {
		c.errorf(n.Token, "'break' outside of a for loop")
		return nil
	}
	if unwind := c.cur.localsToUnwindForBreak(loop); unwind > 0 {
		c.emitOperand(bytecode.OpPop, unwind, n.Token)
	}
	label := c.cur.builder.EmitLabel(bytecode.OpBreak, posOf(n.Token))
	loop.breaks = append(loop.breaks, &label)
	return nil
}

func (c *Compiler) VisitContinueStmt(n *ast.ContinueStmt) any {
	loop, ok := c.cur.currentLoop()
	if !ok {
		c.errorf(n.Token, "'continue' outside of a for loop")
		return nil
	}
	if cnt := c.cur.localsToUnwindForContinue(loop); cnt > 0 {
		c.emitOperand(bytecode.OpPop, cnt, n.Token)
	}
	label := c.cur.builder.EmitLabel(bytecode.OpContinue, posOf(n.Token))
	loop.continues = append(loop.continues, &label)
	return nil
}

func (c *Compiler) VisitCallStmt(n *ast.CallStmt) any {
	idx := c.cur.builder.AddConstant(n.Name.Lexeme)
	c.emitOperand(bytecode.OpGlobalGet, idx, n.Name)
	for _, arg := range n.Args {
		arg.Accept(c)
	}
	c.emitOperand(bytecode.OpCall, len(n.Args), n.Name)
	c.emitOperand(bytecode.OpPop, 1, n.Name)
	return nil
}

func (c *Compiler) VisitExpressionStmt(n *ast.ExpressionStmt) any {
	n.Expression.Accept(c)
	c.emitOperand(bytecode.OpPop, 1, token.Token{})
	return nil
}
