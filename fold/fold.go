// Package fold implements the constant-folding pass that runs on a parsed
// AST before compilation. It rewrites pure arithmetic, comparison,
// logical, string-concatenation, and ternary expressions over literal
// operands into a single literal, using the same integer/real promotion
// rules the runtime applies (package compiler, package vm), so folding a
// subtree never changes what it would have evaluated to.
//
// Folding is a rewrite, not a destructive pass: any subtree it can't
// reduce is rebuilt with its children folded, so a single const-fold over
// the whole program is enough — there's no need to re-run it to catch
// newly-exposed constants, since every node is visited bottom-up in one
// pass.
package fold

import (
	"fmt"

	"github.com/hollow-vm/vclvm/ast"
	"github.com/hollow-vm/vclvm/token"
)

// FoldError is a compile-time error discovered while folding — a
// divide-by-zero or a type mismatch the runtime would also reject, but
// caught here because both operands are already known at compile time.
type FoldError struct {
	Line    int32
	Column  int32
	Message string
}

func (e FoldError) Error() string {
	return fmt.Sprintf("fold error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Folder walks an AST rewriting constant subexpressions to literals.
type Folder struct {
	arena  *ast.Arena
	errors []error
}

// New returns a Folder that allocates any rebuilt nodes from arena. arena
// should be the same one the parser used, since folding may also reuse
// nodes from the original tree verbatim.
func New(arena *ast.Arena) *Folder {
	return &Folder{arena: arena}
}

// Errors returns every FoldError collected during Program.
func (f *Folder) Errors() []error {
	return f.errors
}

func (f *Folder) errorf(tok token.Token, format string, args ...any) {
	f.errors = append(f.errors, FoldError{Line: tok.Line, Column: tok.Column, Message: fmt.Sprintf(format, args...)})
}

// Program folds every top-level statement, returning the rewritten tree.
func (f *Folder) Program(stmts []ast.Stmt) []ast.Stmt {
	out := make([]ast.Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = f.foldStmt(s)
	}
	return out
}

func (f *Folder) foldExpr(e ast.Expression) ast.Expression {
	if e == nil {
		return nil
	}
	return e.Accept(f).(ast.Expression)
}

func (f *Folder) foldStmt(s ast.Stmt) ast.Stmt {
	if s == nil {
		return nil
	}
	return s.Accept(f).(ast.Stmt)
}

func (f *Folder) foldStmts(stmts []ast.Stmt) []ast.Stmt {
	if stmts == nil {
		return nil
	}
	out := make([]ast.Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = f.foldStmt(s)
	}
	return out
}

func (f *Folder) foldExprs(exprs []ast.Expression) []ast.Expression {
	if exprs == nil {
		return nil
	}
	out := make([]ast.Expression, len(exprs))
	for i, e := range exprs {
		out[i] = f.foldExpr(e)
	}
	return out
}

func litBool(arena *ast.Arena, v bool, tok token.Token) *ast.Literal {
	return arena.Literal(ast.Literal{Value: v, Token: tok})
}

// numeric reports v as both an int64 and a float64 view, and whether the
// float view should be preferred (v was itself a float64). bool
// participates as 0/1 per the runtime's promotion table (spec.md §4.7).
func numeric(v any) (i int64, r float64, isReal, ok bool) {
	switch t := v.(type) {
	case int64:
		return t, float64(t), false, true
	case float64:
		return int64(t), t, true, true
	case bool:
		if t {
			return 1, 1, false, true
		}
		return 0, 0, false, true
	default:
		return 0, 0, false, false
	}
}

var arithOps = map[token.TokenType]bool{
	token.ADD: true, token.SUB: true, token.MUL: true, token.DIV: true, token.MOD: true,
}

var compareOps = map[token.TokenType]bool{
	token.EQUAL_EQUAL: true, token.NOT_EQUAL: true,
	token.LESS: true, token.LESS_EQUAL: true, token.LARGER: true, token.LARGER_EQUAL: true,
}

// VisitBinary folds arithmetic, string-concat, and comparison operators
// over literal operands. `~`/`!~` (regex match) are never folded: regex
// compilation is a runtime/host concern.
func (f *Folder) VisitBinary(n *ast.Binary) any {
	left := f.foldExpr(n.Left)
	right := f.foldExpr(n.Right)

	lLit, lok := left.(*ast.Literal)
	rLit, rok := right.(*ast.Literal)
	if lok && rok {
		if arithOps[n.Operator.Type] {
			if lit := f.foldArith(n.Operator, lLit, rLit); lit != nil {
				return ast.Expression(lit)
			}
		} else if compareOps[n.Operator.Type] {
			if lit := f.foldCompare(n.Operator, lLit, rLit); lit != nil {
				return ast.Expression(lit)
			}
		}
	}
	return ast.Expression(f.arena.Binary(ast.Binary{Left: left, Operator: n.Operator, Right: right}))
}

func (f *Folder) foldArith(op token.Token, l, r *ast.Literal) *ast.Literal {
	if sl, ok := l.Value.(string); ok {
		if sr, ok := r.Value.(string); ok {
			if op.Type != token.ADD {
				f.errorf(op, "operator %q is not defined for strings", op.Lexeme)
				return nil
			}
			return f.arena.Literal(ast.Literal{Value: sl + sr, Token: op})
		}
	}

	li, lr, lIsReal, lok := numeric(l.Value)
	ri, rr, rIsReal, rok := numeric(r.Value)
	if !lok || !rok {
		f.errorf(op, "operator %q is not defined for these operand types", op.Lexeme)
		return nil
	}
	isReal := lIsReal || rIsReal

	switch op.Type {
	case token.ADD:
		if isReal {
			return f.arena.Literal(ast.Literal{Value: lr + rr, Token: op})
		}
		return f.arena.Literal(ast.Literal{Value: li + ri, Token: op})
	case token.SUB:
		if isReal {
			return f.arena.Literal(ast.Literal{Value: lr - rr, Token: op})
		}
		return f.arena.Literal(ast.Literal{Value: li - ri, Token: op})
	case token.MUL:
		if isReal {
			return f.arena.Literal(ast.Literal{Value: lr * rr, Token: op})
		}
		return f.arena.Literal(ast.Literal{Value: li * ri, Token: op})
	case token.DIV:
		if isReal {
			if rr == 0 {
				f.errorf(op, "division by zero")
				return nil
			}
			return f.arena.Literal(ast.Literal{Value: lr / rr, Token: op})
		}
		if ri == 0 {
			f.errorf(op, "division by zero")
			return nil
		}
		return f.arena.Literal(ast.Literal{Value: li / ri, Token: op})
	case token.MOD:
		if isReal {
			f.errorf(op, "'%%' requires integer operands")
			return nil
		}
		if ri == 0 {
			f.errorf(op, "division by zero")
			return nil
		}
		return f.arena.Literal(ast.Literal{Value: li % ri, Token: op})
	}
	return nil
}

func (f *Folder) foldCompare(op token.Token, l, r *ast.Literal) *ast.Literal {
	if l.Value == nil || r.Value == nil {
		if op.Type != token.EQUAL_EQUAL && op.Type != token.NOT_EQUAL {
			return nil
		}
		eq := l.Value == nil && r.Value == nil
		if op.Type == token.NOT_EQUAL {
			eq = !eq
		}
		return litBool(f.arena, eq, op)
	}

	if sl, ok := l.Value.(string); ok {
		sr, ok := r.Value.(string)
		if !ok {
			return nil
		}
		switch op.Type {
		case token.EQUAL_EQUAL:
			return litBool(f.arena, sl == sr, op)
		case token.NOT_EQUAL:
			return litBool(f.arena, sl != sr, op)
		case token.LESS:
			return litBool(f.arena, sl < sr, op)
		case token.LESS_EQUAL:
			return litBool(f.arena, sl <= sr, op)
		case token.LARGER:
			return litBool(f.arena, sl > sr, op)
		case token.LARGER_EQUAL:
			return litBool(f.arena, sl >= sr, op)
		}
		return nil
	}

	li, lr, lIsReal, lok := numeric(l.Value)
	ri, rr, rIsReal, rok := numeric(r.Value)
	if !lok || !rok {
		return nil
	}
	var cmp int
	if lIsReal || rIsReal {
		switch {
		case lr < rr:
			cmp = -1
		case lr > rr:
			cmp = 1
		}
	} else {
		switch {
		case li < ri:
			cmp = -1
		case li > ri:
			cmp = 1
		}
	}
	switch op.Type {
	case token.EQUAL_EQUAL:
		return litBool(f.arena, cmp == 0, op)
	case token.NOT_EQUAL:
		return litBool(f.arena, cmp != 0, op)
	case token.LESS:
		return litBool(f.arena, cmp < 0, op)
	case token.LESS_EQUAL:
		return litBool(f.arena, cmp <= 0, op)
	case token.LARGER:
		return litBool(f.arena, cmp > 0, op)
	case token.LARGER_EQUAL:
		return litBool(f.arena, cmp >= 0, op)
	}
	return nil
}

// VisitLogical folds && and || using short-circuit elision: once the
// left operand is a known boolean literal, the branch that can never run
// is dropped entirely (short-circuit evaluation would never have run it,
// so nothing observable is lost), and the other branch (still folded) is
// promoted to replace the whole expression.
func (f *Folder) VisitLogical(n *ast.Logical) any {
	left := f.foldExpr(n.Left)
	if lLit, ok := left.(*ast.Literal); ok {
		if b, ok := lLit.Value.(bool); ok {
			right := f.foldExpr(n.Right)
			if n.Operator.Type == token.AND {
				if !b {
					return ast.Expression(lLit)
				}
				return right
			}
			// OR
			if b {
				return ast.Expression(lLit)
			}
			return right
		}
	}
	right := f.foldExpr(n.Right)
	return ast.Expression(f.arena.Logical(ast.Logical{Left: left, Operator: n.Operator, Right: right}))
}

func (f *Folder) VisitUnary(n *ast.Unary) any {
	right := f.foldExpr(n.Right)
	if lit, ok := right.(*ast.Literal); ok {
		switch n.Operator.Type {
		case token.BANG:
			if b, ok := lit.Value.(bool); ok {
				return ast.Expression(litBool(f.arena, !b, n.Operator))
			}
		case token.SUB:
			if i, r, isReal, ok := numeric(lit.Value); ok {
				if isReal {
					return ast.Expression(f.arena.Literal(ast.Literal{Value: -r, Token: n.Operator}))
				}
				return ast.Expression(f.arena.Literal(ast.Literal{Value: -i, Token: n.Operator}))
			}
		case token.ADD:
			if _, _, _, ok := numeric(lit.Value); ok {
				return ast.Expression(lit)
			}
		}
	}
	return ast.Expression(f.arena.Unary(ast.Unary{Operator: n.Operator, Right: right}))
}

// VisitTernary folds `if(cond, then, else)` once cond is a known boolean
// literal: the unreachable branch is dropped and the other is promoted,
// same elision rule as VisitLogical.
func (f *Folder) VisitTernary(n *ast.Ternary) any {
	cond := f.foldExpr(n.Cond)
	then := f.foldExpr(n.Then)
	els := f.foldExpr(n.Else)
	if lit, ok := cond.(*ast.Literal); ok {
		if b, ok := lit.Value.(bool); ok {
			if b {
				return then
			}
			return els
		}
	}
	return ast.Expression(f.arena.Ternary(ast.Ternary{Cond: cond, Then: then, Else: els}))
}

func (f *Folder) VisitLiteral(n *ast.Literal) any {
	return ast.Expression(n)
}

func (f *Folder) VisitGrouping(n *ast.Grouping) any {
	return f.foldExpr(n.Inner)
}

func (f *Folder) VisitVariable(n *ast.Variable) any {
	return ast.Expression(n)
}

func (f *Folder) VisitListLiteral(n *ast.ListLiteral) any {
	return ast.Expression(f.arena.ListLiteral(ast.ListLiteral{Elements: f.foldExprs(n.Elements)}))
}

func (f *Folder) VisitDictLiteral(n *ast.DictLiteral) any {
	entries := make([]ast.DictEntry, len(n.Entries))
	for i, e := range n.Entries {
		entries[i] = ast.DictEntry{Key: f.foldExpr(e.Key), Value: f.foldExpr(e.Value)}
	}
	return ast.Expression(f.arena.DictLiteral(ast.DictLiteral{Entries: entries}))
}

func (f *Folder) VisitExtensionLiteral(n *ast.ExtensionLiteral) any {
	fields := make([]ast.ExtensionField, len(n.Fields))
	for i, field := range n.Fields {
		fields[i] = ast.ExtensionField{Name: field.Name, Value: f.foldExpr(field.Value)}
	}
	return ast.Expression(f.arena.ExtensionLiteral(ast.ExtensionLiteral{TypeName: n.TypeName, Fields: fields}))
}

func (f *Folder) VisitPropertyAccess(n *ast.PropertyAccess) any {
	return ast.Expression(f.arena.PropertyAccess(ast.PropertyAccess{Receiver: f.foldExpr(n.Receiver), Name: n.Name}))
}

func (f *Folder) VisitAttributeAccess(n *ast.AttributeAccess) any {
	return ast.Expression(f.arena.AttributeAccess(ast.AttributeAccess{Receiver: f.foldExpr(n.Receiver), Name: n.Name}))
}

func (f *Folder) VisitIndexAccess(n *ast.IndexAccess) any {
	return ast.Expression(f.arena.IndexAccess(ast.IndexAccess{Receiver: f.foldExpr(n.Receiver), Index: f.foldExpr(n.Index)}))
}

func (f *Folder) VisitCallExpr(n *ast.CallExpr) any {
	return ast.Expression(f.arena.CallExpr(ast.CallExpr{Callee: f.foldExpr(n.Callee), Args: f.foldExprs(n.Args)}))
}

func (f *Folder) VisitInterpolatedString(n *ast.InterpolatedString) any {
	return ast.Expression(f.arena.InterpolatedString(ast.InterpolatedString{Segments: n.Segments, Exprs: f.foldExprs(n.Exprs)}))
}

// Statement visitors: rebuild each node with its expression fields (and
// nested bodies) folded.

func (f *Folder) VisitVclStmt(n *ast.VclStmt) any       { return ast.Stmt(n) }
func (f *Folder) VisitIncludeStmt(n *ast.IncludeStmt) any { return ast.Stmt(n) }
func (f *Folder) VisitImportStmt(n *ast.ImportStmt) any { return ast.Stmt(n) }

func (f *Folder) VisitSubStmt(n *ast.SubStmt) any {
	return ast.Stmt(f.arena.SubStmt(ast.SubStmt{Name: n.Name, Params: n.Params, Body: f.foldStmts(n.Body)}))
}

func (f *Folder) VisitAclStmt(n *ast.AclStmt) any { return ast.Stmt(n) }

func (f *Folder) VisitGlobalStmt(n *ast.GlobalStmt) any {
	return ast.Stmt(f.arena.GlobalStmt(ast.GlobalStmt{Name: n.Name, Value: f.foldExpr(n.Value)}))
}

func (f *Folder) VisitExtensionInstanceStmt(n *ast.ExtensionInstanceStmt) any {
	folded := f.foldExpr(n.Init).(*ast.ExtensionLiteral)
	return ast.Stmt(f.arena.ExtensionInstanceStmt(ast.ExtensionInstanceStmt{TypeName: n.TypeName, Name: n.Name, Init: folded}))
}

func (f *Folder) VisitSetStmt(n *ast.SetStmt) any {
	return ast.Stmt(f.arena.SetStmt(ast.SetStmt{Target: f.foldExpr(n.Target), Operator: n.Operator, Value: f.foldExpr(n.Value)}))
}

func (f *Folder) VisitUnsetStmt(n *ast.UnsetStmt) any {
	return ast.Stmt(f.arena.UnsetStmt(ast.UnsetStmt{Target: f.foldExpr(n.Target)}))
}

func (f *Folder) VisitDeclareStmt(n *ast.DeclareStmt) any {
	return ast.Stmt(f.arena.DeclareStmt(ast.DeclareStmt{Name: n.Name, Initializer: f.foldExpr(n.Initializer)}))
}

func (f *Folder) VisitNewStmt(n *ast.NewStmt) any {
	return ast.Stmt(f.arena.NewStmt(ast.NewStmt{Name: n.Name, Value: f.foldExpr(n.Value)}))
}

func (f *Folder) VisitReturnStmt(n *ast.ReturnStmt) any {
	return ast.Stmt(f.arena.ReturnStmt(ast.ReturnStmt{Kind: n.Kind, Value: f.foldExpr(n.Value), Action: n.Action}))
}

func (f *Folder) VisitIfStmt(n *ast.IfStmt) any {
	elifs := make([]ast.ElifClause, len(n.Elifs))
	for i, e := range n.Elifs {
		elifs[i] = ast.ElifClause{Cond: f.foldExpr(e.Cond), Body: f.foldStmts(e.Body)}
	}
	return ast.Stmt(f.arena.IfStmt(ast.IfStmt{
		Cond:  f.foldExpr(n.Cond),
		Then:  f.foldStmts(n.Then),
		Elifs: elifs,
		Else:  f.foldStmts(n.Else),
	}))
}

func (f *Folder) VisitForStmt(n *ast.ForStmt) any {
	return ast.Stmt(f.arena.ForStmt(ast.ForStmt{
		KeyName:   n.KeyName,
		ValueName: n.ValueName,
		Iterable:  f.foldExpr(n.Iterable),
		Body:      f.foldStmts(n.Body),
	}))
}

func (f *Folder) VisitBreakStmt(n *ast.BreakStmt) any       { return ast.Stmt(n) }
func (f *Folder) VisitContinueStmt(n *ast.ContinueStmt) any { return ast.Stmt(n) }

func (f *Folder) VisitCallStmt(n *ast.CallStmt) any {
	return ast.Stmt(f.arena.CallStmt(ast.CallStmt{Name: n.Name, Args: f.foldExprs(n.Args)}))
}

func (f *Folder) VisitExpressionStmt(n *ast.ExpressionStmt) any {
	return ast.Stmt(f.arena.ExpressionStmt(ast.ExpressionStmt{Expression: f.foldExpr(n.Expression)}))
}
