// Package ast defines the node set for the VCL-family grammar (spec.md
// §6) and the visitor interfaces used to walk it. Every node is allocated
// from an Arena (see arena.go) rather than the Go heap directly, so a
// whole compilation's AST can be torn down in one shot once the compiler
// is done with it.
package ast

// ExpressionVisitor operates on every Expression node. Implementations:
// the constant folder, the printer, and the compiler.
type ExpressionVisitor interface {
	VisitBinary(n *Binary) any
	VisitLogical(n *Logical) any
	VisitUnary(n *Unary) any
	VisitTernary(n *Ternary) any
	VisitLiteral(n *Literal) any
	VisitGrouping(n *Grouping) any
	VisitVariable(n *Variable) any
	VisitListLiteral(n *ListLiteral) any
	VisitDictLiteral(n *DictLiteral) any
	VisitExtensionLiteral(n *ExtensionLiteral) any
	VisitPropertyAccess(n *PropertyAccess) any
	VisitAttributeAccess(n *AttributeAccess) any
	VisitIndexAccess(n *IndexAccess) any
	VisitCallExpr(n *CallExpr) any
	VisitInterpolatedString(n *InterpolatedString) any
}

// StmtVisitor operates on every Stmt node.
type StmtVisitor interface {
	VisitVclStmt(n *VclStmt) any
	VisitIncludeStmt(n *IncludeStmt) any
	VisitImportStmt(n *ImportStmt) any
	VisitSubStmt(n *SubStmt) any
	VisitAclStmt(n *AclStmt) any
	VisitGlobalStmt(n *GlobalStmt) any
	VisitExtensionInstanceStmt(n *ExtensionInstanceStmt) any
	VisitSetStmt(n *SetStmt) any
	VisitUnsetStmt(n *UnsetStmt) any
	VisitDeclareStmt(n *DeclareStmt) any
	VisitNewStmt(n *NewStmt) any
	VisitReturnStmt(n *ReturnStmt) any
	VisitIfStmt(n *IfStmt) any
	VisitForStmt(n *ForStmt) any
	VisitBreakStmt(n *BreakStmt) any
	VisitContinueStmt(n *ContinueStmt) any
	VisitCallStmt(n *CallStmt) any
	VisitExpressionStmt(n *ExpressionStmt) any
}

// Expression is any node that evaluates to a Value at runtime.
type Expression interface {
	Accept(v ExpressionVisitor) any
}

// Stmt is any node that performs an action and does not itself produce a
// value.
type Stmt interface {
	Accept(v StmtVisitor) any
}
