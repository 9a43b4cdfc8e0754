package ast

import "github.com/hollow-vm/vclvm/token"

// Binary is a stack-only arithmetic/comparison/match expression:
// +,-,*,/,%,==,!=,<,<=,>,>=,~,!~.
type Binary struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (n *Binary) Accept(v ExpressionVisitor) any { return v.VisitBinary(n) }

// Logical is && or ||, kept distinct from Binary because it short-circuits
// (spec.md §4.4 elides the unreachable operand when folding).
type Logical struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (n *Logical) Accept(v ExpressionVisitor) any { return v.VisitLogical(n) }

// Unary is +,-,! applied to a single operand.
type Unary struct {
	Operator token.Token
	Right    Expression
}

func (n *Unary) Accept(v ExpressionVisitor) any { return v.VisitUnary(n) }

// Ternary is the `if(cond, then, else)` expression form.
type Ternary struct {
	Cond Expression
	Then Expression
	Else Expression
}

func (n *Ternary) Accept(v ExpressionVisitor) any { return v.VisitTernary(n) }

// Literal carries an int64, float64, bool, nil, token.SizeParts, or
// token.DurationParts value straight from the token stream.
type Literal struct {
	Value any
	Token token.Token
}

func (n *Literal) Accept(v ExpressionVisitor) any { return v.VisitLiteral(n) }

// InterpolatedString is a `'…'` string made of alternating literal
// segments and embedded expressions.
type InterpolatedString struct {
	Segments []string     // len(Segments) == len(Exprs)+1
	Exprs    []Expression
}

func (n *InterpolatedString) Accept(v ExpressionVisitor) any { return v.VisitInterpolatedString(n) }

// Grouping is a parenthesized expression, kept only to preserve source
// position for error messages; it carries no precedence information of
// its own once parsed.
type Grouping struct {
	Inner Expression
}

func (n *Grouping) Accept(v ExpressionVisitor) any { return v.VisitGrouping(n) }

// Variable reads a global, local, or loop-bound name.
type Variable struct {
	Name token.Token
}

func (n *Variable) Accept(v ExpressionVisitor) any { return v.VisitVariable(n) }

// ListLiteral is `[e1, e2, …]`.
type ListLiteral struct {
	Elements []Expression
}

func (n *ListLiteral) Accept(v ExpressionVisitor) any { return v.VisitListLiteral(n) }

// DictEntry is one `key: value` pair of a dict literal.
type DictEntry struct {
	Key   Expression
	Value Expression
}

// DictLiteral is `{k: v, …}`.
type DictLiteral struct {
	Entries []DictEntry
}

func (n *DictLiteral) Accept(v ExpressionVisitor) any { return v.VisitDictLiteral(n) }

// ExtensionField is one `.field = expr;` line of an extension literal.
type ExtensionField struct {
	Name  token.Token
	Value Expression
}

// ExtensionLiteral is `TypeName { .field = expr; … }`, used both as a
// standalone expression and as the initializer of an extension instance
// top-level form.
type ExtensionLiteral struct {
	TypeName token.Token
	Fields   []ExtensionField
}

func (n *ExtensionLiteral) Accept(v ExpressionVisitor) any { return v.VisitExtensionLiteral(n) }

// PropertyAccess is `receiver.name`.
type PropertyAccess struct {
	Receiver Expression
	Name     token.Token
}

func (n *PropertyAccess) Accept(v ExpressionVisitor) any { return v.VisitPropertyAccess(n) }

// AttributeAccess is `receiver:name`, where name may contain `-` (the
// lexer's extended-variable mode, requested for header-like names).
type AttributeAccess struct {
	Receiver Expression
	Name     token.Token
}

func (n *AttributeAccess) Accept(v ExpressionVisitor) any { return v.VisitAttributeAccess(n) }

// IndexAccess is `receiver[index]`.
type IndexAccess struct {
	Receiver Expression
	Index    Expression
}

func (n *IndexAccess) Accept(v ExpressionVisitor) any { return v.VisitIndexAccess(n) }

// CallExpr is a function-call expression, e.g. `len(x)` or
// `headers.get(name)`.
type CallExpr struct {
	Callee Expression
	Args   []Expression
}

func (n *CallExpr) Accept(v ExpressionVisitor) any { return v.VisitCallExpr(n) }
