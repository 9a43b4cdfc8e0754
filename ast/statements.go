package ast

import "github.com/hollow-vm/vclvm/token"

// VclStmt is the `vcl <real>;` declaration. The parser accepts it
// anywhere at file scope and does not require a file to contain one.
type VclStmt struct {
	Version token.Token
}

func (n *VclStmt) Accept(v StmtVisitor) any { return v.VisitVclStmt(n) }

// IncludeStmt is `include "<path>";`. Only legal at file scope (enforced
// by the parser, spec.md §4.3).
type IncludeStmt struct {
	Path token.Token
}

func (n *IncludeStmt) Accept(v StmtVisitor) any { return v.VisitIncludeStmt(n) }

// ImportStmt is `import <name>;`, pulling in a host-registered module.
type ImportStmt struct {
	Name token.Token
}

func (n *ImportStmt) Accept(v StmtVisitor) any { return v.VisitImportStmt(n) }

// SubStmt is `sub <name>(<params>?) { … }`; the parenthesised
// parameter list may be left out entirely. Same-named subs across
// included files are grouped into one sub list by the source repo
// (spec.md §4.5); this node always represents one occurrence.
type SubStmt struct {
	Name   token.Token
	Params []token.Token
	Body   []Stmt
}

func (n *SubStmt) Accept(v StmtVisitor) any { return v.VisitSubStmt(n) }

// AclPattern is one `(!)?<ip-pattern>;` line of an acl block.
type AclPattern struct {
	Negated bool
	Pattern token.Token
}

// AclStmt is `acl <name> { (<ip-pattern>;)* }`.
type AclStmt struct {
	Name     token.Token
	Patterns []AclPattern
}

func (n *AclStmt) Accept(v StmtVisitor) any { return v.VisitAclStmt(n) }

// GlobalStmt is `global <name> = <expr>;`.
type GlobalStmt struct {
	Name  token.Token
	Value Expression
}

func (n *GlobalStmt) Accept(v StmtVisitor) any { return v.VisitGlobalStmt(n) }

// ExtensionInstanceStmt is `<Type> <name> <initializer>`, declaring a
// named extension-backed value at top level.
type ExtensionInstanceStmt struct {
	TypeName token.Token
	Name     token.Token
	Init     *ExtensionLiteral
}

func (n *ExtensionInstanceStmt) Accept(v StmtVisitor) any { return v.VisitExtensionInstanceStmt(n) }

// SetStmt is `set <lhs> <assign-op> <expr>;`; Target is one of Variable,
// PropertyAccess, AttributeAccess, or IndexAccess.
type SetStmt struct {
	Target   Expression
	Operator token.Token
	Value    Expression
}

func (n *SetStmt) Accept(v StmtVisitor) any { return v.VisitSetStmt(n) }

// UnsetStmt is `unset <lhs>;`.
type UnsetStmt struct {
	Target Expression
}

func (n *UnsetStmt) Accept(v StmtVisitor) any { return v.VisitUnsetStmt(n) }

// DeclareStmt is `declare <name> (= <expr>)?;`, introducing a local.
type DeclareStmt struct {
	Name        token.Token
	Initializer Expression // nil if omitted
}

func (n *DeclareStmt) Accept(v StmtVisitor) any { return v.VisitDeclareStmt(n) }

// NewStmt is `new <name> = <expr>;`, binding the result of an extension
// constructor call to a local name.
type NewStmt struct {
	Name  token.Token
	Value Expression
}

func (n *NewStmt) Accept(v StmtVisitor) any { return v.VisitNewStmt(n) }

// ReturnKind distinguishes the three `return` forms spec.md §6 accepts.
type ReturnKind int

const (
	ReturnBare   ReturnKind = iota // `return;`
	ReturnChunk                    // `return { <expr>? };`
	ReturnAction                   // `return (<action> | <expr>);`
)

// ReturnStmt covers all three return forms. Value is nil for ReturnBare
// and for an empty ReturnChunk.
type ReturnStmt struct {
	Kind   ReturnKind
	Value  Expression
	Action token.Token // set only when Kind == ReturnAction and the operand names an action code
}

func (n *ReturnStmt) Accept(v StmtVisitor) any { return v.VisitReturnStmt(n) }

// ElifClause is one `elif|elsif|elseif (<expr>) { … }` arm.
type ElifClause struct {
	Cond Expression
	Body []Stmt
}

// IfStmt is `if (<expr>) … (elif …)* (else …)?`.
type IfStmt struct {
	Cond  Expression
	Then  []Stmt
	Elifs []ElifClause
	Else  []Stmt // nil if absent
}

func (n *IfStmt) Accept(v StmtVisitor) any { return v.VisitIfStmt(n) }

// ForStmt is `for (<id>(,<id>)? : <expr>) { … }`. ValueName.Lexeme == ""
// when only one loop variable was given, in which case KeyName is bound
// to the iterated value (not its key/index).
type ForStmt struct {
	KeyName   token.Token
	ValueName token.Token
	Iterable  Expression
	Body      []Stmt
}

func (n *ForStmt) Accept(v StmtVisitor) any { return v.VisitForStmt(n) }

// BreakStmt is `break;`, legal only inside a ForStmt's Body.
type BreakStmt struct {
	Token token.Token
}

func (n *BreakStmt) Accept(v StmtVisitor) any { return v.VisitBreakStmt(n) }

// ContinueStmt is `continue;`, legal only inside a ForStmt's Body.
type ContinueStmt struct {
	Token token.Token
}

func (n *ContinueStmt) Accept(v StmtVisitor) any { return v.VisitContinueStmt(n) }

// CallStmt is `call <name>(<args>?);`, invoking a subroutine for its
// side effects and discarding any return value.
type CallStmt struct {
	Name token.Token
	Args []Expression
}

func (n *CallStmt) Accept(v StmtVisitor) any { return v.VisitCallStmt(n) }

// ExpressionStmt evaluates an expression and discards the result.
type ExpressionStmt struct {
	Expression Expression
}

func (n *ExpressionStmt) Accept(v StmtVisitor) any { return v.VisitExpressionStmt(n) }
