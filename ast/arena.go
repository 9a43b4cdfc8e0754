package ast

import "github.com/hollow-vm/vclvm/zone"

// Arena aggregates one zone.Zone[T] per concrete node type so the parser
// never allocates AST nodes on the Go heap directly. Dropping an Arena
// (letting it become unreachable) frees every node it produced in one
// shot, mirroring the bump-arena-plus-bulk-teardown design of spec.md
// §4.1.
type Arena struct {
	binaries     *zone.Zone[Binary]
	logicals     *zone.Zone[Logical]
	unaries      *zone.Zone[Unary]
	ternaries    *zone.Zone[Ternary]
	literals     *zone.Zone[Literal]
	interpolated *zone.Zone[InterpolatedString]
	groupings    *zone.Zone[Grouping]
	variables    *zone.Zone[Variable]
	lists        *zone.Zone[ListLiteral]
	dicts        *zone.Zone[DictLiteral]
	extensions   *zone.Zone[ExtensionLiteral]
	properties   *zone.Zone[PropertyAccess]
	attributes   *zone.Zone[AttributeAccess]
	indices      *zone.Zone[IndexAccess]
	calls        *zone.Zone[CallExpr]

	vcls       *zone.Zone[VclStmt]
	includes   *zone.Zone[IncludeStmt]
	imports    *zone.Zone[ImportStmt]
	subs       *zone.Zone[SubStmt]
	acls       *zone.Zone[AclStmt]
	globals    *zone.Zone[GlobalStmt]
	extInsts   *zone.Zone[ExtensionInstanceStmt]
	sets       *zone.Zone[SetStmt]
	unsets     *zone.Zone[UnsetStmt]
	declares   *zone.Zone[DeclareStmt]
	news       *zone.Zone[NewStmt]
	returns    *zone.Zone[ReturnStmt]
	ifs        *zone.Zone[IfStmt]
	fors       *zone.Zone[ForStmt]
	breaks     *zone.Zone[BreakStmt]
	continues  *zone.Zone[ContinueStmt]
	callStmts  *zone.Zone[CallStmt]
	exprStmts  *zone.Zone[ExpressionStmt]
}

// NewArena returns an Arena ready to allocate every node type the parser
// produces.
func NewArena() *Arena {
	return &Arena{
		binaries:     zone.New[Binary](),
		logicals:     zone.New[Logical](),
		unaries:      zone.New[Unary](),
		ternaries:    zone.New[Ternary](),
		literals:     zone.New[Literal](),
		interpolated: zone.New[InterpolatedString](),
		groupings:    zone.New[Grouping](),
		variables:    zone.New[Variable](),
		lists:        zone.New[ListLiteral](),
		dicts:        zone.New[DictLiteral](),
		extensions:   zone.New[ExtensionLiteral](),
		properties:   zone.New[PropertyAccess](),
		attributes:   zone.New[AttributeAccess](),
		indices:      zone.New[IndexAccess](),
		calls:        zone.New[CallExpr](),

		vcls:      zone.New[VclStmt](),
		includes:  zone.New[IncludeStmt](),
		imports:   zone.New[ImportStmt](),
		subs:      zone.New[SubStmt](),
		acls:      zone.New[AclStmt](),
		globals:   zone.New[GlobalStmt](),
		extInsts:  zone.New[ExtensionInstanceStmt](),
		sets:      zone.New[SetStmt](),
		unsets:    zone.New[UnsetStmt](),
		declares:  zone.New[DeclareStmt](),
		news:      zone.New[NewStmt](),
		returns:   zone.New[ReturnStmt](),
		ifs:       zone.New[IfStmt](),
		fors:      zone.New[ForStmt](),
		breaks:    zone.New[BreakStmt](),
		continues: zone.New[ContinueStmt](),
		callStmts: zone.New[CallStmt](),
		exprStmts: zone.New[ExpressionStmt](),
	}
}

func (a *Arena) Binary(v Binary) *Binary                       { return a.binaries.New(v) }
func (a *Arena) Logical(v Logical) *Logical                    { return a.logicals.New(v) }
func (a *Arena) Unary(v Unary) *Unary                          { return a.unaries.New(v) }
func (a *Arena) Ternary(v Ternary) *Ternary                    { return a.ternaries.New(v) }
func (a *Arena) Literal(v Literal) *Literal                    { return a.literals.New(v) }
func (a *Arena) InterpolatedString(v InterpolatedString) *InterpolatedString {
	return a.interpolated.New(v)
}
func (a *Arena) Grouping(v Grouping) *Grouping                 { return a.groupings.New(v) }
func (a *Arena) Variable(v Variable) *Variable                 { return a.variables.New(v) }
func (a *Arena) ListLiteral(v ListLiteral) *ListLiteral        { return a.lists.New(v) }
func (a *Arena) DictLiteral(v DictLiteral) *DictLiteral        { return a.dicts.New(v) }
func (a *Arena) ExtensionLiteral(v ExtensionLiteral) *ExtensionLiteral {
	return a.extensions.New(v)
}
func (a *Arena) PropertyAccess(v PropertyAccess) *PropertyAccess { return a.properties.New(v) }
func (a *Arena) AttributeAccess(v AttributeAccess) *AttributeAccess {
	return a.attributes.New(v)
}
func (a *Arena) IndexAccess(v IndexAccess) *IndexAccess { return a.indices.New(v) }
func (a *Arena) CallExpr(v CallExpr) *CallExpr          { return a.calls.New(v) }

func (a *Arena) VclStmt(v VclStmt) *VclStmt             { return a.vcls.New(v) }
func (a *Arena) IncludeStmt(v IncludeStmt) *IncludeStmt { return a.includes.New(v) }
func (a *Arena) ImportStmt(v ImportStmt) *ImportStmt    { return a.imports.New(v) }
func (a *Arena) SubStmt(v SubStmt) *SubStmt             { return a.subs.New(v) }
func (a *Arena) AclStmt(v AclStmt) *AclStmt             { return a.acls.New(v) }
func (a *Arena) GlobalStmt(v GlobalStmt) *GlobalStmt    { return a.globals.New(v) }
func (a *Arena) ExtensionInstanceStmt(v ExtensionInstanceStmt) *ExtensionInstanceStmt {
	return a.extInsts.New(v)
}
func (a *Arena) SetStmt(v SetStmt) *SetStmt             { return a.sets.New(v) }
func (a *Arena) UnsetStmt(v UnsetStmt) *UnsetStmt       { return a.unsets.New(v) }
func (a *Arena) DeclareStmt(v DeclareStmt) *DeclareStmt { return a.declares.New(v) }
func (a *Arena) NewStmt(v NewStmt) *NewStmt             { return a.news.New(v) }
func (a *Arena) ReturnStmt(v ReturnStmt) *ReturnStmt    { return a.returns.New(v) }
func (a *Arena) IfStmt(v IfStmt) *IfStmt                { return a.ifs.New(v) }
func (a *Arena) ForStmt(v ForStmt) *ForStmt             { return a.fors.New(v) }
func (a *Arena) BreakStmt(v BreakStmt) *BreakStmt       { return a.breaks.New(v) }
func (a *Arena) ContinueStmt(v ContinueStmt) *ContinueStmt { return a.continues.New(v) }
func (a *Arena) CallStmt(v CallStmt) *CallStmt          { return a.callStmts.New(v) }
func (a *Arena) ExpressionStmt(v ExpressionStmt) *ExpressionStmt { return a.exprStmts.New(v) }
