// Package parser implements the recursive-descent, precedence-climbing
// parser for the VCL-family grammar (spec.md §6). It pulls tokens
// directly from a lexer.Lexer rather than a pre-scanned slice, because
// the attribute-access form (`receiver:name`) needs the lexer's extended
// variable mode (`-` as an identifier character) applied to exactly the
// one token that follows a `:` — something a flat token slice can't
// express without re-lexing.
package parser

import (
	"fmt"

	"github.com/hollow-vm/vclvm/ast"
	"github.com/hollow-vm/vclvm/token"
)

// tokenStream is satisfied by *lexer.Lexer; kept as an interface so the
// parser can be driven by a canned token list in tests without depending
// on package lexer.
type tokenStream interface {
	Next() token.Token
	NextExtended() token.Token
}

// actionCodes are the bare-identifier action spellings accepted by
// `return (<action>);` (spec.md §6).
var actionCodes = map[string]bool{
	"ok": true, "fail": true, "pipe": true, "hash": true, "purge": true,
	"lookup": true, "restart": true, "fetch": true, "miss": true,
	"deliver": true, "retry": true, "abandon": true, "extension": true,
}

var assignOps = map[token.TokenType]bool{
	token.ASSIGN: true, token.ADD_ASSIGN: true, token.SUB_ASSIGN: true,
	token.MUL_ASSIGN: true, token.DIV_ASSIGN: true, token.MOD_ASSIGN: true,
}

// Parser turns a token stream into a slice of top-level ast.Stmt nodes.
type Parser struct {
	lex       tokenStream
	buf       []token.Token
	arena     *ast.Arena
	seed      *NameSeed
	errors    []error
	loopDepth int
}

// New returns a Parser reading from lex, allocating nodes from arena, and
// using seed for any fresh temporary/anonymous names it must mint.
func New(lex tokenStream, arena *ast.Arena, seed *NameSeed) *Parser {
	return &Parser{lex: lex, arena: arena, seed: seed}
}

func (p *Parser) fillTo(n int) {
	for len(p.buf) < n {
		p.buf = append(p.buf, p.lex.Next())
	}
}

func (p *Parser) cur() token.Token {
	p.fillTo(1)
	return p.buf[0]
}

func (p *Parser) peekAt(n int) token.Token {
	p.fillTo(n + 1)
	return p.buf[n]
}

func (p *Parser) advance() token.Token {
	p.fillTo(1)
	t := p.buf[0]
	p.buf = p.buf[1:]
	return t
}

// advanceExtended consumes the current token, re-lexing it with `-`
// accepted as an identifier character when nothing has been buffered
// past it yet. Must only be called immediately after a `:` was consumed
// and before any other lookahead touched the following token.
func (p *Parser) advanceExtended() token.Token {
	if len(p.buf) > 0 {
		return p.advance()
	}
	return p.lex.NextExtended()
}

func (p *Parser) isFinished() bool {
	return p.cur().Type == token.EOF
}

func (p *Parser) check(tt token.TokenType) bool {
	return p.cur().Type == tt
}

func (p *Parser) isMatch(tt token.TokenType) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) consume(tt token.TokenType, what string) (token.Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	cur := p.cur()
	return cur, NewSyntaxError(cur.Line, cur.Column, fmt.Sprintf("expected %s, got %q", what, cur.Lexeme))
}

func (p *Parser) errorAt(tok token.Token, msg string) error {
	return NewSyntaxError(tok.Line, tok.Column, msg)
}

// Errors returns every syntax error collected during Parse, in source
// order.
func (p *Parser) Errors() []error {
	return p.errors
}

// Parse consumes the entire token stream, returning every top-level
// statement it could recover a complete parse for. Parsing never stops at
// the first error: it resynchronizes at the next statement boundary and
// continues, so a single file can report more than one mistake at once.
func (p *Parser) Parse() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.isFinished() {
		stmt, err := p.topLevel()
		if err != nil {
			p.errors = append(p.errors, err)
			p.synchronize()
			continue
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}

// synchronize discards tokens until it reaches a plausible statement
// boundary, so Parse can keep looking for further errors.
func (p *Parser) synchronize() {
	for !p.isFinished() {
		t := p.advance()
		if t.Type == token.SEMICOLON || t.Type == token.RCUR {
			return
		}
		switch p.cur().Type {
		case token.VCL, token.INCLUDE, token.IMPORT, token.SUBROUTINE, token.ACL, token.GLOBAL:
			return
		}
	}
}

func (p *Parser) topLevel() (ast.Stmt, error) {
	switch p.cur().Type {
	case token.VCL:
		return p.vclStmt()
	case token.INCLUDE:
		return p.includeStmt()
	case token.IMPORT:
		return p.importStmt()
	case token.SUBROUTINE:
		return p.subStmt()
	case token.ACL:
		return p.aclStmt()
	case token.GLOBAL:
		return p.globalStmt()
	case token.IDENTIFIER:
		if p.peekAt(1).Type == token.IDENTIFIER {
			return p.extensionInstanceStmt()
		}
	}
	cur := p.cur()
	return nil, p.errorAt(cur, fmt.Sprintf("expected a top-level declaration, got %q", cur.Lexeme))
}

func (p *Parser) vclStmt() (ast.Stmt, error) {
	p.advance() // VCL
	version := p.advance()
	if version.Type != token.FLOAT && version.Type != token.INT {
		return nil, p.errorAt(version, "expected a version number after 'vcl'")
	}
	if _, err := p.consume(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	return p.arena.VclStmt(ast.VclStmt{Version: version}), nil
}

func (p *Parser) includeStmt() (ast.Stmt, error) {
	p.advance() // INCLUDE
	path, err := p.consume(token.STRING, "a string path")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	return p.arena.IncludeStmt(ast.IncludeStmt{Path: path}), nil
}

func (p *Parser) importStmt() (ast.Stmt, error) {
	p.advance() // IMPORT
	name, err := p.consume(token.IDENTIFIER, "a module name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	return p.arena.ImportStmt(ast.ImportStmt{Name: name}), nil
}

func (p *Parser) subStmt() (ast.Stmt, error) {
	p.advance() // SUB
	name, err := p.consume(token.IDENTIFIER, "a subroutine name")
	if err != nil {
		return nil, err
	}
	// The parameter list is optional: `sub name { … }` declares a
	// parameterless sub just like `sub name() { … }`.
	var params []token.Token
	if p.isMatch(token.LPA) {
		if !p.check(token.RPA) {
			for {
				param, err := p.consume(token.IDENTIFIER, "a parameter name")
				if err != nil {
					return nil, err
				}
				params = append(params, param)
				if !p.isMatch(token.COMMA) {
					break
				}
			}
		}
		if _, err := p.consume(token.RPA, "')'"); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.LCUR, "'{'"); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return p.arena.SubStmt(ast.SubStmt{Name: name, Params: params, Body: body}), nil
}

func (p *Parser) aclStmt() (ast.Stmt, error) {
	p.advance() // ACL
	name, err := p.consume(token.IDENTIFIER, "an acl name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LCUR, "'{'"); err != nil {
		return nil, err
	}
	var patterns []ast.AclPattern
	for !p.check(token.RCUR) && !p.isFinished() {
		negated := p.isMatch(token.BANG)
		patternTok, err := p.consume(token.STRING, "an IP pattern")
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.SEMICOLON, "';'"); err != nil {
			return nil, err
		}
		patterns = append(patterns, ast.AclPattern{Negated: negated, Pattern: patternTok})
	}
	if _, err := p.consume(token.RCUR, "'}'"); err != nil {
		return nil, err
	}
	return p.arena.AclStmt(ast.AclStmt{Name: name, Patterns: patterns}), nil
}

func (p *Parser) globalStmt() (ast.Stmt, error) {
	p.advance() // GLOBAL
	name, err := p.consume(token.IDENTIFIER, "a global name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.ASSIGN, "'='"); err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	return p.arena.GlobalStmt(ast.GlobalStmt{Name: name, Value: value}), nil
}

func (p *Parser) extensionInstanceStmt() (ast.Stmt, error) {
	typeName := p.advance()
	name, err := p.consume(token.IDENTIFIER, "an instance name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LCUR, "'{'"); err != nil {
		return nil, err
	}
	fields, err := p.extensionFields()
	if err != nil {
		return nil, err
	}
	init := p.arena.ExtensionLiteral(ast.ExtensionLiteral{TypeName: typeName, Fields: fields})
	return p.arena.ExtensionInstanceStmt(ast.ExtensionInstanceStmt{TypeName: typeName, Name: name, Init: init}), nil
}

func (p *Parser) extensionFields() ([]ast.ExtensionField, error) {
	var fields []ast.ExtensionField
	for !p.check(token.RCUR) && !p.isFinished() {
		if _, err := p.consume(token.DOT, "'.'"); err != nil {
			return nil, err
		}
		name, err := p.consume(token.IDENTIFIER, "a field name")
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.ASSIGN, "'='"); err != nil {
			return nil, err
		}
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.SEMICOLON, "';'"); err != nil {
			return nil, err
		}
		fields = append(fields, ast.ExtensionField{Name: name, Value: value})
	}
	if _, err := p.consume(token.RCUR, "'}'"); err != nil {
		return nil, err
	}
	return fields, nil
}

// block parses `{ stmt* }`, having already consumed the opening `{`.
func (p *Parser) block() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for !p.check(token.RCUR) && !p.isFinished() {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.consume(token.RCUR, "'}'"); err != nil {
		return nil, err
	}
	return stmts, nil
}

// chunkOrStmt parses either a `{ … }` block or a single bare statement,
// as required after `if`/`elif`/`else`/`for` conditions.
func (p *Parser) chunkOrStmt() ([]ast.Stmt, error) {
	if p.isMatch(token.LCUR) {
		return p.block()
	}
	stmt, err := p.statement()
	if err != nil {
		return nil, err
	}
	return []ast.Stmt{stmt}, nil
}

func (p *Parser) statement() (ast.Stmt, error) {
	switch p.cur().Type {
	case token.SET:
		return p.setStmt()
	case token.UNSET:
		return p.unsetStmt()
	case token.DECLARE:
		return p.declareStmt()
	case token.NEW:
		return p.newStmt()
	case token.RETURN:
		return p.returnStmt()
	case token.IF:
		return p.ifStmt()
	case token.FOR:
		return p.forStmt()
	case token.BREAK:
		return p.breakStmt()
	case token.CONTINUE:
		return p.continueStmt()
	case token.CALL:
		return p.callStmt()
	case token.LCUR:
		p.advance()
		stmts, err := p.block()
		if err != nil {
			return nil, err
		}
		// A bare nested block has no dedicated node; fold it into an
		// if(true) so it still composes with the Stmt interface.
		return p.arena.IfStmt(ast.IfStmt{
			Cond: p.arena.Literal(ast.Literal{Value: true}),
			Then: stmts,
		}), nil
	default:
		return p.expressionStmt()
	}
}

func (p *Parser) setStmt() (ast.Stmt, error) {
	p.advance() // SET
	target, err := p.assignTarget()
	if err != nil {
		return nil, err
	}
	opTok := p.cur()
	if !assignOps[opTok.Type] {
		return nil, p.errorAt(opTok, "expected an assignment operator")
	}
	p.advance()
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	return p.arena.SetStmt(ast.SetStmt{Target: target, Operator: opTok, Value: value}), nil
}

func (p *Parser) unsetStmt() (ast.Stmt, error) {
	p.advance() // UNSET
	target, err := p.assignTarget()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	return p.arena.UnsetStmt(ast.UnsetStmt{Target: target}), nil
}

func (p *Parser) declareStmt() (ast.Stmt, error) {
	p.advance() // DECLARE
	name, err := p.consume(token.IDENTIFIER, "a local name")
	if err != nil {
		return nil, err
	}
	var init ast.Expression
	if p.isMatch(token.ASSIGN) {
		init, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	return p.arena.DeclareStmt(ast.DeclareStmt{Name: name, Initializer: init}), nil
}

func (p *Parser) newStmt() (ast.Stmt, error) {
	p.advance() // NEW
	name, err := p.consume(token.IDENTIFIER, "a local name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.ASSIGN, "'='"); err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	return p.arena.NewStmt(ast.NewStmt{Name: name, Value: value}), nil
}

func (p *Parser) returnStmt() (ast.Stmt, error) {
	p.advance() // RETURN
	if p.isMatch(token.SEMICOLON) {
		return p.arena.ReturnStmt(ast.ReturnStmt{Kind: ast.ReturnBare}), nil
	}
	if p.isMatch(token.LCUR) {
		if p.isMatch(token.RCUR) {
			if _, err := p.consume(token.SEMICOLON, "';'"); err != nil {
				return nil, err
			}
			return p.arena.ReturnStmt(ast.ReturnStmt{Kind: ast.ReturnChunk}), nil
		}
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RCUR, "'}'"); err != nil {
			return nil, err
		}
		if _, err := p.consume(token.SEMICOLON, "';'"); err != nil {
			return nil, err
		}
		return p.arena.ReturnStmt(ast.ReturnStmt{Kind: ast.ReturnChunk, Value: value}), nil
	}
	if _, err := p.consume(token.LPA, "'(', '{' or ';' after return"); err != nil {
		return nil, err
	}
	stmt := ast.ReturnStmt{Kind: ast.ReturnAction}
	if p.cur().Type == token.IDENTIFIER && actionCodes[p.cur().Lexeme] && p.peekAt(1).Type == token.RPA {
		stmt.Action = p.advance()
	} else {
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		stmt.Value = value
	}
	if _, err := p.consume(token.RPA, "')'"); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	return p.arena.ReturnStmt(stmt), nil
}

func (p *Parser) ifStmt() (ast.Stmt, error) {
	p.advance() // IF
	if _, err := p.consume(token.LPA, "'('"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPA, "')'"); err != nil {
		return nil, err
	}
	then, err := p.chunkOrStmt()
	if err != nil {
		return nil, err
	}
	var elifs []ast.ElifClause
	for p.check(token.ELSEIF) {
		p.advance()
		if _, err := p.consume(token.LPA, "'('"); err != nil {
			return nil, err
		}
		elifCond, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RPA, "')'"); err != nil {
			return nil, err
		}
		elifBody, err := p.chunkOrStmt()
		if err != nil {
			return nil, err
		}
		elifs = append(elifs, ast.ElifClause{Cond: elifCond, Body: elifBody})
	}
	var elseBody []ast.Stmt
	if p.isMatch(token.ELSE) {
		elseBody, err = p.chunkOrStmt()
		if err != nil {
			return nil, err
		}
	}
	return p.arena.IfStmt(ast.IfStmt{Cond: cond, Then: then, Elifs: elifs, Else: elseBody}), nil
}

func (p *Parser) forStmt() (ast.Stmt, error) {
	p.advance() // FOR
	if _, err := p.consume(token.LPA, "'('"); err != nil {
		return nil, err
	}
	first, err := p.consume(token.IDENTIFIER, "a loop variable name")
	if err != nil {
		return nil, err
	}
	var second token.Token
	if p.isMatch(token.COMMA) {
		second, err = p.consume(token.IDENTIFIER, "a second loop variable name")
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.COLON, "':'"); err != nil {
		return nil, err
	}
	iterable, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPA, "')'"); err != nil {
		return nil, err
	}
	p.loopDepth++
	body, err := p.chunkOrStmt()
	p.loopDepth--
	if err != nil {
		return nil, err
	}
	return p.arena.ForStmt(ast.ForStmt{KeyName: first, ValueName: second, Iterable: iterable, Body: body}), nil
}

func (p *Parser) breakStmt() (ast.Stmt, error) {
	tok := p.advance() // BREAK
	if p.loopDepth == 0 {
		return nil, p.errorAt(tok, "'break' is only valid inside a 'for' loop")
	}
	if _, err := p.consume(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	return p.arena.BreakStmt(ast.BreakStmt{Token: tok}), nil
}

func (p *Parser) continueStmt() (ast.Stmt, error) {
	tok := p.advance() // CONTINUE
	if p.loopDepth == 0 {
		return nil, p.errorAt(tok, "'continue' is only valid inside a 'for' loop")
	}
	if _, err := p.consume(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	return p.arena.ContinueStmt(ast.ContinueStmt{Token: tok}), nil
}

func (p *Parser) callStmt() (ast.Stmt, error) {
	p.advance() // CALL
	name, err := p.consume(token.IDENTIFIER, "a subroutine name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LPA, "'('"); err != nil {
		return nil, err
	}
	args, err := p.argList()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPA, "')'"); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	return p.arena.CallStmt(ast.CallStmt{Name: name, Args: args}), nil
}

func (p *Parser) expressionStmt() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	return p.arena.ExpressionStmt(ast.ExpressionStmt{Expression: expr}), nil
}

// assignTarget parses the assignable subset of expressions: a variable
// followed by any chain of property/attribute/index accesses.
func (p *Parser) assignTarget() (ast.Expression, error) {
	name, err := p.consume(token.IDENTIFIER, "an assignment target")
	if err != nil {
		return nil, err
	}
	return p.postfixChain(p.arena.Variable(ast.Variable{Name: name}))
}

func (p *Parser) argList() ([]ast.Expression, error) {
	var args []ast.Expression
	if p.check(token.RPA) {
		return args, nil
	}
	for {
		arg, err := p.expression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.isMatch(token.COMMA) {
			break
		}
	}
	return args, nil
}

// Expression grammar: seven precedence levels (spec.md §4.3), lowest to
// highest: or, and, equality (including match/not-match), relational,
// additive, multiplicative, unary — then postfix access and primary.

func (p *Parser) expression() (ast.Expression, error) {
	return p.or()
}

func (p *Parser) or() (ast.Expression, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.check(token.OR) {
		op := p.advance()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = p.arena.Logical(ast.Logical{Left: left, Operator: op, Right: right})
	}
	return left, nil
}

func (p *Parser) and() (ast.Expression, error) {
	left, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.check(token.AND) {
		op := p.advance()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		left = p.arena.Logical(ast.Logical{Left: left, Operator: op, Right: right})
	}
	return left, nil
}

var equalityOps = map[token.TokenType]bool{
	token.EQUAL_EQUAL: true, token.NOT_EQUAL: true, token.MATCH: true, token.NOT_MATCH: true,
}

func (p *Parser) equality() (ast.Expression, error) {
	left, err := p.relational()
	if err != nil {
		return nil, err
	}
	for equalityOps[p.cur().Type] {
		op := p.advance()
		right, err := p.relational()
		if err != nil {
			return nil, err
		}
		left = p.arena.Binary(ast.Binary{Left: left, Operator: op, Right: right})
	}
	return left, nil
}

var relationalOps = map[token.TokenType]bool{
	token.LESS: true, token.LESS_EQUAL: true, token.LARGER: true, token.LARGER_EQUAL: true,
}

func (p *Parser) relational() (ast.Expression, error) {
	left, err := p.additive()
	if err != nil {
		return nil, err
	}
	for relationalOps[p.cur().Type] {
		op := p.advance()
		right, err := p.additive()
		if err != nil {
			return nil, err
		}
		left = p.arena.Binary(ast.Binary{Left: left, Operator: op, Right: right})
	}
	return left, nil
}

func (p *Parser) additive() (ast.Expression, error) {
	left, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == token.ADD || p.cur().Type == token.SUB {
		op := p.advance()
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		left = p.arena.Binary(ast.Binary{Left: left, Operator: op, Right: right})
	}
	return left, nil
}

func (p *Parser) multiplicative() (ast.Expression, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == token.MUL || p.cur().Type == token.DIV || p.cur().Type == token.MOD {
		op := p.advance()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = p.arena.Binary(ast.Binary{Left: left, Operator: op, Right: right})
	}
	return left, nil
}

func (p *Parser) unary() (ast.Expression, error) {
	if p.cur().Type == token.BANG || p.cur().Type == token.SUB || p.cur().Type == token.ADD {
		op := p.advance()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return p.arena.Unary(ast.Unary{Operator: op, Right: right}), nil
	}
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	return p.postfixChain(expr)
}

// postfixChain applies any run of `.name`, `:name`, `[index]`, and
// `(args)` suffixes to expr.
func (p *Parser) postfixChain(expr ast.Expression) (ast.Expression, error) {
	for {
		switch p.cur().Type {
		case token.DOT:
			p.advance()
			name, err := p.consume(token.IDENTIFIER, "a property name")
			if err != nil {
				return nil, err
			}
			expr = p.arena.PropertyAccess(ast.PropertyAccess{Receiver: expr, Name: name})
		case token.COLON:
			p.advance()
			name := p.advanceExtended()
			if name.Type != token.IDENTIFIER {
				return nil, p.errorAt(name, "expected an attribute name after ':'")
			}
			expr = p.arena.AttributeAccess(ast.AttributeAccess{Receiver: expr, Name: name})
		case token.LBRK:
			p.advance()
			idx, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(token.RBRK, "']'"); err != nil {
				return nil, err
			}
			expr = p.arena.IndexAccess(ast.IndexAccess{Receiver: expr, Index: idx})
		case token.LPA:
			p.advance()
			args, err := p.argList()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(token.RPA, "')'"); err != nil {
				return nil, err
			}
			expr = p.arena.CallExpr(ast.CallExpr{Callee: expr, Args: args})
		default:
			return expr, nil
		}
	}
}

func (p *Parser) primary() (ast.Expression, error) {
	tok := p.cur()
	switch tok.Type {
	case token.TRUE:
		p.advance()
		return p.arena.Literal(ast.Literal{Value: true, Token: tok}), nil
	case token.FALSE:
		p.advance()
		return p.arena.Literal(ast.Literal{Value: false, Token: tok}), nil
	case token.NULL:
		p.advance()
		return p.arena.Literal(ast.Literal{Value: nil, Token: tok}), nil
	case token.INT, token.FLOAT, token.STRING, token.SIZE, token.DURATION:
		p.advance()
		return p.arena.Literal(ast.Literal{Value: tok.Literal, Token: tok}), nil
	case token.ISTR_BEGIN:
		p.advance()
		return p.interpolatedString()
	case token.LBRK:
		p.advance()
		return p.listLiteral()
	case token.LCUR:
		p.advance()
		return p.dictLiteral()
	case token.IF:
		p.advance()
		return p.ternary()
	case token.LPA:
		p.advance()
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RPA, "')'"); err != nil {
			return nil, err
		}
		return p.arena.Grouping(ast.Grouping{Inner: inner}), nil
	case token.IDENTIFIER:
		p.advance()
		if p.check(token.LCUR) {
			p.advance()
			fields, err := p.extensionFields()
			if err != nil {
				return nil, err
			}
			return p.arena.ExtensionLiteral(ast.ExtensionLiteral{TypeName: tok, Fields: fields}), nil
		}
		return p.arena.Variable(ast.Variable{Name: tok}), nil
	}
	return nil, p.errorAt(tok, fmt.Sprintf("unexpected token %q in expression", tok.Lexeme))
}

func (p *Parser) ternary() (ast.Expression, error) {
	if _, err := p.consume(token.LPA, "'('"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.COMMA, "','"); err != nil {
		return nil, err
	}
	then, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.COMMA, "','"); err != nil {
		return nil, err
	}
	els, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPA, "')'"); err != nil {
		return nil, err
	}
	return p.arena.Ternary(ast.Ternary{Cond: cond, Then: then, Else: els}), nil
}

func (p *Parser) listLiteral() (ast.Expression, error) {
	var elements []ast.Expression
	if !p.check(token.RBRK) {
		for {
			el, err := p.expression()
			if err != nil {
				return nil, err
			}
			elements = append(elements, el)
			if !p.isMatch(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RBRK, "']'"); err != nil {
		return nil, err
	}
	return p.arena.ListLiteral(ast.ListLiteral{Elements: elements}), nil
}

func (p *Parser) dictLiteral() (ast.Expression, error) {
	var entries []ast.DictEntry
	if !p.check(token.RCUR) {
		for {
			keyTok := p.cur()
			if keyTok.Type != token.STRING && keyTok.Type != token.IDENTIFIER {
				return nil, p.errorAt(keyTok, "expected a dict key")
			}
			p.advance()
			key := p.arena.Literal(ast.Literal{Value: keyTok.Lexeme, Token: keyTok})
			if keyTok.Type == token.STRING {
				key.Value = keyTok.Literal
			}
			if _, err := p.consume(token.COLON, "':'"); err != nil {
				return nil, err
			}
			value, err := p.expression()
			if err != nil {
				return nil, err
			}
			entries = append(entries, ast.DictEntry{Key: key, Value: value})
			if !p.isMatch(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RCUR, "'}'"); err != nil {
		return nil, err
	}
	return p.arena.DictLiteral(ast.DictLiteral{Entries: entries}), nil
}

func (p *Parser) interpolatedString() (ast.Expression, error) {
	var segments []string
	var exprs []ast.Expression
	for {
		seg, err := p.consume(token.ISTR_SEGMENT, "a string segment")
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg.Literal.(string))
		if p.isMatch(token.ISTR_END) {
			break
		}
		if _, err := p.consume(token.INTERP_BEGIN, "'${'"); err != nil {
			return nil, err
		}
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.INTERP_END, "'}'"); err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return p.arena.InterpolatedString(ast.InterpolatedString{Segments: segments, Exprs: exprs}), nil
}
