package parser

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/xlab/treeprint"

	"github.com/hollow-vm/vclvm/ast"
	"github.com/hollow-vm/vclvm/token"
)

// jsonPrinter renders an AST into a JSON-friendly tree of maps and
// slices, one visitor method per node kind.
type jsonPrinter struct{}

func (p jsonPrinter) VisitBinary(n *ast.Binary) any {
	return map[string]any{"type": "Binary", "op": n.Operator.Lexeme, "left": n.Left.Accept(p), "right": n.Right.Accept(p)}
}

func (p jsonPrinter) VisitLogical(n *ast.Logical) any {
	return map[string]any{"type": "Logical", "op": n.Operator.Lexeme, "left": n.Left.Accept(p), "right": n.Right.Accept(p)}
}

func (p jsonPrinter) VisitUnary(n *ast.Unary) any {
	return map[string]any{"type": "Unary", "op": n.Operator.Lexeme, "right": n.Right.Accept(p)}
}

func (p jsonPrinter) VisitTernary(n *ast.Ternary) any {
	return map[string]any{"type": "Ternary", "cond": n.Cond.Accept(p), "then": n.Then.Accept(p), "else": n.Else.Accept(p)}
}

func (p jsonPrinter) VisitLiteral(n *ast.Literal) any {
	return map[string]any{"type": "Literal", "value": n.Value}
}

func (p jsonPrinter) VisitGrouping(n *ast.Grouping) any {
	return map[string]any{"type": "Grouping", "inner": n.Inner.Accept(p)}
}

func (p jsonPrinter) VisitVariable(n *ast.Variable) any {
	return map[string]any{"type": "Variable", "name": n.Name.Lexeme}
}

func (p jsonPrinter) VisitListLiteral(n *ast.ListLiteral) any {
	elems := make([]any, len(n.Elements))
	for i, e := range n.Elements {
		elems[i] = e.Accept(p)
	}
	return map[string]any{"type": "ListLiteral", "elements": elems}
}

func (p jsonPrinter) VisitDictLiteral(n *ast.DictLiteral) any {
	entries := make([]any, len(n.Entries))
	for i, e := range n.Entries {
		entries[i] = map[string]any{"key": e.Key.Accept(p), "value": e.Value.Accept(p)}
	}
	return map[string]any{"type": "DictLiteral", "entries": entries}
}

func (p jsonPrinter) VisitExtensionLiteral(n *ast.ExtensionLiteral) any {
	fields := make([]any, len(n.Fields))
	for i, f := range n.Fields {
		fields[i] = map[string]any{"name": f.Name.Lexeme, "value": f.Value.Accept(p)}
	}
	return map[string]any{"type": "ExtensionLiteral", "typeName": n.TypeName.Lexeme, "fields": fields}
}

func (p jsonPrinter) VisitPropertyAccess(n *ast.PropertyAccess) any {
	return map[string]any{"type": "PropertyAccess", "receiver": n.Receiver.Accept(p), "name": n.Name.Lexeme}
}

func (p jsonPrinter) VisitAttributeAccess(n *ast.AttributeAccess) any {
	return map[string]any{"type": "AttributeAccess", "receiver": n.Receiver.Accept(p), "name": n.Name.Lexeme}
}

func (p jsonPrinter) VisitIndexAccess(n *ast.IndexAccess) any {
	return map[string]any{"type": "IndexAccess", "receiver": n.Receiver.Accept(p), "index": n.Index.Accept(p)}
}

func (p jsonPrinter) VisitCallExpr(n *ast.CallExpr) any {
	args := make([]any, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.Accept(p)
	}
	return map[string]any{"type": "CallExpr", "callee": n.Callee.Accept(p), "args": args}
}

func (p jsonPrinter) VisitInterpolatedString(n *ast.InterpolatedString) any {
	exprs := make([]any, len(n.Exprs))
	for i, e := range n.Exprs {
		exprs[i] = e.Accept(p)
	}
	return map[string]any{"type": "InterpolatedString", "segments": n.Segments, "exprs": exprs}
}

func (p jsonPrinter) VisitVclStmt(n *ast.VclStmt) any {
	return map[string]any{"type": "VclStmt", "version": n.Version.Lexeme}
}

func (p jsonPrinter) VisitIncludeStmt(n *ast.IncludeStmt) any {
	return map[string]any{"type": "IncludeStmt", "path": n.Path.Literal}
}

func (p jsonPrinter) VisitImportStmt(n *ast.ImportStmt) any {
	return map[string]any{"type": "ImportStmt", "name": n.Name.Lexeme}
}

func (p jsonPrinter) VisitSubStmt(n *ast.SubStmt) any {
	return map[string]any{"type": "SubStmt", "name": n.Name.Lexeme, "params": tokenNames(n.Params), "body": p.stmts(n.Body)}
}

func (p jsonPrinter) VisitAclStmt(n *ast.AclStmt) any {
	patterns := make([]any, len(n.Patterns))
	for i, pat := range n.Patterns {
		patterns[i] = map[string]any{"negated": pat.Negated, "pattern": pat.Pattern.Lexeme}
	}
	return map[string]any{"type": "AclStmt", "name": n.Name.Lexeme, "patterns": patterns}
}

func (p jsonPrinter) VisitGlobalStmt(n *ast.GlobalStmt) any {
	return map[string]any{"type": "GlobalStmt", "name": n.Name.Lexeme, "value": n.Value.Accept(p)}
}

func (p jsonPrinter) VisitExtensionInstanceStmt(n *ast.ExtensionInstanceStmt) any {
	return map[string]any{"type": "ExtensionInstanceStmt", "typeName": n.TypeName.Lexeme, "name": n.Name.Lexeme, "init": n.Init.Accept(p)}
}

func (p jsonPrinter) VisitSetStmt(n *ast.SetStmt) any {
	return map[string]any{"type": "SetStmt", "target": n.Target.Accept(p), "op": n.Operator.Lexeme, "value": n.Value.Accept(p)}
}

func (p jsonPrinter) VisitUnsetStmt(n *ast.UnsetStmt) any {
	return map[string]any{"type": "UnsetStmt", "target": n.Target.Accept(p)}
}

func (p jsonPrinter) VisitDeclareStmt(n *ast.DeclareStmt) any {
	return map[string]any{"type": "DeclareStmt", "name": n.Name.Lexeme, "initializer": nilOrAcceptExpr(n.Initializer, p)}
}

func (p jsonPrinter) VisitNewStmt(n *ast.NewStmt) any {
	return map[string]any{"type": "NewStmt", "name": n.Name.Lexeme, "value": n.Value.Accept(p)}
}

func (p jsonPrinter) VisitReturnStmt(n *ast.ReturnStmt) any {
	return map[string]any{"type": "ReturnStmt", "kind": n.Kind, "value": nilOrAcceptExpr(n.Value, p), "action": n.Action.Lexeme}
}

func (p jsonPrinter) VisitIfStmt(n *ast.IfStmt) any {
	elifs := make([]any, len(n.Elifs))
	for i, e := range n.Elifs {
		elifs[i] = map[string]any{"cond": e.Cond.Accept(p), "body": p.stmts(e.Body)}
	}
	return map[string]any{"type": "IfStmt", "cond": n.Cond.Accept(p), "then": p.stmts(n.Then), "elifs": elifs, "else": p.stmts(n.Else)}
}

func (p jsonPrinter) VisitForStmt(n *ast.ForStmt) any {
	return map[string]any{"type": "ForStmt", "key": n.KeyName.Lexeme, "value": n.ValueName.Lexeme, "iterable": n.Iterable.Accept(p), "body": p.stmts(n.Body)}
}

func (p jsonPrinter) VisitBreakStmt(n *ast.BreakStmt) any { return map[string]any{"type": "BreakStmt"} }

func (p jsonPrinter) VisitContinueStmt(n *ast.ContinueStmt) any {
	return map[string]any{"type": "ContinueStmt"}
}

func (p jsonPrinter) VisitCallStmt(n *ast.CallStmt) any {
	args := make([]any, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.Accept(p)
	}
	return map[string]any{"type": "CallStmt", "name": n.Name.Lexeme, "args": args}
}

func (p jsonPrinter) VisitExpressionStmt(n *ast.ExpressionStmt) any {
	return map[string]any{"type": "ExpressionStmt", "expression": n.Expression.Accept(p)}
}

func (p jsonPrinter) stmts(ss []ast.Stmt) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s.Accept(p)
	}
	return out
}

func nilOrAcceptExpr(e ast.Expression, v ast.ExpressionVisitor) any {
	if e == nil {
		return nil
	}
	return e.Accept(v)
}

func tokenNames(toks []token.Token) []string {
	names := make([]string, len(toks))
	for i, t := range toks {
		names[i] = t.Lexeme
	}
	return names
}

// PrintJSON renders stmts as an indented JSON document, mirroring the
// teacher's PrintASTJSON but over the full VCL node set.
func PrintJSON(stmts []ast.Stmt) (string, error) {
	p := jsonPrinter{}
	out := make([]any, len(stmts))
	for i, s := range stmts {
		out[i] = s.Accept(p)
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// treePrinter renders the same AST as a treeprint.Tree, for a more
// scannable interactive dump than the JSON form. Numeric literals
// route through go-humanize so a bare `declare big = 10000000;` reads
// as "10,000,000" instead of a long unbroken digit run.
type treePrinter struct{}

func humanizeLiteral(v any) string {
	switch x := v.(type) {
	case int64:
		return humanize.Comma(x)
	case float64:
		return fmt.Sprintf("%g", x)
	case token.SizeParts:
		bytes := x.B + x.KB*1024 + x.MB*1024*1024 + x.GB*1024*1024*1024
		return humanize.Bytes(uint64(bytes))
	default:
		return fmt.Sprintf("%v", x)
	}
}

func (p treePrinter) expr(tree treeprint.Tree, e ast.Expression) {
	switch n := e.(type) {
	case *ast.Binary:
		b := tree.AddBranch(n.Operator.Lexeme)
		p.expr(b, n.Left)
		p.expr(b, n.Right)
	case *ast.Logical:
		b := tree.AddBranch(n.Operator.Lexeme)
		p.expr(b, n.Left)
		p.expr(b, n.Right)
	case *ast.Unary:
		b := tree.AddBranch("unary " + n.Operator.Lexeme)
		p.expr(b, n.Right)
	case *ast.Ternary:
		b := tree.AddBranch("if(...)")
		p.expr(b.AddBranch("cond"), n.Cond)
		p.expr(b.AddBranch("then"), n.Then)
		p.expr(b.AddBranch("else"), n.Else)
	case *ast.Literal:
		tree.AddNode(humanizeLiteral(n.Value))
	case *ast.Grouping:
		p.expr(tree.AddBranch("(…)"), n.Inner)
	case *ast.Variable:
		tree.AddNode("var " + n.Name.Lexeme)
	case *ast.ListLiteral:
		b := tree.AddBranch(fmt.Sprintf("list[%d]", len(n.Elements)))
		for _, el := range n.Elements {
			p.expr(b, el)
		}
	case *ast.DictLiteral:
		b := tree.AddBranch(fmt.Sprintf("dict{%d}", len(n.Entries)))
		for _, entry := range n.Entries {
			e := b.AddBranch("entry")
			p.expr(e.AddBranch("key"), entry.Key)
			p.expr(e.AddBranch("value"), entry.Value)
		}
	case *ast.ExtensionLiteral:
		b := tree.AddBranch(n.TypeName.Lexeme + "{}")
		for _, f := range n.Fields {
			p.expr(b.AddBranch("."+f.Name.Lexeme), f.Value)
		}
	case *ast.PropertyAccess:
		b := tree.AddBranch("." + n.Name.Lexeme)
		p.expr(b, n.Receiver)
	case *ast.AttributeAccess:
		b := tree.AddBranch(":" + n.Name.Lexeme)
		p.expr(b, n.Receiver)
	case *ast.IndexAccess:
		b := tree.AddBranch("[]")
		p.expr(b.AddBranch("receiver"), n.Receiver)
		p.expr(b.AddBranch("index"), n.Index)
	case *ast.CallExpr:
		b := tree.AddBranch("call")
		p.expr(b.AddBranch("callee"), n.Callee)
		for _, a := range n.Args {
			p.expr(b.AddBranch("arg"), a)
		}
	case *ast.InterpolatedString:
		b := tree.AddBranch("interpolated")
		for _, e := range n.Exprs {
			p.expr(b, e)
		}
	default:
		tree.AddNode(fmt.Sprintf("%T", e))
	}
}

func (p treePrinter) stmt(tree treeprint.Tree, s ast.Stmt) {
	switch n := s.(type) {
	case *ast.VclStmt:
		tree.AddNode("vcl " + n.Version.Lexeme)
	case *ast.IncludeStmt:
		tree.AddNode("include " + strconv.Quote(fmt.Sprint(n.Path.Literal)))
	case *ast.ImportStmt:
		tree.AddNode("import " + n.Name.Lexeme)
	case *ast.SubStmt:
		b := tree.AddBranch(fmt.Sprintf("sub %s(%s)", n.Name.Lexeme, paramList(n.Params)))
		p.stmts(b, n.Body)
	case *ast.AclStmt:
		b := tree.AddBranch("acl " + n.Name.Lexeme)
		for _, pat := range n.Patterns {
			label := pat.Pattern.Lexeme
			if pat.Negated {
				label = "!" + label
			}
			b.AddNode(label)
		}
	case *ast.GlobalStmt:
		b := tree.AddBranch("global " + n.Name.Lexeme)
		p.expr(b, n.Value)
	case *ast.ExtensionInstanceStmt:
		b := tree.AddBranch(n.TypeName.Lexeme + " " + n.Name.Lexeme)
		p.expr(b, n.Init)
	case *ast.SetStmt:
		b := tree.AddBranch("set " + n.Operator.Lexeme)
		p.expr(b.AddBranch("target"), n.Target)
		p.expr(b.AddBranch("value"), n.Value)
	case *ast.UnsetStmt:
		p.expr(tree.AddBranch("unset"), n.Target)
	case *ast.DeclareStmt:
		b := tree.AddBranch("declare " + n.Name.Lexeme)
		if n.Initializer != nil {
			p.expr(b, n.Initializer)
		}
	case *ast.NewStmt:
		b := tree.AddBranch("new " + n.Name.Lexeme)
		p.expr(b, n.Value)
	case *ast.ReturnStmt:
		b := tree.AddBranch("return")
		if n.Value != nil {
			p.expr(b, n.Value)
		}
	case *ast.IfStmt:
		b := tree.AddBranch("if")
		p.expr(b.AddBranch("cond"), n.Cond)
		p.stmts(b.AddBranch("then"), n.Then)
		for _, e := range n.Elifs {
			eb := b.AddBranch("elif")
			p.expr(eb.AddBranch("cond"), e.Cond)
			p.stmts(eb.AddBranch("body"), e.Body)
		}
		if n.Else != nil {
			p.stmts(b.AddBranch("else"), n.Else)
		}
	case *ast.ForStmt:
		label := n.KeyName.Lexeme
		if n.ValueName.Lexeme != "" {
			label += ", " + n.ValueName.Lexeme
		}
		b := tree.AddBranch("for " + label)
		p.expr(b.AddBranch("iterable"), n.Iterable)
		p.stmts(b.AddBranch("body"), n.Body)
	case *ast.BreakStmt:
		tree.AddNode("break")
	case *ast.ContinueStmt:
		tree.AddNode("continue")
	case *ast.CallStmt:
		b := tree.AddBranch("call " + n.Name.Lexeme)
		for _, a := range n.Args {
			p.expr(b, a)
		}
	case *ast.ExpressionStmt:
		p.expr(tree, n.Expression)
	default:
		tree.AddNode(fmt.Sprintf("%T", s))
	}
}

func (p treePrinter) stmts(tree treeprint.Tree, ss []ast.Stmt) {
	for _, s := range ss {
		p.stmt(tree, s)
	}
}

func paramList(params []token.Token) string {
	s := ""
	for i, p := range params {
		if i > 0 {
			s += ", "
		}
		s += p.Lexeme
	}
	return s
}

// PrintTree renders stmts as a treeprint.Tree string, for interactive
// debugging where the JSON form's nesting is hard to scan.
func PrintTree(stmts []ast.Stmt) string {
	root := treeprint.New()
	treePrinter{}.stmts(root, stmts)
	return root.String()
}
