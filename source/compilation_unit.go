package source

import (
	"fmt"

	"github.com/hollow-vm/vclvm/ast"
)

// UnitStatement is one entry of a flattened compilation unit: either a
// single non-sub top-level statement, or the accumulated SubList for one
// `sub` name. Exactly one of Stmt / SubList is non-nil.
type UnitStatement struct {
	SourceIndex int
	Stmt        ast.Stmt
	SubList     []*ast.SubStmt
}

// CompilationUnit is the flattened, include-expanded, sub-grouped view of
// a program that the compiler walks. SourceFiles[SourceIndex] names the
// file a given statement came from, for diagnostics.
type CompilationUnit struct {
	Statements  []UnitStatement
	SourceFiles []string
}

// Build expands entryPath's includes (recursively, respecting the repo's
// max-include ceiling and rejecting cycles), flattens every file's
// top-level statements in visitation order, and groups same-named subs
// into one SubList each, checked for matching arity and parameter
// spelling across occurrences.
func (r *Repo) Build(entryPath string) (*CompilationUnit, error) {
	b := &unitBuilder{
		repo:          r,
		visiting:      map[string]bool{},
		processed:     map[string]bool{},
		sourceIndexOf: map[string]int{},
		subIndex:      map[string]int{},
	}
	if err := b.visit(entryPath, 0); err != nil {
		return nil, err
	}
	return &CompilationUnit{Statements: b.out, SourceFiles: b.sourceFiles}, nil
}

type unitBuilder struct {
	repo *Repo

	visiting  map[string]bool // resolved path -> currently being expanded (cycle guard)
	processed map[string]bool // resolved path -> already flattened once (diamond include guard)

	sourceFiles   []string
	sourceIndexOf map[string]int

	out      []UnitStatement
	subIndex map[string]int // sub name -> index into out holding its SubList
}

func (b *unitBuilder) visit(path string, depth int) error {
	resolved, stmts, err := b.repo.resolveAndLoad(path)
	if err != nil {
		return err
	}
	if b.visiting[resolved] {
		return fmt.Errorf("include cycle detected at %q", resolved)
	}
	if b.processed[resolved] {
		return nil
	}
	if depth > b.repo.maxInclude {
		return fmt.Errorf("include depth exceeds %d at %q", b.repo.maxInclude, resolved)
	}

	b.visiting[resolved] = true
	defer delete(b.visiting, resolved)

	si, ok := b.sourceIndexOf[resolved]
	if !ok {
		si = len(b.sourceFiles)
		b.sourceFiles = append(b.sourceFiles, resolved)
		b.sourceIndexOf[resolved] = si
	}

	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.IncludeStmt:
			childPath, _ := s.Path.Literal.(string)
			if err := b.visit(childPath, depth+1); err != nil {
				return err
			}
		case *ast.SubStmt:
			if err := b.addSub(s, si); err != nil {
				return err
			}
		default:
			b.out = append(b.out, UnitStatement{SourceIndex: si, Stmt: stmt})
		}
	}

	b.processed[resolved] = true
	return nil
}

func (b *unitBuilder) addSub(s *ast.SubStmt, sourceIndex int) error {
	idx, exists := b.subIndex[s.Name.Lexeme]
	if !exists {
		b.subIndex[s.Name.Lexeme] = len(b.out)
		b.out = append(b.out, UnitStatement{SourceIndex: sourceIndex, SubList: []*ast.SubStmt{s}})
		return nil
	}

	first := b.out[idx].SubList[0]
	firstAt := fmt.Sprintf("%s:%d:%d", b.sourceFiles[b.out[idx].SourceIndex], first.Name.Line, first.Name.Column)
	thisAt := fmt.Sprintf("%s:%d:%d", b.sourceFiles[sourceIndex], s.Name.Line, s.Name.Column)
	if len(first.Params) != len(s.Params) {
		return fmt.Errorf("sub %q redeclared at %s with %d parameter(s), first declared at %s with %d",
			s.Name.Lexeme, thisAt, len(s.Params), firstAt, len(first.Params))
	}
	for i := range first.Params {
		if first.Params[i].Lexeme != s.Params[i].Lexeme {
			return fmt.Errorf("sub %q redeclared at %s with parameter %q, first declared at %s as %q",
				s.Name.Lexeme, thisAt, s.Params[i].Lexeme, firstAt, first.Params[i].Lexeme)
		}
	}
	b.out[idx].SubList = append(b.out[idx].SubList, s)
	return nil
}
