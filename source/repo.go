// Package source implements the source repository and compilation-unit
// assembly stage that runs between parsing and compilation. It resolves
// and caches included files, detects include cycles, and flattens a
// program's statements into one ordered list with same-named `sub`
// declarations grouped into a single list the compiler emits as one
// concatenated procedure.
package source

import (
	"fmt"
	"path/filepath"

	"github.com/hollow-vm/vclvm/ast"
	"github.com/hollow-vm/vclvm/fold"
	"github.com/hollow-vm/vclvm/lexer"
	"github.com/hollow-vm/vclvm/parser"
)

// Loader reads the file at path and reports whether it exists. It is the
// host's one collaboration point with the repo: everything above it
// (filesystem, embedded bundle, network fetch) is the embedder's choice.
type Loader func(path string) (string, bool)

const defaultMaxInclude = 64

// Repo loads, parses, and caches source files on demand, honoring a
// caller-supplied search-path list for relative include resolution.
type Repo struct {
	loader        Loader
	searchPaths   []string
	allowAbsolute bool
	maxInclude    int

	arena *ast.Arena
	seed  *parser.NameSeed

	cache map[string][]ast.Stmt
}

// NewRepo returns a Repo that reads files through loader. Nodes are
// allocated from arena so the whole compilation shares one arena
// lifetime; seed is threaded through the parser for deterministic
// fresh-name generation across every file the repo parses.
func NewRepo(loader Loader, arena *ast.Arena, seed *parser.NameSeed) *Repo {
	return &Repo{
		loader:     loader,
		maxInclude: defaultMaxInclude,
		arena:      arena,
		seed:       seed,
		cache:      make(map[string][]ast.Stmt),
	}
}

// AddSearchPath appends a folder hint tried, in the order added, when
// resolving a relative include path. This generalizes the single
// folder-hint the original implementation took to a list, without
// changing the single-path behavior when only one is added.
func (r *Repo) AddSearchPath(path string) {
	r.searchPaths = append(r.searchPaths, path)
}

// SetMaxIncludeDepth overrides the default include-nesting ceiling.
func (r *Repo) SetMaxIncludeDepth(n int) {
	r.maxInclude = n
}

// AllowAbsolutePaths controls whether an `include` naming an absolute
// path is permitted. Disabled by default.
func (r *Repo) AllowAbsolutePaths(allow bool) {
	r.allowAbsolute = allow
}

// resolveAndLoad finds the file named by path — trying it verbatim, then
// under each search path, unless it's absolute — parses it if not
// already cached, and returns its resolved (cache-key) path and parsed
// statements.
func (r *Repo) resolveAndLoad(path string) (string, []ast.Stmt, error) {
	if filepath.IsAbs(path) {
		if !r.allowAbsolute {
			return "", nil, fmt.Errorf("absolute include path %q is not allowed", path)
		}
		return r.loadCandidate(path)
	}

	candidates := make([]string, 0, len(r.searchPaths)+1)
	candidates = append(candidates, path)
	for _, base := range r.searchPaths {
		candidates = append(candidates, filepath.Join(base, path))
	}

	for _, c := range candidates {
		if stmts, ok := r.cache[c]; ok {
			return c, stmts, nil
		}
	}
	for _, c := range candidates {
		if src, ok := r.loader(c); ok {
			stmts, err := r.parse(c, src)
			return c, stmts, err
		}
	}
	return "", nil, fmt.Errorf("could not resolve include %q (tried %d candidate path(s))", path, len(candidates))
}

func (r *Repo) loadCandidate(resolved string) (string, []ast.Stmt, error) {
	if stmts, ok := r.cache[resolved]; ok {
		return resolved, stmts, nil
	}
	src, ok := r.loader(resolved)
	if !ok {
		return "", nil, fmt.Errorf("could not load %q", resolved)
	}
	stmts, err := r.parse(resolved, src)
	return resolved, stmts, err
}

func (r *Repo) parse(resolved, src string) ([]ast.Stmt, error) {
	lex := lexer.New(src)
	p := parser.New(lex, r.arena, r.seed)
	stmts := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", resolved, errs[0])
	}

	folder := fold.New(r.arena)
	stmts = folder.Program(stmts)
	if errs := folder.Errors(); len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", resolved, errs[0])
	}

	r.cache[resolved] = stmts
	return stmts, nil
}
