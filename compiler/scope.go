package compiler

import "github.com/hollow-vm/vclvm/bytecode"

// Local is one lexically-scoped name bound to an absolute stack slot,
// kept in the shape the teacher's AST compiler used: a flat,
// monotonically-growing slice shared by every nested block in the
// current procedure, pruned by depth on scope exit. Because slots are
// never reused within a procedure until their declaring scope exits,
// a nested block's first local naturally lands at "parent base plus
// parent's local count" without any extra bookkeeping.
type Local struct {
	name        string
	depth       int
	initialized bool
	slot        int
}

// loopScope tracks one `for` loop's pending break/continue labels and
// the local-stack depths to unwind to when either fires. scopeBaseLen
// is before the loop's key/value slots are declared (what `break`
// unwinds to, since leaving the loop drops them too); bodyBaseLen is
// after (what `continue` unwinds to, since the key/value slots are
// reused by the next iteration rather than popped).
type loopScope struct {
	scopeBaseLen int
	bodyBaseLen  int
	breaks       []*bytecode.Label
	continues    []*bytecode.Label
}

// procState holds everything scoped to the procedure currently being
// compiled: its instruction builder and its lexical/loop scope stacks.
// A fresh procState begins whenever the compiler starts a new sub or
// the entry procedure, so locals and loop labels never leak across
// procedure boundaries.
type procState struct {
	builder    *bytecode.Builder
	locals     []Local
	scopeDepth int
	loops      []*loopScope
}

func newProcState() *procState {
	return &procState{builder: bytecode.NewBuilder()}
}

func (p *procState) beginScope() {
	p.scopeDepth++
}

// endScope pops locals declared at or below the scope being exited and
// returns how many there were, for the caller to emit an OpPop of that
// count.
func (p *procState) endScope() int {
	p.scopeDepth--
	count := 0
	for len(p.locals) > 0 && p.locals[len(p.locals)-1].depth > p.scopeDepth {
		p.locals = p.locals[:len(p.locals)-1]
		count++
	}
	return count
}

func (p *procState) declareLocal(name string) (int, error) {
	for i := len(p.locals) - 1; i >= 0; i-- {
		if p.locals[i].depth < p.scopeDepth {
			break
		}
		if p.locals[i].name == name {
			return 0, SemanticError{Message: "redefinition of local '" + name + "' in the same scope"}
		}
	}
	slot := len(p.locals)
	p.locals = append(p.locals, Local{name: name, depth: p.scopeDepth, slot: slot})
	return slot, nil
}

func (p *procState) defineLocal() {
	if len(p.locals) > 0 {
		p.locals[len(p.locals)-1].initialized = true
	}
}

// resolveLocal returns the slot of the nearest-declared local named
// name, or -1 if none is in scope.
func (p *procState) resolveLocal(name string) int {
	for i := len(p.locals) - 1; i >= 0; i-- {
		if p.locals[i].name == name {
			return p.locals[i].slot
		}
	}
	return -1
}

func (p *procState) pushLoop() *loopScope {
	l := &loopScope{scopeBaseLen: len(p.locals)}
	p.loops = append(p.loops, l)
	return l
}

// markBodyBase records the local count once the loop's own key/value
// slots are declared, the base `continue` unwinds to.
func (p *procState) markBodyBase(l *loopScope) {
	l.bodyBaseLen = len(p.locals)
}

func (p *procState) popLoop() {
	p.loops = p.loops[:len(p.loops)-1]
}

func (p *procState) currentLoop() (*loopScope, bool) {
	if len(p.loops) == 0 {
		return nil, false
	}
	return p.loops[len(p.loops)-1], true
}

// localsToUnwindForBreak returns how many locals must be popped to
// unwind from the current point down to the loop's own scope base
// (key/value slots included), before jumping out of the loop.
func (p *procState) localsToUnwindForBreak(loop *loopScope) int {
	return len(p.locals) - loop.scopeBaseLen
}

// localsToUnwindForContinue returns how many locals must be popped to
// unwind down to the loop body's base (key/value slots excluded, since
// the next iteration reuses them), before jumping back to the header.
func (p *procState) localsToUnwindForContinue(loop *loopScope) int {
	return len(p.locals) - loop.bodyBaseLen
}
