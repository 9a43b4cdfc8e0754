package value

import "fmt"

// AclPattern is one compiled line of an `acl` block: a negation flag
// plus the raw CIDR/host pattern text. The micro-op IP matching itself
// lives in the acl package; this type is the wire shape OpLoadAcl
// constructs its runtime Acl value from.
type AclPattern struct {
	Negated bool
	Pattern string
}

// Matcher tests an address string against one compiled AclPattern. Acl
// delegates to it rather than parsing patterns itself, keeping the IP
// arithmetic out of this package (mirrors how String delegates regex
// matching to Regexer).
type Matcher interface {
	Contains(pattern AclPattern, addr string) (bool, error)
}

// DefaultMatcher is set by the acl package's init or by host.Engine
// configuration; an Acl built before one is installed reports
// StatusUnimplemented on Contains.
var DefaultMatcher Matcher

// Acl is a precompiled sequence of IP match programs (spec.md §3,
// §4.11). Patterns are tested in order; the first match (possibly
// negated) decides membership, matching typical ACL short-circuit
// semantics.
type Acl struct {
	BaseObject
	Name     string
	Patterns []AclPattern
	matcher  Matcher
}

// NewAcl allocates an Acl tracked by collector. A nil matcher falls
// back to DefaultMatcher.
func NewAcl(collector *Collector, name string, patterns []AclPattern, matcher Matcher) *Acl {
	if matcher == nil {
		matcher = DefaultMatcher
	}
	v := &Acl{Name: name, Patterns: patterns, matcher: matcher}
	collector.Track(v)
	return v
}

func (a *Acl) Type() TypeTag          { return TagAcl }
func (a *Acl) DoMark(mark func(Object)) {}
func (a *Acl) ToBoolean() bool         { return true }
func (a *Acl) ToDisplay() string      { return fmt.Sprintf("acl %s", a.Name) }

// Contains reports whether addr matches this ACL: patterns are tried
// in declaration order and the first match wins, inverted if the
// pattern was negated.
func (a *Acl) Contains(addr string) (bool, Status, error) {
	if a.matcher == nil {
		return false, StatusUnimplemented, nil
	}
	for _, p := range a.Patterns {
		ok, err := a.matcher.Contains(p, addr)
		if err != nil {
			return false, StatusFailed, err
		}
		if ok {
			return !p.Negated, StatusOK, nil
		}
	}
	return false, StatusOK, nil
}

// Match lets an Acl be used as the right-hand side of `~`, e.g.
// `if (client.ip ~ internal)`.
func (a *Acl) Match(rhs Value) (bool, Status, error) {
	addr, ok := stringKey(rhs)
	if !ok {
		return false, StatusUnimplemented, nil
	}
	return a.Contains(addr)
}

func (a *Acl) NotMatch(rhs Value) (bool, Status, error) {
	ok, status, err := a.Match(rhs)
	if status != StatusOK {
		return false, status, err
	}
	return !ok, StatusOK, nil
}
