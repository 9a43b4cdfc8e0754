package acl

import (
	"net/netip"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/hollow-vm/vclvm/value"
)

// Engine is a value.Matcher backed by a cache of compiled patterns:
// CIDR patterns (`10.0.0.0/8`) resolve through netip.Prefix.Contains,
// plain addresses compare for equality, and anything containing `*`
// or a `[lo-hi]` component compiles to the micro-op program in
// program.go. Patterns are compiled once and kept for the Engine's
// lifetime, since an ACL's pattern list is fixed at compile time and
// reused across every request a Context evaluates.
type Engine struct {
	mu    sync.Mutex
	cache map[string]compiled
}

type compiled struct {
	prefix  netip.Prefix
	addr    netip.Addr
	program *program
	kind    patternKind
}

type patternKind uint8

const (
	kindPrefix patternKind = iota
	kindAddr
	kindWildcard
)

// New returns an empty Engine, ready to use as a value.Matcher.
func New() *Engine {
	return &Engine{cache: make(map[string]compiled)}
}

// Default is installed as value.DefaultMatcher by this package's
// init, so an Acl built before host.Engine wires its own Matcher still
// has working Contains/Match semantics.
var Default = New()

func init() {
	value.DefaultMatcher = Default
}

// Contains implements value.Matcher.
func (e *Engine) Contains(pattern value.AclPattern, addr string) (bool, error) {
	c, err := e.compile(pattern.Pattern)
	if err != nil {
		return false, err
	}
	target, err := parseAddr(addr)
	if err != nil {
		return false, err
	}
	switch c.kind {
	case kindPrefix:
		return c.prefix.Contains(target), nil
	case kindAddr:
		return c.addr == target, nil
	case kindWildcard:
		return c.program.match(target), nil
	default:
		return false, errors.Errorf("acl: unreachable pattern kind %d", c.kind)
	}
}

func (e *Engine) compile(pattern string) (compiled, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if c, ok := e.cache[pattern]; ok {
		return c, nil
	}
	c, err := compilePattern(pattern)
	if err != nil {
		return compiled{}, errors.Wrapf(err, "acl: compiling pattern %q", pattern)
	}
	e.cache[pattern] = c
	return c, nil
}

// unwrapBracketedLiteral strips a convenience `[addr]` or `[addr]/len`
// wrapping around a plain IPv6 literal, the bracket form commonly used
// to set off an IPv6 address from a following "/prefix" or port. A
// per-component range like `[1-5].0.0.0` is left alone: its bracketed
// content contains a `-` (or `*`), which a whole-address literal never
// does.
func unwrapBracketedLiteral(pattern string) string {
	if !strings.HasPrefix(pattern, "[") {
		return pattern
	}
	end := strings.Index(pattern, "]")
	if end < 0 {
		return pattern
	}
	inner := pattern[1:end]
	if strings.ContainsAny(inner, "-*") {
		return pattern
	}
	rest := pattern[end+1:]
	if rest != "" && !strings.HasPrefix(rest, "/") {
		return pattern
	}
	return inner + rest
}

func compilePattern(pattern string) (compiled, error) {
	pattern = unwrapBracketedLiteral(pattern)
	if strings.ContainsAny(pattern, "*[") {
		prog, err := compileWildcard(pattern)
		if err != nil {
			return compiled{}, err
		}
		return compiled{kind: kindWildcard, program: prog}, nil
	}
	if strings.Contains(pattern, "/") {
		prefix, err := netip.ParsePrefix(pattern)
		if err != nil {
			return compiled{}, errors.Wrapf(err, "invalid CIDR pattern")
		}
		if !allowedMaskLength(prefix) {
			return compiled{}, errors.Errorf("CIDR pattern %q has an unsupported netmask length", pattern)
		}
		return compiled{kind: kindPrefix, prefix: prefix}, nil
	}
	addr, err := parseAddr(pattern)
	if err != nil {
		return compiled{}, err
	}
	return compiled{kind: kindAddr, addr: addr}, nil
}

// allowedMaskLength restricts CIDR netmasks to the byte/nibble-aligned
// widths the pattern grammar enumerates: whole octets for IPv4 and
// whole 16-bit groups for IPv6. net/netip itself accepts any width,
// so this rejects patterns such as "10.0.0.0/12" or "2001:db8::/24"
// that netip would otherwise happily compile.
func allowedMaskLength(prefix netip.Prefix) bool {
	bits := prefix.Bits()
	if prefix.Addr().Is4() {
		switch bits {
		case 8, 16, 24, 32:
			return true
		}
		return false
	}
	switch bits {
	case 16, 32, 48, 64, 80, 96, 112, 128:
		return true
	}
	return false
}

func parseAddr(s string) (netip.Addr, error) {
	s = unwrapBracketedLiteral(s)
	if s == "localhost" {
		return netip.MustParseAddr("127.0.0.1"), nil
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, errors.Wrapf(err, "invalid IP address %q", s)
	}
	return addr, nil
}
