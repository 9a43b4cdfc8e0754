package value

import (
	"fmt"
	"regexp"
)

// Regexer compiles and matches a pattern against a string, injected so
// the regex engine is a host/config concern rather than a hard
// dependency of this package (spec.md §1's "regex engine selection" is
// left to the embedder).
type Regexer interface {
	Match(pattern, input string) (bool, error)
}

// stdRegexer backs Regexer with the standard library, the default
// supplied by host.Engine when the embedder configures nothing else.
type stdRegexer struct{}

func (stdRegexer) Match(pattern, input string) (bool, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(input), nil
}

// DefaultRegexer is the Regexer used when no host override is
// configured.
var DefaultRegexer Regexer = stdRegexer{}

// String is the only heap type the immutable collector manages
// directly (literal strings live in a Procedure's constant pool).
// Match/NotMatch hand the pattern to its Regexer on every call; the
// default stdRegexer compiles it each time and caches nothing.
type String struct {
	BaseObject
	s       string
	regexer Regexer
}

// NewString allocates a String tracked by collector.
func NewString(collector *Collector, s string) *String {
	v := &String{s: s, regexer: DefaultRegexer}
	collector.Track(v)
	return v
}

func (s *String) Type() TypeTag { return TagString }

// Raw returns the underlying Go string.
func (s *String) Raw() string { return s.s }

func (s *String) DoMark(mark func(Object)) {}

func (s *String) ToString() (string, error) { return s.s, nil }
func (s *String) ToBoolean() bool           { return s.s != "" }
func (s *String) ToDisplay() string         { return s.s }

func (s *String) ToInteger() (int32, error) {
	var n int64
	if _, err := fmt.Sscanf(s.s, "%d", &n); err != nil {
		return 0, fmt.Errorf("cannot convert %q to integer", s.s)
	}
	return int32(n), nil
}

func (s *String) ToReal() (float64, error) {
	var f float64
	if _, err := fmt.Sscanf(s.s, "%g", &f); err != nil {
		return 0, fmt.Errorf("cannot convert %q to real", s.s)
	}
	return f, nil
}

func (s *String) Add(rhs Value) (Value, Status, error) {
	other, ok := rhs.(*String)
	if !ok {
		return nil, StatusUnimplemented, nil
	}
	return s.s + other.s, StatusOK, nil
}

func (s *String) Equals(rhs Value) (bool, Status, error) {
	other, ok := rhs.(*String)
	if !ok {
		return false, StatusUnimplemented, nil
	}
	return s.s == other.s, StatusOK, nil
}

func (s *String) Compare(rhs Value) (int, Status, error) {
	other, ok := rhs.(*String)
	if !ok {
		return 0, StatusUnimplemented, nil
	}
	switch {
	case s.s < other.s:
		return -1, StatusOK, nil
	case s.s > other.s:
		return 1, StatusOK, nil
	default:
		return 0, StatusOK, nil
	}
}

func (s *String) patternOf(rhs Value) (string, bool) {
	switch p := rhs.(type) {
	case *String:
		return p.s, true
	case string:
		return p, true
	default:
		return "", false
	}
}

func (s *String) Match(rhs Value) (bool, Status, error) {
	pattern, ok := s.patternOf(rhs)
	if !ok {
		return false, StatusUnimplemented, nil
	}
	ok, err := s.regexer.Match(pattern, s.s)
	if err != nil {
		return false, StatusFailed, err
	}
	return ok, StatusOK, nil
}

func (s *String) NotMatch(rhs Value) (bool, Status, error) {
	ok, status, err := s.Match(rhs)
	if status != StatusOK {
		return false, status, err
	}
	return !ok, StatusOK, nil
}

func (s *String) GetIndex(index Value) (Value, Status, error) {
	n, ok := index.(int32)
	if !ok || n < 0 || int(n) >= len(s.s) {
		return nil, StatusFailed, fmt.Errorf("string index out of range")
	}
	return string(s.s[n]), StatusOK, nil
}
