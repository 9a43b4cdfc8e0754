package value

import "fmt"

// ActionCode enumerates the terminal return codes a subroutine body
// can produce (spec.md §3, §6's grammar summary).
type ActionCode uint8

const (
	ActionOK ActionCode = iota
	ActionFail
	ActionPipe
	ActionHash
	ActionPurge
	ActionLookup
	ActionRestart
	ActionFetch
	ActionMiss
	ActionDeliver
	ActionRetry
	ActionAbandon
	ActionExtension
)

var actionNames = map[string]ActionCode{
	"ok":      ActionOK,
	"fail":    ActionFail,
	"pipe":    ActionPipe,
	"hash":    ActionHash,
	"purge":   ActionPurge,
	"lookup":  ActionLookup,
	"restart": ActionRestart,
	"fetch":   ActionFetch,
	"miss":    ActionMiss,
	"deliver": ActionDeliver,
	"retry":   ActionRetry,
	"abandon": ActionAbandon,
}

// ActionCodeByName resolves a `return (name)` lexeme to its ActionCode.
func ActionCodeByName(name string) (ActionCode, bool) {
	c, ok := actionNames[name]
	return c, ok
}

func (c ActionCode) String() string {
	for name, code := range actionNames {
		if code == c {
			return name
		}
	}
	if c == ActionExtension {
		return "extension"
	}
	return "unknown"
}

// Action is the sentinel value a `term` instruction produces: a
// terminal action code, with an optional associated payload for the
// open-ended "extension" slot.
type Action struct {
	BaseObject
	Code    ActionCode
	Payload Value
}

// NewAction allocates an Action tracked by collector.
func NewAction(collector *Collector, code ActionCode, payload Value) *Action {
	a := &Action{Code: code, Payload: payload}
	collector.Track(a)
	return a
}

func (a *Action) Type() TypeTag { return TagAction }
func (a *Action) DoMark(mark func(Object)) {
	if obj, ok := a.Payload.(Object); ok {
		mark(obj)
	}
}
func (a *Action) ToDisplay() string { return fmt.Sprintf("action(%s)", a.Code) }

func (a *Action) Equals(rhs Value) (bool, Status, error) {
	other, ok := rhs.(*Action)
	if !ok {
		return false, StatusUnimplemented, nil
	}
	return a.Code == other.Code, StatusOK, nil
}
