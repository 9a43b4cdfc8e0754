package value

import "fmt"

// Invoker runs a compiled procedure by index, supplied by the runtime
// so SubRoutine.Invoke can call back into the VM without this package
// depending on it directly.
type Invoker interface {
	InvokeProcedure(procIndex int, args []Value) (Value, Status, error)
}

// SubRoutine is a runtime handle to a compiled Procedure: bytecode
// body plus arity, reached through the owning Invoker rather than a
// direct reference (spec.md §3).
type SubRoutine struct {
	BaseObject
	Name       string
	ProcIndex  int
	ParamCount int
	invoker    Invoker
}

// NewSubRoutine allocates a SubRoutine tracked by collector, bound to
// proc index procIndex and dispatched through invoker.
func NewSubRoutine(collector *Collector, invoker Invoker, name string, procIndex, paramCount int) *SubRoutine {
	s := &SubRoutine{Name: name, ProcIndex: procIndex, ParamCount: paramCount, invoker: invoker}
	collector.Track(s)
	return s
}

func (s *SubRoutine) Type() TypeTag            { return TagSubRoutine }
func (s *SubRoutine) DoMark(mark func(Object)) {}
func (s *SubRoutine) ToDisplay() string        { return fmt.Sprintf("sub %s", s.Name) }

func (s *SubRoutine) Invoke(args []Value) (Value, Status, error) {
	if len(args) != s.ParamCount {
		return nil, StatusFailed, fmt.Errorf("%s expects %d argument(s), got %d", s.Name, s.ParamCount, len(args))
	}
	if s.invoker == nil {
		return nil, StatusUnimplemented, nil
	}
	return s.invoker.InvokeProcedure(s.ProcIndex, args)
}
