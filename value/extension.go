package value

import "fmt"

// ExtensionType describes a host-registered extension object's shape:
// its name and the set of fields an `lext` literal or `new` statement
// may initialize (spec.md §4.10's ExtensionFactory surface).
type ExtensionType struct {
	Name       string
	FieldNames []string
}

// Extension is a host-defined object instance: a fixed field set
// populated by an extension literal or constructor call, addressed
// through GetProperty/SetProperty like any other heap value.
type Extension struct {
	BaseObject
	Def    *ExtensionType
	fields map[string]Value
}

// NewExtension allocates an Extension tracked by collector.
func NewExtension(collector *Collector, def *ExtensionType) *Extension {
	e := &Extension{Def: def, fields: make(map[string]Value, len(def.FieldNames))}
	collector.Track(e)
	return e
}

func (e *Extension) Type() TypeTag { return TagExtension }
func (e *Extension) DoMark(mark func(Object)) {
	for _, v := range e.fields {
		if obj, ok := v.(Object); ok {
			mark(obj)
		}
	}
}
func (e *Extension) ToDisplay() string { return fmt.Sprintf("%s{}", e.Def.Name) }

func (e *Extension) isField(name string) bool {
	for _, n := range e.Def.FieldNames {
		if n == name {
			return true
		}
	}
	return false
}

func (e *Extension) GetProperty(name string) (Value, Status, error) {
	if !e.isField(name) {
		return nil, StatusFailed, fmt.Errorf("%s has no field %q", e.Def.Name, name)
	}
	return e.fields[name], StatusOK, nil
}

func (e *Extension) SetProperty(name string, v Value) (Status, error) {
	if !e.isField(name) {
		return StatusFailed, fmt.Errorf("%s has no field %q", e.Def.Name, name)
	}
	e.fields[name] = v
	return StatusOK, nil
}
