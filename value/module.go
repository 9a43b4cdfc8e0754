package value

import "fmt"

// Module is a read-only name->value mapping registered at the engine
// or context level (spec.md §3); properties resolve via GetProperty
// only, there is no SetProperty.
type Module struct {
	BaseObject
	Name    string
	members map[string]Value
}

// NewModule allocates a Module tracked by collector.
func NewModule(collector *Collector, name string, members map[string]Value) *Module {
	m := &Module{Name: name, members: members}
	collector.Track(m)
	return m
}

func (m *Module) Type() TypeTag          { return TagModule }
func (m *Module) DoMark(mark func(Object)) {
	for _, v := range m.members {
		if obj, ok := v.(Object); ok {
			mark(obj)
		}
	}
}
func (m *Module) ToDisplay() string { return fmt.Sprintf("module %s", m.Name) }

func (m *Module) GetProperty(name string) (Value, Status, error) {
	v, ok := m.members[name]
	if !ok {
		return nil, StatusFailed, fmt.Errorf("module %s has no member %q", m.Name, name)
	}
	return v, StatusOK, nil
}
