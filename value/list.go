package value

import "fmt"

// DefaultMaxListLen is the compile-time-configurable cap spec.md §3
// assigns List (default 262,144 elements).
const DefaultMaxListLen = 262144

// List is an ordered, bounded sequence of Values (spec.md §3).
type List struct {
	BaseObject
	elems  []Value
	maxLen int
}

// NewList allocates a List tracked by collector. maxLen <= 0 uses
// DefaultMaxListLen.
func NewList(collector *Collector, maxLen int, elems ...Value) *List {
	if maxLen <= 0 {
		maxLen = DefaultMaxListLen
	}
	v := &List{elems: append([]Value(nil), elems...), maxLen: maxLen}
	collector.Track(v)
	return v
}

func (l *List) Type() TypeTag { return TagList }

func (l *List) DoMark(mark func(Object)) {
	for _, v := range l.elems {
		if obj, ok := v.(Object); ok {
			mark(obj)
		}
	}
}

func (l *List) Len() int { return len(l.elems) }

func (l *List) Push(v Value) error {
	if len(l.elems) >= l.maxLen {
		return fmt.Errorf("list exceeds maximum length %d", l.maxLen)
	}
	l.elems = append(l.elems, v)
	return nil
}

func (l *List) Pop() (Value, bool) {
	if len(l.elems) == 0 {
		return nil, false
	}
	n := len(l.elems) - 1
	v := l.elems[n]
	l.elems = l.elems[:n]
	return v, true
}

func (l *List) ToBoolean() bool   { return len(l.elems) > 0 }
func (l *List) ToDisplay() string { return fmt.Sprintf("list(%d)", len(l.elems)) }

func (l *List) GetIndex(index Value) (Value, Status, error) {
	n, ok := index.(int32)
	if !ok {
		return nil, StatusUnimplemented, nil
	}
	if n < 0 || int(n) >= len(l.elems) {
		return nil, StatusFailed, fmt.Errorf("list index %d out of range", n)
	}
	return l.elems[n], StatusOK, nil
}

func (l *List) SetIndex(index Value, v Value) (Status, error) {
	n, ok := index.(int32)
	if !ok {
		return StatusUnimplemented, nil
	}
	if n < 0 || int(n) >= len(l.elems) {
		return StatusFailed, fmt.Errorf("list index %d out of range", n)
	}
	l.elems[n] = v
	return StatusOK, nil
}

func (l *List) Unset(kind UnsetKind, key Value) (Status, error) {
	if kind != UnsetIndex {
		return StatusUnimplemented, nil
	}
	n, ok := key.(int32)
	if !ok || n < 0 || int(n) >= len(l.elems) {
		return StatusFailed, fmt.Errorf("list index out of range")
	}
	l.elems = append(l.elems[:n], l.elems[n+1:]...)
	return StatusOK, nil
}

type listIterator struct {
	BaseObject
	list *List
	pos  int
}

func (it *listIterator) Type() TypeTag { return TagIterator }
func (it *listIterator) DoMark(mark func(Object)) {
	mark(it.list)
}
func (it *listIterator) Next() (key, val Value, ok bool) {
	if it.pos >= len(it.list.elems) {
		return nil, nil, false
	}
	k := int32(it.pos)
	v := it.list.elems[it.pos]
	it.pos++
	return k, v, true
}

func (l *List) NewIterator() (Iterator, error) {
	return &listIterator{list: l}, nil
}
