package value

import "fmt"

// TypeTag identifies a Value's dynamic type, used by ToDisplay, the
// `type` opcode, and GC finalization dispatch.
type TypeTag uint8

const (
	TagInteger TypeTag = iota
	TagReal
	TagBoolean
	TagNull
	TagSize
	TagDuration
	TagString
	TagAcl
	TagList
	TagDict
	TagFunction
	TagExtension
	TagAction
	TagModule
	TagSubRoutine
	TagIterator
)

func (t TypeTag) String() string {
	switch t {
	case TagInteger:
		return "integer"
	case TagReal:
		return "real"
	case TagBoolean:
		return "boolean"
	case TagNull:
		return "null"
	case TagSize:
		return "size"
	case TagDuration:
		return "duration"
	case TagString:
		return "string"
	case TagAcl:
		return "acl"
	case TagList:
		return "list"
	case TagDict:
		return "dict"
	case TagFunction:
		return "function"
	case TagExtension:
		return "extension"
	case TagAction:
		return "action"
	case TagModule:
		return "module"
	case TagSubRoutine:
		return "subroutine"
	case TagIterator:
		return "iterator"
	default:
		return "unknown"
	}
}

// Status is the outcome of a capability call. Unimplemented is
// distinct from Failed: an arithmetic opcode reaching Unimplemented
// reports a VM failure, while Failed already carries a concrete error.
type Status uint8

const (
	StatusOK Status = iota
	StatusUnimplemented
	StatusFailed
)

// Value is any Value/Object variant: the six primitives are carried as
// their native Go type (int32, float64, bool, nil, Size, Duration);
// every heap variant implements Object.
type Value = any

// Object is the capability protocol every heap-allocated Value
// implements, per spec.md §3. Types that don't support a capability
// embed BaseObject, which answers StatusUnimplemented for all of them.
type Object interface {
	gcHeader() *GCHeader
	Type() TypeTag
	DoMark(mark func(Object))

	GetProperty(name string) (Value, Status, error)
	SetProperty(name string, v Value) (Status, error)
	GetAttribute(name string) (Value, Status, error)
	SetAttribute(name string, v Value) (Status, error)
	GetIndex(index Value) (Value, Status, error)
	SetIndex(index Value, v Value) (Status, error)
	Unset(kind UnsetKind, key Value) (Status, error)

	Invoke(args []Value) (Value, Status, error)

	Add(rhs Value) (Value, Status, error)
	Sub(rhs Value) (Value, Status, error)
	Mul(rhs Value) (Value, Status, error)
	Div(rhs Value) (Value, Status, error)
	Mod(rhs Value) (Value, Status, error)

	Match(rhs Value) (bool, Status, error)
	NotMatch(rhs Value) (bool, Status, error)
	Compare(rhs Value) (int, Status, error)
	Equals(rhs Value) (bool, Status, error)

	ToString() (string, error)
	ToBoolean() bool
	ToInteger() (int32, error)
	ToReal() (float64, error)
	ToDisplay() string

	NewIterator() (Iterator, error)
}

// UnsetKind distinguishes the three unset opcode families so one
// Unset method can serve OpPropUnset/OpAttrUnset/OpIndexUnset.
type UnsetKind uint8

const (
	UnsetProperty UnsetKind = iota
	UnsetAttribute
	UnsetIndex
)

// BaseObject implements every Object capability as StatusUnimplemented
// or the zero value, so concrete types only override what they
// actually support (the spec's capability-set model is inherently
// partial per type: a List has no Invoke, a SubRoutine has no index
// access).
type BaseObject struct {
	GCHeader
}

func (BaseObject) GetProperty(name string) (Value, Status, error) { return nil, StatusUnimplemented, nil }
func (BaseObject) SetProperty(name string, v Value) (Status, error) { return StatusUnimplemented, nil }
func (BaseObject) GetAttribute(name string) (Value, Status, error) { return nil, StatusUnimplemented, nil }
func (BaseObject) SetAttribute(name string, v Value) (Status, error) { return StatusUnimplemented, nil }
func (BaseObject) GetIndex(index Value) (Value, Status, error)      { return nil, StatusUnimplemented, nil }
func (BaseObject) SetIndex(index Value, v Value) (Status, error)    { return StatusUnimplemented, nil }
func (BaseObject) Unset(kind UnsetKind, key Value) (Status, error)  { return StatusUnimplemented, nil }

func (BaseObject) Invoke(args []Value) (Value, Status, error) { return nil, StatusUnimplemented, nil }

func (BaseObject) Add(rhs Value) (Value, Status, error) { return nil, StatusUnimplemented, nil }
func (BaseObject) Sub(rhs Value) (Value, Status, error) { return nil, StatusUnimplemented, nil }
func (BaseObject) Mul(rhs Value) (Value, Status, error) { return nil, StatusUnimplemented, nil }
func (BaseObject) Div(rhs Value) (Value, Status, error) { return nil, StatusUnimplemented, nil }
func (BaseObject) Mod(rhs Value) (Value, Status, error) { return nil, StatusUnimplemented, nil }

func (BaseObject) Match(rhs Value) (bool, Status, error)    { return false, StatusUnimplemented, nil }
func (BaseObject) NotMatch(rhs Value) (bool, Status, error) { return false, StatusUnimplemented, nil }
func (BaseObject) Compare(rhs Value) (int, Status, error)   { return 0, StatusUnimplemented, nil }
func (BaseObject) Equals(rhs Value) (bool, Status, error)   { return false, StatusUnimplemented, nil }

func (BaseObject) ToBoolean() bool            { return true }
func (BaseObject) ToInteger() (int32, error)  { return 0, fmt.Errorf("cannot convert to integer") }
func (BaseObject) ToReal() (float64, error)   { return 0, fmt.Errorf("cannot convert to real") }
func (BaseObject) ToString() (string, error)  { return "", fmt.Errorf("no string conversion") }
func (BaseObject) ToDisplay() string          { return "object" }

func (BaseObject) NewIterator() (Iterator, error) {
	return nil, fmt.Errorf("value is not iterable")
}

// Iterator produces a finite sequence of (key, value) pairs, holding a
// strong reference to its container (traced by DoMark) for the
// duration of iteration.
type Iterator interface {
	Object
	Next() (key, val Value, ok bool)
}
