package value

import (
	"fmt"
	"strconv"
)

// TypeOf reports v's dynamic TypeTag.
func TypeOf(v Value) TypeTag {
	switch v.(type) {
	case int32:
		return TagInteger
	case float64:
		return TagReal
	case bool:
		return TagBoolean
	case nil:
		return TagNull
	case Size:
		return TagSize
	case Duration:
		return TagDuration
	case Object:
		return v.(Object).Type()
	default:
		return TagNull
	}
}

// ToBoolean converts v per spec.md §4.7: every primitive is truthy
// except boolean false, integer/real zero, and null; heap objects
// delegate to their own ToBoolean.
func ToBoolean(v Value) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int32:
		return x != 0
	case float64:
		return x != 0
	case Object:
		return x.ToBoolean()
	default:
		return true
	}
}

// ToDisplay renders v for diagnostics and the `debug` opcode.
func ToDisplay(v Value) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case Size:
		return fmt.Sprintf("%db", x.Bytes())
	case Duration:
		return fmt.Sprintf("%dms", x.Millis())
	case Object:
		return x.ToDisplay()
	default:
		return fmt.Sprintf("%v", x)
	}
}

// numeric is a primitive arithmetic operand, normalized out of the
// int32/float64/bool trio. isReal distinguishes the int-vs-real result
// channel the promotion table needs.
type numeric struct {
	i      int64
	r      float64
	isReal bool
}

func toNumeric(v Value) (numeric, bool) {
	switch x := v.(type) {
	case int32:
		return numeric{i: int64(x)}, true
	case bool:
		if x {
			return numeric{i: 1}, true
		}
		return numeric{i: 0}, true
	case float64:
		return numeric{r: x, isReal: true}, true
	default:
		return numeric{}, false
	}
}

func (n numeric) asReal() float64 {
	if n.isReal {
		return n.r
	}
	return float64(n.i)
}

// arith applies one of the four promotable binary operators per
// spec.md §4.7's table: int⊕int stays int, any real operand promotes
// the whole operation to real, booleans contribute 0/1 (or 0.0/1.0
// under promotion). Heap operands delegate to the Object capability
// instead, handled by the caller before arith is reached.
func arith(op byte, lhs, rhs Value) (Value, Status, error) {
	ln, lok := toNumeric(lhs)
	rn, rok := toNumeric(rhs)
	if !lok || !rok {
		return nil, StatusUnimplemented, nil
	}
	if op == '%' {
		if ln.isReal || rn.isReal {
			return nil, StatusFailed, fmt.Errorf("mod requires integer operands")
		}
		if rn.i == 0 {
			return nil, StatusFailed, fmt.Errorf("modulo by zero")
		}
		return int32(ln.i % rn.i), StatusOK, nil
	}

	real := ln.isReal || rn.isReal
	if real {
		a, b := ln.asReal(), rn.asReal()
		switch op {
		case '+':
			return a + b, StatusOK, nil
		case '-':
			return a - b, StatusOK, nil
		case '*':
			return a * b, StatusOK, nil
		case '/':
			if b == 0 {
				return nil, StatusFailed, fmt.Errorf("division by zero")
			}
			return a / b, StatusOK, nil
		}
	}
	a, b := ln.i, rn.i
	switch op {
	case '+':
		return int32(a + b), StatusOK, nil
	case '-':
		return int32(a - b), StatusOK, nil
	case '*':
		return int32(a * b), StatusOK, nil
	case '/':
		if b == 0 {
			return nil, StatusFailed, fmt.Errorf("division by zero")
		}
		return int32(a / b), StatusOK, nil
	}
	return nil, StatusUnimplemented, nil
}

func asObject(v Value) (Object, bool) {
	obj, ok := v.(Object)
	return obj, ok
}

// Add, Sub, Mul, Div, Mod implement the arithmetic opcode family
// (spec.md §4.9's "Operator opcodes"): a heap left operand delegates
// to its own capability method; otherwise the primitive promotion
// table in arith applies. Neither null, size, nor duration supports
// arithmetic.
func Add(lhs, rhs Value) (Value, Status, error) {
	if obj, ok := asObject(lhs); ok {
		return obj.Add(rhs)
	}
	return arith('+', lhs, rhs)
}

func Sub(lhs, rhs Value) (Value, Status, error) {
	if obj, ok := asObject(lhs); ok {
		return obj.Sub(rhs)
	}
	return arith('-', lhs, rhs)
}

func Mul(lhs, rhs Value) (Value, Status, error) {
	if obj, ok := asObject(lhs); ok {
		return obj.Mul(rhs)
	}
	return arith('*', lhs, rhs)
}

func Div(lhs, rhs Value) (Value, Status, error) {
	if obj, ok := asObject(lhs); ok {
		return obj.Div(rhs)
	}
	return arith('/', lhs, rhs)
}

func Mod(lhs, rhs Value) (Value, Status, error) {
	if obj, ok := asObject(lhs); ok {
		return obj.Mod(rhs)
	}
	return arith('%', lhs, rhs)
}

// Equals implements the `eq`/`ne` family. Null only compares equal to
// null; Size and Duration compare by their normalized magnitude;
// numeric primitives compare across int/real/bool per the same
// promotion rule arithmetic uses.
func Equals(lhs, rhs Value) (bool, Status, error) {
	if obj, ok := asObject(lhs); ok {
		return obj.Equals(rhs)
	}
	if lhs == nil || rhs == nil {
		return lhs == nil && rhs == nil, StatusOK, nil
	}
	if ls, ok := lhs.(Size); ok {
		if rs, ok := rhs.(Size); ok {
			return ls.Bytes() == rs.Bytes(), StatusOK, nil
		}
		return false, StatusUnimplemented, nil
	}
	if ld, ok := lhs.(Duration); ok {
		if rd, ok := rhs.(Duration); ok {
			return ld.Millis() == rd.Millis(), StatusOK, nil
		}
		return false, StatusUnimplemented, nil
	}
	ln, lok := toNumeric(lhs)
	rn, rok := toNumeric(rhs)
	if lok && rok {
		if ln.isReal || rn.isReal {
			return ln.asReal() == rn.asReal(), StatusOK, nil
		}
		return ln.i == rn.i, StatusOK, nil
	}
	if ls, ok := lhs.(string); ok {
		if rs, ok := rhs.(string); ok {
			return ls == rs, StatusOK, nil
		}
	}
	return false, StatusUnimplemented, nil
}

// Compare implements the ordering family (`lt`/`le`/`gt`/`ge`),
// returning -1/0/1. Only numeric primitives (and the normalized Size/
// Duration magnitudes) are ordered; everything else is unimplemented
// and the VM reports a runtime failure.
func Compare(lhs, rhs Value) (int, Status, error) {
	if obj, ok := asObject(lhs); ok {
		return obj.Compare(rhs)
	}
	if ls, ok := lhs.(Size); ok {
		if rs, ok := rhs.(Size); ok {
			return cmpInt64(ls.Bytes(), rs.Bytes()), StatusOK, nil
		}
		return 0, StatusUnimplemented, nil
	}
	if ld, ok := lhs.(Duration); ok {
		if rd, ok := rhs.(Duration); ok {
			return cmpInt64(ld.Millis(), rd.Millis()), StatusOK, nil
		}
		return 0, StatusUnimplemented, nil
	}
	ln, lok := toNumeric(lhs)
	rn, rok := toNumeric(rhs)
	if !lok || !rok {
		return 0, StatusUnimplemented, nil
	}
	if ln.isReal || rn.isReal {
		a, b := ln.asReal(), rn.asReal()
		switch {
		case a < b:
			return -1, StatusOK, nil
		case a > b:
			return 1, StatusOK, nil
		default:
			return 0, StatusOK, nil
		}
	}
	return cmpInt64(ln.i, rn.i), StatusOK, nil
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Match and NotMatch implement the `~`/`!~` operators, delegating to
// the left operand's capability (strings are the only primitive-ish
// type with a Match implementation, via value.String).
func Match(lhs, rhs Value) (bool, Status, error) {
	if obj, ok := asObject(lhs); ok {
		return obj.Match(rhs)
	}
	return false, StatusUnimplemented, nil
}

func NotMatch(lhs, rhs Value) (bool, Status, error) {
	if obj, ok := asObject(lhs); ok {
		return obj.NotMatch(rhs)
	}
	return false, StatusUnimplemented, nil
}
