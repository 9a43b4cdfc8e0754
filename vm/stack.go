package vm

import "github.com/hollow-vm/vclvm/value"

// Stack is the VM's operand stack: every local variable, argument,
// and intermediate expression result lives here (spec.md §4.9).
type Stack []value.Value

func (s *Stack) IsEmpty() bool { return len(*s) == 0 }

func (s *Stack) Len() int { return len(*s) }

func (s *Stack) Push(v value.Value) {
	*s = append(*s, v)
}

func (s *Stack) Pop() value.Value {
	n := len(*s) - 1
	v := (*s)[n]
	*s = (*s)[:n]
	return v
}

// PopN removes and returns the top n values in push order (oldest
// first), used to gather call arguments and interpolated-string
// segments.
func (s *Stack) PopN(n int) []value.Value {
	start := len(*s) - n
	vals := append([]value.Value(nil), (*s)[start:]...)
	*s = (*s)[:start]
	return vals
}

func (s *Stack) Peek() value.Value {
	return (*s)[len(*s)-1]
}

func (s *Stack) At(i int) value.Value {
	return (*s)[i]
}

func (s *Stack) Set(i int, v value.Value) {
	(*s)[i] = v
}

// Truncate resizes the stack down to length n, discarding everything
// above it (used by OpReturn and `term`).
func (s *Stack) Truncate(n int) {
	*s = (*s)[:n]
}
