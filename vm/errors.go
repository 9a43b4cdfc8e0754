package vm

import "fmt"

// RuntimeError is a failure raised while executing a single
// instruction (spec.md §4.9's "Error reporting"): the pc stays frozen
// on the offending instruction and the message carries a formatted
// trace built from the frame stack at the point of failure.
type RuntimeError struct {
	Message string
	Trace   string
}

func (e RuntimeError) Error() string {
	if e.Trace == "" {
		return fmt.Sprintf("💥 RuntimeError: %s", e.Message)
	}
	return fmt.Sprintf("💥 RuntimeError: %s\n%s", e.Message, e.Trace)
}

// DeveloperError marks a VM invariant violation (a malformed
// CompiledCode, a stack-discipline bug) rather than a script-level
// failure.
type DeveloperError struct {
	Message string
}

func (e DeveloperError) Error() string {
	return fmt.Sprintf("🤖 DeveloperError: %s", e.Message)
}
