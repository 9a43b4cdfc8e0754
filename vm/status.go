package vm

import "github.com/hollow-vm/vclvm/value"

// RunStatus is the outcome of a Start/Resume call (spec.md §4.9).
type RunStatus uint8

const (
	// RunOK: the entry procedure ran to completion without an
	// explicit term and without yielding. Rare in practice since every
	// compiled procedure ends in an implicit OpTerm.
	RunOK RunStatus = iota
	// RunYield: the instruction budget was exhausted or a host
	// function yielded; Resume continues from exactly this point.
	RunYield
	// RunTerminated: a `term` instruction ran, clearing all frames.
	RunTerminated
	// RunFailed: a runtime error unwound the current instruction.
	RunFailed
)

// RunResult is returned by Start/Resume. Action and ActionValue are
// only meaningful when Status is RunTerminated; Err is only
// meaningful when Status is RunFailed.
type RunResult struct {
	Status      RunStatus
	Action      value.ActionCode
	ActionValue value.Value
	Err         error
}
