// Package config collects every caller-tunable knob the engine exposes,
// rather than scattering default constants across compiler/, vm/, and
// source/. A host builds one Options value and hands it to host.New;
// every package that needs a tunable reads it from there instead of a
// hardcoded constant the way the teacher does.
package config

import "github.com/hollow-vm/vclvm/value"

const (
	// DefaultListMaxLength bounds a single list/dict literal's element
	// count during compilation.
	DefaultListMaxLength = 262144

	// DefaultMaxIncludeDepth mirrors source.Repo's own default, restated
	// here so a host can see and override every ceiling from one place.
	DefaultMaxIncludeDepth = 64

	// DefaultMaxFrameDepth bounds the VM's call-stack depth.
	DefaultMaxFrameDepth = 1000

	// DefaultGCTargetSurvivorRatio and DefaultGCMinimumGap tune when a
	// Context's collector schedules its next cycle (value.
	// NewContextCollector's targetRate/minGap).
	DefaultGCTargetSurvivorRatio = 0.5
	DefaultGCMinimumGap          = 1024

	// DefaultInstructionBudget bounds a single Start/Resume call's
	// instruction count before it forces a yield. Negative means
	// unlimited.
	DefaultInstructionBudget = -1
)

// Options collects every tunable a host.Engine or host.Context needs.
// The zero value is invalid; use New to get one seeded with defaults.
type Options struct {
	ListMaxLength         int
	MaxIncludeDepth       int
	MaxFrameDepth         int
	GCTargetSurvivorRatio float64
	GCMinimumGap          int
	InstructionBudget     int

	// Regexer backs every value.String's Match/NotMatch; defaults to
	// value.DefaultRegexer (stdlib regexp). Set to plug in regexp2, RE2,
	// PCRE, or any other engine satisfying value.Regexer.
	Regexer value.Regexer
}

// New returns Options seeded with every documented default.
func New() Options {
	return Options{
		ListMaxLength:         DefaultListMaxLength,
		MaxIncludeDepth:       DefaultMaxIncludeDepth,
		MaxFrameDepth:         DefaultMaxFrameDepth,
		GCTargetSurvivorRatio: DefaultGCTargetSurvivorRatio,
		GCMinimumGap:          DefaultGCMinimumGap,
		InstructionBudget:     DefaultInstructionBudget,
		Regexer:               value.DefaultRegexer,
	}
}
