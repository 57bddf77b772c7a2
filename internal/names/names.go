// Package names implements the hierarchical name algebra used to derive
// every identifier the translator emits: state variables, channel fields,
// fault inputs and transition names all come out of the same small set of
// combinators so that mangling only has to be applied in one place.
package names

import (
	"strconv"
	"strings"
)

// Name is a rendered, fully-qualified identifier. It is string-equal iff
// its rendered form is equal, and rendering is deterministic.
type Name string

// FromSegment builds a single-segment name, mangling it first.
func FromSegment(segment string) Name {
	return Name(Mangle(segment))
}

// Scope nests a child name under a parent using "!", e.g. for walking into
// a sub-node or into a channel's value/ready fields.
func Scope(parent Name, child string) Name {
	return parent + "!" + Name(Mangle(child))
}

// ScopeName is Scope for when the child is already a Name (used when
// nesting one derived name under another, e.g. the fault-channel input).
func ScopeName(parent, child Name) Name {
	return parent + "!" + child
}

// Suffix derives an artifact name from a base name using "_", e.g. deriving
// "Sys_state_type" from "Sys".
func Suffix(base Name, tag string) Name {
	return base + "_" + Name(Mangle(tag))
}

// Mangle replaces every "." in s with "!", per the name-mangling rule
// required for interop with the downstream checker. It is idempotent:
// Mangle(Mangle(s)) == Mangle(s).
func Mangle(s string) string {
	return strings.ReplaceAll(s, ".", "!")
}

// String renders the name as-is; Name already carries its rendered form.
func (n Name) String() string { return string(n) }

// Derived artifact names, per the name-mangling rules.

func StateTypeName(system Name) Name       { return Suffix(system, "state_type") }
func InitialStateName(system Name) Name    { return Suffix(system, "initial_state") }
func MasterTransitionName(system Name) Name { return Suffix(system, "transition") }

func RuleTransitionName(system Name, ruleID int) Name {
	return Suffix(MasterTransitionName(system), strconv.Itoa(ruleID))
}

func ChanValueName(chanName Name) Name { return Scope(chanName, "var") }
func ChanReadyName(chanName Name) Name { return Scope(chanName, "ready") }

func FaultChanValueName(chanName Name, chanID int) Name {
	return Scope(Scope(chanName, "fault_value"), strconv.Itoa(chanID))
}

func FaultNodeName(nodeName Name, ruleID int) Name {
	return Scope(Scope(nodeName, "faulty_node"), strconv.Itoa(ruleID))
}

// StateRef and NextRef render the state/next-state reference to a variable
// as they appear inside a transition predicate: "state.v" / "next.v". These
// are emission-only syntax, not part of the name algebra proper (the "."
// here is the target format's field-access operator, never mangled).
func StateRef(v Name) string { return "state." + string(v) }
func NextRef(v Name) string  { return "next." + string(v) }
