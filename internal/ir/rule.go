package ir

import "github.com/modellang/smtts-compiler/internal/names"

// Assignment binds a next-state value for a state-variable target.
type Assignment struct {
	Target names.Name
	Value  Hash
}

// ChannelWrite posts a value to a channel, setting its ready bit. The
// elaborator never produces a rule that both writes and reads the same
// channel in one step (§4.9): writer and reader are distinct rules.
type ChannelWrite struct {
	ChannelID int
	Value     Hash
}

// Rule is an atomic guarded transition fragment: at most one rule fires
// per master step (§5). Reading a channel is not a distinct construct: it
// is an ordinary Assignment whose value is a ChanValueRef expression node,
// paired with an Assignment that clears the channel's ready field (target
// names.ChanReadyName(chan), value a literal false) — both fall out of the
// same frame-condition machinery C6 applies to every other assignment.
type Rule struct {
	ID int
	// NodeName is the qualified name of the node that owns this rule; it
	// seeds the per-rule fault-node input name (§4.1).
	NodeName names.Name
	HasGuard bool
	Guard    Hash
	Assigns  []Assignment
	Writes   []ChannelWrite
	// Used is the transitive closure of hashes reachable from Guard and
	// every assignment/write value (§3: "a set of expression hashes used").
	// It need not be pre-sorted; translation topologically sorts it.
	Used []Hash
}
