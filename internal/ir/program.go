package ir

import "github.com/modellang/smtts-compiler/internal/names"

// Program is the external interface the translator consumes from the
// elaborator (§6). The translator never constructs one itself except in
// tests; in production it arrives already built, whether from an in-process
// elaborator or decoded off the wire (internal/wire).
type Program interface {
	System() names.Name
	Hierarchy() StateNode
	Expressions() *UeMap
	Rules() []Rule
	Channels() []ChannelDescriptor
}

// Elaborated is the straightforward in-memory Program implementation used
// by tests, the CLI's fixture loader and the wire decoder.
type Elaborated struct {
	SystemName  names.Name
	Root        StateNode
	Exprs       *UeMap
	RuleList    []Rule
	ChannelList []ChannelDescriptor
}

func (e *Elaborated) System() names.Name                { return e.SystemName }
func (e *Elaborated) Hierarchy() StateNode               { return e.Root }
func (e *Elaborated) Expressions() *UeMap                { return e.Exprs }
func (e *Elaborated) Rules() []Rule                      { return e.RuleList }
func (e *Elaborated) Channels() []ChannelDescriptor       { return e.ChannelList }
