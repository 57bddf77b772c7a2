package ir

import "github.com/modellang/smtts-compiler/internal/names"

// ChannelDescriptor describes a one-slot mailbox channel. Its id is unique
// across the system; its two state variables (value, ready) are derived
// from Name via the name algebra (names.ChanValueName / ChanReadyName).
type ChannelDescriptor struct {
	ID         int
	Name       names.Name
	ElemType   PrimType
	WriterNode names.Name
	ReaderNode names.Name
}
