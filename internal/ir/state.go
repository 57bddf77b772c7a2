package ir

import "github.com/modellang/smtts-compiler/internal/names"

// StateNode is a node of the rose-tree state hierarchy. The three variants
// are Group (interior), Var (state-variable leaf) and Chan (channel leaf).
type StateNode interface {
	Segment() string
	isStateNode()
}

// Group is an interior node; no two children may share a Segment.
type Group struct {
	Seg      string
	Children []StateNode
}

func (g *Group) Segment() string { return g.Seg }
func (*Group) isStateNode()      {}

// Var is a state-variable leaf: a name and its initial value.
type Var struct {
	Seg  string
	Init Const
}

func (v *Var) Segment() string { return v.Seg }
func (*Var) isStateNode()      {}

// Chan is a channel leaf. The channel's full descriptor (writer, reader,
// numeric id) lives in the owning Program's channel list, keyed by ID;
// the leaf itself only needs enough to place it in the hierarchy.
type Chan struct {
	Seg      string
	ElemType PrimType
	ID       int
}

func (c *Chan) Segment() string { return c.Seg }
func (*Chan) isStateNode()      {}

// Walk visits every node of the hierarchy in pre-order, passing each
// node's fully-qualified name (built by scoping segments with "!", rooted
// at root). This is the traversal C4 (state-type synthesis) and C5
// (initial-state predicate) both use, so that the two are guaranteed to
// enumerate variables in the same order (P6).
func Walk(root StateNode, rootName names.Name, visit func(qualified names.Name, n StateNode)) {
	var walk func(n StateNode, qn names.Name)
	walk = func(n StateNode, qn names.Name) {
		visit(qn, n)
		if g, ok := n.(*Group); ok {
			for _, c := range g.Children {
				walk(c, names.Scope(qn, c.Segment()))
			}
		}
	}
	walk(root, rootName)
}
