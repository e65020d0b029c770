package tree

import (
	"slices"

	"github.com/matzehuels/bartree/pkg/duration"
	"github.com/matzehuels/bartree/pkg/errors"
	"github.com/matzehuels/bartree/pkg/sequence"
)

// Kind identifies the variant of a Node.
type Kind int

const (
	KindRoot Kind = iota
	KindInternal
	KindLeaf
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindInternal:
		return "internal"
	case KindLeaf:
		return "leaf"
	}
	return "unknown"
}

// Node is a vertex of a rhythm tree. Which fields are meaningful depends on Kind.
type Node struct {
	Kind  Kind
	Label string

	// Span is the written duration in the parent's frame.
	Span duration.Duration

	// Ratio is the tuplet ratio of an internal node.
	Ratio duration.Ratio

	// Time is the bar's time signature (root only).
	Time sequence.TimeSignature

	// Event is the source event of a leaf.
	Event sequence.Event

	// Beam and Accidental are set on the leaves of notation trees.
	Beam       sequence.BeamState
	Accidental any

	parent   *Node
	children []*Node
}

// NewRoot returns a root for a bar of the given length.
func NewRoot(ts sequence.TimeSignature, span duration.Duration) *Node {
	return &Node{Kind: KindRoot, Time: ts, Span: span, Ratio: duration.Plain}
}

// NewInternal returns a grouping node.
func NewInternal(r duration.Ratio, span duration.Duration) *Node {
	return &Node{Kind: KindInternal, Ratio: r.Normalize(), Span: span}
}

// NewLeaf returns a leaf for ev written as the given value.
func NewLeaf(ev sequence.Event, written duration.Duration) *Node {
	return &Node{Kind: KindLeaf, Event: ev, Span: written}
}

// Parent returns the parent, or nil for a root or a detached node.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the children in order. The slice must not be modified.
func (n *Node) Children() []*Node { return slices.Clip(n.children) }

// NumChildren returns the number of children.
func (n *Node) NumChildren() int { return len(n.children) }

// Child returns the i-th child.
func (n *Node) Child(i int) *Node { return n.children[i] }

// IsLeaf reports whether n is a leaf.
func (n *Node) IsLeaf() bool { return n.Kind == KindLeaf }

// IsRoot reports whether n is a root.
func (n *Node) IsRoot() bool { return n.Kind == KindRoot }

// IsInternal reports whether n is an internal node.
func (n *Node) IsInternal() bool { return n.Kind == KindInternal }

// AddChild appends child. It fails with INVALID_CHILD if n is a leaf, child
// is nil or a root, or child already has a parent.
func (n *Node) AddChild(child *Node) error {
	switch {
	case n.Kind == KindLeaf:
		return errors.New(errors.ErrCodeInvalidChild, "leaf %s cannot have children", n.label())
	case child == nil:
		return errors.New(errors.ErrCodeInvalidChild, "nil child")
	case child.Kind == KindRoot:
		return errors.New(errors.ErrCodeInvalidChild, "a root cannot be a child")
	case child.parent != nil:
		return errors.New(errors.ErrCodeInvalidChild, "node %s is already attached", child.label())
	case child == n:
		return errors.New(errors.ErrCodeInvalidChild, "node cannot be its own child")
	}
	child.parent = n
	n.children = append(n.children, child)
	return nil
}

// AddChildren appends each child in order, stopping at the first error.
func (n *Node) AddChildren(children ...*Node) error {
	for _, c := range children {
		if err := n.AddChild(c); err != nil {
			return err
		}
	}
	return nil
}

// Detach removes n from its parent's children. It is a no-op for a node
// without a parent.
func (n *Node) Detach() {
	p := n.parent
	if p == nil {
		return
	}
	if i := slices.Index(p.children, n); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	n.parent = nil
}

// ReplaceWithChildren splices n's children into n's place under its parent
// and detaches n. It is how a redundant grouping is dissolved.
func (n *Node) ReplaceWithChildren() error {
	p := n.parent
	if p == nil {
		return errors.New(errors.ErrCodeInvalidChild, "node %s has no parent", n.label())
	}
	i := slices.Index(p.children, n)
	kids := n.children
	for _, c := range kids {
		c.parent = p
	}
	p.children = slices.Replace(p.children, i, i+1, kids...)
	n.children, n.parent = nil, nil
	return nil
}

// clone deep-copies the subtree rooted at n; the copy has no parent.
func (n *Node) clone() *Node {
	c := *n
	c.parent = nil
	c.children = nil
	if len(n.children) > 0 {
		c.children = make([]*Node, len(n.children))
		for i, ch := range n.children {
			cc := ch.clone()
			cc.parent = &c
			c.children[i] = cc
		}
	}
	return &c
}

// Clone returns a deep copy of the subtree rooted at n, detached from any
// parent.
func (n *Node) Clone() *Node { return n.clone() }
