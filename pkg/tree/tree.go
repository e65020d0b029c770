package tree

import (
	"reflect"

	"github.com/matzehuels/bartree/pkg/errors"
	"github.com/matzehuels/bartree/pkg/sequence"
)

// Tree owns exactly one root node.
type Tree struct {
	root *Node
}

// New wraps root in a Tree. It fails with INVALID_CHILD if root is nil, is not
// of KindRoot, or has a parent.
func New(root *Node) (*Tree, error) {
	if root == nil || root.Kind != KindRoot {
		return nil, errors.New(errors.ErrCodeInvalidChild, "tree needs a root node")
	}
	if root.parent != nil {
		return nil, errors.New(errors.ErrCodeInvalidChild, "root has a parent")
	}
	return &Tree{root: root}, nil
}

// Root returns the root node.
func (t *Tree) Root() *Node { return t.root }

// Leaves returns all leaves in pre-order.
func (t *Tree) Leaves() []*Node { return Leaves(t.root) }

// Nodes returns every node in pre-order.
func (t *Tree) Nodes() []*Node { return Nodes(t.root, -1) }

// Size returns the number of leaves.
func (t *Tree) Size() int { return SubtreeSize(t.root) }

// Validate checks every node: leaves have no children and a valid span,
// internal nodes have at least two children, and every non-leaf is Complete.
func (t *Tree) Validate() error {
	return validate(t.root)
}

// Clone returns a deep copy.
func (t *Tree) Clone() *Tree {
	return &Tree{root: t.root.clone()}
}

// Equal reports whether a and b have the same shape, kinds, spans, ratios,
// labels, time signatures and leaf events. Pitch and accidental payloads are
// compared deeply, so slices and maps are allowed.
func Equal(a, b *Tree) bool {
	if a == nil || b == nil {
		return a == b
	}
	return equalNode(a.root, b.root)
}

func equalNode(a, b *Node) bool {
	if a.Kind != b.Kind || a.Label != b.Label || a.Span != b.Span ||
		a.Ratio.Normalize() != b.Ratio.Normalize() || a.Time != b.Time ||
		a.Beam != b.Beam || !equalEvent(a.Event, b.Event) ||
		!reflect.DeepEqual(a.Accidental, b.Accidental) ||
		len(a.children) != len(b.children) {
		return false
	}
	for i := range a.children {
		if !equalNode(a.children[i], b.children[i]) {
			return false
		}
	}
	return true
}

func equalEvent(a, b sequence.Event) bool {
	return a.Duration == b.Duration && a.Tie == b.Tie && a.Grace == b.Grace &&
		a.Dots == b.Dots && reflect.DeepEqual(a.Pitch, b.Pitch)
}
