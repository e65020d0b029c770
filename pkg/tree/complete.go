package tree

import (
	"github.com/matzehuels/bartree/pkg/duration"
	"github.com/matzehuels/bartree/pkg/errors"
)

// Complete reports whether the spans of n's children, scaled by n's ratio,
// add up to n's own span. Leaves are always complete; a root or internal node
// without children is not.
func Complete(n *Node) bool {
	if n.Kind == KindLeaf {
		return true
	}
	if len(n.children) == 0 {
		return false
	}
	return ChildSpan(n).Scale(n.Ratio) == n.Span
}

// ChildSpan returns the sum of the written spans of n's children.
func ChildSpan(n *Node) duration.Duration {
	var sum duration.Duration
	for _, c := range n.children {
		sum = sum.Add(c.Span)
	}
	return sum
}

// validate checks the subtree rooted at n.
func validate(n *Node) error {
	switch n.Kind {
	case KindLeaf:
		if len(n.children) > 0 {
			return errors.New(errors.ErrCodeInvalidChild, "leaf %s has children", n.label())
		}
		if n.Event.Grace {
			if !n.Span.IsZero() {
				return errors.New(errors.ErrCodeInvalidDuration, "grace leaf with span %s", n.Span)
			}
		} else if n.Span.Sign() <= 0 {
			return errors.New(errors.ErrCodeInvalidDuration, "leaf span %s is not positive", n.Span)
		}
		return nil
	case KindInternal:
		if n.parent == nil {
			return errors.New(errors.ErrCodeInvalidChild, "internal node %s has no parent", n.label())
		}
		if len(n.children) < 2 {
			return errors.New(errors.ErrCodeIncompleteNode, "internal node %s has %d children, need at least 2", n.label(), len(n.children))
		}
	case KindRoot:
		if n.parent != nil {
			return errors.New(errors.ErrCodeInvalidChild, "root has a parent")
		}
	}
	if !Complete(n) {
		return errors.New(errors.ErrCodeIncompleteNode,
			"node %s: children span %s (scaled %s), declared %s",
			n.label(), ChildSpan(n), ChildSpan(n).Scale(n.Ratio), n.Span)
	}
	for _, c := range n.children {
		if c.parent != n {
			return errors.New(errors.ErrCodeInvalidChild, "child %s has a stale parent link", c.label())
		}
		if err := validate(c); err != nil {
			return err
		}
	}
	return nil
}
