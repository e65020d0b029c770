package tree

import (
	"github.com/matzehuels/bartree/pkg/duration"
	"github.com/matzehuels/bartree/pkg/errors"
)

// Ancestors returns the ancestors of n from its parent up to the root.
func Ancestors(n *Node) []*Node {
	var out []*Node
	for p := n.parent; p != nil; p = p.parent {
		out = append(out, p)
	}
	return out
}

// Depth returns the number of edges between n and its root.
func Depth(n *Node) int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// RootOf returns the topmost ancestor of n, or n itself.
func RootOf(n *Node) *Node {
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// LCA returns the lowest common ancestor of a and b. A node is its own
// ancestor for this purpose, so LCA(a, a) is a. It fails with DISJOINT_NODES
// when the nodes are not in the same tree.
func LCA(a, b *Node) (*Node, error) {
	if a == nil || b == nil {
		return nil, errors.New(errors.ErrCodeDisjointNodes, "nil node")
	}
	da, db := Depth(a), Depth(b)
	for ; da > db; da-- {
		a = a.parent
	}
	for ; db > da; db-- {
		b = b.parent
	}
	for a != b {
		a, b = a.parent, b.parent
		if a == nil || b == nil {
			return nil, errors.New(errors.ErrCodeDisjointNodes, "nodes belong to different trees")
		}
	}
	return a, nil
}

// IsAncestor reports whether a is b or one of b's ancestors.
func IsAncestor(a, b *Node) bool {
	for n := b; n != nil; n = n.parent {
		if n == a {
			return true
		}
	}
	return false
}

// Walk visits the subtree rooted at n in pre-order. Returning false from fn
// skips the children of the visited node.
func Walk(n *Node, fn func(n *Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.children {
		walk(c, depth+1, fn)
	}
}

// Leaves returns the leaves under n in pre-order. A leaf returns itself.
func Leaves(n *Node) []*Node {
	var out []*Node
	Walk(n, func(c *Node, _ int) bool {
		if c.Kind == KindLeaf {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Nodes returns n and its descendants in pre-order, down to maxDepth levels
// below n. A negative maxDepth means no bound.
func Nodes(n *Node, maxDepth int) []*Node {
	var out []*Node
	Walk(n, func(c *Node, depth int) bool {
		out = append(out, c)
		return maxDepth < 0 || depth < maxDepth
	})
	return out
}

// SubtreeSize returns the number of leaves under n. A leaf counts itself.
func SubtreeSize(n *Node) int {
	if n.Kind == KindLeaf {
		return 1
	}
	size := 0
	for _, c := range n.children {
		size += SubtreeSize(c)
	}
	return size
}

// Frame returns the factor that converts a span written in n's parent's frame
// to sounding time: the product of Normal/Actual over n's ancestors.
func Frame(n *Node) duration.Duration {
	f := duration.FromInt(1)
	for p := n.parent; p != nil; p = p.parent {
		f = f.Scale(p.Ratio)
	}
	return f
}

// Actual returns the sounding duration of n.
func Actual(n *Node) duration.Duration {
	return n.Span.Mul(Frame(n))
}

// Offset returns the sounding onset of n relative to the start of its root.
func Offset(n *Node) duration.Duration {
	var t duration.Duration
	for c := n; c.parent != nil; c = c.parent {
		for _, s := range c.parent.children {
			if s == c {
				break
			}
			t = t.Add(Actual(s))
		}
	}
	return t
}
