package codec

import (
	"slices"

	"github.com/matzehuels/bartree/pkg/sequence"
	"github.com/matzehuels/bartree/pkg/tree"
)

// Flatten lists the leaves of t in order, each with the chain of internal
// nodes above it from outermost to innermost. Group IDs number internal nodes
// in pre-order, so the result is already canonical.
func Flatten(t *tree.Tree) sequence.Structure {
	var (
		out   sequence.Structure
		chain []sequence.Group
		next  int
	)
	var visit func(n *tree.Node)
	visit = func(n *tree.Node) {
		switch n.Kind {
		case tree.KindLeaf:
			out = append(out, sequence.Entry{Event: n.Event, Groups: slices.Clone(chain)})
			return
		case tree.KindInternal:
			chain = append(chain, sequence.Group{
				ID:    next,
				Ratio: n.Ratio.Normalize(),
				Span:  n.Span,
				Label: n.Label,
			})
			next++
			defer func() { chain = chain[:len(chain)-1] }()
		}
		for _, c := range n.Children() {
			visit(c)
		}
	}
	visit(t.Root())
	return out.Canonical()
}
