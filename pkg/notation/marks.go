package notation

import (
	"strconv"
	"strings"

	"github.com/matzehuels/bartree/pkg/duration"
	"github.com/matzehuels/bartree/pkg/errors"
	"github.com/matzehuels/bartree/pkg/seq"
	"github.com/matzehuels/bartree/pkg/tree"
)

// Mark is the position of a leaf within one grouping.
type Mark int

const (
	MarkStart Mark = iota
	MarkContinue
	MarkStop
	MarkPartial
)

var markNames = [...]string{"start", "continue", "stop", "partial"}

// String returns the mark name.
func (m Mark) String() string {
	if m < 0 || int(m) >= len(markNames) {
		return "unknown"
	}
	return markNames[m]
}

// MarshalText implements encoding.TextMarshaler.
func (m Mark) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mark) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, name := range markNames {
		if name == s {
			*m = Mark(i)
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown mark %q", s)
}

// GroupInfo is the text printed on a group: the actual count of a tuplet
// ("3"), or "a:n" when the normal count is not the usual power of two below
// it, followed by the node's label. Plain groups print only their label.
func GroupInfo(n *tree.Node) string {
	if n.Ratio.IsPlain() {
		return n.Label
	}
	a, norm := n.Ratio.Actual, n.Ratio.Normal
	s := strconv.Itoa(a)
	if norm != duration.PrevPowerOfTwo(a) {
		s = n.Ratio.String()
	}
	return s + n.Label
}

// Marks returns, for every leaf of t, its mark in each enclosing internal node
// from the outermost inward, and the matching GroupInfo strings.
func Marks(t *tree.Tree) ([][]Mark, [][]string) {
	leaves := t.Leaves()
	index := make(map[*tree.Node]int, len(leaves))
	for i, l := range leaves {
		index[l] = i
	}
	marks := make([][]Mark, len(leaves))
	info := make([][]string, len(leaves))

	tree.Walk(t.Root(), func(n *tree.Node, _ int) bool {
		if !n.IsInternal() {
			return true
		}
		under := tree.Leaves(n)
		label := GroupInfo(n)
		for k, l := range under {
			i := index[l]
			var m Mark
			switch {
			case len(under) == 1:
				m = MarkPartial
			case k == 0:
				m = MarkStart
			case k == len(under)-1:
				m = MarkStop
			default:
				m = MarkContinue
			}
			marks[i] = append(marks[i], m)
			info[i] = append(info[i], label)
		}
		return true
	})
	return marks, info
}

// Depths returns the number of groupings over each leaf: its depth below
// the root minus one.
func Depths(t *tree.Tree) []int {
	leaves := t.Leaves()
	out := make([]int, len(leaves))
	for i, l := range leaves {
		out[i] = tree.Depth(l) - 1
	}
	return out
}

// InterGroupings returns, for each pair of adjacent leaves, the depth of their
// lowest common ancestor. The result has one element fewer than the leaves.
func InterGroupings(t *tree.Tree) ([]int, error) {
	leaves := t.Leaves()
	if len(leaves) < 2 {
		return nil, nil
	}
	out := make([]int, 0, len(leaves)-1)
	for _, pair := range seq.Pairs(leaves) {
		lca, err := tree.LCA(pair[0], pair[1])
		if err != nil {
			return nil, err
		}
		out = append(out, tree.Depth(lca))
	}
	return out, nil
}
