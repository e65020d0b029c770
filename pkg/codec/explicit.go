package codec

import (
	"github.com/matzehuels/bartree/pkg/duration"
	"github.com/matzehuels/bartree/pkg/errors"
	"github.com/matzehuels/bartree/pkg/sequence"
	"github.com/matzehuels/bartree/pkg/tree"
)

// Decode builds a tree from a structure, using the declared groups when any
// entry carries them and inferring the grouping otherwise.
func Decode(s sequence.Structure, opts Options) (*tree.Tree, error) {
	if s.HasGroups() {
		return FromStructure(s, opts)
	}
	res, err := Build(s.Events(), opts)
	if err != nil {
		return nil, err
	}
	return res.Tree, nil
}

// openGroup is a group on the stack of FromStructure.
type openGroup struct {
	id    int
	node  *tree.Node
	frame duration.Duration // sounding length of one written quarter inside the group
}

// FromStructure rebuilds a tree from entries whose group chains are known.
//
// Entries sharing a group ID at the same depth share a node. It fails with
// MISALIGNED_EVENT when an event overruns its group or a group reappears
// after it was closed, and with INCOMPLETE_NODE when a group or the bar is
// not filled.
func FromStructure(s sequence.Structure, opts Options) (*tree.Tree, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := validateEvents(s.Events()); err != nil {
		return nil, err
	}

	bar := sequence.Total(s.Events())
	if !opts.Time.IsZero() {
		bar = opts.Time.Duration()
	}
	root := tree.NewRoot(opts.Time, bar)

	var (
		stack  []openGroup
		closed = make(map[int]bool)
	)
	parentOf := func(depth int) (*tree.Node, duration.Duration) {
		if depth == 0 {
			return root, duration.FromInt(1)
		}
		g := stack[depth-1]
		return g.node, g.frame
	}
	// attach adds child to the node at depth, refusing to overfill it.
	attach := func(depth int, child *tree.Node) error {
		parent, _ := parentOf(depth)
		if err := parent.AddChild(child); err != nil {
			return err
		}
		if parent.Span.Less(tree.ChildSpan(parent).Scale(parent.Ratio)) {
			return errors.New(errors.ErrCodeMisalignedEvent,
				"group %s overflows its span %s", parent.Ratio, parent.Span)
		}
		return nil
	}

	for i, e := range s {
		keep := 0
		for keep < len(stack) && keep < len(e.Groups) && stack[keep].id == e.Groups[keep].ID {
			keep++
		}
		for _, g := range stack[keep:] {
			closed[g.id] = true
		}
		stack = stack[:keep]

		for depth := keep; depth < len(e.Groups); depth++ {
			g := e.Groups[depth]
			if closed[g.ID] {
				return nil, errors.New(errors.ErrCodeMisalignedEvent,
					"entry %d: group %d resumes after it was closed", i, g.ID)
			}
			if g.Span.Sign() <= 0 {
				return nil, errors.New(errors.ErrCodeInvalidDuration,
					"entry %d: group %d has span %s", i, g.ID, g.Span)
			}
			node := tree.NewInternal(g.Ratio, g.Span)
			node.Label = g.Label
			if err := attach(depth, node); err != nil {
				return nil, errors.Wrap(errors.ErrCodeMisalignedEvent, err, "entry %d", i)
			}
			_, frame := parentOf(depth)
			stack = append(stack, openGroup{id: g.ID, node: node, frame: frame.Mul(node.Ratio.Factor())})
		}

		_, frame := parentOf(len(stack))
		leaf := tree.NewLeaf(e.Event, e.Event.Duration.Div(frame))
		if err := attach(len(stack), leaf); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMisalignedEvent, err, "entry %d", i)
		}
	}

	for _, n := range tree.Nodes(root, -1) {
		if n.IsLeaf() || tree.Complete(n) {
			continue
		}
		return nil, errors.New(errors.ErrCodeIncompleteNode,
			"%s node %s is filled to %s of %s", n.Kind, n.Ratio,
			tree.ChildSpan(n).Scale(n.Ratio), n.Span)
	}
	t, err := tree.New(root)
	if err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
