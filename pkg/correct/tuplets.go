package correct

import (
	"github.com/matzehuels/bartree/pkg/duration"
	"github.com/matzehuels/bartree/pkg/notation"
	"github.com/matzehuels/bartree/pkg/tree"
)

// Tuplets relabels the tuplet nodes of t in place and returns how many
// ratios changed. It fails only when t is not a valid tree.
func Tuplets(t *tree.Tree) (int, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	changed := 0
	tree.Walk(t.Root(), func(n *tree.Node, _ int) bool {
		if !n.IsInternal() || n.Ratio.IsPlain() {
			return true
		}
		want := CanonicalFor(n)
		if want == n.Ratio {
			return true
		}
		c := n.Ratio.Factor().Div(want.Factor())
		for _, child := range n.Children() {
			tree.Walk(child, func(d *tree.Node, _ int) bool {
				d.Span = d.Span.Mul(c)
				return true
			})
		}
		n.Ratio = want
		changed++
		return true
	})
	return changed, nil
}

// CanonicalFor returns the conventional ratio for the units n's children
// fill: their total span over the largest span that divides each of them.
func CanonicalFor(n *tree.Node) duration.Ratio {
	var total, unit duration.Duration
	for _, c := range n.Children() {
		if c.Span.IsZero() {
			continue
		}
		total = total.Add(c.Span)
		unit = duration.GCD(unit, c.Span)
	}
	if unit.IsZero() {
		return duration.Plain
	}
	units := total.Div(unit)
	if units.Den() != 1 {
		return n.Ratio
	}
	return duration.CanonicalRatio(int(units.Num()))
}

// TupletMarks repairs tuplet marks level by level and returns the repaired
// copy with the number of marks changed. A continue with no open group starts
// one, a start or partial closes whatever group is open, a stop with nothing
// open becomes partial, and a group still open when its level ends is closed
// on its last mark.
func TupletMarks(marks [][]notation.Mark) ([][]notation.Mark, int) {
	out := make([][]notation.Mark, len(marks))
	levels := 0
	for i, m := range marks {
		out[i] = append([]notation.Mark(nil), m...)
		levels = max(levels, len(m))
	}

	changed := 0
	set := func(i, level int, m notation.Mark) {
		if out[i][level] != m {
			out[i][level] = m
			changed++
		}
	}
	for level := range levels {
		open := -1
		closeGroup := func() {
			if open < 0 {
				return
			}
			switch out[open][level] {
			case notation.MarkStart:
				set(open, level, notation.MarkPartial)
			case notation.MarkContinue:
				set(open, level, notation.MarkStop)
			}
			open = -1
		}
		for i := range out {
			if len(out[i]) <= level {
				closeGroup()
				continue
			}
			switch out[i][level] {
			case notation.MarkStart:
				closeGroup()
				open = i
			case notation.MarkContinue:
				if open < 0 {
					set(i, level, notation.MarkStart)
				}
				open = i
			case notation.MarkStop:
				if open < 0 {
					set(i, level, notation.MarkPartial)
				}
				open = -1
			case notation.MarkPartial:
				closeGroup()
			}
		}
		closeGroup()
	}
	return out, changed
}
