package tree

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
)

// label returns the display label of a single node.
//
// Roots are "R", internal nodes show their ratio followed by any Label, and
// leaves show the pitch and accidental (if any), the written span, one "*"
// per dot, "gn" for grace notes and "T" when tied to the next event.
func (n *Node) label() string {
	switch n.Kind {
	case KindRoot:
		if n.Label != "" {
			return "R" + n.Label
		}
		return "R"
	case KindInternal:
		return n.Ratio.String() + n.Label
	}

	var b strings.Builder
	if n.Event.Pitch != nil {
		fmt.Fprintf(&b, "%v", n.Event.Pitch)
		if n.Accidental != nil {
			fmt.Fprintf(&b, "%v", n.Accidental)
		}
		b.WriteByte(':')
	}
	if n.Event.Grace {
		b.WriteString("gn")
	} else {
		b.WriteString(n.Span.String())
		b.WriteString(strings.Repeat("*", n.Event.Dots))
	}
	if n.Event.Tie.Tied() {
		b.WriteByte('T')
	}
	b.WriteString(n.Label)
	return b.String()
}

// String renders the subtree rooted at n as label(child,child,...).
func (n *Node) String() string {
	var b strings.Builder
	n.writeString(&b)
	return b.String()
}

func (n *Node) writeString(b *strings.Builder) {
	b.WriteString(n.label())
	if len(n.children) == 0 {
		return
	}
	b.WriteByte('(')
	for i, c := range n.children {
		if i > 0 {
			b.WriteByte(',')
		}
		c.writeString(b)
	}
	b.WriteByte(')')
}

// String renders the whole tree.
func (t *Tree) String() string { return t.root.String() }

// Edge is one line of the edge-list rendering. Parent is empty for the root.
type Edge struct {
	ID     string
	Parent string
	Label  string
}

// Edges lists every node with its parent. IDs are assigned in pre-order
// (n0 is the root), so identical trees give identical lists.
func (t *Tree) Edges() []Edge {
	var out []Edge
	ids := make(map[*Node]string)
	Walk(t.root, func(n *Node, _ int) bool {
		id := fmt.Sprintf("n%d", len(ids))
		ids[n] = id
		e := Edge{ID: id, Label: n.label()}
		if n.parent != nil {
			e.Parent = ids[n.parent]
		}
		out = append(out, e)
		return true
	})
	return out
}

// Show renders the edge list one node per line as "id parent label", with
// "-" standing in for the root's missing parent.
func (t *Tree) Show() string {
	var b strings.Builder
	for _, e := range t.Edges() {
		parent := e.Parent
		if parent == "" {
			parent = "-"
		}
		fmt.Fprintf(&b, "%s %s %s\n", e.ID, parent, e.Label)
	}
	return b.String()
}

// ToDOT returns a Graphviz DOT representation of the tree.
//
// Roots and internal nodes are drawn as ellipses (tuplets as boxes), leaves as
// rounded boxes. Node ids match [Tree.Edges].
func (t *Tree) ToDOT() string {
	var buf bytes.Buffer
	buf.WriteString("digraph RhythmTree {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=14, style=filled, fillcolor=white];\n")
	buf.WriteString("  edge [arrowhead=none];\n\n")

	writeDOTNode(&buf, t.root, 0)

	buf.WriteString("}\n")
	return buf.String()
}

func writeDOTNode(buf *bytes.Buffer, n *Node, id int) int {
	nodeID := fmt.Sprintf("n%d", id)
	next := id + 1

	switch {
	case n.Kind == KindLeaf:
		fmt.Fprintf(buf, "  %s [label=%q, shape=box, style=\"filled,rounded\"];\n", nodeID, n.label())
		return next
	case n.Kind == KindInternal && !n.Ratio.IsPlain():
		fmt.Fprintf(buf, "  %s [label=%q, shape=box];\n", nodeID, n.label())
	default:
		fmt.Fprintf(buf, "  %s [label=%q, shape=ellipse];\n", nodeID, n.label())
	}
	for _, c := range n.children {
		fmt.Fprintf(buf, "  %s -> n%d;\n", nodeID, next)
		next = writeDOTNode(buf, c, next)
	}
	return next
}

// RenderSVG renders the tree as an SVG document via Graphviz.
func (t *Tree) RenderSVG(ctx context.Context) ([]byte, error) {
	dot := t.ToDOT()

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
