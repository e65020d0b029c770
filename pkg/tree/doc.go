// Package tree models the rhythmic structure of one bar as a tree.
//
// # Node Kinds
//
// A [Node] is a tagged variant over three kinds:
//
//   - [KindRoot]: the bar itself. Its span is the bar length and it carries
//     the time signature. Exactly one per tree.
//   - [KindInternal]: a grouping. Ratio 1 is a plain subdivision, any other
//     [duration.Ratio] is a tuplet (3:2 is a triplet).
//   - [KindLeaf]: one event: a note, rest or grace note.
//
// Code that needs per-kind behavior switches on [Node.Kind]; there is no
// interface per kind.
//
// # Spans
//
// Every node's Span is its written duration in the frame of its parent. The
// children of a 3:2 triplet that spans a quarter note are written as eighths
// (1/2 each) and their spans add up to 3/2; scaled by the ratio that is the
// triplet's own span of 1. [Complete] checks exactly this: the sum of the
// children's spans, scaled by the node's ratio, equals the node's span.
// [Actual] converts a span to sounding time by applying every enclosing ratio.
//
// Leaves keep the source [sequence.Event], whose Duration is the sounding
// duration, so flattening a tree gives back the events it was built from.
//
// # Ownership
//
// Children are owned by their parent; the parent pointer is a back-reference
// used for lookups such as [Ancestors] and [LCA]. A node can belong to one
// parent only, and [Node.AddChild] rejects a node that is already attached.
// [Tree.Clone] makes a deep copy; trees never share nodes.
//
// # Traversal
//
// All traversals are pre-order and left to right:
//
//	leaves := tree.Leaves(t.Root())
//	for _, n := range tree.Nodes(t.Root(), 1) {
//	    fmt.Println(tree.Depth(n), n)
//	}
//
// # Rendering
//
// [Node.String] gives a compact nested form such as "R(3:2(1/2,1/2,1/2))".
// [Tree.Edges] lists (node, parent, label) triples with ids assigned in
// pre-order, so the output only depends on the tree's content. [Tree.ToDOT]
// and [Tree.RenderSVG] produce Graphviz output for debugging.
package tree
