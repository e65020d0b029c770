package tree_test

import (
	"fmt"

	"github.com/matzehuels/bartree/pkg/duration"
	"github.com/matzehuels/bartree/pkg/sequence"
	"github.com/matzehuels/bartree/pkg/tree"
)

func Example() {
	// A quarter-note triplet filling one beat: three eighths in the time of two.
	root := tree.NewRoot(sequence.TimeSignature{Beats: 1, BeatType: 4}, duration.FromInt(1))
	trip := tree.NewInternal(duration.Ratio{Actual: 3, Normal: 2}, duration.FromInt(1))
	for range 3 {
		leaf := tree.NewLeaf(sequence.Event{Duration: duration.New(1, 3), Pitch: "A4"}, duration.New(1, 2))
		_ = trip.AddChild(leaf)
	}
	_ = root.AddChild(trip)
	t, _ := tree.New(root)

	fmt.Println(t)
	fmt.Println("complete:", tree.Complete(trip))
	fmt.Println("leaves:", tree.SubtreeSize(root))
	fmt.Println("actual:", tree.Actual(t.Leaves()[0]))
	// Output:
	// R(3:2(A4:1/2,A4:1/2,A4:1/2))
	// complete: true
	// leaves: 3
	// actual: 1/3
}

func ExampleTree_Show() {
	root := tree.NewRoot(sequence.TimeSignature{}, duration.FromInt(1))
	_ = root.AddChildren(
		tree.NewLeaf(sequence.Event{Duration: duration.New(1, 2)}, duration.New(1, 2)),
		tree.NewLeaf(sequence.Event{Duration: duration.New(1, 2)}, duration.New(1, 2)),
	)
	t, _ := tree.New(root)
	fmt.Print(t.Show())
	// Output:
	// n0 - R
	// n1 n0 1/2
	// n2 n0 1/2
}

func ExampleLCA() {
	root := tree.NewRoot(sequence.TimeSignature{}, duration.FromInt(2))
	a := tree.NewInternal(duration.Plain, duration.FromInt(1))
	b := tree.NewInternal(duration.Plain, duration.FromInt(1))
	var leaves []*tree.Node
	for range 4 {
		leaves = append(leaves, tree.NewLeaf(sequence.Event{Duration: duration.New(1, 2)}, duration.New(1, 2)))
	}
	_ = a.AddChildren(leaves[0], leaves[1])
	_ = b.AddChildren(leaves[2], leaves[3])
	_ = root.AddChildren(a, b)

	near, _ := tree.LCA(leaves[0], leaves[1])
	far, _ := tree.LCA(leaves[1], leaves[2])
	fmt.Println(tree.Depth(near), tree.Depth(far))
	// Output:
	// 1 0
}
