// Package seq provides generic partitioning and sliding-window helpers over
// slices.
//
// [SplitContent] and [SplitBy] cut a slice into maximal runs on which a
// predicate or key is constant; the correction passes use them to find runs of
// beamable notes. [SplitEqual] cuts positioned items into equal time intervals,
// which is how the builder distributes events over the parts of a division.
//
// [Window] returns a [Windows] value rather than a channel or a one-shot
// iterator: ranging over [Windows.All] twice yields the same windows, and the
// windows share the input's backing array (capacity-capped so appends cannot
// clobber neighbors).
//
//	w, _ := seq.Window([]string{"a", "b", "c", "d"}, 2)
//	for pair := range w.All() {
//	    fmt.Println(pair) // [a b] [b c] [c d]
//	}
package seq
