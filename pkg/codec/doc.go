// Package codec converts between flat event sequences and rhythm trees.
//
// # Building
//
// [Build] infers the grouping of one bar from event durations alone. It
// searches recursively over the allowed divisions, keeping for every span the
// candidate with the fewest nodes and breaking ties with a [Preference]:
//
//	res, err := codec.Build(events, codec.Options{
//	    AllowedDivisions: []int{2, 3},
//	    Time:             sequence.TimeSignature{Beats: 2, BeatType: 4},
//	})
//
// A span is either a single event (a leaf), a run of events that can all be
// written as plain note values (a 1:1 group), or an equal division into d
// parts, each solved recursively. A division whose parts are not plain note
// values becomes a tuplet with the conventional ratio for d (3:2 for three
// parts, 5:4 for five). Results are memoized per span and frame.
//
// Spans that no division can group fail with a [*SpanError] carrying the
// UNGROUPABLE_SPAN code and the narrowest failing time range. With
// [Options.BestEffort] such spans become flat groups labelled "~" and their
// ranges are listed in [Result.Approximate].
//
// # Explicit boundaries
//
// When the caller already knows the grouping (for example after reading a
// score), [FromStructure] rebuilds the tree from each entry's group chain
// without searching. [Decode] picks the mode from the input.
//
// # Flattening
//
// [Flatten] is the inverse: one entry per leaf, in order, with the chain of
// enclosing groups from outermost to innermost. For any tree t produced by
// this package:
//
//	tree.Equal(t, codec.FromStructure(codec.Flatten(t), opts))
package codec
