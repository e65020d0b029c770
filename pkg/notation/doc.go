// Package notation decorates rhythm trees with per-note notation and derives
// the sequential views that score formats use.
//
// A rhythm tree from [codec.Build] only knows durations and groupings.
// [Decorate] copies it and attaches, leaf by leaf, the tie state, pitch payload
// and accidental supplied by the caller; the payloads are opaque and are
// carried through unchanged.
//
// [Marks] turns the groupings back into the start/continue/stop form used by
// score formats, one list per leaf from the outermost group inward, with
// [MarkPartial] for a group that holds a single leaf. [InterGroupings] gives,
// for each pair of adjacent leaves, the depth of their lowest common
// ancestor: the number of groupings that connect them, which for a beam tree
// is the number of beams.
package notation
