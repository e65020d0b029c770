// Package correct repairs the notation derived from rhythm trees.
//
// The passes here are idempotent: running one on its own output changes
// nothing and reports zero changes.
//
// # Tuplets
//
// [Tuplets] relabels every tuplet node with the conventional ratio for the
// number of equal units its children fill, so a group of three written as 6:4
// becomes 3:2 and a two-unit "tuplet" becomes plain. Spans below a relabeled
// node are rescaled so every sounding duration stays the same.
//
// [TupletMarks] does the same job for the sequence form produced by
// [notation.Marks]: orphaned continue marks open a group and groups left open
// are closed.
//
// # Beams
//
// [Beamings] decides beam states from written values and beat boundaries.
// Two neighbours are beamed together when both are eighths or shorter and no
// boundary falls strictly inside the span they cover together. Rests inside a
// beamed run continue it; rests at either end do not. [BeamTree] applies the
// rule to a [notation.Tree].
package correct
