// Package duration provides exact rational time values for rhythm trees.
//
// # Overview
//
// All time in bartree is measured in quarter notes and kept exact: a triplet
// eighth is 1/3, a dotted eighth is 3/4, a bar of 6/8 is 3. Floating point
// would make two triplet eighths plus one triplet eighth differ from a quarter
// note, and the codec decides structure by exact equality, so [Duration] is a
// normalized fraction of two int64 values.
//
// [Duration] is a comparable value type. Two durations are equal with == iff
// they denote the same number, which lets the codec key its memo table on
// time spans directly.
//
// # Tuplet Ratios
//
// [Ratio] describes a tuplet: Ratio{Actual: 3, Normal: 2} is "three in the
// time of two". [Duration.Scale] converts a written value to sounding time and
// [Duration.Unscale] goes back. [CanonicalRatio] chooses the conventional
// ratio for a group of equal units.
//
// # Rounding
//
// [RoundToNearestDivision] snaps an imprecise value (for example one derived
// from MIDI ticks) to the closest value whose denominator is a product of the
// allowed divisions. Whether 0.33 becomes 1/3 or 3/8 decides whether the
// builder sees a triplet or a plain subdivision, so ties are broken toward the
// smaller denominator.
//
// [Notatable] reports whether a written value can be printed as a single,
// possibly dotted, note head.
package duration
