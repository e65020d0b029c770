// Package sequence defines the flat side of the codec: the event record a
// score collaborator supplies, and the sequence structure a tree flattens to.
//
// # Events
//
// An [Event] is one note, rest or grace note: an exact sounding duration, a
// [TieState], a grace flag, a dot count and an opaque pitch payload. The codec
// never looks inside Pitch; it only carries it from input to output.
//
// # Sequence Structure
//
// A [Structure] is the flattened dual of a rhythm tree: one [Entry] per leaf,
// each listing the chain of enclosing [Group] records from the outermost
// grouping to the innermost. Group IDs identify a grouping within one bar;
// [Structure.Canonical] renumbers them so two structures describing the same
// tree compare equal.
//
// # Bars
//
// [TimeSignature] gives a bar its length and beat grid. [SplitBars] cuts a long
// timeline at barlines, splitting events that cross a barline into tied
// halves, so each bar can be built independently.
package sequence
