// Package pkg provides the libraries behind bartree, a converter between the
// rhythm tree of a musical bar and its flat, grouped event sequence.
//
// # Overview
//
// The packages fall into three groups:
//
//  1. Core model: [duration] (exact rational time), [tree] (rhythm trees),
//     [sequence] (events, grouped sequences, bars) and [seq] (splitting and
//     windowing helpers)
//  2. Codec: [codec] (tree inference, explicit rebuilding, flattening),
//     [correct] (tuplet and beam correction) and [notation] (decorated trees
//     and start/continue/stop marks)
//  3. Plumbing: [pipeline] (parallel, cached per-bar processing), [cache],
//     [config], [io] (JSON, YAML and MIDI), [observability], [errors] and
//     [buildinfo]
//
// # Data Flow
//
//	events of one bar
//	       ↓
//	  [codec.Build] infer groupings
//	       ↓
//	  [correct.Tuplets] canonical tuplet ratios
//	       ↓
//	  [notation.Decorate] + [correct.BeamTree]
//	       ↓
//	  [codec.Flatten] grouped sequence
//
// [codec.FromStructure] takes the opposite path, rebuilding a tree from a
// sequence whose groups are already known.
//
// # Quick Start
//
//	events := []sequence.Event{
//	    {Duration: duration.Of(1, 3), Pitch: "C4"},
//	    {Duration: duration.Of(1, 3), Pitch: "D4"},
//	    {Duration: duration.Of(1, 3), Pitch: "E4"},
//	}
//	res, err := codec.Build(events, codec.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Tree) // R(3:2(C4:1/2,D4:1/2,E4:1/2))
package pkg
