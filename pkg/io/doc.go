// Package io reads and writes scores: bars of events, optionally carrying
// grouping structure, in JSON, YAML or standard MIDI files.
//
// # Document Format
//
// A document holds a time signature and either a flat event timeline, which
// is cut into bars on import, or explicit bars:
//
//	time: 2/4
//	events:
//	  - {duration: 1/3, pitch: C4}
//	  - {duration: 1/3, pitch: D4}
//	  - {duration: 1/3, pitch: E4, tie: start}
//	  - {duration: 1, pitch: E4, tie: stop}
//
// Durations are exact fractions of a quarter note ("1/3", "3/2", 2). An
// event without a pitch is a rest; grace notes set grace: true and carry no
// duration. Entries in explicit bars may list their enclosing groups,
// outermost first:
//
//	bars:
//	  - number: 1
//	    entries:
//	      - duration: 1/3
//	        pitch: C4
//	        groups: [{id: 0, ratio: "3:2", span: 1}]
//
// Written bars add the rendered tree, the beam of every entry and, for bars
// that could only be approximated or failed, the affected ranges or the
// error message.
//
// # MIDI
//
// [ReadMIDI] imports a monophonic line: overlapping notes are cut at the next
// onset, gaps become rests and the first time signature meta event (4/4 when
// there is none) sets the bar length.
package io
