package io

import (
	"bytes"
	"cmp"
	"fmt"
	"io"
	"slices"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/matzehuels/bartree/pkg/duration"
	"github.com/matzehuels/bartree/pkg/errors"
	"github.com/matzehuels/bartree/pkg/sequence"
)

// MIDIOptions selects what ReadMIDI imports.
type MIDIOptions struct {
	// Track is the 1-based track to read; zero reads every track.
	Track int
	// Channel restricts import to one channel (1-16); zero means any.
	Channel int
	// Time overrides the file's time signature.
	Time sequence.TimeSignature
	// NamePitches stores pitches as names ("C4") instead of key numbers.
	NamePitches bool
}

type midiNote struct {
	key        uint8
	start, end int64
}

// ReadMIDI imports a monophonic line from a standard MIDI file.
func ReadMIDI(r io.Reader, opts MIDIOptions) (s *Score, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	// smf panics on some malformed files.
	defer func() {
		if p := recover(); p != nil {
			s, err = nil, errors.New(errors.ErrCodeInvalidFormat, "parse MIDI: %v", p)
		}
	}()
	file, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse MIDI")
	}
	ticks, ok := file.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported MIDI time format %v", file.TimeFormat)
	}
	tpq := int64(ticks)

	ts := opts.Time
	var notes []midiNote
	for i, track := range file.Tracks {
		selected := opts.Track == 0 || i == opts.Track-1
		open := make(map[uint8]int64)
		var now int64
		for _, ev := range track {
			now += int64(ev.Delta)
			var ch, key, vel, num, denom, cpt, dsq uint8
			switch {
			case ev.Message.GetMetaTimeSig(&num, &denom, &cpt, &dsq):
				if ts.IsZero() {
					ts = sequence.TimeSignature{Beats: int(num), BeatType: int(denom)}
				}
			case ev.Message.GetNoteOn(&ch, &key, &vel) && vel > 0:
				if selected && (opts.Channel == 0 || int(ch) == opts.Channel-1) {
					open[key] = now
				}
			case ev.Message.GetNoteOn(&ch, &key, &vel), ev.Message.GetNoteOff(&ch, &key, &vel):
				if start, ok := open[key]; ok && (opts.Channel == 0 || int(ch) == opts.Channel-1) {
					notes = append(notes, midiNote{key: key, start: start, end: now})
					delete(open, key)
				}
			}
		}
	}
	if len(notes) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no notes in MIDI file")
	}
	if ts.IsZero() {
		ts = sequence.CommonTime
	}

	events := monophonic(notes, tpq, opts.NamePitches)
	bars, err := sequence.SplitBars(events, ts)
	if err != nil {
		return nil, fmt.Errorf("split bars: %w", err)
	}
	s = &Score{Time: ts}
	for _, b := range bars {
		s.Bars = append(s.Bars, Bar{Bar: b})
	}
	return s, nil
}

// monophonic orders notes by onset, cuts each at the next onset and fills
// gaps with rests. Notes sharing an onset keep the highest key.
func monophonic(notes []midiNote, tpq int64, names bool) []sequence.Event {
	slices.SortFunc(notes, func(a, b midiNote) int {
		if c := cmp.Compare(a.start, b.start); c != 0 {
			return c
		}
		return cmp.Compare(b.key, a.key)
	})
	notes = slices.CompactFunc(notes, func(a, b midiNote) bool { return a.start == b.start })

	length := func(t int64) duration.Duration { return duration.New(t, tpq) }
	var events []sequence.Event
	var now int64
	for i, n := range notes {
		if n.start > now {
			events = append(events, sequence.Event{Duration: length(n.start - now)})
		}
		end := n.end
		if i+1 < len(notes) && notes[i+1].start < end {
			end = notes[i+1].start
		}
		if end <= n.start {
			continue
		}
		var pitch any = int(n.key)
		if names {
			pitch = KeyName(n.key)
		}
		events = append(events, sequence.Event{Duration: length(end - n.start), Pitch: pitch})
		now = end
	}
	return events
}

var pitchClasses = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// KeyName returns the scientific pitch name of a MIDI key: 60 is "C4".
func KeyName(key uint8) string {
	return fmt.Sprintf("%s%d", pitchClasses[key%12], int(key)/12-1)
}
