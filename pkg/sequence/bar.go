package sequence

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/bartree/pkg/duration"
	"github.com/matzehuels/bartree/pkg/errors"
)

// TimeSignature is a meter such as 3/4. The zero value means "unspecified".
type TimeSignature struct {
	Beats    int
	BeatType int
}

// Common time signatures.
var (
	CommonTime = TimeSignature{Beats: 4, BeatType: 4}
	WaltzTime  = TimeSignature{Beats: 3, BeatType: 4}
)

// IsZero reports whether the signature is unspecified.
func (ts TimeSignature) IsZero() bool { return ts.Beats == 0 && ts.BeatType == 0 }

// Validate checks the signature.
func (ts TimeSignature) Validate() error {
	return errors.ValidateTimeSignature(ts.Beats, ts.BeatType)
}

// Duration returns the bar length in quarter notes (6/8 is 3).
func (ts TimeSignature) Duration() duration.Duration {
	if ts.IsZero() {
		return duration.Zero
	}
	return duration.Of(ts.Beats*4, ts.BeatType)
}

// Compound reports whether the meter groups its pulses in threes (6/8, 9/8, 12/16).
func (ts TimeSignature) Compound() bool {
	return ts.Beats > 3 && ts.Beats%3 == 0 && ts.BeatType >= 8
}

// Beat returns the length of one beat: a pulse for simple meters and three
// pulses for compound meters.
func (ts TimeSignature) Beat() duration.Duration {
	if ts.IsZero() {
		return duration.Zero
	}
	pulse := duration.Of(4, ts.BeatType)
	if ts.Compound() {
		return pulse.MulInt(3)
	}
	return pulse
}

// Boundaries returns the beat boundaries strictly inside the bar.
func (ts TimeSignature) Boundaries() []duration.Duration {
	beat := ts.Beat()
	if beat.IsZero() {
		return nil
	}
	bar := ts.Duration()
	var out []duration.Duration
	for t := beat; t.Less(bar); t = t.Add(beat) {
		out = append(out, t)
	}
	return out
}

// String returns "beats/beatType", or "" for the zero value.
func (ts TimeSignature) String() string {
	if ts.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d/%d", ts.Beats, ts.BeatType)
}

// MarshalText implements encoding.TextMarshaler.
func (ts TimeSignature) MarshalText() ([]byte, error) { return []byte(ts.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (ts *TimeSignature) UnmarshalText(text []byte) error {
	v, err := ParseTimeSignature(string(text))
	if err != nil {
		return err
	}
	*ts = v
	return nil
}

// ParseTimeSignature reads "3/4". The empty string is the zero signature.
func ParseTimeSignature(s string) (TimeSignature, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TimeSignature{}, nil
	}
	b, t, ok := strings.Cut(s, "/")
	if !ok {
		return TimeSignature{}, errors.New(errors.ErrCodeInvalidFormat, "time signature %q is not of the form n/d", s)
	}
	beats, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return TimeSignature{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "time signature %q", s)
	}
	beatType, err := strconv.Atoi(strings.TrimSpace(t))
	if err != nil {
		return TimeSignature{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "time signature %q", s)
	}
	ts := TimeSignature{Beats: beats, BeatType: beatType}
	if err := ts.Validate(); err != nil {
		return TimeSignature{}, err
	}
	return ts, nil
}

// Bar is one measure's worth of entries.
type Bar struct {
	Number  int           `json:"number"`
	Time    TimeSignature `json:"time,omitempty"`
	Entries Structure     `json:"entries"`
}

// SplitBars cuts a timeline into bars of the given signature, numbered from 1.
//
// An event that crosses a barline is split in two: pitched halves are tied
// (a free event becomes start + stop, an already tied one continue), rests
// are split without ties. The last bar is padded with a rest when the
// timeline ends early.
func SplitBars(events []Event, ts TimeSignature) ([]Bar, error) {
	if err := ts.Validate(); err != nil {
		return nil, err
	}
	barLen := ts.Duration()

	var (
		bars    []Bar
		current []Event
		filled  duration.Duration
	)
	flush := func() {
		bars = append(bars, Bar{Number: len(bars) + 1, Time: ts, Entries: FromEvents(current)})
		current, filled = nil, duration.Zero
	}

	for i, e := range events {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		for {
			room := barLen.Minus(filled)
			if e.Grace || !room.Less(e.Duration) {
				current = append(current, e)
				filled = filled.Add(e.Duration)
				break
			}
			head, tail := e, e
			head.Duration, tail.Duration = room, e.Duration.Minus(room)
			if !e.IsRest() {
				head.Tie, tail.Tie = splitTie(e.Tie)
			}
			current = append(current, head)
			flush()
			e = tail
		}
		if filled == barLen {
			flush()
		}
	}
	if len(current) > 0 {
		if rest := barLen.Minus(filled); rest.Sign() > 0 {
			current = append(current, Event{Duration: rest})
		}
		flush()
	}
	return bars, nil
}

func splitTie(t TieState) (TieState, TieState) {
	switch t {
	case TieStart:
		return TieStart, TieContinue
	case TieContinue:
		return TieContinue, TieContinue
	case TieStop:
		return TieContinue, TieStop
	}
	return TieStart, TieStop
}
