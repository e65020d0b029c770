package sequence

import (
	"strings"

	"github.com/matzehuels/bartree/pkg/duration"
	"github.com/matzehuels/bartree/pkg/errors"
)

// TieState is the tie status of an event.
type TieState int

const (
	TieNone TieState = iota
	TieStart
	TieContinue
	TieStop
)

var tieNames = [...]string{"none", "start", "continue", "stop"}

// String returns the tie name.
func (t TieState) String() string {
	if t < 0 || int(t) >= len(tieNames) {
		return "none"
	}
	return tieNames[t]
}

// Tied reports whether the event is tied to its successor.
func (t TieState) Tied() bool { return t == TieStart || t == TieContinue }

// MarshalText implements encoding.TextMarshaler.
func (t TieState) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TieState) UnmarshalText(text []byte) error {
	v, err := ParseTieState(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseTieState reads "none", "start", "continue" or "stop". The empty string
// is TieNone.
func ParseTieState(s string) (TieState, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return TieNone, nil
	}
	for i, name := range tieNames {
		if name == s {
			return TieState(i), nil
		}
	}
	return TieNone, errors.New(errors.ErrCodeInvalidFormat, "unknown tie state %q", s)
}

// BeamState is the beam status of a leaf.
type BeamState int

const (
	BeamNone BeamState = iota
	BeamStart
	BeamContinue
	BeamStop
)

var beamNames = [...]string{"none", "start", "continue", "stop"}

// String returns the beam name.
func (b BeamState) String() string {
	if b < 0 || int(b) >= len(beamNames) {
		return "none"
	}
	return beamNames[b]
}

// MarshalText implements encoding.TextMarshaler.
func (b BeamState) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *BeamState) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	if s == "" {
		*b = BeamNone
		return nil
	}
	for i, name := range beamNames {
		if name == s {
			*b = BeamState(i)
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown beam state %q", s)
}

// Event is the abstract event record exchanged with a score collaborator.
type Event struct {
	Duration duration.Duration `json:"duration"`
	Tie      TieState          `json:"tie,omitempty"`
	Grace    bool              `json:"grace,omitempty"`
	Dots     int               `json:"dots,omitempty"`
	Pitch    any               `json:"pitch,omitempty"`
}

// Validate checks the event invariants: dots are non-negative, grace notes
// take no time and every other event takes some.
func (e Event) Validate() error {
	if e.Dots < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "negative dot count %d", e.Dots)
	}
	if e.Grace {
		if !e.Duration.IsZero() {
			return errors.New(errors.ErrCodeInvalidDuration, "grace note with duration %s", e.Duration)
		}
		return nil
	}
	return duration.Validate(e.Duration)
}

// IsRest reports whether the event carries no pitch.
func (e Event) IsRest() bool { return e.Pitch == nil }

// Onsets returns the start offset of every event and the total duration.
func Onsets(events []Event) ([]duration.Duration, duration.Duration) {
	onsets := make([]duration.Duration, len(events))
	var t duration.Duration
	for i, e := range events {
		onsets[i] = t
		t = t.Add(e.Duration)
	}
	return onsets, t
}

// Total returns the summed duration of events.
func Total(events []Event) duration.Duration {
	_, t := Onsets(events)
	return t
}
