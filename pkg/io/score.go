package io

import (
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/bartree/pkg/duration"
	"github.com/matzehuels/bartree/pkg/errors"
	"github.com/matzehuels/bartree/pkg/sequence"
)

// Score is a sequence of bars sharing a default time signature.
type Score struct {
	Time sequence.TimeSignature
	Bars []Bar
}

// Bar is one bar of a score with the annotations the converter adds.
type Bar struct {
	sequence.Bar
	Tree        string
	Beams       []sequence.BeamState
	Approximate []string
	Error       string
}

// Events returns every event of s in order, across bars.
func (s *Score) Events() []sequence.Event {
	var out []sequence.Event
	for _, b := range s.Bars {
		out = append(out, b.Entries.Events()...)
	}
	return out
}

type document struct {
	Time   string  `json:"time,omitempty" yaml:"time,omitempty"`
	Events []entry `json:"events,omitempty" yaml:"events,omitempty"`
	Bars   []bar   `json:"bars,omitempty" yaml:"bars,omitempty"`
}

type bar struct {
	Number      int      `json:"number,omitempty" yaml:"number,omitempty"`
	Time        string   `json:"time,omitempty" yaml:"time,omitempty"`
	Entries     []entry  `json:"entries" yaml:"entries"`
	Tree        string   `json:"tree,omitempty" yaml:"tree,omitempty"`
	Approximate []string `json:"approximate,omitempty" yaml:"approximate,omitempty"`
	Error       string   `json:"error,omitempty" yaml:"error,omitempty"`
}

type entry struct {
	Duration any     `json:"duration,omitempty" yaml:"duration,omitempty"`
	Pitch    any     `json:"pitch,omitempty" yaml:"pitch,omitempty"`
	Tie      string  `json:"tie,omitempty" yaml:"tie,omitempty"`
	Grace    bool    `json:"grace,omitempty" yaml:"grace,omitempty"`
	Dots     int     `json:"dots,omitempty" yaml:"dots,omitempty"`
	Beam     string  `json:"beam,omitempty" yaml:"beam,omitempty"`
	Groups   []group `json:"groups,omitempty" yaml:"groups,omitempty"`
}

type group struct {
	ID    int    `json:"id" yaml:"id"`
	Ratio any    `json:"ratio,omitempty" yaml:"ratio,omitempty"`
	Span  any    `json:"span" yaml:"span"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// fromDocument converts the wire form. A flat timeline is split into bars
// when a time signature is given and becomes a single bar otherwise.
func fromDocument(doc document) (*Score, error) {
	ts, err := sequence.ParseTimeSignature(doc.Time)
	if err != nil {
		return nil, err
	}
	s := &Score{Time: ts}

	if len(doc.Events) > 0 {
		if len(doc.Bars) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "document has both events and bars")
		}
		events := make([]sequence.Event, len(doc.Events))
		for i, e := range doc.Events {
			ent, err := e.decode()
			if err != nil {
				return nil, fmt.Errorf("event %d: %w", i, err)
			}
			events[i] = ent.Event
		}
		if ts.IsZero() {
			s.Bars = []Bar{{Bar: sequence.Bar{Number: 1, Entries: sequence.FromEvents(events)}}}
			return s, nil
		}
		bars, err := sequence.SplitBars(events, ts)
		if err != nil {
			return nil, err
		}
		for _, b := range bars {
			s.Bars = append(s.Bars, Bar{Bar: b})
		}
		return s, nil
	}

	for i, b := range doc.Bars {
		out := Bar{Tree: b.Tree, Approximate: b.Approximate, Error: b.Error}
		out.Number = b.Number
		if out.Number == 0 {
			out.Number = i + 1
		}
		if out.Time, err = sequence.ParseTimeSignature(b.Time); err != nil {
			return nil, fmt.Errorf("bar %d: %w", out.Number, err)
		}
		if out.Time.IsZero() {
			out.Time = ts
		}
		out.Entries = make(sequence.Structure, len(b.Entries))
		for j, e := range b.Entries {
			ent, err := e.decode()
			if err != nil {
				return nil, fmt.Errorf("bar %d, entry %d: %w", out.Number, j, err)
			}
			out.Entries[j] = ent
			if e.Beam != "" {
				if out.Beams == nil {
					out.Beams = make([]sequence.BeamState, len(b.Entries))
				}
				if err := out.Beams[j].UnmarshalText([]byte(e.Beam)); err != nil {
					return nil, fmt.Errorf("bar %d, entry %d: %w", out.Number, j, err)
				}
			}
		}
		s.Bars = append(s.Bars, out)
	}
	return s, nil
}

func toDocument(s *Score) document {
	doc := document{Time: s.Time.String()}
	for _, b := range s.Bars {
		out := bar{
			Number:      b.Number,
			Entries:     make([]entry, len(b.Entries)),
			Tree:        b.Tree,
			Approximate: b.Approximate,
			Error:       b.Error,
		}
		if b.Time != s.Time {
			out.Time = b.Time.String()
		}
		for j, e := range b.Entries {
			out.Entries[j] = encodeEntry(e)
			if j < len(b.Beams) && b.Beams[j] != sequence.BeamNone {
				out.Entries[j].Beam = b.Beams[j].String()
			}
		}
		doc.Bars = append(doc.Bars, out)
	}
	return doc
}

func (e entry) decode() (sequence.Entry, error) {
	d, err := parseDuration(e.Duration)
	if err != nil {
		return sequence.Entry{}, err
	}
	ev := sequence.Event{Duration: d, Grace: e.Grace, Dots: e.Dots, Pitch: e.Pitch}
	if e.Tie != "" {
		if ev.Tie, err = sequence.ParseTieState(e.Tie); err != nil {
			return sequence.Entry{}, err
		}
	}
	out := sequence.Entry{Event: ev}
	for _, g := range e.Groups {
		span, err := parseDuration(g.Span)
		if err != nil {
			return sequence.Entry{}, fmt.Errorf("group %d: %w", g.ID, err)
		}
		ratio := duration.Plain
		if g.Ratio != nil {
			if ratio, err = duration.ParseRatio(fmt.Sprint(g.Ratio)); err != nil {
				return sequence.Entry{}, fmt.Errorf("group %d: %w", g.ID, err)
			}
		}
		out.Groups = append(out.Groups, sequence.Group{ID: g.ID, Ratio: ratio, Span: span, Label: g.Label})
	}
	return out, nil
}

func encodeEntry(e sequence.Entry) entry {
	out := entry{Pitch: e.Event.Pitch, Grace: e.Event.Grace, Dots: e.Event.Dots}
	if !e.Event.Duration.IsZero() {
		out.Duration = e.Event.Duration.String()
	}
	if e.Event.Tie != sequence.TieNone {
		out.Tie = e.Event.Tie.String()
	}
	for _, g := range e.Groups {
		wg := group{ID: g.ID, Span: g.Span.String(), Label: g.Label}
		if !g.Ratio.IsPlain() {
			wg.Ratio = g.Ratio.String()
		}
		out.Groups = append(out.Groups, wg)
	}
	return out
}

// parseDuration accepts the scalar forms JSON and YAML decoders produce for
// a duration: fraction strings, whole numbers and decimals. Nil is zero.
func parseDuration(v any) (duration.Duration, error) {
	switch x := v.(type) {
	case nil:
		return duration.Zero, nil
	case string:
		return duration.Parse(x)
	case int:
		return duration.FromInt(int64(x)), nil
	case int64:
		return duration.FromInt(x), nil
	case uint64:
		if x > math.MaxInt64 {
			break
		}
		return duration.FromInt(int64(x)), nil
	case float64:
		if !math.IsInf(x, 0) && !math.IsNaN(x) {
			return duration.Parse(strconv.FormatFloat(x, 'f', -1, 64))
		}
	}
	return duration.Zero, errors.New(errors.ErrCodeInvalidFormat, "duration %v must be a fraction like \"1/3\"", v)
}
