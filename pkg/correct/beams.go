package correct

import (
	"slices"

	"github.com/matzehuels/bartree/pkg/duration"
	"github.com/matzehuels/bartree/pkg/errors"
	"github.com/matzehuels/bartree/pkg/notation"
	"github.com/matzehuels/bartree/pkg/seq"
	"github.com/matzehuels/bartree/pkg/sequence"
	"github.com/matzehuels/bartree/pkg/tree"
)

// maxBeamable is the longest written value that takes a beam: an eighth.
var maxBeamable = duration.New(1, 2)

// Item is one note or rest as seen by the beaming pass.
type Item struct {
	// Duration is the sounding length, used to place the item in the bar.
	Duration duration.Duration
	// Written is the printed value. Zero means Duration.
	Written  duration.Duration
	Rest     bool
	Grace    bool
}

func (it Item) written() duration.Duration {
	if it.Written.IsZero() {
		return it.Duration
	}
	return it.Written
}

func (it Item) beamable() bool {
	w := it.written()
	return w.Sign() > 0 && !maxBeamable.Less(w)
}

// ItemsFromEvents returns one item per event, reading written values from
// the event durations.
func ItemsFromEvents(events []sequence.Event) []Item {
	out := make([]Item, len(events))
	for i, e := range events {
		out[i] = Item{Duration: e.Duration, Rest: e.IsRest(), Grace: e.Grace}
	}
	return out
}

// Beamings returns the beam state of every item. Boundaries are sounding
// offsets from the start of the bar and must be sorted. Grace notes are never
// beamed and do not separate their neighbours.
func Beamings(items []Item, boundaries []duration.Duration) ([]sequence.BeamState, error) {
	if !slices.IsSortedFunc(boundaries, duration.Duration.Cmp) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "beat boundaries are not sorted")
	}

	type slot struct {
		index      int
		onset, end duration.Duration
		beamable   bool
		rest       bool
	}
	var slots []slot
	var t duration.Duration
	for i, it := range items {
		if it.Grace {
			continue
		}
		end := t.Add(it.Duration)
		slots = append(slots, slot{index: i, onset: t, end: end, beamable: it.beamable(), rest: it.Rest})
		t = end
	}

	// run[k] numbers the beam run slot k belongs to; joined neighbours share it.
	run := make([]int, len(slots))
	for k, pair := range seq.Pairs(slots) {
		a, b := pair[0], pair[1]
		if a.beamable && b.beamable && !crosses(boundaries, a.onset, b.end) {
			run[k+1] = run[k]
		} else {
			run[k+1] = run[k] + 1
		}
	}

	states := make([]sequence.BeamState, len(items))
	keyed := make([]int, len(slots))
	for k := range slots {
		keyed[k] = k
	}
	for _, r := range seq.SplitBy(keyed, func(k int) int { return run[k] }) {
		for len(r) > 0 && slots[r[0]].rest {
			r = r[1:]
		}
		for len(r) > 0 && slots[r[len(r)-1]].rest {
			r = r[:len(r)-1]
		}
		if len(r) < 2 {
			continue
		}
		for j, k := range r {
			switch j {
			case 0:
				states[slots[k].index] = sequence.BeamStart
			case len(r) - 1:
				states[slots[k].index] = sequence.BeamStop
			default:
				states[slots[k].index] = sequence.BeamContinue
			}
		}
	}
	return states, nil
}

// crosses reports whether a boundary lies strictly inside (from, to).
func crosses(boundaries []duration.Duration, from, to duration.Duration) bool {
	for _, b := range boundaries {
		if from.Less(b) && b.Less(to) {
			return true
		}
	}
	return false
}

// BeamTree sets the beam state of every leaf of nt and returns how many
// changed. Leaves are classed by their written span.
func BeamTree(nt *notation.Tree, boundaries []duration.Duration) (int, error) {
	if err := nt.Validate(); err != nil {
		return 0, err
	}
	leaves := nt.Leaves()
	items := make([]Item, len(leaves))
	for i, l := range leaves {
		items[i] = Item{
			Duration: tree.Actual(l),
			Written:  l.Span,
			Rest:     l.Event.IsRest(),
			Grace:    l.Event.Grace,
		}
	}
	states, err := Beamings(items, boundaries)
	if err != nil {
		return 0, err
	}
	changed := 0
	for i, l := range leaves {
		if l.Beam != states[i] {
			l.Beam = states[i]
			changed++
		}
	}
	return changed, nil
}

// BeatBoundaries returns the beat boundaries inside a bar of length bar: the
// beats of ts, or every quarter when ts is unspecified.
func BeatBoundaries(ts sequence.TimeSignature, bar duration.Duration) []duration.Duration {
	if !ts.IsZero() {
		return ts.Boundaries()
	}
	var out []duration.Duration
	for q := duration.FromInt(1); q.Less(bar); q = q.Add(duration.FromInt(1)) {
		out = append(out, q)
	}
	return out
}
