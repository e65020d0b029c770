package correct

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/bartree/pkg/codec"
	"github.com/matzehuels/bartree/pkg/duration"
	"github.com/matzehuels/bartree/pkg/errors"
	"github.com/matzehuels/bartree/pkg/notation"
	"github.com/matzehuels/bartree/pkg/sequence"
	"github.com/matzehuels/bartree/pkg/tree"
)

var (
	d         = duration.MustParse
	durations = cmp.Comparer(func(a, b duration.Duration) bool { return a.Cmp(b) == 0 })
)

func leaf(span string) *tree.Node {
	return tree.NewLeaf(sequence.Event{Duration: d(span), Pitch: "C4"}, d(span))
}

func node(t *testing.T, r duration.Ratio, span string, children ...*tree.Node) *tree.Node {
	t.Helper()
	n := tree.NewInternal(r, d(span))
	if err := n.AddChildren(children...); err != nil {
		t.Fatal(err)
	}
	return n
}

func rooted(t *testing.T, span string, children ...*tree.Node) *tree.Tree {
	t.Helper()
	root := tree.NewRoot(sequence.TimeSignature{}, d(span))
	if err := root.AddChildren(children...); err != nil {
		t.Fatal(err)
	}
	tr, err := tree.New(root)
	if err != nil {
		t.Fatal(err)
	}
	if err := tr.Validate(); err != nil {
		t.Fatalf("fixture invalid: %v", err)
	}
	return tr
}

func actuals(t *tree.Tree) []duration.Duration {
	var out []duration.Duration
	for _, l := range t.Leaves() {
		out = append(out, tree.Actual(l))
	}
	return out
}

func TestTuplets(t *testing.T) {
	tests := []struct {
		name    string
		build   func(t *testing.T) *tree.Tree
		changed int
		want    string
	}{
		{
			name: "sextuplet of three",
			build: func(t *testing.T) *tree.Tree {
				return rooted(t, "1", node(t, duration.Ratio{Actual: 6, Normal: 4}, "1", leaf("1/2"), leaf("1/2"), leaf("1/2")))
			},
			changed: 1,
			want:    "R(3:2(C4:1/2,C4:1/2,C4:1/2))",
		},
		{
			name: "two units are plain",
			build: func(t *testing.T) *tree.Tree {
				return rooted(t, "1",
					node(t, duration.Ratio{Actual: 3, Normal: 2}, "2/3", leaf("1/2"), leaf("1/2")),
					leaf("1/3"))
			},
			changed: 1,
			want:    "R(1(C4:1/3,C4:1/3),C4:1/3)",
		},
		{
			name: "nested spans rescale",
			build: func(t *testing.T) *tree.Tree {
				inner := node(t, duration.Plain, "1", leaf("1/2"), leaf("1/2"))
				return rooted(t, "2",
					node(t, duration.Ratio{Actual: 3, Normal: 2}, "4/3", inner, leaf("1")),
					leaf("2/3"))
			},
			changed: 1,
			want:    "R(1(1(C4:1/3,C4:1/3),C4:2/3),C4:2/3)",
		},
		{
			name: "already canonical",
			build: func(t *testing.T) *tree.Tree {
				return rooted(t, "1", node(t, duration.Ratio{Actual: 5, Normal: 4}, "1",
					leaf("1/4"), leaf("1/4"), leaf("1/4"), leaf("1/4"), leaf("1/4")))
			},
			want: "R(5:4(C4:1/4,C4:1/4,C4:1/4,C4:1/4,C4:1/4))",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := tt.build(t)
			before := actuals(tr)

			changed, err := Tuplets(tr)
			if err != nil {
				t.Fatalf("Tuplets() error = %v", err)
			}
			if changed != tt.changed {
				t.Errorf("Tuplets() changed = %d, want %d", changed, tt.changed)
			}
			if got := tr.String(); got != tt.want {
				t.Errorf("Tuplets() = %s, want %s", got, tt.want)
			}
			if err := tr.Validate(); err != nil {
				t.Errorf("tree invalid after Tuplets(): %v", err)
			}
			if diff := cmp.Diff(before, actuals(tr), durations); diff != "" {
				t.Errorf("sounding durations changed (-before +after):\n%s", diff)
			}

			again, err := Tuplets(tr)
			if err != nil || again != 0 {
				t.Errorf("second Tuplets() = %d, %v, want 0, nil", again, err)
			}
		})
	}
}

func TestTupletsBuilderOutput(t *testing.T) {
	events := []sequence.Event{
		{Duration: d("1/3")}, {Duration: d("1/3")}, {Duration: d("1/3")},
		{Duration: d("1/2")}, {Duration: d("1/2")},
	}
	res, err := codec.Build(events, codec.Options{Time: sequence.TimeSignature{Beats: 2, BeatType: 4}})
	if err != nil {
		t.Fatal(err)
	}
	if changed, err := Tuplets(res.Tree); err != nil || changed != 0 {
		t.Errorf("Tuplets(builder output) = %d, %v, want 0, nil", changed, err)
	}
}

func TestTupletsInvalid(t *testing.T) {
	root := tree.NewRoot(sequence.TimeSignature{}, d("1"))
	tr, err := tree.New(root)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Tuplets(tr); !errors.Is(err, errors.ErrCodeIncompleteNode) {
		t.Errorf("Tuplets(empty root) error = %v, want INCOMPLETE_NODE", err)
	}
}

func TestTupletMarks(t *testing.T) {
	const (
		S = notation.MarkStart
		C = notation.MarkContinue
		E = notation.MarkStop
		P = notation.MarkPartial
	)
	tests := []struct {
		name    string
		in      [][]notation.Mark
		want    [][]notation.Mark
		changed int
	}{
		{"well formed", [][]notation.Mark{{S}, {C}, {E}, {P}}, [][]notation.Mark{{S}, {C}, {E}, {P}}, 0},
		{"orphan continue", [][]notation.Mark{{C}, {C}, {E}}, [][]notation.Mark{{S}, {C}, {E}}, 1},
		{"unclosed", [][]notation.Mark{{S}, {C}, {C}}, [][]notation.Mark{{S}, {C}, {E}}, 1},
		{"lone stop", [][]notation.Mark{{E}}, [][]notation.Mark{{P}}, 1},
		{"restart", [][]notation.Mark{{S}, {S}, {E}}, [][]notation.Mark{{P}, {S}, {E}}, 1},
		{"level ends", [][]notation.Mark{{S, S}, {C, C}, {E}}, [][]notation.Mark{{S, S}, {C, E}, {E}}, 1},
		{"empty", nil, [][]notation.Mark{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := TupletMarks(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("TupletMarks() mismatch (-want +got):\n%s", diff)
			}
			if changed != tt.changed {
				t.Errorf("TupletMarks() changed = %d, want %d", changed, tt.changed)
			}
			again, n := TupletMarks(got)
			if n != 0 || !cmp.Equal(got, again) {
				t.Errorf("TupletMarks() not idempotent: %v -> %v", got, again)
			}
		})
	}
}

func TestTupletMarksDoesNotMutate(t *testing.T) {
	in := [][]notation.Mark{{notation.MarkContinue}}
	TupletMarks(in)
	if in[0][0] != notation.MarkContinue {
		t.Error("TupletMarks() modified its input")
	}
}

func TestBeamings(t *testing.T) {
	const (
		N = sequence.BeamNone
		S = sequence.BeamStart
		C = sequence.BeamContinue
		E = sequence.BeamStop
	)
	note := func(s string) Item { return Item{Duration: d(s)} }
	rest := func(s string) Item { return Item{Duration: d(s), Rest: true} }
	triplet := Item{Duration: d("1/3"), Written: d("1/2")}
	one := []duration.Duration{d("1")}

	tests := []struct {
		name       string
		items      []Item
		boundaries []duration.Duration
		want       []sequence.BeamState
	}{
		{"eighths by beat", []Item{note("1/2"), note("1/2"), note("1/2"), note("1/2")}, one, []sequence.BeamState{S, E, S, E}},
		{"no boundaries", []Item{note("1/2"), note("1/2"), note("1/2"), note("1/2")}, nil, []sequence.BeamState{S, C, C, E}},
		{"quarter breaks", []Item{note("1/2"), note("1"), note("1/2")}, nil, []sequence.BeamState{N, N, N}},
		{"inner rest", []Item{note("1/2"), rest("1/2"), note("1/2")}, nil, []sequence.BeamState{S, C, E}},
		{"outer rests", []Item{rest("1/2"), note("1/2"), note("1/2"), rest("1/2")}, nil, []sequence.BeamState{N, S, E, N}},
		{"grace skipped", []Item{{Grace: true}, note("1/2"), note("1/2")}, one, []sequence.BeamState{N, S, E}},
		{"triplet eighths", []Item{triplet, triplet, triplet, note("1/2"), note("1/2")}, one, []sequence.BeamState{S, C, E, S, E}},
		{"boundary at onset", []Item{note("1/4"), note("1/4"), note("1/2"), note("1/2")}, []duration.Duration{d("1/2")}, []sequence.BeamState{S, E, S, E}},
		{"single", []Item{note("1/2")}, nil, []sequence.BeamState{N}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Beamings(tt.items, tt.boundaries)
			if err != nil {
				t.Fatalf("Beamings() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Beamings() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	_, err := Beamings([]Item{note("1/2")}, []duration.Duration{d("2"), d("1")})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Beamings(unsorted) error = %v, want INVALID_INPUT", err)
	}
}

func TestBeamTree(t *testing.T) {
	ts := sequence.TimeSignature{Beats: 2, BeatType: 4}
	events := []sequence.Event{
		{Duration: d("1/3"), Pitch: "C4"}, {Duration: d("1/3"), Pitch: "D4"}, {Duration: d("1/3"), Pitch: "E4"},
		{Duration: d("1/2"), Pitch: "F4"}, {Duration: d("1/2"), Pitch: "G4"},
	}
	res, err := codec.Build(events, codec.Options{Time: ts})
	if err != nil {
		t.Fatal(err)
	}
	nt, err := notation.Decorate(res.Tree, notation.FromEvents(events))
	if err != nil {
		t.Fatal(err)
	}

	bounds := BeatBoundaries(ts, ts.Duration())
	changed, err := BeamTree(nt, bounds)
	if err != nil {
		t.Fatalf("BeamTree() error = %v", err)
	}
	if changed != 5 {
		t.Errorf("BeamTree() changed = %d, want 5", changed)
	}
	want := []sequence.BeamState{
		sequence.BeamStart, sequence.BeamContinue, sequence.BeamStop,
		sequence.BeamStart, sequence.BeamStop,
	}
	if diff := cmp.Diff(want, nt.Beams()); diff != "" {
		t.Errorf("Beams() mismatch (-want +got):\n%s", diff)
	}

	if again, err := BeamTree(nt, bounds); err != nil || again != 0 {
		t.Errorf("second BeamTree() = %d, %v, want 0, nil", again, err)
	}
}

func TestBeatBoundaries(t *testing.T) {
	tests := []struct {
		ts   sequence.TimeSignature
		bar  string
		want []duration.Duration
	}{
		{sequence.CommonTime, "4", []duration.Duration{d("1"), d("2"), d("3")}},
		{sequence.TimeSignature{Beats: 6, BeatType: 8}, "3", []duration.Duration{d("3/2")}},
		{sequence.TimeSignature{}, "3", []duration.Duration{d("1"), d("2")}},
		{sequence.TimeSignature{}, "1/2", nil},
	}
	for _, tt := range tests {
		got := BeatBoundaries(tt.ts, d(tt.bar))
		if diff := cmp.Diff(tt.want, got, durations); diff != "" {
			t.Errorf("BeatBoundaries(%s, %s) mismatch (-want +got):\n%s", tt.ts, tt.bar, diff)
		}
	}
}
