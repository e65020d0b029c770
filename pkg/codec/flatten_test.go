package codec

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/bartree/pkg/duration"
	"github.com/matzehuels/bartree/pkg/errors"
	"github.com/matzehuels/bartree/pkg/sequence"
	"github.com/matzehuels/bartree/pkg/tree"
)

func group(id int, ratio duration.Ratio, span string) sequence.Group {
	return sequence.Group{ID: id, Ratio: ratio, Span: duration.MustParse(span)}
}

var triplet = duration.Ratio{Actual: 3, Normal: 2}

func TestFlatten(t *testing.T) {
	res, err := Build(notes("1/3", "1/3", "1/3", "1/2", "1/2"), Options{Time: ts(2, 4)})
	if err != nil {
		t.Fatal(err)
	}
	got := Flatten(res.Tree)

	outer := group(0, duration.Plain, "2")
	want := sequence.Structure{
		{Event: notes("1/3")[0], Groups: []sequence.Group{outer, group(1, triplet, "1")}},
		{Event: notes("1/3")[0], Groups: []sequence.Group{outer, group(1, triplet, "1")}},
		{Event: notes("1/3")[0], Groups: []sequence.Group{outer, group(1, triplet, "1")}},
		{Event: notes("1/2")[0], Groups: []sequence.Group{outer, group(2, duration.Plain, "1")}},
		{Event: notes("1/2")[0], Groups: []sequence.Group{outer, group(2, duration.Plain, "1")}},
	}
	if diff := cmp.Diff(want, got, durationCmp); diff != "" {
		t.Errorf("Flatten() mismatch (-want +got):\n%s", diff)
	}
}

func TestFlattenWholeBar(t *testing.T) {
	res, err := Build(notes("4"), Options{Time: ts(4, 4)})
	if err != nil {
		t.Fatal(err)
	}
	got := Flatten(res.Tree)
	if len(got) != 1 || got[0].Groups != nil {
		t.Errorf("Flatten() = %+v, want one ungrouped entry", got)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		events []sequence.Event
		opts   Options
	}{
		{"eighths", notes("1/2", "1/2"), Options{}},
		{"triplet then eighths", notes("1/3", "1/3", "1/3", "1/2", "1/2"), Options{Time: ts(2, 4)}},
		{"beat triplets", notes(repeat("1/3", 12)...), Options{AllowedDivisions: []int{2, 3, 4}, Time: ts(4, 4)}},
		{"nested", notes("1/6", "1/6", "1/6", "1/2", "1/3", "1/3", "1/3", "1"), Options{Time: ts(3, 4)}},
		{"quintuplet", notes(repeat("1/5", 5)...), Options{AllowedDivisions: []int{2, 3, 5}}},
		{"whole bar", notes("3"), Options{Time: ts(3, 4)}},
		{"with grace", append([]sequence.Event{{Grace: true, Pitch: "B4"}}, notes("1", "1")...), Options{Time: ts(2, 4)}},
		{"ties", []sequence.Event{
			{Duration: duration.FromInt(1), Pitch: "C4", Tie: sequence.TieStop},
			{Duration: duration.FromInt(1), Pitch: "C4", Tie: sequence.TieStart},
		}, Options{Time: ts(2, 4)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Build(tt.events, tt.opts)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			s := Flatten(res.Tree)
			if diff := cmp.Diff(tt.events, s.Events(), durationCmp); diff != "" {
				t.Errorf("events not recovered (-want +got):\n%s", diff)
			}

			rebuilt, err := FromStructure(s, tt.opts)
			if err != nil {
				t.Fatalf("FromStructure() error = %v", err)
			}
			if !tree.Equal(res.Tree, rebuilt) {
				t.Errorf("round trip changed the tree:\n got %s\nwant %s", rebuilt, res.Tree)
			}
			if diff := cmp.Diff(s, Flatten(rebuilt), durationCmp); diff != "" {
				t.Errorf("second flatten differs (-want +got):\n%s", diff)
			}

			decoded, err := Decode(s, tt.opts)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !tree.Equal(res.Tree, decoded) {
				t.Errorf("Decode() = %s, want %s", decoded, res.Tree)
			}
		})
	}
}

func TestFromStructureCanonicalizes(t *testing.T) {
	// Arbitrary ids and a non-normalized plain ratio come back canonical.
	s := sequence.Structure{
		{Event: notes("1/2")[0], Groups: []sequence.Group{group(41, duration.Ratio{Actual: 2, Normal: 2}, "1")}},
		{Event: notes("1/2")[0], Groups: []sequence.Group{group(41, duration.Ratio{Actual: 2, Normal: 2}, "1")}},
		{Event: notes("1/3")[0], Groups: []sequence.Group{group(7, triplet, "1")}},
		{Event: notes("1/3")[0], Groups: []sequence.Group{group(7, triplet, "1")}},
		{Event: notes("1/3")[0], Groups: []sequence.Group{group(7, triplet, "1")}},
	}
	tr, err := FromStructure(s, Options{Time: ts(2, 4)})
	if err != nil {
		t.Fatalf("FromStructure() error = %v", err)
	}
	if got, want := tr.String(), "R(1(C4:1/2,C4:1/2),3:2(C4:1/2,C4:1/2,C4:1/2))"; got != want {
		t.Errorf("FromStructure() = %s, want %s", got, want)
	}
	if diff := cmp.Diff(s.Canonical(), Flatten(tr), durationCmp); diff != "" {
		t.Errorf("Flatten(FromStructure(s)) != s.Canonical() (-want +got):\n%s", diff)
	}
}

func TestFromStructureErrors(t *testing.T) {
	half := notes("1/2")[0]
	whole := notes("1")[0]
	g := func(id int) []sequence.Group { return []sequence.Group{group(id, duration.Plain, "1")} }

	tests := []struct {
		name string
		s    sequence.Structure
		opts Options
		code errors.Code
	}{
		{
			name: "group resumes",
			s:    sequence.Structure{{Event: half, Groups: g(1)}, {Event: half, Groups: g(2)}, {Event: half, Groups: g(1)}, {Event: half, Groups: g(2)}},
			opts: Options{Time: ts(2, 4)},
			code: errors.ErrCodeMisalignedEvent,
		},
		{
			name: "event overruns group",
			s:    sequence.Structure{{Event: half, Groups: g(1)}, {Event: whole, Groups: g(1)}},
			opts: Options{Time: ts(2, 4)},
			code: errors.ErrCodeMisalignedEvent,
		},
		{
			name: "group not filled",
			s:    sequence.Structure{{Event: half, Groups: g(1)}},
			opts: Options{Time: ts(1, 4)},
			code: errors.ErrCodeIncompleteNode,
		},
		{
			name: "bar not filled",
			s:    sequence.Structure{{Event: half, Groups: g(1)}, {Event: half, Groups: g(1)}},
			opts: Options{Time: ts(2, 4)},
			code: errors.ErrCodeIncompleteNode,
		},
		{
			name: "bar overrun",
			s:    sequence.Structure{{Event: whole}, {Event: whole}},
			opts: Options{Time: ts(1, 4)},
			code: errors.ErrCodeMisalignedEvent,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromStructure(tt.s, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("FromStructure() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestDecodeWithoutGroups(t *testing.T) {
	tr, err := Decode(sequence.FromEvents(notes("1/3", "1/3", "1/3")), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := tr.String(), "R(3:2(C4:1/2,C4:1/2,C4:1/2))"; got != want {
		t.Errorf("Decode() = %s, want %s", got, want)
	}
}
