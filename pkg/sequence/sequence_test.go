package sequence

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/bartree/pkg/duration"
	"github.com/matzehuels/bartree/pkg/errors"
)

var durationCmp = cmp.Comparer(func(a, b duration.Duration) bool { return a.Cmp(b) == 0 })

func q(s string) duration.Duration { return duration.MustParse(s) }

func TestParseTimeSignature(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeSignature
		wantErr bool
	}{
		{"3/4", WaltzTime, false},
		{" 6 / 8 ", TimeSignature{6, 8}, false},
		{"", TimeSignature{}, false},
		{"3", TimeSignature{}, true},
		{"3/5", TimeSignature{}, true},
		{"0/4", TimeSignature{}, true},
		{"a/4", TimeSignature{}, true},
	}
	for _, tt := range tests {
		got, err := ParseTimeSignature(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTimeSignature(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTimeSignature(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTimeSignatureGrid(t *testing.T) {
	tests := []struct {
		ts         TimeSignature
		bar, beat  string
		boundaries []string
	}{
		{CommonTime, "4", "1", []string{"1", "2", "3"}},
		{TimeSignature{6, 8}, "3", "3/2", []string{"3/2"}},
		{TimeSignature{3, 8}, "3/2", "1/2", []string{"1/2", "1"}},
		{TimeSignature{2, 2}, "4", "2", []string{"2"}},
	}
	for _, tt := range tests {
		t.Run(tt.ts.String(), func(t *testing.T) {
			if got := tt.ts.Duration(); got.Cmp(q(tt.bar)) != 0 {
				t.Errorf("Duration() = %s, want %s", got, tt.bar)
			}
			if got := tt.ts.Beat(); got.Cmp(q(tt.beat)) != 0 {
				t.Errorf("Beat() = %s, want %s", got, tt.beat)
			}
			var want []duration.Duration
			for _, b := range tt.boundaries {
				want = append(want, q(b))
			}
			if diff := cmp.Diff(want, tt.ts.Boundaries(), durationCmp); diff != "" {
				t.Errorf("Boundaries() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if (TimeSignature{}).Boundaries() != nil {
		t.Error("zero signature has boundaries")
	}
}

func TestSplitBars(t *testing.T) {
	events := []Event{
		{Duration: q("3"), Pitch: "C4"},
		{Duration: q("2"), Pitch: "D4", Tie: TieStart},
		{Duration: q("1"), Pitch: "D4", Tie: TieStop},
		{Duration: q("3")},
	}
	bars, err := SplitBars(events, WaltzTime)
	if err != nil {
		t.Fatal(err)
	}

	want := [][]Event{
		{{Duration: q("3"), Pitch: "C4"}},
		{{Duration: q("2"), Pitch: "D4", Tie: TieStart}, {Duration: q("1"), Pitch: "D4", Tie: TieStop}},
		{{Duration: q("3")}},
	}
	if len(bars) != len(want) {
		t.Fatalf("got %d bars, want %d", len(bars), len(want))
	}
	for i, b := range bars {
		if b.Number != i+1 || b.Time != WaltzTime {
			t.Errorf("bar %d: number %d time %v", i, b.Number, b.Time)
		}
		if diff := cmp.Diff(want[i], b.Entries.Events(), durationCmp); diff != "" {
			t.Errorf("bar %d mismatch (-want +got):\n%s", i+1, diff)
		}
	}
}

func TestSplitBarsAcrossBarline(t *testing.T) {
	events := []Event{
		{Duration: q("3"), Pitch: 60},
		{Duration: q("2"), Pitch: 62, Tie: TieStart},
		{Duration: q("1"), Pitch: 62, Tie: TieStop},
		{Duration: q("3/2")},
	}
	bars, err := SplitBars(events, TimeSignature{2, 4})
	if err != nil {
		t.Fatal(err)
	}

	want := [][]Event{
		{{Duration: q("2"), Pitch: 60, Tie: TieStart}},
		{{Duration: q("1"), Pitch: 60, Tie: TieStop}, {Duration: q("1"), Pitch: 62, Tie: TieStart}},
		{{Duration: q("1"), Pitch: 62, Tie: TieContinue}, {Duration: q("1"), Pitch: 62, Tie: TieStop}},
		{{Duration: q("3/2")}, {Duration: q("1/2")}},
	}
	if len(bars) != len(want) {
		t.Fatalf("got %d bars, want %d", len(bars), len(want))
	}
	for i, b := range bars {
		if diff := cmp.Diff(want[i], b.Entries.Events(), durationCmp); diff != "" {
			t.Errorf("bar %d mismatch (-want +got):\n%s", i+1, diff)
		}
	}
}

func TestSplitBarsErrors(t *testing.T) {
	if _, err := SplitBars([]Event{{Duration: q("1")}}, TimeSignature{}); err == nil {
		t.Error("SplitBars accepted a zero time signature")
	}
	_, err := SplitBars([]Event{{Duration: q("1"), Grace: true}}, CommonTime)
	if !errors.Is(err, errors.ErrCodeInvalidDuration) {
		t.Errorf("grace note with duration: error = %v, want %s", err, errors.ErrCodeInvalidDuration)
	}
}

func TestSplitBarsGrace(t *testing.T) {
	events := []Event{
		{Duration: q("2"), Pitch: 60},
		{Grace: true, Pitch: 61},
		{Duration: q("2"), Pitch: 62},
	}
	bars, err := SplitBars(events, TimeSignature{2, 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(bars) != 2 {
		t.Fatalf("got %d bars, want 2", len(bars))
	}
	if got := len(bars[1].Entries); got != 2 {
		t.Errorf("bar 2 has %d entries, want grace note and quarter pair", got)
	}
}

func TestCanonical(t *testing.T) {
	e := Event{Duration: q("1/3"), Pitch: 60}
	triplet := duration.Ratio{Actual: 3, Normal: 2}

	a := Structure{
		{Event: e, Groups: []Group{{ID: 7, Ratio: duration.Ratio{}, Span: q("2")}, {ID: 9, Ratio: triplet, Span: q("1")}}},
		{Event: e, Groups: []Group{{ID: 7, Ratio: duration.Ratio{}, Span: q("2")}, {ID: 9, Ratio: triplet, Span: q("1")}}},
		{Event: Event{Duration: q("1")}, Groups: []Group{}},
	}
	b := Structure{
		{Event: e, Groups: []Group{{ID: 1, Ratio: duration.Plain, Span: q("2")}, {ID: 2, Ratio: triplet, Span: q("1")}}},
		{Event: e, Groups: []Group{{ID: 1, Ratio: duration.Plain, Span: q("2")}, {ID: 2, Ratio: triplet, Span: q("1")}}},
		{Event: Event{Duration: q("1")}},
	}

	if diff := cmp.Diff(a.Canonical(), b.Canonical(), durationCmp); diff != "" {
		t.Errorf("canonical forms differ (-a +b):\n%s", diff)
	}
	if got := a.Canonical()[0].Groups[1].ID; got != 1 {
		t.Errorf("inner group ID = %d, want 1", got)
	}
	if a[0].Groups[0].ID != 7 {
		t.Error("Canonical modified its receiver")
	}
	if got := a[0].Path(); got != "1/3:2" {
		t.Errorf("Path() = %q, want %q", got, "1/3:2")
	}
}

func TestTieJSON(t *testing.T) {
	var e struct {
		Tie  TieState  `json:"tie"`
		Beam BeamState `json:"beam"`
	}
	if err := json.Unmarshal([]byte(`{"tie": "Continue", "beam": "stop"}`), &e); err != nil {
		t.Fatal(err)
	}
	if e.Tie != TieContinue || e.Beam != BeamStop {
		t.Errorf("got tie %v beam %v", e.Tie, e.Beam)
	}
	if !TieStart.Tied() || TieStop.Tied() {
		t.Error("Tied() is wrong for start or stop")
	}
	if err := json.Unmarshal([]byte(`{"tie": "slur"}`), &e); err == nil {
		t.Error("unknown tie state accepted")
	}
}

func TestEventValidate(t *testing.T) {
	tests := []struct {
		name    string
		e       Event
		wantErr bool
	}{
		{"note", Event{Duration: q("1/2"), Pitch: 60}, false},
		{"grace", Event{Grace: true}, false},
		{"zero", Event{Pitch: 60}, true},
		{"negative dots", Event{Duration: q("1"), Dots: -1}, true},
	}
	for _, tt := range tests {
		if err := tt.e.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}
