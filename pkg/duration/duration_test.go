package duration

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/bartree/pkg/errors"
)

func TestNewNormalizes(t *testing.T) {
	tests := []struct {
		num, den int64
		want     string
	}{
		{2, 4, "1/2"},
		{-2, -4, "1/2"},
		{3, -6, "-1/2"},
		{0, 5, "0"},
		{6, 3, "2"},
		{1, 3, "1/3"},
	}
	for _, tt := range tests {
		if got := New(tt.num, tt.den).String(); got != tt.want {
			t.Errorf("New(%d, %d) = %s, want %s", tt.num, tt.den, got, tt.want)
		}
	}
	if New(0, 7) != Zero {
		t.Error("New(0, 7) should equal the zero value")
	}
	if New(2, 6) != New(1, 3) {
		t.Error("equal fractions should compare equal with ==")
	}
}

func TestArithmetic(t *testing.T) {
	half := New(1, 2)
	third := New(1, 3)

	if got := half.Add(third); got != New(5, 6) {
		t.Errorf("1/2 + 1/3 = %s, want 5/6", got)
	}
	if got := third.Add(third).Add(third); got != FromInt(1) {
		t.Errorf("three thirds = %s, want 1", got)
	}
	if got := half.Mul(third); got != New(1, 6) {
		t.Errorf("1/2 * 1/3 = %s, want 1/6", got)
	}
	if got := half.Div(third); got != New(3, 2) {
		t.Errorf("1/2 / 1/3 = %s, want 3/2", got)
	}
	if got := third.MulInt(6); got != FromInt(2) {
		t.Errorf("1/3 * 6 = %s, want 2", got)
	}
	if got := FromInt(3).DivInt(4); got != New(3, 4) {
		t.Errorf("3 / 4 = %s, want 3/4", got)
	}
	if got := Sum(half, half, third); got != New(4, 3) {
		t.Errorf("Sum = %s, want 4/3", got)
	}
	if got := Zero.Add(third); got != third {
		t.Errorf("0 + 1/3 = %s", got)
	}
}

func TestSub(t *testing.T) {
	got, err := New(3, 4).Sub(New(1, 4))
	if err != nil {
		t.Fatalf("Sub error: %v", err)
	}
	if got != New(1, 2) {
		t.Errorf("3/4 - 1/4 = %s, want 1/2", got)
	}

	got, err = New(1, 4).Sub(New(1, 4))
	if err != nil || !got.IsZero() {
		t.Errorf("1/4 - 1/4 = %s, %v; want 0, nil", got, err)
	}

	_, err = New(1, 4).Sub(New(1, 2))
	if !errors.Is(err, errors.ErrCodeNegativeDuration) {
		t.Errorf("1/4 - 1/2 error = %v, want NEGATIVE_DURATION", err)
	}

	if got := New(1, 4).Minus(New(1, 2)); got != New(-1, 4) {
		t.Errorf("Minus = %s, want -1/4", got)
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b Duration
		want int
	}{
		{New(1, 3), New(1, 2), -1},
		{New(2, 4), New(1, 2), 0},
		{FromInt(1), New(2, 3), 1},
		{Zero, New(1, 64), -1},
		{New(-1, 2), Zero, -1},
	}
	for _, tt := range tests {
		if got := tt.a.Cmp(tt.b); got != tt.want {
			t.Errorf("Cmp(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
	if Min(New(1, 3), New(1, 2)) != New(1, 3) || Max(New(1, 3), New(1, 2)) != New(1, 2) {
		t.Error("Min/Max mismatch")
	}
}

func TestScale(t *testing.T) {
	triplet := Ratio{Actual: 3, Normal: 2}

	// a written eighth inside a triplet sounds for 1/3
	if got := New(1, 2).Scale(triplet); got != New(1, 3) {
		t.Errorf("Scale = %s, want 1/3", got)
	}
	if got := New(1, 3).Unscale(triplet); got != New(1, 2) {
		t.Errorf("Unscale = %s, want 1/2", got)
	}
	if got := New(3, 4).Scale(Plain); got != New(3, 4) {
		t.Errorf("plain Scale changed value: %s", got)
	}
	if got := New(3, 4).Scale(Ratio{}); got != New(3, 4) {
		t.Errorf("zero Ratio should be plain, got %s", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Duration
		wantErr bool
	}{
		{"3/8", New(3, 8), false},
		{" 6/4 ", New(3, 2), false},
		{"2", FromInt(2), false},
		{"0.75", New(3, 4), false},
		{"-1/2", New(-1, 2), false},
		{"", Zero, true},
		{"1/0", Zero, true},
		{"a/4", Zero, true},
		{"quarter", Zero, true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil {
			if !errors.Is(err, errors.ErrCodeInvalidDuration) {
				t.Errorf("Parse(%q) code = %v", tt.in, errors.GetCode(err))
			}
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestJSON(t *testing.T) {
	type rec struct {
		D Duration `json:"d"`
		R Ratio    `json:"r"`
	}
	in := rec{D: New(3, 8), R: Ratio{Actual: 5, Normal: 4}}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `{"d":"3/8","r":"5:4"}` {
		t.Errorf("Marshal = %s", data)
	}
	var out rec
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(in, out, cmp.Comparer(func(a, b Duration) bool { return a == b })); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestGCD(t *testing.T) {
	tests := []struct {
		a, b, want Duration
	}{
		{New(1, 2), New(1, 3), New(1, 6)},
		{New(1, 2), New(1, 4), New(1, 4)},
		{FromInt(1), New(1, 2), New(1, 2)},
		{New(3, 4), New(1, 2), New(1, 4)},
		{Zero, New(1, 8), New(1, 8)},
	}
	for _, tt := range tests {
		if got := GCD(tt.a, tt.b); got != tt.want {
			t.Errorf("GCD(%s, %s) = %s, want %s", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(New(1, 16)); err != nil {
		t.Errorf("Validate(1/16) = %v", err)
	}
	for _, d := range []Duration{Zero, New(-1, 4)} {
		if err := Validate(d); !errors.Is(err, errors.ErrCodeInvalidDuration) {
			t.Errorf("Validate(%s) = %v, want INVALID_DURATION", d, err)
		}
	}
}
