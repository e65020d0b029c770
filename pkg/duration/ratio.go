package duration

import (
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"

	"github.com/matzehuels/bartree/pkg/errors"
)

// Ratio is a tuplet ratio: Actual notes are written in the time of Normal.
// The zero value and any Ratio with Actual == Normal are plain subdivisions.
type Ratio struct {
	Actual int
	Normal int
}

// Plain is the 1:1 ratio of an ordinary subdivision.
var Plain = Ratio{Actual: 1, Normal: 1}

// conventional tuplet numbers are kept unreduced when written against the
// nearest lower power of two (6:4 stays a sextuplet).
var conventional = map[int]bool{3: true, 5: true, 6: true, 7: true}

func (r Ratio) terms() (int, int) {
	if r.Actual <= 0 || r.Normal <= 0 {
		return 1, 1
	}
	return r.Actual, r.Normal
}

// IsPlain reports whether r does not scale time.
func (r Ratio) IsPlain() bool {
	a, n := r.terms()
	return a == n
}

// Normalize returns Plain for any plain ratio and r otherwise.
func (r Ratio) Normalize() Ratio {
	if r.IsPlain() {
		return Plain
	}
	return r
}

// Reduce returns r in lowest terms.
func (r Ratio) Reduce() Ratio {
	a, n := r.terms()
	g := gcd(a, n)
	return Ratio{Actual: a / g, Normal: n / g}
}

// Factor returns Normal/Actual, the multiplier from written to sounding time.
func (r Ratio) Factor() Duration {
	a, n := r.terms()
	return New(int64(n), int64(a))
}

// String returns "1" for plain ratios and "a:n" otherwise.
func (r Ratio) String() string {
	if r.IsPlain() {
		return "1"
	}
	return strconv.Itoa(r.Actual) + ":" + strconv.Itoa(r.Normal)
}

// MarshalText implements encoding.TextMarshaler.
func (r Ratio) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Ratio) UnmarshalText(text []byte) error {
	v, err := ParseRatio(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// ParseRatio reads "3:2", "1" or a bare tuplet number such as "5", which is
// expanded with CanonicalRatio.
func ParseRatio(s string) (Ratio, error) {
	s = strings.TrimSpace(s)
	if a, n, ok := strings.Cut(s, ":"); ok {
		actual, err := strconv.Atoi(strings.TrimSpace(a))
		if err != nil {
			return Ratio{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "ratio %q", s)
		}
		normal, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return Ratio{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "ratio %q", s)
		}
		if actual <= 0 || normal <= 0 {
			return Ratio{}, errors.New(errors.ErrCodeInvalidFormat, "ratio %q must be positive", s)
		}
		return Ratio{Actual: actual, Normal: normal}.Normalize(), nil
	}
	units, err := strconv.Atoi(s)
	if err != nil || units <= 0 {
		return Ratio{}, errors.New(errors.ErrCodeInvalidFormat, "invalid ratio %q", s)
	}
	return CanonicalRatio(units), nil
}

// CanonicalRatio returns the conventional ratio for a group of equal units.
//
// Powers of two are plain. Otherwise the units are written against the largest
// power of two below them; 3, 5, 6 and 7 keep that form (3:2, 5:4, 6:4, 7:4),
// any other count is reduced to lowest terms (10 becomes 5:4, 12 becomes 3:2).
func CanonicalRatio(units int) Ratio {
	if units < 2 || IsPowerOfTwo(units) {
		return Plain
	}
	normal := PrevPowerOfTwo(units)
	r := Ratio{Actual: units, Normal: normal}
	if conventional[units] {
		return r
	}
	return r.Reduce()
}

// IsPowerOfTwo reports whether n is 1, 2, 4, 8, ...
func IsPowerOfTwo[T constraints.Integer](n T) bool {
	return n > 0 && n&(n-1) == 0
}

// PrevPowerOfTwo returns the largest power of two strictly below n, or 1.
func PrevPowerOfTwo[T constraints.Integer](n T) T {
	p := T(1)
	for p*2 < n {
		p *= 2
	}
	return p
}
