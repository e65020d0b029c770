package duration

import (
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"

	"github.com/matzehuels/bartree/pkg/errors"
)

// Duration is an exact rational number of quarter notes.
//
// The zero value is 0. Values are always stored in lowest terms with a
// positive denominator, so == compares numeric value.
type Duration struct {
	num int64
	den int64 // 0 only in the zero value
}

// Zero is the zero duration.
var Zero = Duration{}

// New returns num/den in lowest terms. It panics if den is zero.
func New(num, den int64) Duration {
	if den == 0 {
		panic("duration: zero denominator")
	}
	return reduce(num, den)
}

// Of is New for any integer type.
func Of[T constraints.Integer](num, den T) Duration {
	return New(int64(num), int64(den))
}

// FromInt returns n quarter notes.
func FromInt(n int64) Duration {
	return reduce(n, 1)
}

// Sum adds all durations.
func Sum(ds ...Duration) Duration {
	var total Duration
	for _, d := range ds {
		total = total.Add(d)
	}
	return total
}

func reduce(num, den int64) Duration {
	if num == 0 {
		return Duration{}
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := gcd(abs(num), den)
	return Duration{num: num / g, den: den / g}
}

func (d Duration) parts() (int64, int64) {
	if d.den == 0 {
		return 0, 1
	}
	return d.num, d.den
}

// Num returns the numerator in lowest terms.
func (d Duration) Num() int64 {
	n, _ := d.parts()
	return n
}

// Den returns the denominator in lowest terms (1 for integers and zero).
func (d Duration) Den() int64 {
	_, q := d.parts()
	return q
}

// Add returns d + o.
func (d Duration) Add(o Duration) Duration {
	a, b := d.parts()
	c, e := o.parts()
	g := gcd(b, e)
	l := b / g * e
	return reduce(a*(l/b)+c*(l/e), l)
}

// Sub returns d - o. It fails with NEGATIVE_DURATION if the result is below zero.
func (d Duration) Sub(o Duration) (Duration, error) {
	r := d.Minus(o)
	if r.Sign() < 0 {
		return Zero, errors.New(errors.ErrCodeNegativeDuration, "%s - %s is negative", d, o)
	}
	return r, nil
}

// Minus returns the signed difference d - o. Use Sub when the result is a
// duration that must not go negative.
func (d Duration) Minus(o Duration) Duration {
	c, e := o.parts()
	return d.Add(Duration{num: -c, den: e})
}

// Mul returns d * o.
func (d Duration) Mul(o Duration) Duration {
	a, b := d.parts()
	c, e := o.parts()
	if a == 0 || c == 0 {
		return Zero
	}
	g1 := gcd(abs(a), e)
	g2 := gcd(abs(c), b)
	return reduce((a/g1)*(c/g2), (b/g2)*(e/g1))
}

// Div returns d / o. It panics if o is zero.
func (d Duration) Div(o Duration) Duration {
	c, e := o.parts()
	if c == 0 {
		panic("duration: division by zero")
	}
	return d.Mul(reduce(e, c))
}

// MulInt returns d * n.
func (d Duration) MulInt(n int64) Duration {
	return d.Mul(FromInt(n))
}

// DivInt returns d / n. It panics if n is zero.
func (d Duration) DivInt(n int64) Duration {
	return d.Mul(New(1, n))
}

// Cmp compares d and o and returns -1, 0 or +1.
func (d Duration) Cmp(o Duration) int {
	a, b := d.parts()
	c, e := o.parts()
	l, r := a*e, c*b
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	}
	return 0
}

// Less reports whether d < o.
func (d Duration) Less(o Duration) bool { return d.Cmp(o) < 0 }

// Sign returns -1, 0 or +1.
func (d Duration) Sign() int {
	switch {
	case d.num < 0:
		return -1
	case d.num > 0:
		return 1
	}
	return 0
}

// IsZero reports whether d is 0.
func (d Duration) IsZero() bool { return d.num == 0 }

// Abs returns |d|.
func (d Duration) Abs() Duration {
	if d.num < 0 {
		return Duration{num: -d.num, den: d.den}
	}
	return d
}

// Float64 returns the nearest float64, for display only.
func (d Duration) Float64() float64 {
	a, b := d.parts()
	return float64(a) / float64(b)
}

// Scale converts a written value inside a tuplet of ratio r to sounding time.
// A quarter inside a 3:2 triplet sounds for 2/3.
func (d Duration) Scale(r Ratio) Duration {
	a, n := r.terms()
	return d.Mul(New(int64(n), int64(a)))
}

// Unscale is the inverse of Scale.
func (d Duration) Unscale(r Ratio) Duration {
	a, n := r.terms()
	return d.Mul(New(int64(a), int64(n)))
}

// String returns "n" for integers and "n/d" otherwise.
func (d Duration) String() string {
	a, b := d.parts()
	if b == 1 {
		return strconv.FormatInt(a, 10)
	}
	return strconv.FormatInt(a, 10) + "/" + strconv.FormatInt(b, 10)
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Parse reads "3/8", "2" or a decimal such as "0.75".
func Parse(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, errors.New(errors.ErrCodeInvalidDuration, "empty duration")
	}
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(num), 10, 64)
		if err != nil {
			return Zero, errors.Wrap(errors.ErrCodeInvalidDuration, err, "numerator of %q", s)
		}
		q, err := strconv.ParseInt(strings.TrimSpace(den), 10, 64)
		if err != nil {
			return Zero, errors.Wrap(errors.ErrCodeInvalidDuration, err, "denominator of %q", s)
		}
		if q == 0 {
			return Zero, errors.New(errors.ErrCodeInvalidDuration, "zero denominator in %q", s)
		}
		return New(n, q), nil
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return Zero, errors.New(errors.ErrCodeInvalidDuration, "cannot parse %q", s)
	}
	if !r.Num().IsInt64() || !r.Denom().IsInt64() {
		return Zero, errors.New(errors.ErrCodeInvalidDuration, "%q out of range", s)
	}
	return New(r.Num().Int64(), r.Denom().Int64()), nil
}

// MustParse is Parse that panics on error, for tests and constants.
func MustParse(s string) Duration {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// GCD returns the largest duration that divides both a and b a whole number
// of times. GCD(1/2, 1/3) is 1/6. If either is zero the other is returned.
func GCD(a, b Duration) Duration {
	if a.IsZero() {
		return b.Abs()
	}
	if b.IsZero() {
		return a.Abs()
	}
	an, ad := a.Abs().parts()
	bn, bd := b.Abs().parts()
	n := gcd(an, bn)
	g := gcd(ad, bd)
	return reduce(n, ad/g*bd)
}

// Min returns the smaller of a and b.
func Min(a, b Duration) Duration {
	if b.Less(a) {
		return b
	}
	return a
}

// Max returns the larger of a and b.
func Max(a, b Duration) Duration {
	if a.Less(b) {
		return b
	}
	return a
}

// Validate fails unless d is strictly positive.
func Validate(d Duration) error {
	if d.Sign() <= 0 {
		return errors.New(errors.ErrCodeInvalidDuration, "duration %s must be positive", d)
	}
	return nil
}

func gcd[T constraints.Integer](a, b T) T {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

func abs[T constraints.Signed](n T) T {
	if n < 0 {
		return -n
	}
	return n
}
