package duration

import (
	"slices"

	"github.com/matzehuels/bartree/pkg/errors"
)

// Denominators returns every product of the allowed divisions (including the
// empty product 1) that does not exceed maxDenominator, in ascending order.
//
// Denominators([]int{2, 3}, 12) is [1 2 3 4 6 8 9 12].
func Denominators(allowed []int, maxDenominator int64) []int64 {
	seen := map[int64]bool{1: true}
	queue := []int64{1}
	for len(queue) > 0 {
		x := queue[0]
		queue = queue[1:]
		for _, a := range allowed {
			if a < 2 {
				continue
			}
			y := x * int64(a)
			if y <= maxDenominator && !seen[y] {
				seen[y] = true
				queue = append(queue, y)
			}
		}
	}
	out := make([]int64, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}

// RoundToNearestDivision returns the value closest to v whose denominator is
// one of Denominators(allowed, maxDenominator). When two candidates are equally
// close the one with the smaller denominator wins.
//
// It fails with NEGATIVE_DURATION for negative input and INVALID_CONFIG for a
// non-positive maxDenominator.
func RoundToNearestDivision(v Duration, allowed []int, maxDenominator int64) (Duration, error) {
	if v.Sign() < 0 {
		return Zero, errors.New(errors.ErrCodeNegativeDuration, "cannot round negative value %s", v)
	}
	if err := errors.ValidateMaxDenominator(maxDenominator); err != nil {
		return Zero, err
	}

	var (
		best    Duration
		bestErr Duration
		found   bool
	)
	num, den := v.parts()
	for _, q := range Denominators(allowed, maxDenominator) {
		// nearest numerator for denominator q, halves round up
		p := (2*num*q + den) / (2 * den)
		cand := reduce(p, q)
		e := v.Minus(cand).Abs()
		if !found || e.Less(bestErr) {
			best, bestErr, found = cand, e, true
		}
	}
	return best, nil
}

// LimitDenominator returns the closest value to d with denominator at most max,
// using continued fractions. Negative values are handled symmetrically.
func (d Duration) LimitDenominator(max int64) Duration {
	if max < 1 {
		max = 1
	}
	if d.Sign() < 0 {
		r := d.Abs().LimitDenominator(max)
		return Duration{num: -r.num, den: r.den}
	}
	num, den := d.parts()
	if den <= max {
		return d
	}

	p0, q0, p1, q1 := int64(0), int64(1), int64(1), int64(0)
	n, m := num, den
	for m != 0 {
		a := n / m
		q2 := q0 + a*q1
		if q2 > max {
			break
		}
		p0, q0, p1, q1 = p1, q1, p0+a*p1, q2
		n, m = m, n-a*m
	}
	k := (max - q0) / q1
	lower := reduce(p0+k*p1, q0+k*q1)
	upper := reduce(p1, q1)
	if d.Minus(upper).Abs().Cmp(d.Minus(lower).Abs()) <= 0 {
		return upper
	}
	return lower
}

// Notatable reports whether a written value can be printed as one note head
// with at most maxDots dots, and how many dots it needs. 3/2 is a dotted
// quarter (1 dot), 7/4 a double-dotted quarter, 5/4 is not notatable.
func Notatable(written Duration, maxDots int) (int, bool) {
	if written.Sign() <= 0 {
		return 0, false
	}
	for dots := 0; dots <= maxDots; dots++ {
		base := written.Mul(New(1<<dots, (1<<(dots+1))-1))
		if IsPowerOfTwo(base.Num()) && IsPowerOfTwo(base.Den()) {
			return dots, true
		}
	}
	return 0, false
}
