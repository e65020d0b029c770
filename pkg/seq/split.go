package seq

import (
	"sort"

	"github.com/matzehuels/bartree/pkg/duration"
	"github.com/matzehuels/bartree/pkg/errors"
)

// SplitBy partitions s into maximal contiguous runs on which key is constant.
// The runs share s's backing array. An empty input yields no runs.
func SplitBy[T any, K comparable](s []T, key func(T) K) [][]T {
	if len(s) == 0 {
		return nil
	}
	var runs [][]T
	start := 0
	current := key(s[0])
	for i := 1; i < len(s); i++ {
		k := key(s[i])
		if k != current {
			runs = append(runs, s[start:i:i])
			start, current = i, k
		}
	}
	return append(runs, s[start:len(s):len(s)])
}

// SplitContent partitions s into maximal contiguous runs on which pred is
// constant.
//
//	SplitContent([]int{1, 3, 2, 4, 5}, isEven) // [[1 3] [2 4] [5]]
func SplitContent[T any](s []T, pred func(T) bool) [][]T {
	return SplitBy(s, pred)
}

// SplitEqual cuts the interval [start, end) into k equal parts and assigns
// every item to the part containing its position. Items must be sorted by
// position; items outside the interval are dropped. Parts may be empty.
//
// It fails with INVALID_INPUT if k < 1 or end <= start.
func SplitEqual[T any](s []T, pos func(T) duration.Duration, k int, start, end duration.Duration) ([][]T, error) {
	if k < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cannot split into %d parts", k)
	}
	span, err := end.Sub(start)
	if err != nil || span.IsZero() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty interval [%s, %s)", start, end)
	}
	step := span.DivInt(int64(k))

	parts := make([][]T, k)
	lo := sort.Search(len(s), func(i int) bool { return !pos(s[i]).Less(start) })
	for i := 0; i < k; i++ {
		bound := start.Add(step.MulInt(int64(i + 1)))
		hi := lo + sort.Search(len(s)-lo, func(j int) bool { return !pos(s[lo+j]).Less(bound) })
		parts[i] = s[lo:hi:hi]
		lo = hi
	}
	return parts, nil
}
