package seq

import (
	"iter"

	"github.com/matzehuels/bartree/pkg/errors"
)

// Windows is a restartable view of overlapping fixed-size slices of a sequence.
// It holds no iteration state, so it can be ranged over any number of times.
type Windows[T any] struct {
	s    []T
	size int
}

// Window returns the windows of length size over s:
// Window([a b c d], 2) yields [a b], [b c], [c d].
//
// It fails with INVALID_WINDOW_SIZE if size <= 0 or size > len(s).
func Window[T any](s []T, size int) (Windows[T], error) {
	if size <= 0 || size > len(s) {
		return Windows[T]{}, errors.New(errors.ErrCodeInvalidWindowSize, "window size %d invalid for sequence of length %d", size, len(s))
	}
	return Windows[T]{s: s, size: size}, nil
}

// Len returns the number of windows.
func (w Windows[T]) Len() int {
	if w.size == 0 {
		return 0
	}
	return len(w.s) - w.size + 1
}

// At returns the i-th window.
func (w Windows[T]) At(i int) []T {
	end := i + w.size
	return w.s[i:end:end]
}

// All yields the windows in order.
func (w Windows[T]) All() iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		for i := 0; i < w.Len(); i++ {
			if !yield(w.At(i)) {
				return
			}
		}
	}
}

// Collect returns all windows as a slice.
func (w Windows[T]) Collect() [][]T {
	out := make([][]T, 0, w.Len())
	for win := range w.All() {
		out = append(out, win)
	}
	return out
}

// Pairs yields each adjacent pair of s with the index of the first element.
// It yields nothing for sequences shorter than two.
func Pairs[T any](s []T) iter.Seq2[int, [2]T] {
	return func(yield func(int, [2]T) bool) {
		w, err := Window(s, 2)
		if err != nil {
			return
		}
		i := 0
		for win := range w.All() {
			if !yield(i, [2]T{win[0], win[1]}) {
				return
			}
			i++
		}
	}
}
