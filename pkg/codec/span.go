package codec

import (
	"fmt"

	"github.com/matzehuels/bartree/pkg/duration"
	"github.com/matzehuels/bartree/pkg/errors"
)

// Range is a half-open time range [Start, End) in quarter notes from the
// start of the bar.
type Range struct {
	Start duration.Duration `json:"start"`
	End   duration.Duration `json:"end"`
}

// Len returns End - Start.
func (r Range) Len() duration.Duration { return r.End.Minus(r.Start) }

// String returns "[start, end)".
func (r Range) String() string { return fmt.Sprintf("[%s, %s)", r.Start, r.End) }

// SpanError reports a time range that no allowed division can group.
// It carries the UNGROUPABLE_SPAN code.
type SpanError struct {
	Range
}

// Error implements the error interface.
func (e *SpanError) Error() string {
	return fmt.Sprintf("%s: no allowed division groups span %s", errors.ErrCodeUngroupableSpan, e.Range)
}

// Unwrap exposes the coded error for errors.Is.
func (e *SpanError) Unwrap() error {
	return errors.New(errors.ErrCodeUngroupableSpan, "span %s", e.Range)
}

// narrowest returns the error with the shortest range, the first on ties.
func narrowest(errs []*SpanError) *SpanError {
	var best *SpanError
	for _, e := range errs {
		if best == nil || e.Len().Less(best.Len()) {
			best = e
		}
	}
	return best
}
