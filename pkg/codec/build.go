package codec

import (
	"fmt"

	"github.com/matzehuels/bartree/pkg/duration"
	"github.com/matzehuels/bartree/pkg/errors"
	"github.com/matzehuels/bartree/pkg/seq"
	"github.com/matzehuels/bartree/pkg/sequence"
	"github.com/matzehuels/bartree/pkg/tree"
)

// ApproxLabel marks nodes built from an ungroupable span in best-effort mode.
const ApproxLabel = "~"

// Result is the output of Build.
type Result struct {
	Tree *tree.Tree

	// Approximate lists the spans that were grouped as flat runs because no
	// division fit. It is only non-empty with Options.BestEffort.
	Approximate []Range
}

// Exact reports whether no span had to be approximated.
func (r *Result) Exact() bool { return len(r.Approximate) == 0 }

// Build infers the rhythm tree of one bar from its events.
//
// It fails with MISALIGNED_EVENT when the events overrun the bar or
// quantization collapses an event, and with a *SpanError (UNGROUPABLE_SPAN)
// when a range cannot be grouped and BestEffort is off.
func Build(events []sequence.Event, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := validateEvents(events); err != nil {
		return nil, err
	}
	events = cloneEvents(events)
	if opts.Quantize {
		var err error
		if events, err = quantize(events, opts); err != nil {
			return nil, err
		}
	}

	onsets, total := sequence.Onsets(events)
	bar := total
	if !opts.Time.IsZero() {
		bar = opts.Time.Duration()
	}

	var approx []Range
	switch total.Cmp(bar) {
	case 1:
		return nil, errors.New(errors.ErrCodeMisalignedEvent,
			"events last %s, longer than the bar (%s)", total, bar)
	case -1:
		gap := Range{Start: total, End: bar}
		if !opts.BestEffort {
			return nil, &SpanError{Range: gap}
		}
		events = append(events, sequence.Event{Duration: gap.Len()})
		onsets = append(onsets, total)
		approx = append(approx, gap)
	}

	b := &builder{
		opts:   opts,
		events: events,
		onsets: onsets,
		memo:   make(map[spanKey]outcome),
		ranked: make(map[int][]int),
	}
	top := b.solve(spanKey{i: 0, j: len(events), start: duration.Zero, end: bar, frame: duration.FromInt(1), depth: 1})
	if top.err != nil {
		return nil, top.err
	}

	root := tree.NewRoot(opts.Time, bar)
	if err := root.AddChild(top.node); err != nil {
		return nil, err
	}
	t, err := tree.New(root)
	if err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "builder produced an invalid tree")
	}
	return &Result{Tree: t, Approximate: append(approx, top.approx...)}, nil
}

// spanKey identifies a subproblem: events [i, j) filling [start, end) in a
// frame where one written quarter sounds frame quarters.
type spanKey struct {
	i, j       int
	start, end duration.Duration
	frame      duration.Duration
	depth      int
}

type outcome struct {
	node   *tree.Node
	nodes  int
	tuplet bool
	approx []Range
	err    *SpanError
}

// approxLen is the total length of the approximated ranges.
func (o outcome) approxLen() duration.Duration {
	var sum duration.Duration
	for _, r := range o.approx {
		sum = sum.Add(r.Len())
	}
	return sum
}

// better reports whether o beats other: less approximated time first, then
// plain divisions over tuplets, then fewer nodes. Candidates arrive in
// preference order, so equal scores keep the earlier one.
func (o outcome) better(other outcome) bool {
	if other.node == nil {
		return true
	}
	if c := o.approxLen().Cmp(other.approxLen()); c != 0 {
		return c < 0
	}
	if o.tuplet != other.tuplet {
		return !o.tuplet
	}
	return o.nodes < other.nodes
}

type builder struct {
	opts   Options
	events []sequence.Event
	onsets []duration.Duration
	memo   map[spanKey]outcome
	ranked map[int][]int
}

// solve returns a fresh copy of the best subtree for k.
func (b *builder) solve(k spanKey) outcome {
	o, ok := b.memo[k]
	if !ok {
		o = b.search(k)
		b.memo[k] = o
	}
	if o.node != nil {
		o.node = o.node.Clone()
	}
	return o
}

func (b *builder) search(k spanKey) outcome {
	written := k.end.Minus(k.start).Div(k.frame)
	if k.depth > b.opts.MaxDepth {
		return b.fail(k, nil)
	}

	if k.j-k.i == 1 && !b.events[k.i].Grace {
		if _, ok := duration.Notatable(written, b.opts.dots()); ok {
			return outcome{node: tree.NewLeaf(b.events[k.i], written), nodes: 1}
		}
		return b.fail(k, nil)
	}
	if b.notatable(k, b.opts.dots()) {
		return outcome{node: b.run(k, duration.Plain, ""), nodes: 1 + k.j - k.i}
	}

	var (
		best outcome
		errs []*SpanError
	)
	for _, d := range b.divisions(k.depth) {
		cand, err := b.divide(k, d)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if cand.node != nil && cand.better(best) {
			best = cand
		}
	}
	if best.node != nil {
		return best
	}
	return b.fail(k, errs)
}

// fail returns the failure outcome for k, or a flat approximation of the
// span in best-effort mode.
func (b *builder) fail(k spanKey, errs []*SpanError) outcome {
	if !b.opts.BestEffort {
		if e := narrowest(errs); e != nil {
			return outcome{err: e}
		}
		return outcome{err: &SpanError{Range: Range{Start: k.start, End: k.end}}}
	}
	r := Range{Start: k.start, End: k.end}
	if k.j-k.i == 1 {
		leaf := tree.NewLeaf(b.events[k.i], b.events[k.i].Duration.Div(k.frame))
		leaf.Label = ApproxLabel
		return outcome{node: leaf, nodes: 1, approx: []Range{r}}
	}
	return outcome{node: b.run(k, duration.Plain, ApproxLabel), nodes: 1 + k.j - k.i, approx: []Range{r}}
}

// notatable reports whether every event of k can be written as a single note
// value with at most maxDots dots in k's frame.
func (b *builder) notatable(k spanKey, maxDots int) bool {
	for _, e := range b.events[k.i:k.j] {
		if e.Grace {
			continue
		}
		if _, ok := duration.Notatable(e.Duration.Div(k.frame), maxDots); !ok {
			return false
		}
	}
	return true
}

// run builds a group holding the events of k as leaves.
func (b *builder) run(k spanKey, r duration.Ratio, label string) *tree.Node {
	inner := k.frame.Mul(r.Factor())
	n := tree.NewInternal(r, k.end.Minus(k.start).Div(k.frame))
	n.Label = label
	for _, e := range b.events[k.i:k.j] {
		// a fresh leaf cannot be rejected by an internal node
		_ = n.AddChild(tree.NewLeaf(e, e.Duration.Div(inner)))
	}
	return n
}

func (b *builder) divisions(depth int) []int {
	if r, ok := b.ranked[depth]; ok {
		return r
	}
	r := rankDivisions(b.opts.Preference, b.opts.AllowedDivisions, depth)
	b.ranked[depth] = r
	return r
}

// divide splits k into d equal parts. A zero outcome with a nil error means
// the division does not apply (an event straddles a part boundary or a part
// is not a note value).
func (b *builder) divide(k spanKey, d int) (outcome, *SpanError) {
	part := k.end.Minus(k.start).DivInt(int64(d))
	if part.Den() > b.opts.MaxDenominator {
		return outcome{}, nil
	}

	written := k.end.Minus(k.start).Div(k.frame)
	ratio, inner := duration.Plain, k.frame
	if _, ok := duration.Notatable(written.DivInt(int64(d)), b.opts.dots()); !ok {
		ratio = duration.CanonicalRatio(d)
		if ratio.IsPlain() {
			return outcome{}, nil
		}
		if _, ok := duration.Notatable(written.DivInt(int64(d)).Unscale(ratio), b.opts.dots()); !ok {
			return outcome{}, nil
		}
		inner = k.frame.Mul(ratio.Factor())
	}

	if !ratio.IsPlain() && b.notatable(spanKey{i: k.i, j: k.j, frame: inner}, 0) {
		// a tuplet whose events read as undotted values in its own frame
		return outcome{node: b.run(k, ratio, ""), nodes: 1 + k.j - k.i, tuplet: true}, nil
	}

	bounds, ok := b.partition(k, part, d)
	if !ok {
		return outcome{}, nil
	}

	node := tree.NewInternal(ratio, written)
	res := outcome{node: node, nodes: 1, tuplet: !ratio.IsPlain()}
	for p := range d {
		child := b.solve(spanKey{
			i:     bounds[p],
			j:     bounds[p+1],
			start: k.start.Add(part.MulInt(int64(p))),
			end:   k.start.Add(part.MulInt(int64(p + 1))),
			frame: inner,
			depth: k.depth + 1,
		})
		if child.err != nil {
			return outcome{}, child.err
		}
		if err := node.AddChild(child.node); err != nil {
			panic(fmt.Sprintf("codec: attach fresh subtree: %v", err))
		}
		res.nodes += child.nodes
		res.approx = append(res.approx, child.approx...)
	}
	return res, nil
}

// partition returns the event index where each of the d parts begins, plus
// k.j. Grace notes on a boundary belong to the part that starts there. It
// reports false when an event straddles a boundary or a part is empty.
func (b *builder) partition(k spanKey, part duration.Duration, d int) ([]int, bool) {
	parts, err := seq.SplitEqual(b.onsets[k.i:k.j], identity, d, k.start, k.end)
	if err != nil {
		return nil, false
	}
	bounds := make([]int, d+1)
	bounds[0], bounds[d] = k.i, k.j
	for p := 1; p < d; p++ {
		bounds[p] = bounds[p-1] + len(parts[p-1])
		edge := k.start.Add(part.MulInt(int64(p)))
		if last := bounds[p] - 1; last >= k.i && edge.Less(b.onsets[last].Add(b.events[last].Duration)) {
			return nil, false
		}
	}
	for p := range d {
		if !b.hasNote(bounds[p], bounds[p+1]) {
			return nil, false
		}
	}
	return bounds, true
}

func identity(d duration.Duration) duration.Duration { return d }

func (b *builder) hasNote(i, j int) bool {
	for _, e := range b.events[i:j] {
		if !e.Grace {
			return true
		}
	}
	return false
}

func validateEvents(events []sequence.Event) error {
	notes := 0
	for i, e := range events {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		if !e.Grace {
			notes++
		}
	}
	if notes == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "bar has no timed events")
	}
	return nil
}

func cloneEvents(events []sequence.Event) []sequence.Event {
	return append([]sequence.Event(nil), events...)
}

// quantize snaps every onset and the end of the bar to the nearest allowed
// division.
func quantize(events []sequence.Event, opts Options) ([]sequence.Event, error) {
	onsets, total := sequence.Onsets(events)
	snap := func(v duration.Duration) (duration.Duration, error) {
		return duration.RoundToNearestDivision(v, opts.AllowedDivisions, opts.MaxDenominator)
	}
	end, err := snap(total)
	if err != nil {
		return nil, err
	}
	for i := range events {
		if events[i].Grace {
			continue
		}
		start, err := snap(onsets[i])
		if err != nil {
			return nil, err
		}
		stop := end
		if next := nextNote(events, i); next >= 0 {
			if stop, err = snap(onsets[next]); err != nil {
				return nil, err
			}
		}
		if stop.Cmp(start) <= 0 {
			return nil, errors.New(errors.ErrCodeMisalignedEvent,
				"event %d at %s collapses to nothing when quantized", i, onsets[i])
		}
		events[i].Duration = stop.Minus(start)
	}
	return events, nil
}

func nextNote(events []sequence.Event, i int) int {
	for j := i + 1; j < len(events); j++ {
		if !events[j].Grace {
			return j
		}
	}
	return -1
}
