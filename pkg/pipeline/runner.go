package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/bartree/pkg/cache"
	"github.com/matzehuels/bartree/pkg/codec"
	"github.com/matzehuels/bartree/pkg/correct"
	"github.com/matzehuels/bartree/pkg/io"
	"github.com/matzehuels/bartree/pkg/notation"
	"github.com/matzehuels/bartree/pkg/observability"
	"github.com/matzehuels/bartree/pkg/sequence"
	"github.com/matzehuels/bartree/pkg/tree"
)

// Runner encodes bars with caching.
//
// The Runner keeps no state between runs besides the cache and logger, so
// several goroutines can share one with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute encodes every bar of s.
//
// Bar failures are recorded in the bar results; the returned error is only
// set for invalid options or when ctx is canceled before all bars started.
func (r *Runner) Execute(ctx context.Context, s *io.Score, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := r.logger(opts)

	runID := uuid.NewString()
	logger = logger.With("run", runID[:8])
	start := time.Now()
	observability.Pipeline().OnRunStart(ctx, runID, len(s.Bars))

	res := &Result{RunID: runID, Time: s.Time, Bars: make([]BarResult, len(s.Bars))}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, bar := range s.Bars {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			res.Bars[i] = r.encodeBar(gctx, bar.Bar, opts, logger)
			return nil
		})
	}
	_ = g.Wait()

	res.Stats.Duration = time.Since(start)
	if err := ctx.Err(); err != nil {
		observability.Pipeline().OnRunComplete(ctx, runID, res.Stats.Duration, err)
		return nil, err
	}
	res.summarize()
	observability.Pipeline().OnRunComplete(ctx, runID, res.Stats.Duration, nil)

	logger.Info("encoded bars",
		"bars", res.Stats.Bars,
		"failed", res.Stats.Failed,
		"cached", res.Stats.Cached,
		"duration", res.Stats.Duration)
	return res, nil
}

// EncodeBar runs one bar through the pipeline. Errors are returned in the
// result, not as a separate value.
func (r *Runner) EncodeBar(ctx context.Context, bar sequence.Bar, opts Options) BarResult {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return BarResult{Number: bar.Number, Time: bar.Time, Input: bar.Entries, Err: err}
	}
	return r.encodeBar(ctx, bar, opts, r.logger(opts))
}

// Close releases the cache.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

// cachedBar is what the cache holds for a bar. Pitches are read back from the
// input events, since JSON does not keep their Go types.
type cachedBar struct {
	Structure   sequence.Structure `json:"structure"`
	Approximate []codec.Range      `json:"approximate,omitempty"`
	Relabeled   int                `json:"relabeled,omitempty"`
}

func (r *Runner) encodeBar(ctx context.Context, bar sequence.Bar, opts Options, logger *log.Logger) BarResult {
	start := time.Now()
	observability.Pipeline().OnBarStart(ctx, bar.Number)

	copts := opts.Codec
	if !bar.Time.IsZero() {
		copts.Time = bar.Time
	}
	out := BarResult{Number: bar.Number, Time: copts.Time, Input: bar.Entries}
	out.Err = r.encode(ctx, bar, copts, opts, &out)
	out.Duration = time.Since(start)

	observability.Pipeline().OnBarComplete(ctx, bar.Number, out.Leaves(), out.Duration, out.Err)
	switch {
	case out.Err != nil:
		logger.Warn("bar not encoded", "bar", bar.Number, "err", out.Err)
	case len(out.Approximate) > 0:
		logger.Warn("bar approximated", "bar", bar.Number, "spans", len(out.Approximate))
	default:
		logger.Debug("encoded bar", "bar", bar.Number, "leaves", out.Leaves(), "cached", out.Cached)
	}
	return out
}

func (r *Runner) encode(ctx context.Context, bar sequence.Bar, copts codec.Options, opts Options, out *BarResult) error {
	events := bar.Entries.Events()
	key := r.barKey(bar.Entries, copts, opts)

	var (
		rt  *tree.Tree
		hit bool
		err error
	)
	if key != "" && !opts.Refresh {
		rt, hit = r.lookup(ctx, key, bar.Entries, copts, out)
	}
	if !hit {
		if rt, err = build(bar.Entries, copts, out); err != nil {
			return err
		}
		if out.Relabeled, err = correct.Tuplets(rt); err != nil {
			return err
		}
	}

	nt, err := notation.Decorate(rt, annotations(rt.Leaves(), events))
	if err != nil {
		return err
	}
	if opts.Beams {
		if _, err := correct.BeamTree(nt, correct.BeatBoundaries(copts.Time, rt.Root().Span)); err != nil {
			return err
		}
		out.Beams = nt.Beams()
	}
	out.Tree = nt
	out.Structure = codec.Flatten(nt.Tree)

	if key != "" && !hit {
		r.store(ctx, key, opts.TTL, cachedBar{
			Structure:   out.Structure,
			Approximate: out.Approximate,
			Relabeled:   out.Relabeled,
		})
	}
	return nil
}

func build(in sequence.Structure, copts codec.Options, out *BarResult) (*tree.Tree, error) {
	if in.HasGroups() {
		return codec.FromStructure(in, copts)
	}
	res, err := codec.Build(in.Events(), copts)
	if err != nil {
		return nil, err
	}
	out.Approximate = res.Approximate
	return res.Tree, nil
}

// annotations takes ties and pitches from the input events. A best-effort
// tree may end with a padding rest that has no input event.
func annotations(leaves []*tree.Node, events []sequence.Event) []notation.Annotation {
	anns := make([]notation.Annotation, len(leaves))
	for i, l := range leaves {
		if i < len(events) {
			anns[i] = notation.Annotation{Tie: events[i].Tie, Pitch: events[i].Pitch}
			continue
		}
		anns[i] = notation.Annotation{Tie: l.Event.Tie, Pitch: l.Event.Pitch}
	}
	return anns
}

// barKey returns the cache key of a bar, or "" when its entries do not
// serialize and the bar cannot be cached. Group chains are keyed in canonical
// form: renumbered IDs share a key, different groupings do not.
func (r *Runner) barKey(entries sequence.Structure, copts codec.Options, opts Options) string {
	data, err := json.Marshal(entries.Canonical())
	if err != nil {
		return ""
	}
	pref := opts.PreferenceName
	if s, ok := copts.Preference.(fmt.Stringer); ok && pref == "" {
		pref = s.String()
	}
	return r.Keyer.BarKey(cache.Hash(data), cache.BarKeyOpts{
		Time:           timeKey(copts.Time),
		Divisions:      copts.AllowedDivisions,
		MaxDenominator: copts.MaxDenominator,
		MaxDepth:       copts.MaxDepth,
		MaxDots:        copts.MaxDots,
		Preference:     pref,
		Quantize:       copts.Quantize,
		BestEffort:     copts.BestEffort,
		Beams:          opts.Beams,
	})
}

func timeKey(ts sequence.TimeSignature) string {
	if ts.IsZero() {
		return ""
	}
	return ts.String()
}

// lookup rebuilds a bar's tree from the cache. Entries that no longer decode
// are treated as misses.
func (r *Runner) lookup(ctx context.Context, key string, in sequence.Structure, copts codec.Options, out *BarResult) (*tree.Tree, bool) {
	data, err := cache.Lookup(ctx, r.Cache, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			r.Logger.Debug("cache read failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "bar")
		return nil, false
	}
	var cb cachedBar
	if err := json.Unmarshal(data, &cb); err != nil || len(cb.Structure) < len(in) {
		observability.Cache().OnCacheMiss(ctx, "bar")
		return nil, false
	}
	for i := range in {
		cb.Structure[i].Event.Pitch = in[i].Event.Pitch
	}
	rt, err := codec.FromStructure(cb.Structure, copts)
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, "bar")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "bar")
	out.Approximate = cb.Approximate
	out.Relabeled = cb.Relabeled
	out.Cached = true
	return rt, true
}

func (r *Runner) store(ctx context.Context, key string, ttl time.Duration, cb cachedBar) {
	data, err := json.Marshal(cb)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "bar", len(data))
}
