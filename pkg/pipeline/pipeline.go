// Package pipeline runs the bar converter over a whole score.
//
// Every bar goes through the same stages:
//
//  1. Build: infer the rhythm tree from the bar's events, or rebuild it from
//     the group chains the input already carries
//  2. Correct: relabel tuplet ratios to their canonical form
//  3. Notate: copy the events' ties and pitches onto the tree and, when
//     enabled, assign beams at beat boundaries
//  4. Flatten: turn the tree back into a grouped sequence
//
// Bars are independent, so a [Runner] encodes them concurrently and caches
// each result under a key derived from its events and the codec options.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, score, pipeline.Options{Beams: true})
//	if err != nil {
//	    return err
//	}
//	out := pipeline.ToScore(res)
//
// A bar that cannot be encoded does not stop the run: its error is kept in
// its [BarResult] and the bar is written back unchanged with the error
// attached.
package pipeline

import (
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bartree/pkg/cache"
	"github.com/matzehuels/bartree/pkg/codec"
	"github.com/matzehuels/bartree/pkg/errors"
	"github.com/matzehuels/bartree/pkg/notation"
	"github.com/matzehuels/bartree/pkg/sequence"
)

// Options configures a pipeline run.
type Options struct {
	// Codec shapes the trees. Its Time is the default for bars that do not
	// name their own signature.
	Codec codec.Options

	// PreferenceName is the textual form of Codec.Preference, used in cache
	// keys. Leave it empty when the preference is the default.
	PreferenceName string

	// Beams assigns beams to every bar.
	Beams bool

	// Workers bounds the number of bars encoded at once.
	// Zero means runtime.NumCPU().
	Workers int

	// Refresh ignores cached results and overwrites them.
	Refresh bool

	// TTL is how long encoded bars stay cached. Zero means cache.TTLBar.
	TTL time.Duration

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger
}

// ValidateAndSetDefaults fills zero fields with defaults and checks the rest.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Workers == 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.TTL == 0 {
		o.TTL = cache.TTLBar
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "workers must be positive, got %d", o.Workers)
	}
	if o.Codec.Preference == nil && o.PreferenceName != "" {
		p, err := codec.ParsePreference(o.PreferenceName)
		if err != nil {
			return err
		}
		o.Codec.Preference = p
	}
	return o.Codec.ValidateAndSetDefaults()
}

// BarResult is the outcome of encoding one bar.
type BarResult struct {
	Number int
	Time   sequence.TimeSignature

	// Input is the bar as it was read.
	Input sequence.Structure

	// Tree is the decorated rhythm tree, nil when Err is set.
	Tree *notation.Tree

	// Structure is the flattened tree.
	Structure sequence.Structure

	// Beams holds one state per leaf when beaming was requested.
	Beams []sequence.BeamState

	// Approximate lists spans grouped as flat runs in best-effort mode.
	Approximate []codec.Range

	// Relabeled counts tuplet ratios the correction pass changed.
	Relabeled int

	Cached   bool
	Duration time.Duration
	Err      error
}

// Leaves returns the number of leaves in the bar's tree.
func (b *BarResult) Leaves() int {
	if b.Tree == nil {
		return 0
	}
	return len(b.Tree.Leaves())
}

// Result is the outcome of a run.
type Result struct {
	RunID string
	Time  sequence.TimeSignature
	Bars  []BarResult
	Stats Stats
}

// Stats summarizes a run.
type Stats struct {
	Bars        int
	Failed      int
	Cached      int
	Approximate int
	Leaves      int
	Duration    time.Duration
}

// Failed returns the bars that could not be encoded.
func (r *Result) Failed() []BarResult {
	var out []BarResult
	for _, b := range r.Bars {
		if b.Err != nil {
			out = append(out, b)
		}
	}
	return out
}

func (r *Result) summarize() {
	r.Stats.Bars = len(r.Bars)
	for _, b := range r.Bars {
		switch {
		case b.Err != nil:
			r.Stats.Failed++
			continue
		case b.Cached:
			r.Stats.Cached++
		}
		if len(b.Approximate) > 0 {
			r.Stats.Approximate++
		}
		r.Stats.Leaves += b.Leaves()
	}
}
