package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/bartree/pkg/config"
	"github.com/matzehuels/bartree/pkg/io"
	"github.com/matzehuels/bartree/pkg/pipeline"
	"github.com/matzehuels/bartree/pkg/sequence"
)

// encodeFlags are the flags shared by every command that encodes bars.
type encodeFlags struct {
	time       string
	divisions  []int
	maxDepth   int
	maxDots    int
	preference string
	quantize   bool
	bestEffort bool
	beams      bool
	workers    int
	noCache    bool
	refresh    bool

	midiTrack   int
	midiChannel int
}

func (f *encodeFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.time, "time", "t", "", "time signature for bars that do not name one (e.g. 3/4)")
	fs.IntSliceVar(&f.divisions, "divisions", nil, "allowed divisions (default from config: 2,3)")
	fs.IntVar(&f.maxDepth, "max-depth", 0, "maximum tree depth below the root")
	fs.IntVar(&f.maxDots, "max-dots", 0, "maximum dots on a written value (0 forbids dots)")
	fs.StringVar(&f.preference, "preference", "", "division preference: binary, ascending, order:3,2, depth:3,2 or expr:<expression>")
	fs.BoolVar(&f.quantize, "quantize", false, "snap onsets to the nearest allowed division")
	fs.BoolVar(&f.bestEffort, "best-effort", false, "group ungroupable spans as flat runs instead of failing the bar")
	fs.BoolVar(&f.beams, "beams", false, "assign beams at beat boundaries")
	fs.IntVarP(&f.workers, "workers", "w", 0, "bars encoded in parallel")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	fs.BoolVar(&f.refresh, "refresh", false, "re-encode bars even when cached")
	fs.IntVar(&f.midiTrack, "midi-track", 0, "MIDI track to read, 1-based (0 reads all)")
	fs.IntVar(&f.midiChannel, "midi-channel", 0, "MIDI channel to read, 1-16 (0 reads all)")
}

// options merges cfg with the flags that were set on cmd.
func (f *encodeFlags) options(cmd *cobra.Command, cfg config.Config) (pipeline.Options, error) {
	changed := cmd.Flags().Changed
	if changed("divisions") {
		cfg.Codec.AllowedDivisions = f.divisions
	}
	if changed("max-depth") {
		cfg.Codec.MaxDepth = f.maxDepth
	}
	if changed("max-dots") {
		cfg.Codec.MaxDots = f.maxDots
	}
	if changed("preference") {
		cfg.Codec.Preference = f.preference
		if src, ok := strings.CutPrefix(f.preference, "expr:"); ok {
			cfg.Codec.Preference, cfg.Codec.PreferenceExpr = "expr", src
		}
	}
	if changed("quantize") {
		cfg.Codec.Quantize = f.quantize
	}
	if changed("best-effort") {
		cfg.Codec.BestEffort = f.bestEffort
	}
	if changed("beams") {
		cfg.Beams.Boundaries = config.BoundariesNone
		if f.beams {
			cfg.Beams.Boundaries = config.BoundariesBeats
		}
	}
	if changed("workers") {
		cfg.Workers = f.workers
	}
	if err := cfg.Validate(); err != nil {
		return pipeline.Options{}, err
	}

	copts, err := cfg.CodecOptions()
	if err != nil {
		return pipeline.Options{}, err
	}
	if f.time != "" {
		ts, err := sequence.ParseTimeSignature(f.time)
		if err != nil {
			return pipeline.Options{}, err
		}
		copts.Time = ts
	}
	return pipeline.Options{
		Codec:          copts,
		PreferenceName: cfg.PreferenceName(),
		Beams:          cfg.Beams.Boundaries == config.BoundariesBeats,
		Workers:        cfg.Workers,
		Refresh:        f.refresh,
		TTL:            cfg.Cache.TTL.Duration,
	}, nil
}

func (f *encodeFlags) midiOptions() io.MIDIOptions {
	return io.MIDIOptions{Track: f.midiTrack, Channel: f.midiChannel}
}
