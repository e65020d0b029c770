// Package config loads bartree settings from TOML.
//
// Every field has a default, so an empty or missing file is valid:
//
//	workers = 4
//
//	[codec]
//	allowed_divisions = [2, 3, 4]
//	max_denominator = 64
//	max_depth = 7
//	max_dots = 2
//	preference = "binary"        # binary | ascending | order:3,2 | depth:3,2 | expr
//	preference_expr = "division == 3 ? 0 : division"
//
//	[beams]
//	boundaries = "beats"         # beats | none
//
//	[cache]
//	backend = "file"             # file | redis | none
//	ttl = "168h"
//
// Command-line flags override file values.
package config

import (
	"os"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/bartree/pkg/cache"
	"github.com/matzehuels/bartree/pkg/codec"
	"github.com/matzehuels/bartree/pkg/errors"
)

// Boundary modes for beaming.
const (
	BoundariesBeats = "beats"
	BoundariesNone  = "none"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the full configuration.
type Config struct {
	Workers int   `toml:"workers"`
	Codec   Codec `toml:"codec"`
	Beams   Beams `toml:"beams"`
	Cache   Cache `toml:"cache"`
}

// Codec holds the tree builder settings.
type Codec struct {
	AllowedDivisions []int  `toml:"allowed_divisions"`
	MaxDenominator   int64  `toml:"max_denominator"`
	MaxDepth         int    `toml:"max_depth"`
	MaxDots          int    `toml:"max_dots"`
	Quantize         bool   `toml:"quantize"`
	BestEffort       bool   `toml:"best_effort"`
	Preference       string `toml:"preference"`
	PreferenceExpr   string `toml:"preference_expr"`
}

// Beams holds the beaming settings.
type Beams struct {
	Boundaries string `toml:"boundaries"`
}

// Cache holds the result cache settings.
type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
}

// Duration is a time.Duration read from strings such as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Workers: runtime.NumCPU(),
		Codec: Codec{
			AllowedDivisions: append([]int(nil), codec.DefaultDivisions...),
			MaxDenominator:   codec.DefaultMaxDenominator,
			MaxDepth:         codec.DefaultMaxDepth,
			MaxDots:          codec.DefaultMaxDots,
			Preference:       "binary",
		},
		Beams: Beams{Boundaries: BoundariesBeats},
		Cache: Cache{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
			TTL:       Duration{cache.TTLBar},
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, err
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	return cfg, nil
}

// Validate checks the values that the consumers do not check themselves.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "workers must be positive, got %d", c.Workers)
	}
	switch c.Beams.Boundaries {
	case BoundariesBeats, BoundariesNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown beam boundaries %q", c.Beams.Boundaries)
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	_, err := c.CodecOptions()
	return err
}

// PreferenceName returns the preference in the form codec.ParsePreference
// accepts.
func (c Config) PreferenceName() string {
	if c.Codec.Preference == "expr" {
		return "expr:" + c.Codec.PreferenceExpr
	}
	return c.Codec.Preference
}

// CodecOptions converts the codec section into builder options.
func (c Config) CodecOptions() (codec.Options, error) {
	p, err := codec.ParsePreference(c.PreferenceName())
	if err != nil {
		return codec.Options{}, err
	}
	opts := codec.Options{
		AllowedDivisions: append([]int(nil), c.Codec.AllowedDivisions...),
		MaxDenominator:   c.Codec.MaxDenominator,
		MaxDepth:         c.Codec.MaxDepth,
		MaxDots:          c.Codec.MaxDots,
		Preference:       p,
		Quantize:         c.Codec.Quantize,
		BestEffort:       c.Codec.BestEffort,
	}
	if opts.MaxDots == 0 {
		opts.MaxDots = codec.NoDots
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return codec.Options{}, err
	}
	return opts, nil
}

// Write encodes c as TOML to path.
func (c Config) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c)
}
