// Package cache stores encoded bar results between runs.
//
// The pipeline keys every bar by a hash of its events and of the codec
// options that shaped it, so a cached structure is only reused for the exact
// same input. Three backends implement [Cache]:
//
//   - [FileCache]: one JSON file per key under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for batch jobs on several hosts
//   - [NullCache]: stores nothing, for --no-cache and tests
package cache

import (
	"context"
	"time"
)

// TTLBar is how long an encoded bar stays cached by default.
const TTLBar = 7 * 24 * time.Hour

// Cache is a byte store with expiring entries. Get reports a miss with
// hit == false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// BarKeyOpts are the codec settings that change how a bar is encoded.
type BarKeyOpts struct {
	Time           string `json:"time,omitempty"`
	Divisions      []int  `json:"divisions"`
	MaxDenominator int64  `json:"max_denominator"`
	MaxDepth       int    `json:"max_depth"`
	MaxDots        int    `json:"max_dots"`
	Preference     string `json:"preference,omitempty"`
	Quantize       bool   `json:"quantize,omitempty"`
	BestEffort     bool   `json:"best_effort,omitempty"`
	Beams          bool   `json:"beams,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// BarKey returns the key for a bar whose serialized entries hash to
	// barHash. Entries carry both the events and their group chains.
	BarKey(barHash string, opts BarKeyOpts) string
}

// DefaultKeyer builds keys of the form "bar:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// BarKey implements Keyer.
func (DefaultKeyer) BarKey(barHash string, opts BarKeyOpts) string {
	return hashKey("bar", barHash, opts)
}

// ScopedKeyer prefixes every key of an inner Keyer, so results written by
// different program versions never collide.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// BarKey implements Keyer.
func (k *ScopedKeyer) BarKey(barHash string, opts BarKeyOpts) string {
	return k.prefix + k.inner.BarKey(barHash, opts)
}
