package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Counters implements PipelineHooks and CacheHooks by counting events. It is
// safe for concurrent use; the zero value is ready.
type Counters struct {
	Bars       atomic.Int64
	Failed     atomic.Int64
	Leaves     atomic.Int64
	CacheHits  atomic.Int64
	CacheMiss  atomic.Int64
	CacheBytes atomic.Int64
	busy       atomic.Int64 // nanoseconds spent encoding bars
}

// Snapshot is a point-in-time copy of Counters.
type Snapshot struct {
	Bars, Failed, Leaves int64
	CacheHits, CacheMiss int64
	CacheBytes           int64
	Busy                 time.Duration
}

// Snapshot returns the current counts.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Bars:       c.Bars.Load(),
		Failed:     c.Failed.Load(),
		Leaves:     c.Leaves.Load(),
		CacheHits:  c.CacheHits.Load(),
		CacheMiss:  c.CacheMiss.Load(),
		CacheBytes: c.CacheBytes.Load(),
		Busy:       time.Duration(c.busy.Load()),
	}
}

func (c *Counters) OnRunStart(context.Context, string, int)                     {}
func (c *Counters) OnRunComplete(context.Context, string, time.Duration, error) {}
func (c *Counters) OnBarStart(context.Context, int)                             {}

func (c *Counters) OnBarComplete(_ context.Context, _ int, leaves int, d time.Duration, err error) {
	c.Bars.Add(1)
	if err != nil {
		c.Failed.Add(1)
	}
	c.Leaves.Add(int64(leaves))
	c.busy.Add(int64(d))
}

func (c *Counters) OnCacheHit(context.Context, string)  { c.CacheHits.Add(1) }
func (c *Counters) OnCacheMiss(context.Context, string) { c.CacheMiss.Add(1) }

func (c *Counters) OnCacheSet(_ context.Context, _ string, size int) {
	c.CacheBytes.Add(int64(size))
}

var (
	_ PipelineHooks = (*Counters)(nil)
	_ CacheHooks    = (*Counters)(nil)
)
