// Package observability provides hooks for metrics and tracing.
//
// Libraries call the registered hooks; main decides what, if anything,
// listens. The defaults do nothing, so instrumentation costs nothing unless a
// program opts in at startup:
//
//	counters := &observability.Counters{}
//	observability.SetPipelineHooks(counters)
//	observability.SetCacheHooks(counters)
//
// The pipeline emits events around a run and around each bar:
//
//	observability.Pipeline().OnBarStart(ctx, bar)
//	// ... encode the bar ...
//	observability.Pipeline().OnBarComplete(ctx, bar, leaves, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from the bar pipeline.
type PipelineHooks interface {
	OnRunStart(ctx context.Context, runID string, bars int)
	OnRunComplete(ctx context.Context, runID string, duration time.Duration, err error)

	OnBarStart(ctx context.Context, bar int)
	OnBarComplete(ctx context.Context, bar, leaves int, duration time.Duration, err error)
}

// CacheHooks receives events from cache lookups.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnRunStart(context.Context, string, int)                       {}
func (NoopPipelineHooks) OnRunComplete(context.Context, string, time.Duration, error)   {}
func (NoopPipelineHooks) OnBarStart(context.Context, int)                               {}
func (NoopPipelineHooks) OnBarComplete(context.Context, int, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores the no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
}
