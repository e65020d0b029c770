package observability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnRunStart(ctx, "run", 4)
	p.OnBarStart(ctx, 0)
	p.OnBarComplete(ctx, 0, 8, time.Millisecond, nil)
	p.OnRunComplete(ctx, "run", time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "bar")
	c.OnCacheMiss(ctx, "bar")
	c.OnCacheSet(ctx, "bar", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	counters := &Counters{}
	SetPipelineHooks(counters)
	SetCacheHooks(counters)
	if Pipeline() != counters || Cache() != counters {
		t.Error("Set*Hooks did not register the hooks")
	}

	SetPipelineHooks(nil)
	if Pipeline() != counters {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestCounters(t *testing.T) {
	ctx := context.Background()
	c := &Counters{}

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var err error
			if i%5 == 0 {
				err = errors.New("ungroupable")
			}
			c.OnBarStart(ctx, i)
			c.OnBarComplete(ctx, i, 3, time.Millisecond, err)
			c.OnCacheMiss(ctx, "bar")
			c.OnCacheSet(ctx, "bar", 10)
		}()
	}
	wg.Wait()
	c.OnCacheHit(ctx, "bar")

	got := c.Snapshot()
	want := Snapshot{Bars: 10, Failed: 2, Leaves: 30, CacheHits: 1, CacheMiss: 10, CacheBytes: 100, Busy: 10 * time.Millisecond}
	if got != want {
		t.Errorf("Snapshot() = %+v, want %+v", got, want)
	}
}
