package cache

import (
	"context"
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Cache stores JSON-encodable values under string keys
type Cache interface {
	// Get decodes the cached value into dst and reports whether it was present
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	// DeletePrefix drops every key starting with prefix
	DeletePrefix(ctx context.Context, prefix string) error
}

// Noop is a Cache that never stores anything
type Noop struct{}

func (Noop) Get(context.Context, string, any) (bool, error) { return false, nil }
func (Noop) Set(context.Context, string, any) error         { return nil }
func (Noop) DeletePrefix(context.Context, string) error     { return nil }

// Loader collapses concurrent loads of the same key. Invalidate starts a new
// generation: loads begun before it are not joined by later callers and
// their results are not written back.
type Loader struct {
	group singleflight.Group
	gen   atomic.Uint64
}

func (l *Loader) Invalidate() {
	l.gen.Add(1)
}

// Fetch returns the cached value for key, or loads it once for all concurrent
// callers and stores the result. Cache failures degrade to a plain load. The
// load runs detached from the caller's cancellation since other callers may
// share it.
func Fetch[T any](ctx context.Context, c Cache, l *Loader, key string, load func(context.Context) (T, error)) (T, bool, error) {
	var cached T
	if hit, err := c.Get(ctx, key, &cached); err == nil && hit {
		return cached, true, nil
	}

	gen := l.gen.Load()
	flight := key + "#" + strconv.FormatUint(gen, 10)
	ch := l.group.DoChan(flight, func() (interface{}, error) {
		detached := context.WithoutCancel(ctx)
		loaded, err := load(detached)
		if err != nil {
			return loaded, err
		}
		if l.gen.Load() == gen {
			_ = c.Set(detached, key, loaded)
		}
		return loaded, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, false, res.Err
		}
		return res.Val.(T), false, nil
	}
}
