package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"evowatch-backend/lib/timezone"
)

// hourCache holds one snapshot of a monitoring category and treats it
// as fresh for as long as the wall-clock hour it was captured in
// lasts. The upstream only regenerates listings hourly, anything more
// eager just burns requests.
//
// The fetch callback signals failure through its error, a nil error
// with an empty list is a legitimate "nothing listed right now" and
// replaces the snapshot. Only true failures fall back to stale data.
type hourCache[T any] struct {
	name  string
	fetch func(context.Context) ([]T, error)
	now   func() time.Time

	mu       sync.Mutex
	snapshot []T
	hour     int
	primed   bool
}

func newHourCache[T any](name string, fetch func(context.Context) ([]T, error)) *hourCache[T] {
	return &hourCache[T]{
		name:  name,
		fetch: fetch,
		now:   timezone.Now,
	}
}

func (c *hourCache[T]) Get(ctx context.Context) []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	hour := c.now().Hour()
	if c.primed && c.hour == hour {
		slog.DebugContext(ctx, "serving cached snapshot", "category", c.name, "hour", hour)
		return c.snapshot
	}

	list, err := c.fetch(ctx)
	if err != nil {
		if c.primed {
			slog.WarnContext(ctx, "fetch failed, serving stale snapshot", "category", c.name, "captured_hour", c.hour, "err", err)
			return c.snapshot
		}
		slog.WarnContext(ctx, "fetch failed with no snapshot to fall back on", "category", c.name, "err", err)
		return nil
	}

	c.snapshot = list
	c.hour = hour
	c.primed = true
	slog.InfoContext(ctx, "snapshot refreshed", "category", c.name, "hour", hour, "entries", len(list))
	return list
}
