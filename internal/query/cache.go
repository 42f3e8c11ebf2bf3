// Package query caches remote reads keyed by their full parameter tuple.
//
// Each key is an independent entry: a slow response for an old page or
// category lands under its own key and can never replace what is shown for
// another. Concurrent fetches of the same key are collapsed with
// singleflight.
package query

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/abelbrown/pokedex/internal/otel"
)

// Key identifies one remote read by its parameters, e.g. "pokemon/page/3/20".
type Key string

// NewKey joins parameter parts into a Key.
func NewKey(parts ...any) Key {
	strs := make([]string, len(parts))
	for i, p := range parts {
		strs[i] = fmt.Sprint(p)
	}
	return Key(strings.Join(strs, "/"))
}

// Fetcher performs the remote read for a key.
type Fetcher func(ctx context.Context) (any, error)

// Result is the observable state of one keyed read.
type Result[T any] struct {
	Data       *T
	IsLoading  bool // in flight with nothing to show yet
	IsFetching bool // in flight, possibly behind existing Data
	Err        error
	UpdatedAt  time.Time // last successful fetch
}

type entry struct {
	data      any
	err       error
	updatedAt time.Time // last success
	settledAt time.Time // last completion, success or failure
	inFlight  bool
	stale     bool
}

// Cache holds one entry per Key. Goroutine-safe.
type Cache struct {
	mu         sync.Mutex
	entries    map[Key]*entry
	staleAfter time.Duration
	group      singleflight.Group
	now        func() time.Time
	log        *otel.Logger
}

// New creates a Cache. Entries older than staleAfter are refetched the next
// time they are ensured; zero means results never go stale on their own.
func New(staleAfter time.Duration, log *otel.Logger) *Cache {
	return &Cache{
		entries:    make(map[Key]*entry),
		staleAfter: staleAfter,
		now:        time.Now,
		log:        log,
	}
}

// entryLocked returns the entry for key, creating it. Caller holds c.mu.
func (c *Cache) entryLocked(key Key) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	return e
}

// Ensure reports whether a fetch for key should start now and, if so, marks
// it in flight. A fetch starts for a never-settled key, or for a key whose
// result is stale. A failed key is not refetched until invalidated.
func (c *Cache) Ensure(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entryLocked(key)
	if e.inFlight {
		return false
	}
	if !e.settledAt.IsZero() && !e.stale {
		if e.err != nil && e.data == nil {
			return false
		}
		if c.staleAfter <= 0 || c.now().Sub(e.settledAt) < c.staleAfter {
			return false
		}
	}
	e.inFlight = true
	return true
}

// Revalidate marks a settled, successful key in flight for a background
// refresh. Reports false for keys that are unknown, failed without data,
// or already in flight.
func (c *Cache) Revalidate(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || e.inFlight || e.data == nil {
		return false
	}
	e.inFlight = true
	return true
}

// Invalidate marks keys stale so the next Ensure refetches them.
func (c *Cache) Invalidate(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, k := range keys {
		if e, ok := c.entries[k]; ok {
			e.stale = true
		}
	}
}

// Run executes fn for key and stores the outcome under that key only.
// Data from an earlier success is kept when a refetch fails.
func (c *Cache) Run(ctx context.Context, key Key, fn Fetcher) error {
	c.mu.Lock()
	c.entryLocked(key).inFlight = true
	c.mu.Unlock()

	start := time.Now()
	c.log.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindQueryStart, Comp: "query", Key: string(key)})

	v, err, shared := c.group.Do(string(key), func() (any, error) {
		return fn(ctx)
	})
	if shared {
		c.log.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindQueryDedupHit, Comp: "query", Key: string(key)})
	}

	c.mu.Lock()
	e := c.entryLocked(key)
	e.inFlight = false
	e.settledAt = c.now()
	e.stale = false
	if err != nil {
		e.err = err
	} else {
		e.data = v
		e.err = nil
		e.updatedAt = e.settledAt
	}
	c.mu.Unlock()

	if err != nil {
		c.log.Emit(otel.Event{Level: otel.LevelWarn, Kind: otel.KindQueryError, Comp: "query", Key: string(key), Err: err.Error(), Dur: time.Since(start)})
		return err
	}
	c.log.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindQueryDone, Comp: "query", Key: string(key), Dur: time.Since(start)})
	return nil
}

// Fetch returns the cached value for key when it is fresh, otherwise runs fn
// synchronously. Used by the headless CLI.
func (c *Cache) Fetch(ctx context.Context, key Key, fn Fetcher) (any, error) {
	if c.Ensure(key) {
		if err := c.Run(ctx, key, fn); err != nil {
			return nil, err
		}
	}

	c.mu.Lock()
	e := c.entryLocked(key)
	data, err, inFlight := e.data, e.err, e.inFlight
	c.mu.Unlock()

	if inFlight {
		// someone else owns the fetch; join it
		if err := c.Run(ctx, key, fn); err != nil {
			return nil, err
		}
		c.mu.Lock()
		data = c.entries[key].data
		c.mu.Unlock()
		return data, nil
	}
	if data == nil && err != nil {
		return nil, err
	}
	return data, nil
}

// Len returns the number of tracked keys.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Get returns the typed state of key. Data stored under key must be a *T.
func Get[T any](c *Cache, key Key) Result[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Result[T]{}
	}

	var data *T
	if e.data != nil {
		data, _ = e.data.(*T)
	}
	return Result[T]{
		Data:       data,
		IsLoading:  e.inFlight && data == nil,
		IsFetching: e.inFlight,
		Err:        e.err,
		UpdatedAt:  e.updatedAt,
	}
}
