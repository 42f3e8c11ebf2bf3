package coord

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/pokedex/internal/otel"
	"github.com/abelbrown/pokedex/internal/query"
)

// refreshTimeout bounds each background read.
const refreshTimeout = 30 * time.Second

// maxConcurrentRefreshes limits parallel background reads.
const maxConcurrentRefreshes = 4

// Update reports progress of a background read.
type Update struct {
	Key  query.Key
	Done bool
	Err  error
}

// Refresher periodically revalidates the active reads so the list keeps
// showing data while newer data is fetched behind it.
// Uses context cancellation as the ONLY stop mechanism.
type Refresher struct {
	cache    *query.Cache
	interval time.Duration
	log      *otel.Logger

	mu     sync.Mutex
	active []Request

	wg sync.WaitGroup
}

// NewRefresher creates a Refresher. A non-positive interval disables the
// periodic loop; RefreshNow still works.
func NewRefresher(cache *query.Cache, interval time.Duration, log *otel.Logger) *Refresher {
	return &Refresher{cache: cache, interval: interval, log: log}
}

// SetActive replaces the set of reads to revalidate.
func (r *Refresher) SetActive(reqs []Request) {
	cp := make([]Request, len(reqs))
	copy(cp, reqs)

	r.mu.Lock()
	r.active = cp
	r.mu.Unlock()
}

func (r *Refresher) snapshot() []Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Start revalidates the active reads every interval until ctx is done.
// notify may be nil.
func (r *Refresher) Start(ctx context.Context, notify func(Update)) {
	if r.interval <= 0 {
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.RefreshNow(ctx, notify)
			}
		}
	}()
}

// Wait blocks until the background goroutine exits.
// Call after canceling the context passed to Start.
func (r *Refresher) Wait() {
	r.wg.Wait()
}

// RefreshNow revalidates every active read that has settled data, in
// parallel, and returns when all of them are done. Reads already in
// flight, never loaded, or failed without data are skipped.
func (r *Refresher) RefreshNow(ctx context.Context, notify func(Update)) int {
	var g errgroup.Group
	g.SetLimit(maxConcurrentRefreshes)

	started := 0
	for _, req := range r.snapshot() {
		if ctx.Err() != nil {
			break
		}
		if !r.cache.Revalidate(req.Key) {
			continue
		}
		started++
		r.log.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindQueryRefresh, Comp: "refresh", Key: string(req.Key)})
		if notify != nil {
			notify(Update{Key: req.Key})
		}

		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(ctx, refreshTimeout)
			defer cancel()

			err := r.cache.Run(fetchCtx, req.Key, req.Fetch)
			if notify != nil {
				notify(Update{Key: req.Key, Done: true, Err: err})
			}
			return nil // errors are reported per key
		})
	}

	_ = g.Wait()
	return started
}
