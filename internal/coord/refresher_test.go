package coord

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/abelbrown/pokedex/internal/query"
)

type updates struct {
	mu  sync.Mutex
	got []Update
}

func (u *updates) add(up Update) {
	u.mu.Lock()
	u.got = append(u.got, up)
	u.mu.Unlock()
}

func (u *updates) list() []Update {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]Update(nil), u.got...)
}

func TestRefreshNowRevalidatesLoadedKeys(t *testing.T) {
	c := New(20)
	cache := query.New(0, nil)
	l := &fakeLoader{count: 40}
	load(t, c, cache, l)
	before := l.calls.Load()

	r := NewRefresher(cache, 0, nil)
	r.SetActive(c.Requests(l))

	var u updates
	n := r.RefreshNow(context.Background(), u.add)
	if n != 3 {
		t.Fatalf("refreshed %d reads, want 3", n)
	}
	if got := l.calls.Load() - before; got != 3 {
		t.Errorf("loader calls = %d, want 3", got)
	}

	var started, done int
	for _, up := range u.list() {
		if up.Done {
			done++
		} else {
			started++
		}
	}
	if started != 3 || done != 3 {
		t.Errorf("updates: %d started, %d done", started, done)
	}
}

func TestRefreshSkipsUnloadedKeys(t *testing.T) {
	c := New(20)
	cache := query.New(0, nil)
	l := &fakeLoader{count: 40}

	r := NewRefresher(cache, 0, nil)
	r.SetActive(c.Requests(l))
	if n := r.RefreshNow(context.Background(), nil); n != 0 {
		t.Errorf("nothing loaded yet, refreshed %d", n)
	}
}

func TestRefreshKeepsDataOnFailure(t *testing.T) {
	c := New(20)
	cache := query.New(0, nil)
	l := &fakeLoader{count: 40}
	load(t, c, cache, l)

	l.err = errors.New("request failed with status 502")
	r := NewRefresher(cache, 0, nil)
	r.SetActive(c.Requests(l))

	var u updates
	r.RefreshNow(context.Background(), u.add)

	v := c.View(cache, nil)
	if len(v.Items) != 20 {
		t.Errorf("visible data should survive a failed refresh, got %d items", len(v.Items))
	}
	failed := 0
	for _, up := range u.list() {
		if up.Done && up.Err != nil {
			failed++
		}
	}
	if failed != 3 {
		t.Errorf("expected 3 failed updates, got %d", failed)
	}
}

func TestRefresherShowsSyncing(t *testing.T) {
	c := New(20)
	cache := query.New(0, nil)
	l := &fakeLoader{count: 40}
	load(t, c, cache, l)

	release := make(chan struct{})
	slow := Request{Key: c.PageKey(), Fetch: func(ctx context.Context) (any, error) {
		<-release
		return l.GetPage(ctx, 0, 20)
	}}

	r := NewRefresher(cache, 0, nil)
	r.SetActive([]Request{slow})

	seen := make(chan View, 1)
	go r.RefreshNow(context.Background(), func(up Update) {
		if !up.Done {
			seen <- c.View(cache, nil)
		}
	})

	select {
	case v := <-seen:
		if !v.Syncing || v.Loading || len(v.Items) != 20 {
			t.Errorf("during refresh view = %+v", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no start update")
	}
	close(release)
}

func TestStartStopsOnCancel(t *testing.T) {
	c := New(20)
	cache := query.New(0, nil)
	l := &fakeLoader{count: 40}
	load(t, c, cache, l)

	r := NewRefresher(cache, 10*time.Millisecond, nil)
	r.SetActive(c.Requests(l))

	done := make(chan struct{}, 16)
	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx, func(up Update) {
		if up.Done {
			select {
			case done <- struct{}{}:
			default:
			}
		}
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("refresher never ran")
	}

	cancel()
	waited := make(chan struct{})
	go func() {
		r.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after cancel")
	}
}

func TestStartDisabled(t *testing.T) {
	r := NewRefresher(query.New(0, nil), 0, nil)
	r.Start(context.Background(), nil)
	r.Wait()
}

func TestSetActiveCopies(t *testing.T) {
	r := NewRefresher(query.New(0, nil), 0, nil)
	reqs := []Request{{Key: "a"}}
	r.SetActive(reqs)
	reqs[0].Key = "b"
	if got := r.snapshot()[0].Key; got != "a" {
		t.Errorf("SetActive should copy, got %q", got)
	}
}
