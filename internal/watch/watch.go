// Package watch refreshes the student's event list on a cron schedule and
// re-derives the recommendation after every refresh.
package watch

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pearcec/clubportal/internal/portal"
)

// timeNow is replaced in tests.
var timeNow = time.Now

// RenderFunc receives the recommendation after each refresh.
type RenderFunc func(recs []portal.Recommendation, total int)

// Watcher ties a store, an interest set and a schedule together.
type Watcher struct {
	spec      string
	store     *portal.Store
	interests portal.InterestSet
	render    RenderFunc

	cron *cron.Cron

	mu      sync.Mutex
	running bool
}

// New validates spec (standard five-field cron) and returns a stopped
// watcher.
func New(spec string, store *portal.Store, interests portal.InterestSet, render RenderFunc) (*Watcher, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	if store == nil {
		return nil, fmt.Errorf("watch: nil store")
	}
	if render == nil {
		render = func([]portal.Recommendation, int) {}
	}
	return &Watcher{
		spec:      spec,
		store:     store,
		interests: interests,
		render:    render,
		cron:      cron.New(),
	}, nil
}

// Refresh reloads the store and renders once. A failed listing renders an
// empty list.
func (w *Watcher) Refresh(ctx context.Context) {
	if err := w.store.Load(ctx); err != nil {
		log.Printf("[watch] refresh failed: %v", err)
	}
	events := w.store.Snapshot()
	w.render(portal.Recommend(events, w.interests), len(events))
}

// Start refreshes immediately, then on every tick until ctx is done or Stop
// is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	if _, err := w.cron.AddFunc(w.spec, func() { w.Refresh(ctx) }); err != nil {
		w.mu.Unlock()
		return err
	}
	w.running = true
	w.mu.Unlock()

	w.Refresh(ctx)
	w.cron.Start()
	log.Printf("[watch] refreshing on %q", w.spec)

	go func() {
		<-ctx.Done()
		w.Stop()
	}()
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	<-w.cron.Stop().Done()
	log.Println("[watch] stopped")
}

// Next returns the schedule's next activation times, mostly for display.
func (w *Watcher) Next(n int) []string {
	sched, err := cron.ParseStandard(w.spec)
	if err != nil {
		return nil
	}
	var out []string
	t := timeNow()
	for i := 0; i < n; i++ {
		t = sched.Next(t)
		out = append(out, t.Format("2006-01-02 15:04"))
	}
	return out
}
