package dashboard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type entry struct {
	view     *View
	lastSeen time.Time
}

// Registry keeps one View per session and evicts views left idle.
type Registry struct {
	newView func() *View
	idle    time.Duration
	log     *zap.Logger
	now     func() time.Time

	mu    sync.Mutex
	views map[string]*entry
}

func NewRegistry(newView func() *View, idle time.Duration, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		newView: newView,
		idle:    idle,
		log:     log,
		now:     time.Now,
		views:   make(map[string]*entry),
	}
}

// Get returns the session's view, creating and mounting it on first use.
func (r *Registry) Get(ctx context.Context, sid string) *View {
	r.mu.Lock()
	e, ok := r.views[sid]
	if !ok {
		e = &entry{view: r.newView()}
		r.views[sid] = e
		activeSessions.Set(float64(len(r.views)))
		r.log.Debug("dashboard session created", zap.String("sid", sid))
	}
	e.lastSeen = r.now()
	r.mu.Unlock()

	e.view.Mount(ctx)
	return e.view
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// Sweep evicts views idle for longer than the configured duration.
func (r *Registry) Sweep() int {
	if r.idle <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idle)
	var evicted []*View

	r.mu.Lock()
	for sid, e := range r.views {
		if e.lastSeen.Before(cutoff) {
			evicted = append(evicted, e.view)
			delete(r.views, sid)
		}
	}
	activeSessions.Set(float64(len(r.views)))
	r.mu.Unlock()

	for _, v := range evicted {
		v.Close()
	}
	if len(evicted) > 0 {
		r.log.Info("dashboard sessions evicted", zap.Int("count", len(evicted)))
	}
	return len(evicted)
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Sweep()
		}
	}
}

// Close drops every view and cancels their reads.
func (r *Registry) Close() {
	r.mu.Lock()
	views := r.views
	r.views = make(map[string]*entry)
	activeSessions.Set(0)
	r.mu.Unlock()
	for _, e := range views {
		e.view.Close()
	}
}
