package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, idle time.Duration) (*Registry, *time.Time) {
	t.Helper()
	src := newFakeSource(12)
	r := NewRegistry(func() *View { return NewView(src, Options{}) }, idle, nil)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }
	t.Cleanup(r.Close)
	return r, &now
}

func TestRegistry_GetReusesSessionView(t *testing.T) {
	r, _ := newTestRegistry(t, time.Minute)
	ctx := context.Background()

	a := r.Get(ctx, "s1")
	b := r.Get(ctx, "s1")
	c := r.Get(ctx, "s2")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, r.Len())

	settle(t, a)
	assert.Len(t, a.Snapshot().Posts, 5)
}

func TestRegistry_SweepEvictsIdle(t *testing.T) {
	r, now := newTestRegistry(t, 10*time.Minute)
	ctx := context.Background()

	old := r.Get(ctx, "old")
	settle(t, old)
	*now = now.Add(8 * time.Minute)
	fresh := r.Get(ctx, "fresh")
	settle(t, fresh)
	*now = now.Add(5 * time.Minute)

	require.Equal(t, 1, r.Sweep())
	assert.Equal(t, 1, r.Len())
	assert.Error(t, old.base.Err())
	assert.NoError(t, fresh.base.Err())

	assert.NotSame(t, old, r.Get(ctx, "old"))
}

func TestRegistry_SweepDisabled(t *testing.T) {
	r, now := newTestRegistry(t, 0)
	settle(t, r.Get(context.Background(), "s"))
	*now = now.Add(24 * time.Hour)

	assert.Equal(t, 0, r.Sweep())
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_RunStopsWithContext(t *testing.T) {
	r, _ := newTestRegistry(t, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestRegistry_CloseDropsViews(t *testing.T) {
	r, _ := newTestRegistry(t, time.Minute)
	v := r.Get(context.Background(), "s")
	settle(t, v)

	r.Close()
	assert.Equal(t, 0, r.Len())
	assert.Error(t, v.base.Err())
}
