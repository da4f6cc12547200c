package sweeper

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"ticketly/pkg/logger"
)

type countingStore struct {
	sweeps int64
	err    error
}

func (c *countingStore) SweepExpired(ctx context.Context) (int64, int64, error) {
	atomic.AddInt64(&c.sweeps, 1)
	return 0, 0, c.err
}

func (c *countingStore) count() int64 {
	return atomic.LoadInt64(&c.sweeps)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestSweeperRunsImmediatelyAndOnTicks(t *testing.T) {
	store := &countingStore{}
	s := New(store, 20*time.Millisecond, logger.New())

	s.Start(context.Background())
	defer s.Stop()

	// Startup pass plus at least one ticked pass.
	waitFor(t, time.Second, func() bool { return store.count() >= 2 })
}

func TestSweeperStops(t *testing.T) {
	store := &countingStore{}
	s := New(store, 10*time.Millisecond, logger.New())

	s.Start(context.Background())
	waitFor(t, time.Second, func() bool { return store.count() >= 1 })
	s.Stop()

	stopped := store.count()
	time.Sleep(50 * time.Millisecond)
	if store.count() > stopped+1 {
		t.Errorf("sweeps continued after Stop: %d -> %d", stopped, store.count())
	}
}

func TestSweeperKeepsRunningAfterErrors(t *testing.T) {
	store := &countingStore{err: errors.New("db down")}
	s := New(store, 10*time.Millisecond, logger.New())

	s.Start(context.Background())
	defer s.Stop()

	waitFor(t, time.Second, func() bool { return store.count() >= 3 })
}

func TestSweeperHonorsContextCancellation(t *testing.T) {
	store := &countingStore{}
	ctx, cancel := context.WithCancel(context.Background())
	s := New(store, 10*time.Millisecond, logger.New())

	s.Start(ctx)
	waitFor(t, time.Second, func() bool { return store.count() >= 1 })
	cancel()

	stopped := store.count()
	time.Sleep(50 * time.Millisecond)
	if store.count() > stopped+1 {
		t.Errorf("sweeps continued after context cancel: %d -> %d", stopped, store.count())
	}
}
