package sweeper

import (
	"context"
	"time"

	"ticketly/pkg/logger"
)

// ExpiredStore is the slice of the booking service the sweeper drives
type ExpiredStore interface {
	SweepExpired(ctx context.Context) (expiredBookings, releasedHolds int64, err error)
}

// Sweeper periodically expires stale pending bookings and releases their
// holds. It is a liveness optimization: reservation-time purging keeps the
// system correct even if the sweeper falls behind.
type Sweeper struct {
	store    ExpiredStore
	interval time.Duration
	logger   *logger.Logger
	done     chan struct{}
}

func New(store ExpiredStore, interval time.Duration, log *logger.Logger) *Sweeper {
	return &Sweeper{
		store:    store,
		interval: interval,
		logger:   log,
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop. One pass runs immediately so a restart
// catches up on anything that expired while the process was down.
func (s *Sweeper) Start(ctx context.Context) {
	go s.run(ctx)
	s.logger.Info("expiry sweeper started", "interval", s.interval.String())
}

// Stop terminates the sweep loop
func (s *Sweeper) Stop() {
	close(s.done)
	s.logger.Info("expiry sweeper stopped")
}

func (s *Sweeper) run(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	if _, _, err := s.store.SweepExpired(ctx); err != nil {
		s.logger.ErrorWithContext(ctx, "expiry sweep failed", err, nil)
	}
}
