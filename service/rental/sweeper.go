package rental

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper periodically flips due rentals to OVERDUE so correctness does not
// depend on someone listing rentals. The read paths run the same conditional
// update, so both converge.
type Sweeper struct {
	svc      Service
	log      *slog.Logger
	interval time.Duration
}

func NewSweeper(svc Service, log *slog.Logger, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{svc: svc, log: log, interval: interval}
}

func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		s.run(ctx)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.run(ctx)
			}
		}
	}()
}

func (s *Sweeper) run(ctx context.Context) {
	n, err := s.svc.SweepOverdue(ctx)
	if err != nil {
		s.log.Error("overdue sweep failed", "err", err)
		return
	}
	if n > 0 {
		s.log.Info("overdue sweep", "marked", n)
	}
}
