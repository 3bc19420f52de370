package scheduler

import (
	"context"
	"log/slog"
	"time"

	"realestate-backend/internal/infrastructure/cache"
)

const sweepLockKey = "lock:subscription:expire-sweep"

// Sweeper is the expiry operation the scheduler drives.
type Sweeper interface {
	ExpireSweep(ctx context.Context, now time.Time) (int, error)
}

type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (*cache.Lock, error)
}

// Scheduler runs ExpireSweep on every tick while holding a Redis lock, so only
// one instance sweeps per cycle.
type Scheduler struct {
	sweeper  Sweeper
	locker   Locker
	interval time.Duration
	lockTTL  time.Duration
	log      *slog.Logger
	now      func() time.Time
}

func New(sweeper Sweeper, locker Locker, interval time.Duration, log *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	if log == nil {
		log = slog.Default()
	}
	ttl := interval / 2
	if ttl > 5*time.Minute {
		ttl = 5 * time.Minute
	}
	return &Scheduler{
		sweeper:  sweeper,
		locker:   locker,
		interval: interval,
		lockTTL:  ttl,
		log:      log.With("component", "scheduler"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Run blocks until ctx is cancelled. The first sweep runs immediately.
func (s *Scheduler) Run(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()

	s.log.Info("expiry scheduler started", "interval", s.interval)
	for {
		if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
			s.log.Error("expiry sweep failed", "error", err)
		}
		select {
		case <-ctx.Done():
			s.log.Info("expiry scheduler stopped")
			return
		case <-t.C:
		}
	}
}

// RunOnce sweeps if the lock can be taken. ran is false when another holder
// owns the lock.
func (s *Scheduler) RunOnce(ctx context.Context) (ran bool, err error) {
	if s.locker != nil {
		lock, err := s.locker.TryLock(ctx, sweepLockKey, s.lockTTL)
		if err != nil {
			return false, err
		}
		if lock == nil {
			s.log.Debug("expiry sweep skipped, lock held elsewhere")
			return false, nil
		}
		defer func() {
			if rerr := lock.Release(context.WithoutCancel(ctx)); rerr != nil {
				s.log.Warn("release sweep lock", "error", rerr)
			}
		}()
	}

	n, err := s.sweeper.ExpireSweep(ctx, s.now())
	if err != nil {
		return true, err
	}
	s.log.Debug("expiry sweep done", "expired", n)
	return true, nil
}
