package services

import (
	"context"
	"time"

	"symptom-checker-server/internal/logger"
)

// Sweeper periodically removes expired sessions. Reads never depend on it;
// it only reclaims storage.
type Sweeper struct {
	sessions *SessionStore
	interval time.Duration
	log      *logger.Logger
}

func NewSweeper(sessions *SessionStore, interval time.Duration, baseLog *logger.Logger) *Sweeper {
	return &Sweeper{
		sessions: sessions,
		interval: interval,
		log:      baseLog.With("service", "Sweeper"),
	}
}

// RunOnce performs a single sweep and returns how many sessions it removed.
func (s *Sweeper) RunOnce(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx)
}

// Run sweeps on every tick until ctx is done. A non-positive interval
// disables the loop.
func (s *Sweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.log.Info("Session sweeper disabled")
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("Session sweeper started", "interval", s.interval.String())
	for {
		select {
		case <-ctx.Done():
			s.log.Info("Session sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
				s.log.Warn("Session sweep failed", "error", err)
			}
		}
	}
}
