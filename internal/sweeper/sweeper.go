package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-hartl/glaskasten/internal/session"
)

// Sweeper reclaims resources from idle sessions on a fixed tick: runtimes
// idle past the idle threshold are paused, and sessions idle past the grace
// threshold are destroyed outright. The grace check runs first so a session
// that blew through both thresholds while the service was busy goes straight
// to reclamation.
type Sweeper struct {
	registry Registry
	runtime  Runtime
	idle     time.Duration
	grace    time.Duration
	interval time.Duration
	logger   *slog.Logger

	now func() time.Time
}

func New(registry Registry, runtime Runtime, idle, grace, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		registry: registry,
		runtime:  runtime,
		idle:     idle,
		grace:    grace,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("sweeper started",
		"interval", s.interval, "idle_timeout", s.idle, "grace_timeout", s.grace)

	s.reconcile(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Sweeper) tick(ctx context.Context) {
	now := s.now()
	graceCutoff := now.Add(-s.grace)
	idleCutoff := now.Add(-s.idle)

	var paused, reaped int
	for _, entry := range s.registry.SweepList() {
		if !entry.LastActivity.After(graceCutoff) {
			ok, err := s.registry.Reap(ctx, entry.ID, graceCutoff)
			if err != nil {
				s.logger.Error("sweeper: destroy runtime",
					"session_id", entry.ID, "error", err)
			}
			if ok {
				s.logger.Info("reclaimed expired session",
					"session_id", entry.ID, "last_activity", entry.LastActivity)
				reaped++
			}
			continue
		}

		if entry.Status == session.StatusActive && !entry.LastActivity.After(idleCutoff) {
			ok, err := s.registry.PauseForIdle(ctx, entry.ID, idleCutoff)
			if err != nil {
				s.logger.Error("sweeper: pause runtime",
					"session_id", entry.ID, "error", err)
			}
			if ok {
				s.logger.Info("paused idle session",
					"session_id", entry.ID, "last_activity", entry.LastActivity)
				paused++
			}
		}
	}

	if paused > 0 || reaped > 0 {
		s.logger.Info("sweep complete", "paused", paused, "reaped", reaped)
	}
}

// reconcile destroys managed containers left over from a previous run. The
// registry is in-memory, so anything the runtime reports at startup that the
// registry does not know is an orphan.
func (s *Sweeper) reconcile(ctx context.Context) {
	s.logger.Info("reconciliation starting")

	infos, err := s.runtime.ListManaged(ctx)
	if err != nil {
		s.logger.Error("reconcile: list managed runtimes", "error", err)
		return
	}

	known := make(map[string]bool)
	for _, entry := range s.registry.SweepList() {
		known[entry.ID] = true
	}

	var orphans int
	for _, info := range infos {
		if known[info.SessionID] {
			continue
		}
		orphans++
		s.logger.Warn("reconcile: destroying orphaned runtime",
			"session_id", info.SessionID, "container_id", info.ContainerID, "state", info.State)
		if err := s.runtime.ForceDestroy(ctx, info.ContainerID); err != nil {
			s.logger.Error("reconcile: destroy runtime",
				"container_id", info.ContainerID, "error", err)
		}
	}

	s.logger.Info("reconciliation complete", "orphans", orphans)
}
