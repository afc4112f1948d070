package maintenance

import (
	"context"
	"log/slog"
	"time"

	"trainhub/internal/domain"
	"trainhub/internal/observability/metrics"
	"trainhub/internal/store"
)

const blockCompactionBatch = 200

// Sweeper periodically reclaims expired session rows and compacts owner
// block lists. Both jobs run off the request path.
type Sweeper struct {
	store    *store.Store
	interval time.Duration
}

func New(st *store.Store, interval time.Duration) *Sweeper {
	return &Sweeper{store: st, interval: interval}
}

// Run blocks until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	now := time.Now().UTC()

	removed, err := s.store.Sessions().DeleteExpired(ctx, now)
	if err != nil {
		slog.Error("session sweep failed", "error", err)
	} else if removed > 0 {
		metrics.SweepRemovalsTotal.WithLabelValues("sessions").Add(float64(removed))
		slog.Info("removed expired sessions", "count", removed)
	}

	s.compactBlocks(ctx, now)
}

// compactBlocks prunes expired block entries from owner aggregates. The hot
// path never prunes, so without this the lists grow monotonically.
func (s *Sweeper) compactBlocks(ctx context.Context, now time.Time) {
	users := s.store.Users()
	owners, err := users.FindWithExpiredBlocks(ctx, now, blockCompactionBatch)
	if err != nil {
		slog.Error("block compaction scan failed", "error", err)
		return
	}
	var pruned int64
	for i := range owners {
		owner := &owners[i]
		kept := make(domain.BlockList, 0, len(owner.Blocks))
		for _, b := range owner.Blocks {
			if b.ActiveAt(now) {
				kept = append(kept, b)
			}
		}
		if len(kept) == len(owner.Blocks) {
			continue
		}
		if err := users.UpdateBlocks(ctx, owner.ID, kept); err != nil {
			slog.Error("block compaction failed", "owner_id", owner.ID, "error", err)
			continue
		}
		pruned += int64(len(owner.Blocks) - len(kept))
	}
	if pruned > 0 {
		metrics.SweepRemovalsTotal.WithLabelValues("blocks").Add(float64(pruned))
		slog.Info("pruned expired blocks", "count", pruned)
	}
}
