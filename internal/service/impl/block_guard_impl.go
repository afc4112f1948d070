package impl

import (
	"context"
	"log/slog"
	"time"

	"trainhub/internal/domain"
	"trainhub/internal/observability/metrics"
	"trainhub/internal/service"
	"trainhub/internal/store"
)

type BlockGuardConfig struct {
	BlockDuration time.Duration
}

// blockOwnerStore is the slice of the owner collaborator the guard needs.
type blockOwnerStore interface {
	FindByID(ctx context.Context, id domain.OwnerID) (*domain.User, error)
	UpdateBlocks(ctx context.Context, id domain.OwnerID, blocks domain.BlockList) error
}

// BlockGuardImpl reads and writes the block list on the owner aggregate.
// The list is read-modify-written without a conditional update; two
// concurrently failing requests can race and lose one write.
type BlockGuardImpl struct {
	cfg    BlockGuardConfig
	owners blockOwnerStore
	ledger service.AttemptLedger
}

func NewBlockGuardImpl(cfg BlockGuardConfig, st *store.Store, ledger service.AttemptLedger) *BlockGuardImpl {
	return &BlockGuardImpl{cfg: cfg, owners: st.Users(), ledger: ledger}
}

func (g *BlockGuardImpl) IsBlocked(ctx context.Context, ownerID domain.OwnerID, typ domain.AttemptType) (bool, error) {
	owner, err := g.owners.FindByID(ctx, ownerID)
	if err != nil {
		return false, err
	}
	return owner.Blocks.HasActive(typ, time.Now().UTC()), nil
}

// EvaluateAndBlock appends a block once the ledger's failure count reaches
// maxAttempts. Same-type entries are not deduplicated; the list is append-only.
func (g *BlockGuardImpl) EvaluateAndBlock(ctx context.Context, ownerID domain.OwnerID, typ domain.AttemptType, maxAttempts int) (bool, error) {
	count, err := g.ledger.CountFailures(ctx, domain.ByOwner(ownerID), typ)
	if err != nil {
		return false, err
	}
	if count < int64(maxAttempts) {
		return false, nil
	}

	owner, err := g.owners.FindByID(ctx, ownerID)
	if err != nil {
		return false, err
	}
	blockedUntil := time.Now().UTC().Add(g.cfg.BlockDuration).UnixMilli()
	blocks := append(owner.Blocks, domain.Block{
		Type:         typ,
		Reason:       domain.BlockReasonMaxAttempts,
		BlockedUntil: blockedUntil,
	})
	if err := g.owners.UpdateBlocks(ctx, ownerID, blocks); err != nil {
		return false, err
	}

	metrics.BlocksAppliedTotal.WithLabelValues(string(typ)).Inc()
	slog.Warn("owner blocked",
		"owner_id", ownerID,
		"type", typ,
		"failures", count,
		"blocked_until", blockedUntil,
	)
	return true, nil
}

// RemoveBlocks drops currently-active blocks of the given type. Expired
// entries, of this type or any other, stay; compaction belongs to the
// maintenance sweeper.
func (g *BlockGuardImpl) RemoveBlocks(ctx context.Context, ownerID domain.OwnerID, typ domain.AttemptType) error {
	owner, err := g.owners.FindByID(ctx, ownerID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	kept := make(domain.BlockList, 0, len(owner.Blocks))
	for _, b := range owner.Blocks {
		if b.Type == typ && b.ActiveAt(now) {
			continue
		}
		kept = append(kept, b)
	}
	if len(kept) == len(owner.Blocks) {
		return nil
	}
	return g.owners.UpdateBlocks(ctx, ownerID, kept)
}
