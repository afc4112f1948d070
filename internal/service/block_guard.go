package service

import (
	"context"

	"trainhub/internal/domain"
)

// BlockGuard derives and applies time-boxed blocks on an owner from the
// attempt ledger's failure counts. Blocks live on the owner aggregate.
type BlockGuard interface {
	IsBlocked(ctx context.Context, ownerID domain.OwnerID, typ domain.AttemptType) (bool, error)
	// EvaluateAndBlock applies a block when the failure count has reached
	// maxAttempts and reports whether one was newly applied.
	EvaluateAndBlock(ctx context.Context, ownerID domain.OwnerID, typ domain.AttemptType, maxAttempts int) (bool, error)
	// RemoveBlocks drops currently-active blocks of the given type; every
	// other entry, expired ones included, is left in place.
	RemoveBlocks(ctx context.Context, ownerID domain.OwnerID, typ domain.AttemptType) error
}
