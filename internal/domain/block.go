package domain

import "time"

type BlockReason string

const BlockReasonMaxAttempts BlockReason = "max_attempts"

// Block is a time-boxed restriction embedded in the owner aggregate.
// The list is append-only; expired entries are pruned by the maintenance
// sweeper, never on the hot path.
type Block struct {
	Type         AttemptType `json:"type"`
	Reason       BlockReason `json:"reason"`
	BlockedUntil int64       `json:"blockedUntil"` // epoch millis
}

func (b Block) ActiveAt(now time.Time) bool { return b.BlockedUntil > now.UnixMilli() }

type BlockList []Block

// HasActive reports whether any block of the given type is still in force.
func (l BlockList) HasActive(typ AttemptType, now time.Time) bool {
	for _, b := range l {
		if b.Type == typ && b.ActiveAt(now) {
			return true
		}
	}
	return false
}
