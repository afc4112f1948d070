package domain

import "github.com/google/uuid"

type OwnerID = uuid.UUID
type SessionID = uuid.UUID
type AttemptID = uuid.UUID
