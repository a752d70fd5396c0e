package entity

import (
	"time"

	"github.com/google/uuid"
)

// ContextBuildLog is the persisted manifest of one knowledge-base context build.
type ContextBuildLog struct {
	Id                uuid.UUID
	RoomId            uuid.UUID
	UserId            uuid.UUID
	Mode              string
	DocumentCount     int
	FragmentCount     int
	EstimatedTokens   int
	UsedFallback      bool
	DegradationReason string
	GateDisabled      bool
	NoContent         bool
	Manifest          []byte // raw JSON manifest
	CreatedAt         time.Time
}
