package dto

import (
	"time"

	"studyroom-be/pkg/rag/prompt"

	"github.com/google/uuid"
)

// --- Context Build DTOs ---

type BuildContextRequest struct {
	Query string `json:"query" validate:"required,max=2000"`
}

type BuildContextResponse struct {
	Context  string          `json:"context"`
	Manifest prompt.Manifest `json:"manifest"`
	// Notice is a short user-facing hint when the context was reduced or absent
	Notice string `json:"notice,omitempty"`
}

// ContextBuiltMessage is the telemetry payload on the in-process bus.
type ContextBuiltMessage struct {
	RoomId     uuid.UUID       `json:"room_id"`
	UserId     uuid.UUID       `json:"user_id"`
	Manifest   prompt.Manifest `json:"manifest"`
	OccurredAt time.Time       `json:"occurred_at"`
}
