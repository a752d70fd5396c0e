package dto

import (
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// Knowledge Base Admin DTOs
// ============================================================================

type KnowledgeBaseStatusResponse struct {
	Enabled   bool       `json:"enabled"`
	Source    string     `json:"source"` // gate source the engine reads
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	UpdatedBy *uuid.UUID `json:"updated_by,omitempty"`
}

type UpdateKnowledgeBaseRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type ContextBuildLogFilter struct {
	RoomId *uuid.UUID
	Reason string
	Since  *time.Time
	Page   int
	Limit  int
}

type ContextBuildLogResponse struct {
	Id                uuid.UUID              `json:"id"`
	RoomId            uuid.UUID              `json:"room_id"`
	UserId            uuid.UUID              `json:"user_id"`
	Mode              string                 `json:"mode"`
	DocumentCount     int                    `json:"document_count"`
	FragmentCount     int                    `json:"fragment_count"`
	EstimatedTokens   int                    `json:"estimated_tokens"`
	UsedFallback      bool                   `json:"used_fallback"`
	DegradationReason string                 `json:"degradation_reason"`
	GateDisabled      bool                   `json:"gate_disabled"`
	NoContent         bool                   `json:"no_content"`
	Manifest          map[string]interface{} `json:"manifest,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
}

type ContextBuildLogListResponse struct {
	Items []*ContextBuildLogResponse `json:"items"`
	Total int64                      `json:"total"`
	Page  int                        `json:"page"`
	Limit int                        `json:"limit"`
}

type LogListResponse struct {
	Id        string                 `json:"id"` // MD5 hash of the log line, not a UUID
	Level     string                 `json:"level"`
	Module    string                 `json:"module"`
	Message   string                 `json:"message"`
	Timestamp string                 `json:"timestamp"`
	Details   map[string]interface{} `json:"details,omitempty"`
}
