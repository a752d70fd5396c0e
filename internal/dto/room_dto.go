package dto

import (
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// Room DTOs
// ============================================================================

type CreateRoomRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

type RoomResponse struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	OwnerId   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

type AddRoomMemberRequest struct {
	UserId uuid.UUID `json:"user_id" validate:"required"`
}

type RoomMemberResponse struct {
	RoomId    uuid.UUID `json:"room_id"`
	UserId    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ============================================================================
// Document DTOs
// ============================================================================

type UploadDocumentRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	Summary string `json:"summary" validate:"max=4000"`
	Content string `json:"content" validate:"required"`
}

type DocumentResponse struct {
	Id         uuid.UUID `json:"id"`
	RoomId     uuid.UUID `json:"room_id"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary,omitempty"`
	ChunkCount int       `json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type DocumentListFilter struct {
	Query string
	Page  int
	Limit int
}

type DocumentListResponse struct {
	Items []DocumentResponse `json:"items"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
