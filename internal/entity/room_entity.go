package entity

import (
	"time"

	"github.com/google/uuid"
)

// Room is a shared study space. Its documents form the room knowledge base.
type Room struct {
	Id        uuid.UUID
	Name      string
	OwnerId   uuid.UUID
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

type RoomMember struct {
	RoomId    uuid.UUID
	UserId    uuid.UUID
	Role      string // owner, member
	CreatedAt time.Time
}

const (
	RoomRoleOwner  = "owner"
	RoomRoleMember = "member"
)
