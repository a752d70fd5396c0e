package contract

import (
	"context"

	"studyroom-be/internal/entity"
	"studyroom-be/internal/repository/specification"

	"github.com/google/uuid"
)

type RoomRepository interface {
	Create(ctx context.Context, room *entity.Room) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Room, error)
	AddMember(ctx context.Context, member *entity.RoomMember) error
	IsMember(ctx context.Context, roomId, userId uuid.UUID) (bool, error)
}
