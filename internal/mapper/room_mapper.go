package mapper

import (
	"time"

	"studyroom-be/internal/entity"
	"studyroom-be/internal/model"

	"gorm.io/gorm"
)

type RoomMapper struct{}

func NewRoomMapper() *RoomMapper {
	return &RoomMapper{}
}

func (m *RoomMapper) ToEntity(r *model.Room) *entity.Room {
	if r == nil {
		return nil
	}

	var deletedAt *time.Time
	if r.DeletedAt.Valid {
		t := r.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}

	return &entity.Room{
		Id:        r.Id,
		Name:      r.Name,
		OwnerId:   r.OwnerId,
		CreatedAt: r.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: r.DeletedAt.Valid,
	}
}

func (m *RoomMapper) ToModel(r *entity.Room) *model.Room {
	if r == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if r.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *r.DeletedAt, Valid: true}
	}

	var updatedAt time.Time
	if r.UpdatedAt != nil {
		updatedAt = *r.UpdatedAt
	}

	return &model.Room{
		Id:        r.Id,
		Name:      r.Name,
		OwnerId:   r.OwnerId,
		CreatedAt: r.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *RoomMapper) MemberToEntity(rm *model.RoomMember) *entity.RoomMember {
	if rm == nil {
		return nil
	}
	return &entity.RoomMember{RoomId: rm.RoomId, UserId: rm.UserId, Role: rm.Role, CreatedAt: rm.CreatedAt}
}

func (m *RoomMapper) MemberToModel(rm *entity.RoomMember) *model.RoomMember {
	if rm == nil {
		return nil
	}
	return &model.RoomMember{RoomId: rm.RoomId, UserId: rm.UserId, Role: rm.Role, CreatedAt: rm.CreatedAt}
}
