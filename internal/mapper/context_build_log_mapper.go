package mapper

import (
	"studyroom-be/internal/entity"
	"studyroom-be/internal/model"

	"gorm.io/datatypes"
)

type ContextBuildLogMapper struct{}

func NewContextBuildLogMapper() *ContextBuildLogMapper {
	return &ContextBuildLogMapper{}
}

func (m *ContextBuildLogMapper) ToEntity(l *model.ContextBuildLog) *entity.ContextBuildLog {
	if l == nil {
		return nil
	}
	return &entity.ContextBuildLog{
		Id:                l.Id,
		RoomId:            l.RoomId,
		UserId:            l.UserId,
		Mode:              l.Mode,
		DocumentCount:     l.DocumentCount,
		FragmentCount:     l.FragmentCount,
		EstimatedTokens:   l.EstimatedTokens,
		UsedFallback:      l.UsedFallback,
		DegradationReason: l.DegradationReason,
		GateDisabled:      l.GateDisabled,
		NoContent:         l.NoContent,
		Manifest:          []byte(l.Manifest),
		CreatedAt:         l.CreatedAt,
	}
}

func (m *ContextBuildLogMapper) ToModel(l *entity.ContextBuildLog) *model.ContextBuildLog {
	if l == nil {
		return nil
	}
	return &model.ContextBuildLog{
		Id:                l.Id,
		RoomId:            l.RoomId,
		UserId:            l.UserId,
		Mode:              l.Mode,
		DocumentCount:     l.DocumentCount,
		FragmentCount:     l.FragmentCount,
		EstimatedTokens:   l.EstimatedTokens,
		UsedFallback:      l.UsedFallback,
		DegradationReason: l.DegradationReason,
		GateDisabled:      l.GateDisabled,
		NoContent:         l.NoContent,
		Manifest:          datatypes.JSON(l.Manifest),
		CreatedAt:         l.CreatedAt,
	}
}
