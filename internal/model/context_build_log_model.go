package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ContextBuildLog struct {
	Id                uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RoomId            uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserId            uuid.UUID      `gorm:"type:uuid;index"`
	Mode              string         `gorm:"type:varchar(20);not null"`
	DocumentCount     int            `gorm:"not null;default:0"`
	FragmentCount     int            `gorm:"not null;default:0"`
	EstimatedTokens   int            `gorm:"not null;default:0"`
	UsedFallback      bool           `gorm:"default:false"`
	DegradationReason string         `gorm:"type:varchar(30);not null;default:'none';index"`
	GateDisabled      bool           `gorm:"default:false"`
	NoContent         bool           `gorm:"default:false"`
	Manifest          datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt         time.Time      `gorm:"autoCreateTime;index"`
}

func (ContextBuildLog) TableName() string {
	return "context_build_logs"
}
