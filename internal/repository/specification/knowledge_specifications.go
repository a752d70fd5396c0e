package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByRoomID filters documents and build logs by room
type ByRoomID struct {
	RoomID uuid.UUID
}

func (s ByRoomID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("room_id = ?", s.RoomID)
}

// DocumentTitleSearch filters documents by title (case-insensitive)
type DocumentTitleSearch struct {
	Query string
}

func (s DocumentTitleSearch) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("title ILIKE ?", "%"+s.Query+"%")
}

// ByDegradationReason filters build logs by the cap that fired
type ByDegradationReason struct {
	Reason string
}

func (s ByDegradationReason) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("degradation_reason = ?", s.Reason)
}

// CreatedAfter keeps rows newer than a point in time
type CreatedAfter struct {
	Time time.Time
}

func (s CreatedAfter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at > ?", s.Time)
}

// WithChunks loads document chunks in position order
type WithChunks struct{}

func (s WithChunks) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("Chunks", func(db *gorm.DB) *gorm.DB {
		return db.Order("chunk_index ASC")
	})
}
