package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Document struct {
	Id        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RoomId    uuid.UUID       `gorm:"type:uuid;not null;index:idx_documents_room_created,priority:1"`
	Title     string          `gorm:"type:varchar(255);not null"`
	Summary   string          `gorm:"type:text"`
	CreatedAt time.Time       `gorm:"autoCreateTime;index:idx_documents_room_created,priority:2,sort:desc"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt  `gorm:"index"`
	Chunks    []DocumentChunk `gorm:"foreignKey:DocumentId"`
}

func (Document) TableName() string {
	return "documents"
}

type DocumentChunk struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentId uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_document_chunks_position,priority:1"`
	ChunkIndex int       `gorm:"not null;default:0;uniqueIndex:idx_document_chunks_position,priority:2"`
	Content    string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}
