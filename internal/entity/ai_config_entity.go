package entity

import (
	"time"

	"github.com/google/uuid"
)

// AiConfiguration is one operator setting. The knowledge base gate reads its
// switch from here when KB_GATE_SOURCE is "database".
type AiConfiguration struct {
	Id          uuid.UUID
	Key         string
	Value       string // encoded according to ValueType
	ValueType   string
	Description string
	Category    string
	UpdatedBy   *uuid.UUID // last admin to change the row
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const (
	AiConfigCategoryKnowledgeBase = "knowledge_base"

	AiConfigValueTypeString  = "string"
	AiConfigValueTypeBoolean = "boolean"

	AiConfigKeyKnowledgeBaseEnabled = "knowledge_base_enabled"
)
