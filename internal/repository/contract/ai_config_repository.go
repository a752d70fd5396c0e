package contract

import (
	"context"

	"studyroom-be/internal/entity"
)

// IAiConfigRepository defines AI configuration repository operations
type IAiConfigRepository interface {
	FindConfigurationByKey(ctx context.Context, key string) (*entity.AiConfiguration, error)
	UpdateConfiguration(ctx context.Context, config *entity.AiConfiguration) error
	CreateConfiguration(ctx context.Context, config *entity.AiConfiguration) error
}
