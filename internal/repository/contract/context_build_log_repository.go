package contract

import (
	"context"

	"studyroom-be/internal/entity"
	"studyroom-be/internal/repository/specification"
)

type ContextBuildLogRepository interface {
	Create(ctx context.Context, log *entity.ContextBuildLog) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ContextBuildLog, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
