package unitofwork

import (
	"context"

	"studyroom-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	RoomRepository() contract.RoomRepository
	DocumentRepository() contract.DocumentRepository
	AiConfigRepository() contract.IAiConfigRepository
	ContextBuildLogRepository() contract.ContextBuildLogRepository
}
