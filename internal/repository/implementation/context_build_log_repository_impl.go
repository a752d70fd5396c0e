package implementation

import (
	"context"

	"studyroom-be/internal/entity"
	"studyroom-be/internal/mapper"
	"studyroom-be/internal/model"
	"studyroom-be/internal/repository/contract"
	"studyroom-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ContextBuildLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContextBuildLogMapper
}

func NewContextBuildLogRepository(db *gorm.DB) contract.ContextBuildLogRepository {
	return &ContextBuildLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewContextBuildLogMapper(),
	}
}

func (r *ContextBuildLogRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ContextBuildLogRepositoryImpl) Create(ctx context.Context, log *entity.ContextBuildLog) error {
	m := r.mapper.ToModel(log)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*log = *r.mapper.ToEntity(m)
	return nil
}

func (r *ContextBuildLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ContextBuildLog, error) {
	var models []*model.ContextBuildLog
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ContextBuildLog, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *ContextBuildLogRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.ContextBuildLog{}).Count(&count).Error
	return count, err
}
