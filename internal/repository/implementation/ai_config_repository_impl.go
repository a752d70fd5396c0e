package implementation

import (
	"context"
	"errors"

	"studyroom-be/internal/entity"
	"studyroom-be/internal/mapper"
	"studyroom-be/internal/model"
	"studyroom-be/internal/repository/contract"
	"studyroom-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type aiConfigRepository struct {
	db     *gorm.DB
	mapper *mapper.AiConfigMapper
}

// NewAiConfigRepository creates a new AI config repository
func NewAiConfigRepository(db *gorm.DB) contract.IAiConfigRepository {
	return &aiConfigRepository{db: db, mapper: mapper.NewAiConfigMapper()}
}

func (r *aiConfigRepository) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *aiConfigRepository) FindConfigurationByKey(ctx context.Context, key string) (*entity.AiConfiguration, error) {
	var m model.AiConfiguration
	query := r.applySpecifications(r.db.WithContext(ctx), specification.Filter("key", key))
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *aiConfigRepository) UpdateConfiguration(ctx context.Context, config *entity.AiConfiguration) error {
	m := r.mapper.ToModel(config)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*config = *r.mapper.ToEntity(m)
	return nil
}

func (r *aiConfigRepository) CreateConfiguration(ctx context.Context, config *entity.AiConfiguration) error {
	if config.Id == uuid.Nil {
		config.Id = uuid.New()
	}
	m := r.mapper.ToModel(config)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*config = *r.mapper.ToEntity(m)
	return nil
}
