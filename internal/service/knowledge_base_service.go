// FILE: internal/service/knowledge_base_service.go
// PURPOSE: Operator controls for the knowledge base: the gate switch, build history and logs

package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"studyroom-be/internal/config"
	"studyroom-be/internal/dto"
	"studyroom-be/internal/entity"
	"studyroom-be/internal/pkg/logger"
	"studyroom-be/internal/repository/specification"
	"studyroom-be/internal/repository/unitofwork"
	"studyroom-be/pkg/events"
	"studyroom-be/pkg/rag/gate"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const knowledgeBaseModule = "KB_ADMIN"

// ErrStaticGate is returned when the switch comes from the environment and
// cannot be flipped at runtime.
var ErrStaticGate = errors.New("knowledge base gate is static, change KB_ENABLED and restart")

// RedisSetter is the slice of the redis client used to flip the redis gate.
type RedisSetter interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type IKnowledgeBaseService interface {
	GetStatus(ctx context.Context) (*dto.KnowledgeBaseStatusResponse, error)
	SetKnowledgeBaseEnabled(ctx context.Context, actorId uuid.UUID, enabled bool) (*dto.KnowledgeBaseStatusResponse, error)
	ListBuilds(ctx context.Context, filter dto.ContextBuildLogFilter) (*dto.ContextBuildLogListResponse, error)
	GetLogs(filter logger.LogFilter) ([]*dto.LogListResponse, error)
}

type knowledgeBaseService struct {
	uowFactory     unitofwork.RepositoryFactory
	gate           gate.Gate
	gateSource     string
	gateKey        string
	redis          RedisSetter      // nil unless gateSource is redis
	eventPublisher events.Publisher // nil when NATS is unavailable
	contextLogger  logger.ILogger   // reads the KB_CONTEXT trail
	logger         logger.ILogger
}

func NewKnowledgeBaseService(
	uowFactory unitofwork.RepositoryFactory,
	g gate.Gate,
	kbConfig config.KnowledgeBaseConfig,
	redisSetter RedisSetter,
	eventPublisher events.Publisher,
	contextLogger logger.ILogger,
	logger logger.ILogger,
) IKnowledgeBaseService {
	return &knowledgeBaseService{
		uowFactory:     uowFactory,
		gate:           g,
		gateSource:     kbConfig.GateSource,
		gateKey:        kbConfig.GateKey,
		redis:          redisSetter,
		eventPublisher: eventPublisher,
		contextLogger:  contextLogger,
		logger:         logger,
	}
}

func (s *knowledgeBaseService) GetStatus(ctx context.Context) (*dto.KnowledgeBaseStatusResponse, error) {
	res := &dto.KnowledgeBaseStatusResponse{
		Enabled: s.gate.IsEnabled(ctx),
		Source:  s.gateSource,
	}

	if s.gateSource != config.GateSourceStatic {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		row, err := uow.AiConfigRepository().FindConfigurationByKey(ctx, entity.AiConfigKeyKnowledgeBaseEnabled)
		if err != nil {
			return nil, err
		}
		if row != nil {
			updatedAt := row.UpdatedAt
			res.UpdatedAt = &updatedAt
			res.UpdatedBy = row.UpdatedBy
		}
	}

	return res, nil
}

// SetKnowledgeBaseEnabled upserts the knowledge_base_enabled row and, for the
// redis source, writes the kill-switch key as well.
func (s *knowledgeBaseService) SetKnowledgeBaseEnabled(ctx context.Context, actorId uuid.UUID, enabled bool) (*dto.KnowledgeBaseStatusResponse, error) {
	if s.gateSource == config.GateSourceStatic {
		return nil, ErrStaticGate
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	value := strconv.FormatBool(enabled)
	row, err := uow.AiConfigRepository().FindConfigurationByKey(ctx, entity.AiConfigKeyKnowledgeBaseEnabled)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if row == nil {
		row = &entity.AiConfiguration{
			Key:         entity.AiConfigKeyKnowledgeBaseEnabled,
			Value:       value,
			ValueType:   entity.AiConfigValueTypeBoolean,
			Description: "Use room documents as chat context",
			Category:    entity.AiConfigCategoryKnowledgeBase,
			UpdatedBy:   &actorId,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		err = uow.AiConfigRepository().CreateConfiguration(ctx, row)
	} else {
		row.Value = value
		row.UpdatedBy = &actorId
		row.UpdatedAt = now
		err = uow.AiConfigRepository().UpdateConfiguration(ctx, row)
	}
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if s.gateSource == config.GateSourceRedis && s.redis != nil {
		if err := s.redis.Set(ctx, s.gateKey, value, 0).Err(); err != nil {
			// the row is saved; the redis gate falls back to it once the key is gone
			s.logger.Warn(knowledgeBaseModule, "Failed to write redis gate key", map[string]interface{}{
				"error": err.Error(),
				"key":   s.gateKey,
			})
		}
	}

	s.logger.Info(knowledgeBaseModule, "Knowledge base switched", map[string]interface{}{
		"enabled":  enabled,
		"actor_id": actorId.String(),
		"source":   s.gateSource,
	})

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeGateToggled,
			Data: map[string]interface{}{
				"enabled":  enabled,
				"actor_id": actorId.String(),
			},
			OccurredAt: now,
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn(knowledgeBaseModule, "Failed to publish gate event", map[string]interface{}{"error": err.Error()})
		}
	}

	return &dto.KnowledgeBaseStatusResponse{
		Enabled:   enabled,
		Source:    s.gateSource,
		UpdatedAt: &row.UpdatedAt,
		UpdatedBy: row.UpdatedBy,
	}, nil
}

func (s *knowledgeBaseService) ListBuilds(ctx context.Context, filter dto.ContextBuildLogFilter) (*dto.ContextBuildLogListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	specs := []specification.Specification{}
	if filter.RoomId != nil {
		specs = append(specs, specification.ByRoomID{RoomID: *filter.RoomId})
	}
	if filter.Reason != "" {
		specs = append(specs, specification.ByDegradationReason{Reason: filter.Reason})
	}
	if filter.Since != nil {
		specs = append(specs, specification.CreatedAfter{Time: *filter.Since})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	total, err := uow.ContextBuildLogRepository().Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	pageSpecs := append(specs,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: filter.Limit, Offset: (filter.Page - 1) * filter.Limit},
	)
	logs, err := uow.ContextBuildLogRepository().FindAll(ctx, pageSpecs...)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ContextBuildLogResponse, 0, len(logs))
	for _, l := range logs {
		item := &dto.ContextBuildLogResponse{
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
			CreatedAt:         l.CreatedAt,
		}
		if len(l.Manifest) > 0 {
			var manifest map[string]interface{}
			if err := json.Unmarshal(l.Manifest, &manifest); err == nil {
				item.Manifest = manifest
			}
		}
		items = append(items, item)
	}

	return &dto.ContextBuildLogListResponse{
		Items: items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *knowledgeBaseService) GetLogs(filter logger.LogFilter) ([]*dto.LogListResponse, error) {
	if filter.Module == "" {
		filter.Module = contextModule
	}
	entries, err := s.contextLogger.GetLogs(filter)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.LogListResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, &dto.LogListResponse{
			Id:        e.Id,
			Level:     e.Level,
			Module:    e.Module,
			Message:   e.Message,
			Timestamp: e.Timestamp,
			Details:   e.Details,
		})
	}
	return res, nil
}
