// FILE: internal/service/context_service.go
// PURPOSE: Room-scoped knowledge-base context for the chat caller

package service

import (
	"context"
	"errors"
	"fmt"

	"studyroom-be/internal/dto"
	"studyroom-be/internal/pkg/logger"
	"studyroom-be/internal/repository/specification"
	"studyroom-be/internal/repository/unitofwork"
	"studyroom-be/internal/tracer"
	"studyroom-be/pkg/rag/budget"
	"studyroom-be/pkg/rag/prompt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const contextModule = "KB_CONTEXT"

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomForbidden = errors.New("user is not a member of this room")
)

// ContextEngine builds the knowledge-base block for one request.
type ContextEngine interface {
	BuildContext(ctx context.Context, roomID, query string) (string, prompt.Manifest, error)
}

type IContextService interface {
	BuildContext(ctx context.Context, userId, roomId uuid.UUID, req *dto.BuildContextRequest) (*dto.BuildContextResponse, error)
}

type contextService struct {
	uowFactory       unitofwork.RepositoryFactory
	engine           ContextEngine
	publisherService IPublisherService
	logger           logger.ILogger
	tracer           trace.Tracer
}

func NewContextService(
	uowFactory unitofwork.RepositoryFactory,
	engine ContextEngine,
	publisherService IPublisherService,
	logger logger.ILogger,
) IContextService {
	return &contextService{
		uowFactory:       uowFactory,
		engine:           engine,
		publisherService: publisherService,
		logger:           logger,
		tracer:           tracer.Tracer("studyroom-be/knowledge-base"),
	}
}

func (s *contextService) BuildContext(ctx context.Context, userId, roomId uuid.UUID, req *dto.BuildContextRequest) (*dto.BuildContextResponse, error) {
	if err := authorizeMember(ctx, s.uowFactory, userId, roomId); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "kb.build_context", trace.WithAttributes(
		attribute.String("kb.room_id", roomId.String()),
	))
	defer span.End()

	text, manifest, err := s.engine.BuildContext(ctx, roomId.String(), req.Query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "context build failed")
		s.logger.Error(contextModule, "Context build failed", map[string]interface{}{
			"error":   err.Error(),
			"room_id": roomId.String(),
			"user_id": userId.String(),
		})
		return nil, fmt.Errorf("build context for room %s: %w", roomId, err)
	}

	span.SetAttributes(
		attribute.String("kb.mode", string(manifest.Mode)),
		attribute.String("kb.degradation_reason", string(manifest.DegradationReason)),
		attribute.Int("kb.fragments", len(manifest.Fragments)),
		attribute.Int("kb.estimated_tokens", manifest.EstimatedTokens),
		attribute.Bool("kb.used_fallback", manifest.UsedFallback),
		attribute.Bool("kb.gate_disabled", manifest.GateDisabled),
	)

	details := manifest.Details()
	details["room_id"] = roomId.String()
	details["user_id"] = userId.String()
	if manifest.Degraded() {
		s.logger.Warn(contextModule, "Context built with reduced selection", details)
	} else {
		s.logger.Info(contextModule, "Context built", details)
	}

	if err := s.publisherService.PublishContextBuilt(ctx, roomId, userId, manifest); err != nil {
		s.logger.Warn(contextModule, "Failed to publish context telemetry", map[string]interface{}{
			"error":   err.Error(),
			"room_id": roomId.String(),
		})
	}

	return &dto.BuildContextResponse{
		Context:  text,
		Manifest: manifest,
		Notice:   notice(manifest),
	}, nil
}

// authorizeMember lets the room owner and members through.
func authorizeMember(ctx context.Context, uowFactory unitofwork.RepositoryFactory, userId, roomId uuid.UUID) error {
	uow := uowFactory.NewUnitOfWork(ctx)

	room, err := uow.RoomRepository().FindOne(ctx, specification.ByID{ID: roomId})
	if err != nil {
		return err
	}
	if room == nil {
		return ErrRoomNotFound
	}
	if room.OwnerId == userId {
		return nil
	}

	member, err := uow.RoomRepository().IsMember(ctx, roomId, userId)
	if err != nil {
		return err
	}
	if !member {
		return ErrRoomForbidden
	}
	return nil
}

func notice(m prompt.Manifest) string {
	switch {
	case m.GateDisabled:
		return "The knowledge base is switched off, answers will not use room documents."
	case m.NoContent:
		return "No room documents matched this question."
	case m.UsedFallback:
		return "Documents were too long to include in full, document summaries were used."
	case m.DegradationReason == budget.ReasonDocumentCap:
		return fmt.Sprintf("Only the %d most recent documents were included.", len(m.DocumentIDs))
	case m.DegradationReason == budget.ReasonChunkCap:
		return "Some passages were left out to fit the context limit."
	}
	return ""
}
