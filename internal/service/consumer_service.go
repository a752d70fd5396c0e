// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"

	"studyroom-be/internal/dto"
	"studyroom-be/internal/entity"
	"studyroom-be/internal/pkg/logger"
	"studyroom-be/internal/repository/unitofwork"
	"studyroom-be/pkg/events"
	"studyroom-be/pkg/rag/prompt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

const telemetryModule = "KB_TELEMETRY"

// BuildRecorder aggregates delivered manifests, e.g. into Prometheus metrics.
type BuildRecorder interface {
	ObserveBuild(manifest prompt.Manifest)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService persists context-build telemetry and forwards it to the
// external bus when one is connected.
type consumerService struct {
	subscriber     message.Subscriber
	topicName      string
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher events.Publisher // nil when NATS is unavailable
	recorder       BuildRecorder    // optional
	logger         logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher events.Publisher,
	recorder BuildRecorder,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:     subscriber,
		topicName:      topicName,
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		recorder:       recorder,
		logger:         logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ContextBuiltMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error(telemetryModule, "Failed to unmarshal telemetry message", map[string]interface{}{
			"error":      err.Error(),
			"message_id": msg.UUID,
		})
		msg.Ack() // invalid payloads never succeed on retry
		return
	}

	manifestJSON, err := json.Marshal(payload.Manifest)
	if err != nil {
		cs.logger.Error(telemetryModule, "Failed to encode manifest", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}

	m := payload.Manifest
	record := &entity.ContextBuildLog{
		Id:                uuid.New(),
		RoomId:            payload.RoomId,
		UserId:            payload.UserId,
		Mode:              string(m.Mode),
		DocumentCount:     len(m.DocumentIDs),
		FragmentCount:     len(m.Fragments),
		EstimatedTokens:   m.EstimatedTokens,
		UsedFallback:      m.UsedFallback,
		DegradationReason: string(m.DegradationReason),
		GateDisabled:      m.GateDisabled,
		NoContent:         m.NoContent,
		Manifest:          manifestJSON,
		CreatedAt:         payload.OccurredAt,
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ContextBuildLogRepository().Create(ctx, record); err != nil {
		cs.logger.Error(telemetryModule, "Failed to persist context build log", map[string]interface{}{
			"error":   err.Error(),
			"room_id": payload.RoomId.String(),
		})
		msg.Nack()
		return
	}

	if cs.recorder != nil {
		cs.recorder.ObserveBuild(m)
	}

	if cs.eventPublisher != nil {
		data := m.Details()
		data["room_id"] = payload.RoomId.String()
		data["user_id"] = payload.UserId.String()
		data["log_id"] = record.Id.String()

		evt := events.BaseEvent{
			Type:       events.TypeContextBuilt,
			Data:       data,
			OccurredAt: payload.OccurredAt,
		}
		// the log row is the record of truth; a bus failure is not retried
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			cs.logger.Warn(telemetryModule, "Failed to forward context build event", map[string]interface{}{
				"error":  err.Error(),
				"log_id": record.Id.String(),
			})
		}
	}

	msg.Ack()
}
