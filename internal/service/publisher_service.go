// FILE: internal/service/publisher_service.go
package service

import (
	"context"
	"encoding/json"
	"time"

	"studyroom-be/internal/dto"
	"studyroom-be/pkg/rag/prompt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type IPublisherService interface {
	Publish(ctx context.Context, payload []byte) error
	PublishContextBuilt(ctx context.Context, roomId, userId uuid.UUID, manifest prompt.Manifest) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

func NewPublisherService(topicName string, publisher message.Publisher) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
	}
}

func (p *publisherService) Publish(ctx context.Context, payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return p.publisher.Publish(p.topicName, msg)
}

func (p *publisherService) PublishContextBuilt(ctx context.Context, roomId, userId uuid.UUID, manifest prompt.Manifest) error {
	payload, err := json.Marshal(dto.ContextBuiltMessage{
		RoomId:     roomId,
		UserId:     userId,
		Manifest:   manifest,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return p.Publish(ctx, payload)
}
