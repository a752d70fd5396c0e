package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studyroom-be/internal/dto"
	"studyroom-be/internal/entity"
	"studyroom-be/internal/pkg/logger"
	"studyroom-be/internal/repository/knowledge"
	"studyroom-be/internal/repository/specification"
	"studyroom-be/internal/repository/unitofwork"
	"studyroom-be/pkg/events"
	"studyroom-be/pkg/store"
	"studyroom-be/pkg/utils"

	"github.com/google/uuid"
)

const roomModule = "KB_INGEST"

var (
	ErrNotRoomOwner  = errors.New("only the room owner can manage members")
	ErrAlreadyMember = errors.New("user is already a member of this room")
	ErrEmptyDocument = errors.New("document has no text content")
)

// DocumentIndexer receives freshly stored documents. The in-memory chunk
// store implements it so uploads are searchable without a restart.
type DocumentIndexer interface {
	Put(doc store.Document)
}

// ChunkingConfig controls how uploaded text is cut into chunks.
type ChunkingConfig struct {
	ChunkSize int
	Overlap   int
}

type IRoomService interface {
	CreateRoom(ctx context.Context, ownerId uuid.UUID, req *dto.CreateRoomRequest) (*dto.RoomResponse, error)
	AddMember(ctx context.Context, actorId, roomId uuid.UUID, req *dto.AddRoomMemberRequest) (*dto.RoomMemberResponse, error)
	UploadDocument(ctx context.Context, userId, roomId uuid.UUID, req *dto.UploadDocumentRequest) (*dto.DocumentResponse, error)
	ListDocuments(ctx context.Context, userId, roomId uuid.UUID, filter dto.DocumentListFilter) (*dto.DocumentListResponse, error)
}

type roomService struct {
	uowFactory     unitofwork.RepositoryFactory
	chunking       ChunkingConfig
	indexer        DocumentIndexer  // nil unless the memory store is active
	eventPublisher events.Publisher // nil when NATS is unavailable
	logger         logger.ILogger
}

func NewRoomService(
	uowFactory unitofwork.RepositoryFactory,
	chunking ChunkingConfig,
	indexer DocumentIndexer,
	eventPublisher events.Publisher,
	logger logger.ILogger,
) IRoomService {
	return &roomService{
		uowFactory:     uowFactory,
		chunking:       chunking,
		indexer:        indexer,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

func (s *roomService) CreateRoom(ctx context.Context, ownerId uuid.UUID, req *dto.CreateRoomRequest) (*dto.RoomResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	room := &entity.Room{
		Id:      uuid.New(),
		Name:    req.Name,
		OwnerId: ownerId,
	}
	if err := uow.RoomRepository().Create(ctx, room); err != nil {
		return nil, err
	}
	owner := &entity.RoomMember{RoomId: room.Id, UserId: ownerId, Role: entity.RoomRoleOwner}
	if err := uow.RoomRepository().AddMember(ctx, owner); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info(roomModule, "Room created", map[string]interface{}{
		"room_id":  room.Id.String(),
		"owner_id": ownerId.String(),
	})

	return &dto.RoomResponse{
		Id:        room.Id,
		Name:      room.Name,
		OwnerId:   room.OwnerId,
		CreatedAt: room.CreatedAt,
	}, nil
}

func (s *roomService) AddMember(ctx context.Context, actorId, roomId uuid.UUID, req *dto.AddRoomMemberRequest) (*dto.RoomMemberResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	room, err := uow.RoomRepository().FindOne(ctx, specification.ByID{ID: roomId})
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	if room.OwnerId != actorId {
		return nil, ErrNotRoomOwner
	}

	if req.UserId == room.OwnerId {
		return nil, ErrAlreadyMember
	}
	exists, err := uow.RoomRepository().IsMember(ctx, roomId, req.UserId)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyMember
	}

	member := &entity.RoomMember{RoomId: roomId, UserId: req.UserId, Role: entity.RoomRoleMember}
	if err := uow.RoomRepository().AddMember(ctx, member); err != nil {
		return nil, err
	}

	return &dto.RoomMemberResponse{
		RoomId:    member.RoomId,
		UserId:    member.UserId,
		Role:      member.Role,
		CreatedAt: member.CreatedAt,
	}, nil
}

// UploadDocument splits the text into ordered chunks and stores them with the
// document. Any member of the room may upload.
func (s *roomService) UploadDocument(ctx context.Context, userId, roomId uuid.UUID, req *dto.UploadDocumentRequest) (*dto.DocumentResponse, error) {
	if err := authorizeMember(ctx, s.uowFactory, userId, roomId); err != nil {
		return nil, err
	}

	parts := utils.SplitText(req.Content, s.chunking.ChunkSize, s.chunking.Overlap)
	if len(parts) == 0 {
		return nil, ErrEmptyDocument
	}

	doc := &entity.Document{
		Id:      uuid.New(),
		RoomId:  roomId,
		Title:   req.Title,
		Summary: req.Summary,
		Chunks:  make([]*entity.DocumentChunk, 0, len(parts)),
	}
	for i, text := range parts {
		doc.Chunks = append(doc.Chunks, &entity.DocumentChunk{
			Id:         uuid.New(),
			DocumentId: doc.Id,
			ChunkIndex: i,
			Content:    text,
		})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentRepository().Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}

	if s.indexer != nil {
		s.indexer.Put(knowledge.ToStoreDocument(doc))
	}

	details := map[string]interface{}{
		"room_id":     roomId.String(),
		"document_id": doc.Id.String(),
		"user_id":     userId.String(),
		"chunks":      len(doc.Chunks),
	}
	s.logger.Info(roomModule, "Document indexed", details)

	if s.eventPublisher != nil {
		evt := events.BaseEvent{Type: events.TypeDocumentIndexed, Data: details, OccurredAt: time.Now()}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn(roomModule, "Failed to publish document event", map[string]interface{}{
				"error":       err.Error(),
				"document_id": doc.Id.String(),
			})
		}
	}

	return toDocumentResponse(doc), nil
}

func (s *roomService) ListDocuments(ctx context.Context, userId, roomId uuid.UUID, filter dto.DocumentListFilter) (*dto.DocumentListResponse, error) {
	if err := authorizeMember(ctx, s.uowFactory, userId, roomId); err != nil {
		return nil, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	specs := []specification.Specification{specification.ByRoomID{RoomID: roomId}}
	if filter.Query != "" {
		specs = append(specs, specification.DocumentTitleSearch{Query: filter.Query})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	total, err := uow.DocumentRepository().Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	pageSpecs := append(specs,
		specification.WithChunks{},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: filter.Limit, Offset: (filter.Page - 1) * filter.Limit},
	)
	docs, err := uow.DocumentRepository().FindAll(ctx, pageSpecs...)
	if err != nil {
		return nil, err
	}

	items := make([]dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		items = append(items, *toDocumentResponse(d))
	}

	return &dto.DocumentListResponse{
		Items: items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func toDocumentResponse(d *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		Id:         d.Id,
		RoomId:     d.RoomId,
		Title:      d.Title,
		Summary:    d.Summary,
		ChunkCount: len(d.Chunks),
		CreatedAt:  d.CreatedAt,
	}
}
