package service

import (
	"context"
	"strings"
	"testing"

	"studyroom-be/internal/dto"
	"studyroom-be/internal/entity"
	"studyroom-be/internal/repository/specification"
	"studyroom-be/pkg/events"
	"studyroom-be/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingIndexer struct {
	docs []store.Document
}

func (i *recordingIndexer) Put(doc store.Document) {
	i.docs = append(i.docs, doc)
}

type roomFixture struct {
	uow     *fakeUoW
	indexer *recordingIndexer
	events  *fakeEventPublisher
	svc     IRoomService
	roomId  uuid.UUID
	ownerId uuid.UUID
}

func newRoomFixture() *roomFixture {
	f := &roomFixture{
		uow:     newFakeUoW(),
		indexer: &recordingIndexer{},
		events:  &fakeEventPublisher{},
		roomId:  uuid.New(),
		ownerId: uuid.New(),
	}
	f.uow.rooms.rooms[f.roomId] = &entity.Room{Id: f.roomId, OwnerId: f.ownerId, Name: "Biology"}
	f.svc = NewRoomService(
		&fakeFactory{uow: f.uow},
		ChunkingConfig{ChunkSize: 40, Overlap: 0},
		f.indexer,
		f.events,
		&recordingLogger{},
	)
	return f
}

func TestCreateRoom_OwnerBecomesMember(t *testing.T) {
	f := newRoomFixture()
	owner := uuid.New()

	res, err := f.svc.CreateRoom(context.Background(), owner, &dto.CreateRoomRequest{Name: "Chemistry"})
	require.NoError(t, err)

	assert.Equal(t, "Chemistry", res.Name)
	assert.Equal(t, owner, res.OwnerId)
	assert.Contains(t, f.uow.rooms.members[res.Id], owner)
	assert.Equal(t, 1, f.uow.commits)
}

func TestAddMember(t *testing.T) {
	f := newRoomFixture()
	member := uuid.New()
	ctx := context.Background()

	res, err := f.svc.AddMember(ctx, f.ownerId, f.roomId, &dto.AddRoomMemberRequest{UserId: member})
	require.NoError(t, err)
	assert.Equal(t, entity.RoomRoleMember, res.Role)

	_, err = f.svc.AddMember(ctx, f.ownerId, f.roomId, &dto.AddRoomMemberRequest{UserId: member})
	assert.ErrorIs(t, err, ErrAlreadyMember)

	_, err = f.svc.AddMember(ctx, f.ownerId, f.roomId, &dto.AddRoomMemberRequest{UserId: f.ownerId})
	assert.ErrorIs(t, err, ErrAlreadyMember)

	_, err = f.svc.AddMember(ctx, member, f.roomId, &dto.AddRoomMemberRequest{UserId: uuid.New()})
	assert.ErrorIs(t, err, ErrNotRoomOwner)

	_, err = f.svc.AddMember(ctx, f.ownerId, uuid.New(), &dto.AddRoomMemberRequest{UserId: uuid.New()})
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestUploadDocument_ChunksAndIndexes(t *testing.T) {
	f := newRoomFixture()
	content := strings.Repeat("mitochondria make energy for the cell ", 5)

	res, err := f.svc.UploadDocument(context.Background(), f.ownerId, f.roomId, &dto.UploadDocumentRequest{
		Title:   "Lecture 3",
		Summary: "Organelles",
		Content: content,
	})
	require.NoError(t, err)

	require.Len(t, f.uow.documents.docs, 1)
	saved := f.uow.documents.docs[0]
	assert.Equal(t, f.roomId, saved.RoomId)
	assert.Greater(t, len(saved.Chunks), 1)
	assert.Equal(t, len(saved.Chunks), res.ChunkCount)
	for i, c := range saved.Chunks {
		assert.Equal(t, i, c.ChunkIndex)
		assert.Equal(t, saved.Id, c.DocumentId)
		assert.LessOrEqual(t, len(c.Content), 40)
	}

	require.Len(t, f.indexer.docs, 1)
	assert.Equal(t, saved.Id.String(), f.indexer.docs[0].ID)
	assert.Equal(t, "Lecture 3", f.indexer.docs[0].Chunks[0].DocumentTitle)

	published := f.events.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.TypeDocumentIndexed, published[0].EventType())
}

func TestUploadDocument_Rejections(t *testing.T) {
	f := newRoomFixture()
	ctx := context.Background()

	_, err := f.svc.UploadDocument(ctx, uuid.New(), f.roomId, &dto.UploadDocumentRequest{Title: "t", Content: "text"})
	assert.ErrorIs(t, err, ErrRoomForbidden)

	_, err = f.svc.UploadDocument(ctx, f.ownerId, f.roomId, &dto.UploadDocumentRequest{Title: "t", Content: "  \n "})
	assert.ErrorIs(t, err, ErrEmptyDocument)

	assert.Empty(t, f.uow.documents.docs)
	assert.Empty(t, f.indexer.docs)
}

func TestListDocuments_FiltersAndPages(t *testing.T) {
	f := newRoomFixture()
	f.uow.documents.docs = []*entity.Document{
		{Id: uuid.New(), RoomId: f.roomId, Title: "Lecture 1", Chunks: []*entity.DocumentChunk{{}, {}}},
	}

	res, err := f.svc.ListDocuments(context.Background(), f.ownerId, f.roomId, dto.DocumentListFilter{Query: "lecture", Limit: 500})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 20, res.Limit)
	assert.Equal(t, int64(1), res.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 2, res.Items[0].ChunkCount)

	assert.Contains(t, f.uow.documents.specs, specification.Specification(specification.ByRoomID{RoomID: f.roomId}))
	assert.Contains(t, f.uow.documents.specs, specification.Specification(specification.DocumentTitleSearch{Query: "lecture"}))
}
