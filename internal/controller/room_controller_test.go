package controller

import (
	"context"
	"testing"

	"studyroom-be/internal/dto"
	"studyroom-be/internal/pkg/serverutils"
	"studyroom-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRoomService struct {
	err        error
	lastUser   uuid.UUID
	lastRoom   uuid.UUID
	lastUpload *dto.UploadDocumentRequest
	lastFilter dto.DocumentListFilter
}

func (f *fakeRoomService) CreateRoom(_ context.Context, ownerId uuid.UUID, req *dto.CreateRoomRequest) (*dto.RoomResponse, error) {
	f.lastUser = ownerId
	if f.err != nil {
		return nil, f.err
	}
	return &dto.RoomResponse{Id: uuid.New(), Name: req.Name, OwnerId: ownerId}, nil
}

func (f *fakeRoomService) AddMember(_ context.Context, actorId, roomId uuid.UUID, req *dto.AddRoomMemberRequest) (*dto.RoomMemberResponse, error) {
	f.lastUser, f.lastRoom = actorId, roomId
	if f.err != nil {
		return nil, f.err
	}
	return &dto.RoomMemberResponse{RoomId: roomId, UserId: req.UserId, Role: "member"}, nil
}

func (f *fakeRoomService) UploadDocument(_ context.Context, userId, roomId uuid.UUID, req *dto.UploadDocumentRequest) (*dto.DocumentResponse, error) {
	f.lastUser, f.lastRoom, f.lastUpload = userId, roomId, req
	if f.err != nil {
		return nil, f.err
	}
	return &dto.DocumentResponse{Id: uuid.New(), RoomId: roomId, Title: req.Title, ChunkCount: 2}, nil
}

func (f *fakeRoomService) ListDocuments(_ context.Context, userId, roomId uuid.UUID, filter dto.DocumentListFilter) (*dto.DocumentListResponse, error) {
	f.lastUser, f.lastRoom, f.lastFilter = userId, roomId, filter
	if f.err != nil {
		return nil, f.err
	}
	return &dto.DocumentListResponse{Items: []dto.DocumentResponse{}, Page: filter.Page, Limit: filter.Limit}, nil
}

func newRoomApp(svc service.IRoomService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	auth := serverutils.JwtMiddleware(secret)
	NewContextController(&fakeContextService{}).RegisterRoutes(api, auth)
	NewRoomController(svc).RegisterRoutes(api, auth)
	return app
}

func TestRoomEndpoints(t *testing.T) {
	svc := &fakeRoomService{}
	app := newRoomApp(svc)
	userId, roomId := uuid.New(), uuid.New()
	tok := token(t, userId, "member")

	status, body := do(t, app, "POST", "/api/room/v1", tok, `{"name":"Biology 101"}`)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "Biology 101", body["data"].(map[string]interface{})["name"])
	assert.Equal(t, userId, svc.lastUser)

	status, _ = do(t, app, "POST", "/api/room/v1", tok, `{}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	memberId := uuid.New()
	status, _ = do(t, app, "POST", "/api/room/v1/"+roomId.String()+"/members", tok, `{"user_id":"`+memberId.String()+`"}`)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, roomId, svc.lastRoom)

	status, body = do(t, app, "POST", "/api/room/v1/"+roomId.String()+"/documents", tok,
		`{"title":"Lecture 1","content":"Cells are the basic unit of life."}`)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "Lecture 1", svc.lastUpload.Title)
	assert.Equal(t, float64(2), body["data"].(map[string]interface{})["chunk_count"])

	status, _ = do(t, app, "GET", "/api/room/v1/"+roomId.String()+"/documents?q=lecture&page=3&limit=5", tok, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, dto.DocumentListFilter{Query: "lecture", Page: 3, Limit: 5}, svc.lastFilter)
}

func TestRoomEndpoints_Errors(t *testing.T) {
	roomPath := "/api/room/v1/" + uuid.NewString()
	upload := `{"title":"t","content":"c"}`

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		err    error
		status int
	}{
		{"bad room id", "GET", "/api/room/v1/nope/documents", "", nil, fiber.StatusBadRequest},
		{"upload without content", "POST", roomPath + "/documents", `{"title":"t"}`, nil, fiber.StatusBadRequest},
		{"empty document", "POST", roomPath + "/documents", upload, service.ErrEmptyDocument, fiber.StatusBadRequest},
		{"not a member", "POST", roomPath + "/documents", upload, service.ErrRoomForbidden, fiber.StatusForbidden},
		{"unknown room", "GET", roomPath + "/documents", "", service.ErrRoomNotFound, fiber.StatusNotFound},
		{"not the owner", "POST", roomPath + "/members", `{"user_id":"` + uuid.NewString() + `"}`, service.ErrNotRoomOwner, fiber.StatusForbidden},
		{"already a member", "POST", roomPath + "/members", `{"user_id":"` + uuid.NewString() + `"}`, service.ErrAlreadyMember, fiber.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newRoomApp(&fakeRoomService{err: tt.err})
			status, _ := do(t, app, tt.method, tt.path, token(t, uuid.New(), "member"), tt.body)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestRoomEndpoints_RequireToken(t *testing.T) {
	app := newRoomApp(&fakeRoomService{})
	status, _ := do(t, app, "POST", "/api/room/v1", "", `{"name":"x"}`)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}
