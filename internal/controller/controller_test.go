package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"studyroom-be/internal/dto"
	"studyroom-be/internal/pkg/logger"
	"studyroom-be/internal/pkg/serverutils"
	"studyroom-be/internal/service"
	"studyroom-be/pkg/rag/budget"
	"studyroom-be/pkg/rag/intent"
	"studyroom-be/pkg/rag/prompt"
	"studyroom-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "controller-secret"

type fakeContextService struct {
	res      *dto.BuildContextResponse
	err      error
	lastUser uuid.UUID
	lastRoom uuid.UUID
}

func (f *fakeContextService) BuildContext(_ context.Context, userId, roomId uuid.UUID, _ *dto.BuildContextRequest) (*dto.BuildContextResponse, error) {
	f.lastUser, f.lastRoom = userId, roomId
	return f.res, f.err
}

type fakeKnowledgeBaseService struct {
	enabled   bool
	setErr    error
	lastBuild dto.ContextBuildLogFilter
}

func (f *fakeKnowledgeBaseService) GetStatus(context.Context) (*dto.KnowledgeBaseStatusResponse, error) {
	return &dto.KnowledgeBaseStatusResponse{Enabled: f.enabled, Source: "database"}, nil
}

func (f *fakeKnowledgeBaseService) SetKnowledgeBaseEnabled(_ context.Context, _ uuid.UUID, enabled bool) (*dto.KnowledgeBaseStatusResponse, error) {
	if f.setErr != nil {
		return nil, f.setErr
	}
	f.enabled = enabled
	return &dto.KnowledgeBaseStatusResponse{Enabled: enabled, Source: "database"}, nil
}

func (f *fakeKnowledgeBaseService) ListBuilds(_ context.Context, filter dto.ContextBuildLogFilter) (*dto.ContextBuildLogListResponse, error) {
	f.lastBuild = filter
	return &dto.ContextBuildLogListResponse{Items: []*dto.ContextBuildLogResponse{}, Page: filter.Page, Limit: filter.Limit}, nil
}

func (f *fakeKnowledgeBaseService) GetLogs(logger.LogFilter) ([]*dto.LogListResponse, error) {
	return []*dto.LogListResponse{}, nil
}

func newApp(ctxSvc service.IContextService, kbSvc service.IKnowledgeBaseService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	auth := serverutils.JwtMiddleware(secret)
	NewContextController(ctxSvc).RegisterRoutes(api, auth)
	NewKnowledgeBaseController(kbSvc).RegisterRoutes(api, auth)
	return app
}

func token(t *testing.T, userId uuid.UUID, role string) string {
	tok, err := serverutils.GenerateToken(secret, userId.String(), role, time.Hour)
	require.NoError(t, err)
	return tok
}

func do(t *testing.T, app *fiber.App, method, path, tok, body string) (int, map[string]interface{}) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestBuildContextEndpoint(t *testing.T) {
	svc := &fakeContextService{res: &dto.BuildContextResponse{
		Context: "<knowledge_base>\n</knowledge_base>",
		Manifest: prompt.Manifest{
			Mode:              intent.ModeNormal,
			DocumentIDs:       []string{},
			Fragments:         []prompt.FragmentRef{},
			DegradationReason: budget.ReasonNone,
		},
	}}
	app := newApp(svc, &fakeKnowledgeBaseService{})
	userId, roomId := uuid.New(), uuid.New()

	status, body := do(t, app, "POST", "/api/room/v1/"+roomId.String()+"/context", token(t, userId, "member"), `{"query":"what is osmosis"}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, userId, svc.lastUser)
	assert.Equal(t, roomId, svc.lastRoom)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "normal", data["manifest"].(map[string]interface{})["mode"])
}

func TestBuildContextEndpoint_Errors(t *testing.T) {
	userId := uuid.New()
	path := "/api/room/v1/" + uuid.NewString() + "/context"

	tests := []struct {
		name   string
		path   string
		body   string
		err    error
		status int
	}{
		{"missing query", path, `{}`, nil, fiber.StatusBadRequest},
		{"bad room id", "/api/room/v1/nope/context", `{"query":"q"}`, nil, fiber.StatusBadRequest},
		{"unknown room", path, `{"query":"q"}`, service.ErrRoomNotFound, fiber.StatusNotFound},
		{"not a member", path, `{"query":"q"}`, service.ErrRoomForbidden, fiber.StatusForbidden},
		{"store down", path, `{"query":"q"}`, &store.Error{Op: "GetRankedChunks", Err: errors.New("timeout")}, fiber.StatusServiceUnavailable},
		{"unexpected", path, `{"query":"q"}`, errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp(&fakeContextService{err: tt.err}, &fakeKnowledgeBaseService{})
			status, _ := do(t, app, "POST", tt.path, token(t, userId, "member"), tt.body)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestBuildContextEndpoint_RequiresToken(t *testing.T) {
	app := newApp(&fakeContextService{}, &fakeKnowledgeBaseService{})
	status, _ := do(t, app, "POST", "/api/room/v1/"+uuid.NewString()+"/context", "", `{"query":"q"}`)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestKnowledgeBaseEndpoints(t *testing.T) {
	kb := &fakeKnowledgeBaseService{enabled: true}
	app := newApp(&fakeContextService{}, kb)
	admin := token(t, uuid.New(), serverutils.RoleAdmin)

	status, _ := do(t, app, "GET", "/api/admin/v1/knowledge-base", token(t, uuid.New(), "member"), "")
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body := do(t, app, "PUT", "/api/admin/v1/knowledge-base", admin, `{"enabled":false}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, body["data"].(map[string]interface{})["enabled"])
	assert.False(t, kb.enabled)

	status, _ = do(t, app, "PUT", "/api/admin/v1/knowledge-base", admin, `{}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	kb.setErr = service.ErrStaticGate
	status, _ = do(t, app, "PUT", "/api/admin/v1/knowledge-base", admin, `{"enabled":true}`)
	assert.Equal(t, fiber.StatusConflict, status)

	roomId := uuid.New()
	status, _ = do(t, app, "GET", "/api/admin/v1/knowledge-base/builds?room_id="+roomId.String()+"&reason=chunk-cap&page=2", admin, "")
	require.Equal(t, fiber.StatusOK, status)
	require.NotNil(t, kb.lastBuild.RoomId)
	assert.Equal(t, roomId, *kb.lastBuild.RoomId)
	assert.Equal(t, "chunk-cap", kb.lastBuild.Reason)
	assert.Equal(t, 2, kb.lastBuild.Page)
	assert.Nil(t, kb.lastBuild.Since)

	status, _ = do(t, app, "GET", "/api/admin/v1/knowledge-base/builds?since=2026-01-02T15:04:05Z", admin, "")
	require.Equal(t, fiber.StatusOK, status)
	require.NotNil(t, kb.lastBuild.Since)
	assert.Equal(t, 2026, kb.lastBuild.Since.Year())

	status, _ = do(t, app, "GET", "/api/admin/v1/knowledge-base/builds?since=yesterday", admin, "")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = do(t, app, "GET", "/api/admin/v1/knowledge-base/logs", admin, "")
	assert.Equal(t, fiber.StatusOK, status)
}
