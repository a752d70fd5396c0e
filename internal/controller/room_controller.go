package controller

import (
	"errors"

	"studyroom-be/internal/dto"
	"studyroom-be/internal/pkg/serverutils"
	"studyroom-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IRoomController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	CreateRoom(ctx *fiber.Ctx) error
	AddMember(ctx *fiber.Ctx) error
	UploadDocument(ctx *fiber.Ctx) error
	ListDocuments(ctx *fiber.Ctx) error
}

type roomController struct {
	service service.IRoomService
}

func NewRoomController(service service.IRoomService) IRoomController {
	return &roomController{service: service}
}

// RegisterRoutes shares the /room/v1 prefix with the context route, so auth is
// attached per route rather than on the group.
func (c *roomController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/room/v1")
	h.Post("", auth, c.CreateRoom)
	h.Post(":roomId/members", auth, c.AddMember)
	h.Post(":roomId/documents", auth, c.UploadDocument)
	h.Get(":roomId/documents", auth, c.ListDocuments)
}

func (c *roomController) CreateRoom(ctx *fiber.Ctx) error {
	userId, err := userIdFromLocals(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid user"))
	}

	var req dto.CreateRoomRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.CreateRoom(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create room", res))
}

func (c *roomController) AddMember(ctx *fiber.Ctx) error {
	userId, roomId, err := roomRequestIds(ctx)
	if err != nil {
		return err
	}

	var req dto.AddRoomMemberRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.AddMember(ctx.UserContext(), userId, roomId, &req)
	if err != nil {
		return mapRoomError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success add member", res))
}

func (c *roomController) UploadDocument(ctx *fiber.Ctx) error {
	userId, roomId, err := roomRequestIds(ctx)
	if err != nil {
		return err
	}

	var req dto.UploadDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.UploadDocument(ctx.UserContext(), userId, roomId, &req)
	if err != nil {
		return mapRoomError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success upload document", res))
}

func (c *roomController) ListDocuments(ctx *fiber.Ctx) error {
	userId, roomId, err := roomRequestIds(ctx)
	if err != nil {
		return err
	}

	filter := dto.DocumentListFilter{
		Query: ctx.Query("q"),
		Page:  ctx.QueryInt("page", 1),
		Limit: ctx.QueryInt("limit", 20),
	}

	res, err := c.service.ListDocuments(ctx.UserContext(), userId, roomId, filter)
	if err != nil {
		return mapRoomError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get documents", res))
}

// roomRequestIds reads the caller and the :roomId param. Failures are
// *fiber.Error values rendered by the error middleware.
func roomRequestIds(ctx *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	userId, err := userIdFromLocals(ctx)
	if err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid user")
	}
	roomId, err := uuid.Parse(ctx.Params("roomId"))
	if err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid room id")
	}
	return userId, roomId, nil
}

func mapRoomError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotRoomOwner):
		return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, err.Error()))
	case errors.Is(err, service.ErrAlreadyMember):
		return ctx.Status(fiber.StatusConflict).JSON(serverutils.ErrorResponse(409, err.Error()))
	case errors.Is(err, service.ErrEmptyDocument):
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	return mapContextError(ctx, err)
}
