package controller

import (
	"errors"

	"studyroom-be/internal/dto"
	"studyroom-be/internal/pkg/serverutils"
	"studyroom-be/internal/service"
	"studyroom-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IContextController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	BuildContext(ctx *fiber.Ctx) error
}

type contextController struct {
	service service.IContextService
}

func NewContextController(service service.IContextService) IContextController {
	return &contextController{service: service}
}

func (c *contextController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/room/v1")
	h.Post(":roomId/context", auth, c.BuildContext)
}

func (c *contextController) BuildContext(ctx *fiber.Ctx) error {
	userId, err := userIdFromLocals(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid user"))
	}

	roomId, err := uuid.Parse(ctx.Params("roomId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid room id"))
	}

	var req dto.BuildContextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.BuildContext(ctx.UserContext(), userId, roomId, &req)
	if err != nil {
		return mapContextError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success build context", res))
}

func mapContextError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	case errors.Is(err, service.ErrRoomForbidden):
		return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, err.Error()))
	case errors.Is(err, store.ErrUnavailable):
		// upstream detail stays in the logs
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.ErrorResponse(503, "Knowledge base is temporarily unavailable"))
	}
	return err
}

func userIdFromLocals(ctx *fiber.Ctx) (uuid.UUID, error) {
	userIdStr, ok := ctx.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, errors.New("user_id missing")
	}
	return uuid.Parse(userIdStr)
}
