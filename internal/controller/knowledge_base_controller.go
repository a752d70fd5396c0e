package controller

import (
	"errors"
	"time"

	"studyroom-be/internal/dto"
	"studyroom-be/internal/pkg/logger"
	"studyroom-be/internal/pkg/serverutils"
	"studyroom-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IKnowledgeBaseController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	GetStatus(ctx *fiber.Ctx) error
	SetEnabled(ctx *fiber.Ctx) error
	ListBuilds(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
}

type knowledgeBaseController struct {
	service service.IKnowledgeBaseService
}

func NewKnowledgeBaseController(service service.IKnowledgeBaseService) IKnowledgeBaseController {
	return &knowledgeBaseController{service: service}
}

func (c *knowledgeBaseController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/admin/v1/knowledge-base")
	h.Use(auth, serverutils.AdminOnly)

	h.Get("", c.GetStatus)
	h.Put("", c.SetEnabled)
	h.Get("/builds", c.ListBuilds)
	h.Get("/logs", c.GetLogs)
}

func (c *knowledgeBaseController) GetStatus(ctx *fiber.Ctx) error {
	res, err := c.service.GetStatus(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get knowledge base status", res))
}

func (c *knowledgeBaseController) SetEnabled(ctx *fiber.Ctx) error {
	actorId, err := userIdFromLocals(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid user"))
	}

	var req dto.UpdateKnowledgeBaseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.SetKnowledgeBaseEnabled(ctx.UserContext(), actorId, *req.Enabled)
	if err != nil {
		if errors.Is(err, service.ErrStaticGate) {
			return ctx.Status(fiber.StatusConflict).JSON(serverutils.ErrorResponse(409, err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update knowledge base status", res))
}

func (c *knowledgeBaseController) ListBuilds(ctx *fiber.Ctx) error {
	filter := dto.ContextBuildLogFilter{
		Reason: ctx.Query("reason"),
		Page:   ctx.QueryInt("page", 1),
		Limit:  ctx.QueryInt("limit", 20),
	}
	if roomIdStr := ctx.Query("room_id"); roomIdStr != "" {
		roomId, err := uuid.Parse(roomIdStr)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid room_id"))
		}
		filter.RoomId = &roomId
	}
	if sinceStr := ctx.Query("since"); sinceStr != "" {
		since, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid since, expected RFC3339"))
		}
		filter.Since = &since
	}

	res, err := c.service.ListBuilds(ctx.UserContext(), filter)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get context builds", res))
}

func (c *knowledgeBaseController) GetLogs(ctx *fiber.Ctx) error {
	filter := logger.LogFilter{
		Level:  ctx.Query("level"),
		Module: ctx.Query("module"),
		Limit:  ctx.QueryInt("limit", 50),
		Offset: ctx.QueryInt("offset", 0),
	}

	res, err := c.service.GetLogs(filter)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get knowledge base logs", res))
}
