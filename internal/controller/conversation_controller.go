package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/YasasBanuka/document-insight-backend/internal/pkg/serverutils"
	"github.com/YasasBanuka/document-insight-backend/internal/service"
	"github.com/YasasBanuka/document-insight-backend/pkg/ratelimit"
)

type IConversationController interface {
	RegisterRoutes(r fiber.Router, limiter *ratelimit.Limiter)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type conversationController struct {
	conversationService service.IConversationService
}

func NewConversationController(conversationService service.IConversationService) IConversationController {
	return &conversationController{
		conversationService: conversationService,
	}
}

func (c *conversationController) RegisterRoutes(r fiber.Router, limiter *ratelimit.Limiter) {
	h := r.Group("/conversations/v1")
	h.Use(serverutils.RateLimitMiddleware(limiter, ratelimit.CategoryGeneral))
	h.Use(serverutils.OwnerMiddleware)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
}

func (c *conversationController) List(ctx *fiber.Ctx) error {
	userId := serverutils.OwnerID(ctx)

	res, err := c.conversationService.List(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list conversations", res))
}

func (c *conversationController) Show(ctx *fiber.Ctx) error {
	userId := serverutils.OwnerID(ctx)
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid conversation id")
	}

	res, err := c.conversationService.Get(ctx.Context(), id, userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show conversation", res))
}

func (c *conversationController) Delete(ctx *fiber.Ctx) error {
	userId := serverutils.OwnerID(ctx)
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid conversation id")
	}

	if err := c.conversationService.Delete(ctx.Context(), id, userId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete conversation", nil))
}
