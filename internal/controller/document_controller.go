package controller

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/YasasBanuka/document-insight-backend/internal/pkg/serverutils"
	"github.com/YasasBanuka/document-insight-backend/internal/service"
	"github.com/YasasBanuka/document-insight-backend/pkg/ratelimit"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router, limiter *ratelimit.Limiter)
	Upload(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
}

func NewDocumentController(documentService service.IDocumentService) IDocumentController {
	return &documentController{
		documentService: documentService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router, limiter *ratelimit.Limiter) {
	h := r.Group("/documents/v1")
	h.Use(serverutils.RateLimitMiddleware(limiter, ratelimit.CategoryGeneral))
	h.Use(serverutils.OwnerMiddleware)
	h.Post("", c.Upload)
	h.Get("", c.List)
	h.Get("stats", c.Stats)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
}

func (c *documentController) Upload(ctx *fiber.Ctx) error {
	userId := serverutils.OwnerID(ctx)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Missing 'file' form field")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Unreadable upload")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Unreadable upload")
	}

	res, err := c.documentService.Ingest(ctx.Context(), userId, data, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success upload document", res))
}

func (c *documentController) List(ctx *fiber.Ctx) error {
	userId := serverutils.OwnerID(ctx)

	res, err := c.documentService.List(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list documents", res))
}

func (c *documentController) Show(ctx *fiber.Ctx) error {
	userId := serverutils.OwnerID(ctx)
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid document id")
	}

	res, err := c.documentService.Get(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show document", res))
}

func (c *documentController) Stats(ctx *fiber.Ctx) error {
	userId := serverutils.OwnerID(ctx)

	res, err := c.documentService.Stats(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show document stats", res))
}

func (c *documentController) Delete(ctx *fiber.Ctx) error {
	userId := serverutils.OwnerID(ctx)
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid document id")
	}

	if err := c.documentService.Remove(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete document", nil))
}
