package controller

import (
	"bufio"
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/YasasBanuka/document-insight-backend/internal/dto"
	"github.com/YasasBanuka/document-insight-backend/internal/pkg/serverutils"
	"github.com/YasasBanuka/document-insight-backend/internal/service"
	"github.com/YasasBanuka/document-insight-backend/pkg/ratelimit"
)

type IRAGController interface {
	RegisterRoutes(r fiber.Router, limiter *ratelimit.Limiter)
	Ask(ctx *fiber.Ctx) error
	AskDocumentStream(ctx *fiber.Ctx) error
}

type ragController struct {
	ragService service.IRAGService
}

func NewRAGController(ragService service.IRAGService) IRAGController {
	return &ragController{
		ragService: ragService,
	}
}

func (c *ragController) RegisterRoutes(r fiber.Router, limiter *ratelimit.Limiter) {
	h := r.Group("/rag/v1")
	h.Use(serverutils.RateLimitMiddleware(limiter, ratelimit.CategoryRAG))
	h.Use(serverutils.OwnerMiddleware)
	h.Post("ask", c.Ask)
	h.Post("documents/:id/ask-stream", c.AskDocumentStream)
}

func (c *ragController) Ask(ctx *fiber.Ctx) error {
	userId := serverutils.OwnerID(ctx)

	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.ragService.Ask(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success answer question", res))
}

// AskDocumentStream answers a question scoped to one document and
// streams the answer as server-sent events, one fragment per event.
func (c *ragController) AskDocumentStream(ctx *fiber.Ctx) error {
	userId := serverutils.OwnerID(ctx)
	documentId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid document id")
	}

	var req dto.AskDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	// The handler returns before the stream finishes, so the model call
	// runs under its own context cancelled when the writer exits.
	streamCtx, cancel := context.WithCancel(context.Background())

	stream, err := c.ragService.AskDocumentStream(streamCtx, userId, documentId, &req)
	if err != nil {
		cancel()
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		for fragment := range stream {
			if _, err := w.WriteString("data: " + fragment + "\n\n"); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				// Client went away; cancelling tears down the model call.
				return
			}
		}
		_, _ = w.WriteString("data: [DONE]\n\n")
		_ = w.Flush()
	}))

	return nil
}
