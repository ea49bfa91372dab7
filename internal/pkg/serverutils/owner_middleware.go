package serverutils

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderUserID carries the caller identity resolved by the upstream
// auth gateway.
const HeaderUserID = "X-User-Id"

// OwnerMiddleware requires a valid user id header and stores it in
// request locals for controllers.
func OwnerMiddleware(ctx *fiber.Ctx) error {
	raw := strings.TrimSpace(ctx.Get(HeaderUserID))
	if raw == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing user identity"))
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid user identity"))
	}

	ctx.Locals("user_id", userID.String())
	return ctx.Next()
}

// OwnerID reads the user id placed in locals by OwnerMiddleware.
func OwnerID(ctx *fiber.Ctx) uuid.UUID {
	raw, _ := ctx.Locals("user_id").(string)
	id, _ := uuid.Parse(raw)
	return id
}
