package serverutils

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/YasasBanuka/document-insight-backend/internal/pkg/metrics"
	"github.com/YasasBanuka/document-insight-backend/pkg/ratelimit"
)

// RateLimitMiddleware throttles requests per caller. Authenticated
// callers are keyed by user id, anonymous ones by client IP, each with
// their own bucket capacity for the given category.
func RateLimitMiddleware(limiter *ratelimit.Limiter, category ratelimit.Category) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userID := strings.TrimSpace(ctx.Get(HeaderUserID))
		authenticated := userID != ""

		key := "user:" + userID
		if !authenticated {
			key = "ip:" + clientIP(ctx)
		}

		if !limiter.Allow(key, category, authenticated) {
			metrics.RecordRateLimitExceeded(authenticated, ctx.Path())
			retryAfter := int(limiter.RetryAfter(category, authenticated).Seconds())
			ctx.Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			return ctx.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse(
				fiber.StatusTooManyRequests,
				fmt.Sprintf("Rate limit exceeded. You can retry in %d seconds.", retryAfter),
			))
		}

		metrics.RecordRateLimitAllowed(authenticated)
		return ctx.Next()
	}
}

func clientIP(ctx *fiber.Ctx) string {
	if forwarded := ctx.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	return ctx.IP()
}
