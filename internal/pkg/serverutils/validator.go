package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateRequest validates a bound request DTO against its struct tags.
// Violations surface as a 400 fiber error with one line per failed field.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var sb strings.Builder
		for _, fieldErr := range err.(validator.ValidationErrors) {
			sb.WriteString(fmt.Sprintf("field '%s' failed on '%s' rule; ", fieldErr.Field(), fieldErr.Tag()))
		}
		return fiber.NewError(fiber.StatusBadRequest, strings.TrimSuffix(sb.String(), "; "))
	}
	return nil
}
