package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation on a request DTO and
// returns a 400 fiber error listing the failing fields.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fiber.NewError(fiber.StatusBadRequest,
				"validation failed: "+strings.Join(fields, ", "))
		}
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}
