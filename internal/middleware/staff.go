package middleware

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/tworkuz/twork-backend/internal/models"
)

// RequireStaff guards category management behind the user's is_staff flag.
func RequireStaff(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, ok := c.Locals("userId").(string)
		if !ok || uid == "" {
			return fiber.ErrUnauthorized
		}

		var user models.User
		if err := db.First(&user, "id = ?", uid).Error; err != nil {
			return fiber.ErrUnauthorized
		}
		if !user.IsStaff {
			return fiber.NewError(fiber.StatusForbidden, "forbidden: staff only")
		}
		return c.Next()
	}
}
