package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tworkuz/twork-backend/internal/utils"
)

// JWTFromHeader reads the access token from the Authorization header and puts
// the user id into locals for downstream handlers.
func JWTFromHeader(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			return fiber.ErrUnauthorized
		}

		claims, err := utils.ParseJWT(secret, strings.TrimPrefix(auth, "Bearer "), utils.TokenAccess)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		c.Locals("userId", claims.UserID)
		return c.Next()
	}
}
