package middleware

import (
	"strings"

	"go-shoplist/internal/model"
	"go-shoplist/internal/repository"
	"go-shoplist/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth validates the bearer token and sets user info in the request
// context. Token version is checked against the database so signout revokes
// outstanding tokens immediately.
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(model.Fail("Missing authorization token"))
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(model.Fail("Invalid authorization format. Use: Bearer <token>"))
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(model.Fail("Invalid or expired token"))
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return c.Status(401).JSON(model.Fail("User not found"))
		}

		if !user.IsActive {
			return c.Status(401).JSON(model.Fail("User account is inactive"))
		}

		if user.TokenVersion != claims.TokenVersion {
			return c.Status(401).JSON(model.Fail("Session expired, please sign in again"))
		}

		c.Locals("user_id", claims.UserID.String())
		c.Locals("user_email", claims.Email)

		return c.Next()
	}
}
