package middleware

import (
	"zamar-backend/internal/model"
	"zamar-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
)

func Permission(roles repository.RoleRepository, requiredPermission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Role from context (set by Auth)
		userRole, ok := c.Locals("role").(string)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied: invalid role"})
		}

		// 2. Admin bypasses the permission check
		if userRole == model.RoleAdmin {
			return c.Next()
		}

		// 3. Ask the database
		allowed, err := roles.HasPermission(userRole, requiredPermission)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to validate permission"})
		}
		if !allowed {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied: missing permission " + requiredPermission})
		}

		return c.Next()
	}
}
