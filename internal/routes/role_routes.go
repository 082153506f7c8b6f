package routes

import (
	"zamar-backend/internal/handler"
	"zamar-backend/internal/middleware"
	"zamar-backend/internal/model"
	"zamar-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
)

func SetupRoleRoutes(app *fiber.App, d Dependencies) {
	hdl := handler.NewRoleHandler(repository.NewRoleRepository(d.DB), repository.NewUserRepository(d.DB))

	api := app.Group("/api/admin/roles", d.auth(), middleware.Role(model.RoleAdmin))
	api.Get("/", hdl.GetAll)
	api.Get("/permissions", hdl.GetAllPermissions)
	api.Put("/:id/permissions", hdl.UpdatePermissions)

	app.Put("/api/admin/users/:id/role", d.auth(), middleware.Role(model.RoleAdmin), hdl.AssignUserRole)
}
