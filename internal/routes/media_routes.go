package routes

import (
	"zamar-backend/internal/handler"

	"github.com/gofiber/fiber/v2"
)

func SetupMediaRoutes(app *fiber.App, d Dependencies) {
	hdl := handler.NewMediaHandler(d.Cache, d.Storage)
	app.Get("/media/*", hdl.Serve)
}
