package routes

import (
	"context"

	"zamar-backend/internal/handler"

	"github.com/gofiber/fiber/v2"
)

// SetupWebRoutes serves the web client when WEB_DIR is set.
func SetupWebRoutes(app *fiber.App, d Dependencies) {
	dir := d.Config.Server.WebDir
	if dir == "" {
		return
	}
	hdl := handler.NewWebHandler(d.Cache, dir)
	if err := hdl.PrimeShell(context.Background()); err != nil {
		d.Log.WithError(err).Warn("could not cache app shell")
	}
	app.Get("/*", hdl.Serve)
}
