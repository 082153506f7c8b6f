package routes

import (
	"zamar-backend/internal/handler"
	"zamar-backend/internal/metrics"
	"zamar-backend/internal/model"
	"zamar-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
)

func SetupSystemRoutes(app *fiber.App, d Dependencies) {
	hdl := handler.NewDashboardHandler(repository.NewDashboardRepository(d.DB), d.DB)

	app.Get("/healthz", hdl.Healthz)
	app.Get("/metrics", metrics.Handler())

	app.Get("/api/admin/dashboard", d.auth(), d.permission(model.PermViewDashboard), hdl.GetStats)
}
