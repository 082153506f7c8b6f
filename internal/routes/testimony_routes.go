package routes

import (
	"zamar-backend/internal/handler"
	"zamar-backend/internal/model"
	"zamar-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
)

func SetupTestimonyRoutes(app *fiber.App, d Dependencies) {
	hdl := handler.NewTestimonyHandler(repository.NewTestimonyRepository(d.DB), repository.NewSongRepository(d.DB), d.Mailer, d.Log)

	app.Get("/api/testimonies", d.cached(), hdl.ListApproved)

	app.Get("/api/me/testimonies", d.auth(), hdl.Mine)
	app.Post("/api/me/testimonies", d.auth(), hdl.Submit)
	app.Delete("/api/me/testimonies/:id", d.auth(), hdl.DeleteMine)

	admin := app.Group("/api/admin/testimonies", d.auth(), d.permission(model.PermModerateTestimonies))
	admin.Get("/", hdl.ListByStatus)
	admin.Put("/:id/review", hdl.Review)
}
