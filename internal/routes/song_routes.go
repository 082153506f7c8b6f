package routes

import (
	"zamar-backend/internal/handler"
	"zamar-backend/internal/model"
	"zamar-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
)

func SetupSongRoutes(app *fiber.App, d Dependencies) {
	repo := repository.NewSongRepository(d.DB)
	hdl := handler.NewSongHandler(repo, d.Storage, d.Log)

	// Public catalogue
	public := app.Group("/api/songs", d.cached())
	public.Get("/", hdl.List)
	public.Get("/genres", hdl.Genres)
	public.Get("/:id", hdl.Get)
	app.Get("/api/songs/:id/stream", hdl.Stream)

	// Listener
	app.Post("/api/songs/:id/play", d.auth(), hdl.Play)
	app.Get("/api/me/favorites", d.auth(), hdl.Favorites)
	app.Post("/api/me/favorites/:id", d.auth(), hdl.AddFavorite)
	app.Delete("/api/me/favorites/:id", d.auth(), hdl.RemoveFavorite)
	app.Get("/api/me/history", d.auth(), hdl.History)

	admin := app.Group("/api/admin/songs", d.auth(), d.permission(model.PermManageSongs))
	admin.Get("/", hdl.AdminList)
	admin.Post("/", hdl.Create)
	admin.Put("/:id", hdl.Update)
	admin.Put("/:id/publish", hdl.TogglePublish)
	admin.Delete("/:id", hdl.Delete)
}
