package routes

import (
	"time"

	"zamar-backend/internal/handler"
	"zamar-backend/internal/middleware"
	"zamar-backend/internal/repository"
	"zamar-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, d Dependencies, limiter *middleware.RateLimiter) {
	users := repository.NewUserRepository(d.DB)
	auth := usecase.NewAuthUsecase(users, repository.NewRoleRepository(d.DB), d.Config.Auth.JWTSecret, d.tokenTTL())
	hdl := handler.NewAuthHandler(auth, users)

	api := app.Group("/api/auth", limiter.Handler())
	api.Post("/register", hdl.Register)
	api.Post("/login", hdl.Login)

	// /api/me is shared with the song and testimony routes
	app.Get("/api/me", d.auth(), hdl.Me)
	app.Put("/api/me", d.auth(), hdl.UpdateMe)
	app.Put("/api/me/password", d.auth(), hdl.ChangePassword)
}

func (d Dependencies) tokenTTL() time.Duration {
	if d.Config.Auth.TokenTTL <= 0 {
		return 24 * time.Hour
	}
	return d.Config.Auth.TokenTTL
}
