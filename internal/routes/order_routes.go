package routes

import (
	"zamar-backend/internal/handler"
	"zamar-backend/internal/middleware"
	"zamar-backend/internal/model"
	"zamar-backend/internal/repository"
	"zamar-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

func SetupOrderRoutes(app *fiber.App, d Dependencies, checkout *usecase.CheckoutUsecase, limiter *middleware.RateLimiter) {
	repo := repository.NewOrderRepository(d.DB)
	orders := usecase.NewOrderUsecase(repo, repository.NewSongRepository(d.DB), d.Config.Stripe.Currency)
	hdl := handler.NewOrderHandler(orders, repo, checkout, d.Mailer, d.Log)

	app.Get("/api/orders/tiers", hdl.Tiers)

	api := app.Group("/api/orders", d.auth())
	api.Get("/", hdl.Mine)
	api.Post("/", hdl.Create)
	api.Get("/:id", hdl.Get)
	api.Put("/:id/cancel", hdl.Cancel)
	api.Post("/:id/checkout", limiter.Handler(), hdl.Checkout)

	admin := app.Group("/api/admin/orders", d.auth(), d.permission(model.PermManageOrders))
	admin.Get("/", hdl.AdminList)
	admin.Put("/:id/status", hdl.AdminUpdateStatus)
}
