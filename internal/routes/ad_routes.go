package routes

import (
	"zamar-backend/internal/handler"
	"zamar-backend/internal/middleware"
	"zamar-backend/internal/model"
	"zamar-backend/internal/repository"
	"zamar-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

func SetupAdRoutes(app *fiber.App, d Dependencies, checkout *usecase.CheckoutUsecase, limiter *middleware.RateLimiter) {
	hdl := handler.NewAdHandler(repository.NewAdRepository(d.DB), d.Storage, checkout, d.Log)

	// Public
	app.Get("/api/ads", hdl.Active)
	app.Get("/api/ads/packages", d.cached(), hdl.Packages)
	app.Post("/api/ads/:id/impression", hdl.Impression)
	app.Get("/api/ads/:id/click", hdl.Click)

	// Advertiser
	campaigns := app.Group("/api/ads/campaigns", d.auth())
	campaigns.Get("/", hdl.MyCampaigns)
	campaigns.Post("/", hdl.CreateCampaign)
	campaigns.Post("/:id/checkout", limiter.Handler(), hdl.Checkout)

	admin := app.Group("/api/admin/ads", d.auth(), d.permission(model.PermManageAds))
	admin.Get("/", hdl.AdminList)
	admin.Put("/:id/toggle", hdl.AdminToggle)
}
