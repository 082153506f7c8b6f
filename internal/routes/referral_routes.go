package routes

import (
	"zamar-backend/internal/handler"
	"zamar-backend/internal/model"
	"zamar-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
)

func SetupReferralRoutes(app *fiber.App, d Dependencies) {
	hdl := handler.NewReferralHandler(repository.NewUserRepository(d.DB), repository.NewEarningRepository(d.DB), d.Config.Referral.ShareBaseURL)

	api := app.Group("/api/referrals", d.auth())
	api.Get("/me", hdl.Me)
	api.Get("/earnings", hdl.Earnings)
	api.Get("/referred", hdl.Referred)

	admin := app.Group("/api/admin/earnings", d.auth(), d.permission(model.PermManagePayouts))
	admin.Get("/", hdl.AdminList)
	admin.Put("/:id/paid", hdl.AdminMarkPaid)
}
