package routes

import (
	"zamar-backend/internal/handler"
	"zamar-backend/internal/model"
	"zamar-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
)

func SetupReportRoutes(app *fiber.App, d Dependencies) {
	hdl := handler.NewReportHandler(repository.NewPaymentRepository(d.DB), repository.NewEarningRepository(d.DB))
	app.Get("/api/admin/reports/monthly", d.auth(), d.permission(model.PermViewDashboard), hdl.GetMonthlyRecap)
}
