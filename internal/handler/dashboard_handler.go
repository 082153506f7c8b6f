package handler

import (
	"time"

	"zamar-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	repo repository.DashboardRepository
	db   *gorm.DB
}

func NewDashboardHandler(repo repository.DashboardRepository, db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{repo: repo, db: db}
}

func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.repo.GetDashboardStats(time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load dashboard"})
	}

	return c.JSON(fiber.Map{
		"message": "Dashboard statistics",
		"data":    stats,
	})
}

// Healthz pings the database.
func (h *DashboardHandler) Healthz(c *fiber.Ctx) error {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.UserContext())
	}
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
