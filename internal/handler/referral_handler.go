package handler

import (
	"time"

	"zamar-backend/internal/middleware"
	"zamar-backend/internal/model"
	"zamar-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type ReferralHandler struct {
	users    repository.UserRepository
	earnings repository.EarningRepository
	shareURL string
}

func NewReferralHandler(users repository.UserRepository, earnings repository.EarningRepository, shareURL string) *ReferralHandler {
	return &ReferralHandler{users: users, earnings: earnings, shareURL: shareURL}
}

func (h *ReferralHandler) Me(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	user, err := h.users.FindByID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	referred, err := h.users.CountReferred(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to count referrals"})
	}
	totals, err := h.earnings.TotalsByEarner(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load earnings"})
	}

	return c.JSON(fiber.Map{"data": fiber.Map{
		"referral_code":  user.ReferralCode,
		"share_url":      h.shareURL + "?ref=" + user.ReferralCode,
		"referred_count": referred,
		"pending_cents":  totals.PendingCents,
		"paid_cents":     totals.PaidCents,
	}})
}

func (h *ReferralHandler) Earnings(c *fiber.Ctx) error {
	list, err := h.earnings.ListByEarner(middleware.UserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load earnings"})
	}
	return c.JSON(fiber.Map{"data": list})
}

func (h *ReferralHandler) Referred(c *fiber.Ctx) error {
	users, err := h.users.ListReferred(middleware.UserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load referrals"})
	}

	// Only names and join dates; referred users' emails stay private
	out := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		out = append(out, fiber.Map{"name": u.Name, "joined_at": u.CreatedAt})
	}
	return c.JSON(fiber.Map{"data": out})
}

// Admin

func (h *ReferralHandler) AdminList(c *fiber.Ctx) error {
	list, err := h.earnings.ListByStatus(c.Query("status", model.EarningPending))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load earnings"})
	}
	return c.JSON(fiber.Map{"data": list})
}

func (h *ReferralHandler) AdminMarkPaid(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	if _, err := h.earnings.GetByID(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Earning not found"})
	}

	changed, err := h.earnings.MarkPaid(id, time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to mark earning paid"})
	}
	if !changed {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Earning is already paid"})
	}
	return c.JSON(fiber.Map{"message": "Earning marked as paid"})
}
