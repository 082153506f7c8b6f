package handler

import (
	"time"

	"zamar-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	payments repository.PaymentRepository
	earnings repository.EarningRepository
}

func NewReportHandler(payments repository.PaymentRepository, earnings repository.EarningRepository) *ReportHandler {
	return &ReportHandler{payments: payments, earnings: earnings}
}

type kindTotal struct {
	Count       int   `json:"count"`
	AmountCents int64 `json:"amount_cents"`
}

// GetMonthlyRecap summarises one calendar month (UTC) of revenue and the
// commissions it produced. Query: ?month=3&year=2026.
func (h *ReportHandler) GetMonthlyRecap(c *fiber.Ctx) error {
	month := c.QueryInt("month")
	year := c.QueryInt("year")
	if month < 1 || month > 12 || year < 2000 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "month and year are required"})
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	// 1. Payments in the month
	payments, err := h.payments.ListBetween(from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load payments"})
	}

	// 2. Totals per kind
	byKind := map[string]*kindTotal{}
	var revenue int64
	for _, p := range payments {
		row, ok := byKind[p.Kind]
		if !ok {
			row = &kindTotal{}
			byKind[p.Kind] = row
		}
		row.Count++
		row.AmountCents += p.AmountCents
		revenue += p.AmountCents
	}

	// 3. Commissions credited in the same window
	commissions, err := h.earnings.SumCreatedBetween(from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load commissions"})
	}

	return c.JSON(fiber.Map{
		"message": "Monthly recap",
		"data": fiber.Map{
			"month":             month,
			"year":              year,
			"payments":          len(payments),
			"revenue_cents":     revenue,
			"by_kind":           byKind,
			"commission_cents":  commissions,
			"net_revenue_cents": revenue - commissions,
		},
	})
}
