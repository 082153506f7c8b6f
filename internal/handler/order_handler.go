package handler

import (
	"zamar-backend/internal/mail"
	"zamar-backend/internal/middleware"
	"zamar-backend/internal/model"
	"zamar-backend/internal/repository"
	"zamar-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type OrderHandler struct {
	orders   *usecase.OrderUsecase
	repo     repository.OrderRepository
	checkout *usecase.CheckoutUsecase
	mailer   mail.Mailer
	log      *logrus.Logger
}

func NewOrderHandler(orders *usecase.OrderUsecase, repo repository.OrderRepository, checkout *usecase.CheckoutUsecase, mailer mail.Mailer, log *logrus.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, repo: repo, checkout: checkout, mailer: mailer, log: log}
}

type orderRequest struct {
	Recipient string `json:"recipient" validate:"required,max=100"`
	Occasion  string `json:"occasion" validate:"required,max=100"`
	Style     string `json:"style" validate:"max=100"`
	Story     string `json:"story" validate:"required,max=5000"`
	Tier      string `json:"tier" validate:"required"`
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=IN_PRODUCTION DELIVERED"`
	SongID *uint  `json:"song_id"`
}

func (h *OrderHandler) Tiers(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": model.SongTiers})
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req orderRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}

	order, err := h.orders.Create(middleware.UserID(c), usecase.OrderInput{
		Recipient: req.Recipient,
		Occasion:  req.Occasion,
		Style:     req.Style,
		Story:     req.Story,
		Tier:      req.Tier,
	})
	if err != nil {
		return usecaseError(c, err, "Failed to create order")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Order created, awaiting payment", "data": order})
}

func (h *OrderHandler) Mine(c *fiber.Ctx) error {
	orders, err := h.repo.ListByUser(middleware.UserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load orders"})
	}
	return c.JSON(fiber.Map{"data": orders})
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	order, err := h.orders.GetOwned(middleware.UserID(c), id)
	if err != nil {
		return usecaseError(c, err, "Failed to load order")
	}
	return c.JSON(fiber.Map{"data": order})
}

func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	order, err := h.orders.Cancel(middleware.UserID(c), id)
	if err != nil {
		return usecaseError(c, err, "Failed to cancel order")
	}
	return c.JSON(fiber.Map{"message": "Order cancelled", "data": order})
}

func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	sess, err := h.checkout.StartOrderCheckout(c.UserContext(), middleware.UserID(c), id)
	if err != nil {
		return usecaseError(c, err, "Failed to start checkout")
	}
	return c.JSON(fiber.Map{
		"message": "Checkout session created",
		"data":    fiber.Map{"session_id": sess.ID, "url": sess.URL},
	})
}

// Admin

func (h *OrderHandler) AdminList(c *fiber.Ctx) error {
	orders, err := h.repo.ListByStatus(c.Query("status"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load orders"})
	}
	return c.JSON(fiber.Map{"data": orders})
}

func (h *OrderHandler) AdminUpdateStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var req orderStatusRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}

	order, err := h.orders.Advance(id, req.Status, req.SongID)
	if err != nil {
		return usecaseError(c, err, "Failed to update order")
	}

	if order.Status == model.OrderDelivered {
		mail.SendAsync(h.mailer, h.log, mail.OrderDelivered(order.User.Email, order.User.Name, order.ID))
	}
	return c.JSON(fiber.Map{"message": "Order moved to " + order.Status, "data": order})
}
