package handler

import (
	"time"

	"zamar-backend/internal/mail"
	"zamar-backend/internal/middleware"
	"zamar-backend/internal/model"
	"zamar-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type TestimonyHandler struct {
	repo   repository.TestimonyRepository
	songs  repository.SongRepository
	mailer mail.Mailer
	log    *logrus.Logger
}

func NewTestimonyHandler(repo repository.TestimonyRepository, songs repository.SongRepository, mailer mail.Mailer, log *logrus.Logger) *TestimonyHandler {
	return &TestimonyHandler{repo: repo, songs: songs, mailer: mailer, log: log}
}

type testimonyRequest struct {
	Title  string `json:"title" validate:"required,max=150"`
	Body   string `json:"body" validate:"required,max=5000"`
	SongID *uint  `json:"song_id"`
}

// testimonyView is an approved testimony as shown on the public feed. The
// author is reduced to id and name.
type testimonyView struct {
	ID         uint        `json:"ID"`
	Title      string      `json:"title"`
	Body       string      `json:"body"`
	SongID     *uint       `json:"song_id"`
	Song       *model.Song `json:"song,omitempty"`
	ReviewedAt *time.Time  `json:"reviewed_at"`
	User       authorView  `json:"user"`
}

type authorView struct {
	ID   uint   `json:"ID"`
	Name string `json:"name"`
}

func newTestimonyView(t model.Testimony) testimonyView {
	return testimonyView{
		ID:         t.ID,
		Title:      t.Title,
		Body:       t.Body,
		SongID:     t.SongID,
		Song:       t.Song,
		ReviewedAt: t.ReviewedAt,
		User:       authorView{ID: t.User.ID, Name: t.User.Name},
	}
}

type reviewRequest struct {
	Status string `json:"status" validate:"required,oneof=APPROVED REJECTED"`
}

func (h *TestimonyHandler) Submit(c *fiber.Ctx) error {
	var req testimonyRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}
	if req.SongID != nil {
		if _, err := h.songs.GetPublishedByID(*req.SongID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Song not found"})
		}
	}

	t := model.Testimony{
		UserID: middleware.UserID(c),
		SongID: req.SongID,
		Title:  req.Title,
		Body:   req.Body,
		Status: model.TestimonyPending,
	}
	if err := h.repo.Create(&t); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to submit testimony"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Testimony submitted for review", "data": t})
}

func (h *TestimonyHandler) ListApproved(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	list, total, err := h.repo.ListApproved(page, c.QueryInt("limit", 20))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load testimonies"})
	}
	views := make([]testimonyView, len(list))
	for i := range list {
		views[i] = newTestimonyView(list[i])
	}
	return c.JSON(fiber.Map{"data": views, "total": total, "page": page})
}

func (h *TestimonyHandler) Mine(c *fiber.Ctx) error {
	list, err := h.repo.ListByUser(middleware.UserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load testimonies"})
	}
	return c.JSON(fiber.Map{"data": list})
}

// DeleteMine lets an author withdraw a testimony that is still pending.
func (h *TestimonyHandler) DeleteMine(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	t, err := h.repo.GetByID(id)
	if err != nil || t.UserID != middleware.UserID(c) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Testimony not found"})
	}
	if t.Status != model.TestimonyPending {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Only pending testimonies can be deleted"})
	}
	if err := h.repo.Delete(id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete testimony"})
	}
	return c.JSON(fiber.Map{"message": "Testimony deleted"})
}

// Moderation

func (h *TestimonyHandler) ListByStatus(c *fiber.Ctx) error {
	list, err := h.repo.ListByStatus(c.Query("status", model.TestimonyPending))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load testimonies"})
	}
	return c.JSON(fiber.Map{"data": list})
}

func (h *TestimonyHandler) Review(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var req reviewRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}

	// 1. Only pending testimonies can be reviewed
	t, err := h.repo.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Testimony not found"})
	}
	if t.Status != model.TestimonyPending {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Testimony was already reviewed"})
	}

	// 2. Save the decision
	now := time.Now()
	reviewer := middleware.UserID(c)
	t.Status = req.Status
	t.ReviewedByID = &reviewer
	t.ReviewedAt = &now
	if err := h.repo.Update(t); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to review testimony"})
	}

	// 3. Tell the author
	mail.SendAsync(h.mailer, h.log, mail.TestimonyReviewed(t.User.Email, t.User.Name, t.Title, t.Status))

	return c.JSON(fiber.Map{"message": "Testimony " + t.Status, "data": t})
}
