package handler

import (
	"time"

	"zamar-backend/internal/middleware"
	"zamar-backend/internal/model"
	"zamar-backend/internal/repository"
	"zamar-backend/internal/storage"
	"zamar-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AdHandler struct {
	repo     repository.AdRepository
	store    storage.Storage
	checkout *usecase.CheckoutUsecase
	log      *logrus.Logger
}

func NewAdHandler(repo repository.AdRepository, store storage.Storage, checkout *usecase.CheckoutUsecase, log *logrus.Logger) *AdHandler {
	return &AdHandler{repo: repo, store: store, checkout: checkout, log: log}
}

type campaignRequest struct {
	Title     string `form:"title" validate:"required,max=150"`
	TargetURL string `form:"target_url" validate:"required,url"`
	PackageID uint   `form:"package_id" validate:"required"`
}

func (h *AdHandler) withImageURLs(list []model.AdCampaign) {
	for i := range list {
		list[i].ImageURL = storage.MediaPath(list[i].ImageKey)
	}
}

func (h *AdHandler) Packages(c *fiber.Ctx) error {
	pkgs, err := h.repo.ListPackages()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load ad packages"})
	}
	return c.JSON(fiber.Map{"data": pkgs})
}

// Active lists campaigns currently inside their paid window.
func (h *AdHandler) Active(c *fiber.Ctx) error {
	ads, err := h.repo.ListActive(c.Query("placement"), time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load ads"})
	}
	h.withImageURLs(ads)
	return c.JSON(fiber.Map{"data": ads})
}

func (h *AdHandler) Impression(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	counted, err := h.repo.IncrementImpressions(id, time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record impression"})
	}
	if !counted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Ad not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Click counts the click and sends the browser on to the advertiser.
func (h *AdHandler) Click(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	campaign, err := h.repo.GetCampaign(id)
	if err != nil || !campaign.LiveAt(time.Now()) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Ad not found"})
	}
	if err := h.repo.IncrementClicks(id); err != nil {
		h.log.WithError(err).WithField("campaign_id", id).Warn("click not counted")
	}
	return c.Redirect(campaign.TargetURL, fiber.StatusFound)
}

// Advertiser

func (h *AdHandler) CreateCampaign(c *fiber.Ctx) error {
	var req campaignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid form data"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	pkg, err := h.repo.GetPackage(req.PackageID)
	if err != nil || !pkg.IsActive {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ad package not found"})
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ad image is required"})
	}
	key, err := uploadFile(c, h.store, h.log, "ads", file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload image"})
	}

	campaign := model.AdCampaign{
		AdvertiserID: middleware.UserID(c),
		PackageID:    pkg.ID,
		Title:        req.Title,
		ImageKey:     key,
		TargetURL:    req.TargetURL,
		Placement:    pkg.Placement,
		Status:       model.CampaignPendingPayment,
		AmountCents:  pkg.PriceCents,
	}
	if err := h.repo.CreateCampaign(&campaign); err != nil {
		discardUploads(c, h.store, h.log, key)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create campaign"})
	}
	campaign.Package = *pkg
	campaign.ImageURL = storage.MediaPath(key)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Campaign created, awaiting payment", "data": campaign})
}

func (h *AdHandler) MyCampaigns(c *fiber.Ctx) error {
	list, err := h.repo.ListByAdvertiser(middleware.UserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load campaigns"})
	}
	h.withImageURLs(list)
	return c.JSON(fiber.Map{"data": list})
}

func (h *AdHandler) Checkout(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	sess, err := h.checkout.StartCampaignCheckout(c.UserContext(), middleware.UserID(c), id)
	if err != nil {
		return usecaseError(c, err, "Failed to start checkout")
	}
	return c.JSON(fiber.Map{
		"message": "Checkout session created",
		"data":    fiber.Map{"session_id": sess.ID, "url": sess.URL},
	})
}

// Admin

func (h *AdHandler) AdminList(c *fiber.Ctx) error {
	list, err := h.repo.ListAll(c.Query("status"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load campaigns"})
	}
	h.withImageURLs(list)
	return c.JSON(fiber.Map{"data": list})
}

// AdminToggle pauses an active campaign or resumes a paused one. The paid
// window keeps running while paused.
func (h *AdHandler) AdminToggle(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	campaign, err := h.repo.GetCampaign(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Campaign not found"})
	}

	switch campaign.Status {
	case model.CampaignActive:
		campaign.Status = model.CampaignPaused
	case model.CampaignPaused:
		campaign.Status = model.CampaignActive
	default:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Only active or paused campaigns can be toggled"})
	}

	if err := h.repo.UpdateCampaign(campaign); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update campaign"})
	}
	return c.JSON(fiber.Map{"message": "Campaign " + campaign.Status, "data": campaign})
}
