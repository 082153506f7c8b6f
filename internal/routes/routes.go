package routes

import (
	"zamar-backend/config"
	"zamar-backend/internal/cache"
	"zamar-backend/internal/mail"
	"zamar-backend/internal/middleware"
	"zamar-backend/internal/payment"
	"zamar-backend/internal/repository"
	"zamar-backend/internal/storage"
	"zamar-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Dependencies are the shared services every route group is built from.
type Dependencies struct {
	DB      *gorm.DB
	Config  *config.Config
	Storage storage.Storage
	Gateway payment.Gateway
	Mailer  mail.Mailer
	Cache   *cache.Router
	Log     *logrus.Logger
}

func (d Dependencies) auth() fiber.Handler {
	return middleware.Auth(d.Config.Auth.JWTSecret)
}

func (d Dependencies) permission(name string) fiber.Handler {
	return middleware.Permission(repository.NewRoleRepository(d.DB), name)
}

// cached wraps public catalogue reads with the network-first cache.
func (d Dependencies) cached() fiber.Handler {
	return cache.Middleware(d.Cache)
}

func (d Dependencies) checkout() *usecase.CheckoutUsecase {
	cfg := d.Config
	return usecase.NewCheckoutUsecase(d.DB, d.Gateway, usecase.CommissionPolicy{
		DirectBPS:      cfg.Referral.DirectBPS,
		IndirectBPS:    cfg.Referral.IndirectBPS,
		ThresholdCents: cfg.Referral.ThresholdCents,
	}, cfg.Stripe.Currency, d.Mailer, d.Log)
}

// Setup registers every route group on app.
func Setup(app *fiber.App, d Dependencies) {
	checkout := d.checkout()
	limiter := middleware.NewRateLimiter(d.Config.RateLimit.RPS, d.Config.RateLimit.Burst, d.Log)

	SetupSystemRoutes(app, d)
	SetupAuthRoutes(app, d, limiter)
	SetupSongRoutes(app, d)
	SetupMediaRoutes(app, d)
	SetupTestimonyRoutes(app, d)
	SetupOrderRoutes(app, d, checkout, limiter)
	SetupAdRoutes(app, d, checkout, limiter)
	SetupReferralRoutes(app, d)
	SetupWebhookRoutes(app, checkout)
	SetupRoleRoutes(app, d)
	SetupReportRoutes(app, d)
	// Catch-all last
	SetupWebRoutes(app, d)
}
