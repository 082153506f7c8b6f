package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zamar-backend/config"
	"zamar-backend/internal/cache"
	"zamar-backend/internal/logger"
	"zamar-backend/internal/mail"
	"zamar-backend/internal/metrics"
	"zamar-backend/internal/payment"
	"zamar-backend/internal/routes"
	"zamar-backend/internal/scheduler"
	"zamar-backend/internal/storage"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

func main() {
	// 1. Config and logger
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logger.New(cfg.Log)

	// 2. Database
	db, err := config.ConnectDB(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	if err := config.Migrate(db); err != nil {
		log.WithError(err).Fatal("migration failed")
	}
	log.WithField("driver", cfg.Database.Driver).Info("database ready")

	// 3. Services
	store, err := storage.New(cfg.Storage)
	if err != nil {
		log.WithError(err).Fatal("storage init failed")
	}
	cacheStore, err := newCacheStore(cfg.Cache)
	if err != nil {
		log.WithError(err).Fatal("cache init failed")
	}
	router := cache.NewRouter(cacheStore, cfg.Cache.Version, log)

	gateway := payment.NewStripeGateway(payment.StripeConfig{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		SuccessURL:    cfg.Stripe.SuccessURL,
		CancelURL:     cfg.Stripe.CancelURL,
	})

	// 4. HTTP
	app := fiber.New(fiber.Config{
		AppName:   "zamar-backend",
		BodyLimit: 100 * 1024 * 1024, // audio uploads
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.Server.AllowedOrigins()}))
	app.Use(fiberlogger.New())
	app.Use(metrics.Middleware())

	routes.Setup(app, routes.Dependencies{
		DB:      db,
		Config:  cfg,
		Storage: store,
		Gateway: gateway,
		Mailer:  mail.New(cfg.Mail, log),
		Cache:   router,
		Log:     log,
	})

	// 5. Background jobs
	var jobs *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		jobs = scheduler.New(db, cfg.Scheduler.OrderPaymentTTL, log)
		if err := jobs.Start(); err != nil {
			log.WithError(err).Fatal("scheduler start failed")
		}
	}

	go func() {
		log.WithField("port", cfg.Server.Port).Info("server listening")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	// 6. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	timeout := time.Duration(config.GetEnvAsInt("SHUTDOWN_TIMEOUT_SEC", 10)) * time.Second
	if err := app.ShutdownWithTimeout(timeout); err != nil {
		log.WithError(err).Error("http shutdown")
	}
	if jobs != nil {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		select {
		case <-jobs.Stop().Done():
		case <-ctx.Done():
			log.Warn("scheduler jobs still running at exit")
		}
		cancel()
	}
	router.Wait()
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func newCacheStore(cfg config.CacheConfig) (cache.Store, error) {
	if cfg.Driver == config.CacheRedis {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, err
		}
		return cache.NewRedisStore(client, cfg.TTL), nil
	}
	return cache.NewMemoryStore(cfg.Size, cfg.TTL)
}
