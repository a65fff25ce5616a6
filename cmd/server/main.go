package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eac-registry/internal/adapters/http/middleware"
	"eac-registry/internal/adapters/http/routes"
	"eac-registry/internal/adapters/notify"
	"eac-registry/internal/adapters/payment"
	"eac-registry/internal/adapters/persistence/models"
	"eac-registry/internal/adapters/ratelimit"
	"eac-registry/internal/adapters/storage"
	"eac-registry/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	_ "eac-registry/docs" // Swagger docs
)

// multipart framing on top of the largest accepted file
const bodySlack = 1 << 20

// @title EAC Registry API
// @version 1.0
// @description Estate Agents Council membership and licensing registry API

// @contact.name EAC Registry Support
// @contact.email registry@eac.local

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	policy, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		log.Fatalf("❌ Failed to load policy: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	if err := config.NewSeeder(db, cfg).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed database: %v", err)
	}

	store, err := storage.NewLocalStore(cfg.Storage.Root, cfg.PublicBaseURL, cfg.Storage.SigningSecret, cfg.Storage.URLTTL)
	if err != nil {
		log.Fatalf("❌ Failed to open document storage: %v", err)
	}

	uploads, closeUploads := uploadLimiter(cfg, policy)
	defer closeUploads()

	sender := mailSender(cfg)
	if c, ok := sender.(io.Closer); ok {
		defer c.Close()
	}

	if !cfg.PayNowEnabled() {
		log.Println("⚠️ PayNow credentials not set; fees must be settled against uploaded proof")
	}
	gateway := payment.NewPayNow(payment.PayNowConfig{
		IntegrationID:  cfg.PayNow.IntegrationID,
		IntegrationKey: cfg.PayNow.IntegrationKey,
		InitiateURL:    cfg.PayNow.InitiateURL,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "EAC Registry API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		BodyLimit:    int(policy.LargestUpload()) + bodySlack,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	workers := routes.Setup(app, routes.Deps{
		DB:       db,
		Config:   cfg,
		Policy:   policy,
		Store:    store,
		Uploads:  uploads,
		Sender:   sender,
		Gateway:  gateway,
		Registry: registry,
	})

	workers.Dispatcher.Start()
	defer workers.Dispatcher.Stop()
	if err := workers.Cron.Start(); err != nil {
		log.Fatalf("❌ Failed to start cron service: %v", err)
	}
	defer workers.Cron.Stop()

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// uploadLimiter counts uploads in Redis when configured so every instance
// shares one quota; otherwise counters live in process.
func uploadLimiter(cfg *config.Config, policy *config.Policy) (ratelimit.Limiter, func()) {
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client, err := ratelimit.NewRedisClient(ctx, cfg.RedisURL)
		if err == nil {
			log.Println("✅ Upload quota backed by Redis")
			return ratelimit.NewRedisLimiter(client, policy.Uploads.HourlyQuota, time.Hour), func() { _ = client.Close() }
		}
		log.Printf("⚠️ Redis unavailable, using in-memory upload quota: %v", err)
	}
	return ratelimit.NewMemoryLimiter(policy.Uploads.HourlyQuota), func() {}
}

func mailSender(cfg *config.Config) notify.Sender {
	switch cfg.Email.Provider {
	case "sendgrid":
		if cfg.Email.SendGridAPIKey != "" {
			return notify.NewSendGridSender(cfg.Email.SendGridAPIKey, cfg.Email.FromAddress, cfg.Email.FromName)
		}
		log.Println("⚠️ SENDGRID_API_KEY not set, logging emails instead")
	case "kafka":
		if len(cfg.Email.KafkaBrokers) > 0 {
			return notify.NewKafkaSender(cfg.Email.KafkaBrokers, cfg.Email.KafkaTopic, cfg.Email.FromAddress)
		}
		log.Println("⚠️ KAFKA_BROKERS not set, logging emails instead")
	}
	return notify.NewLogSender()
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
