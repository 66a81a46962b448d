// Package main is the entry point for the application.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loyalty/internal/config"
	"loyalty/internal/handlers"
	"loyalty/internal/metrics"
	"loyalty/internal/middleware"
	"loyalty/internal/repositories"
	"loyalty/internal/repositories/cache"
	"loyalty/internal/routes"
	"loyalty/internal/services/coupon"
	"loyalty/internal/services/payment"
	"loyalty/internal/services/redemption"
	"loyalty/internal/services/stats"
	"loyalty/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

// main initializes and starts the HTTP server.
// It performs the following setup:
// - Loads configuration
// - Initializes database connection
// - Sets up dependency injection
// - Configures routes
// - Starts the HTTP server
func main() {
	config.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := repositories.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repositories.Close(db)

	if err := repositories.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	reader, err := repositories.NewReader(db)
	if err != nil {
		log.Fatalf("Failed to open stats reader: %v", err)
	}

	go logPoolStats(ctx, db)

	// Redis is optional; without it every read goes to the store.
	var (
		appCache cache.Cache = cache.NoopCache{}
		pinger   handlers.Pinger
	)
	if cfg.Redis.Enabled {
		client, err := cache.Connect(ctx, cfg.Redis)
		if err != nil {
			log.Printf("⚠️ Redis unavailable, caching disabled: %v", err)
		} else {
			svc := cache.NewCacheService(client, cfg.Cache.CouponTTL)
			defer func() {
				if err := svc.Close(); err != nil {
					log.Printf("⚠️ Failed to close Redis connection: %v", err)
				}
			}()
			appCache, pinger = svc, svc
		}
	}

	collector := metrics.NewPrometheusCollector()
	store := repositories.NewStore(db)

	walletService := wallet.NewService(store, wallet.Config{DefaultCurrency: cfg.Wallet.DefaultCurrency}, collector)
	couponService := coupon.NewService(store.Coupons(), appCache, coupon.Config{CacheTTL: cfg.Cache.CouponTTL}, collector)
	redemptionService := redemption.NewService(store, redemption.Config{}, collector)
	paymentService := payment.NewService(store, walletService, redemptionService)
	statsService := stats.NewService(repositories.NewStatsReader(reader), appCache, stats.Config{CacheTTL: cfg.Cache.StatsTTL}, collector)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: cfg.App.IsProduction(),
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
	})

	// CORS middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, " + handlers.IdempotencyHeader,
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	writeLimiter := limiter.New(limiter.Config{
		Max:        30,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	})
	app.Use("/api/v1/redemptions", writeLimiter)
	app.Use("/api/v1/payments", writeLimiter)

	routes.SetupRoutes(app, routes.Services{
		Wallet:     walletService,
		Coupon:     couponService,
		Redemption: redemptionService,
		Payment:    paymentService,
		Stats:      statsService,
		Health:     handlers.NewHealthHandler(db, pinger),
	}, middleware.NewAuthMiddleware(cfg.JWTSecret))

	go func() {
		<-ctx.Done()
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(15 * time.Second); err != nil {
			log.Printf("⚠️ Server shutdown error: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}

// logPoolStats periodically reports connection pool usage.
func logPoolStats(ctx context.Context, db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("⚠️ Failed to get database instance: %v", err)
		return
	}

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poolStats := sqlDB.Stats()
			log.Printf("DB Stats: Open=%d, Idle=%d, InUse=%d, WaitCount=%d, WaitDuration=%s",
				poolStats.OpenConnections, poolStats.Idle, poolStats.InUse, poolStats.WaitCount, poolStats.WaitDuration)
		}
	}
}
