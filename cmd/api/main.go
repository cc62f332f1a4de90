package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/config"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/db"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/events"
	apphttp "github.com/swalehazarekarindss/Crypto-Miner-App/internal/http"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/http/handlers"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/repositories"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/services"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	sessionRepo := repositories.NewSessionRepo(pool)
	referralRepo := repositories.NewReferralRepo(pool)
	rewardRepo := repositories.NewAdRewardRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Services
	miningService := services.NewMiningService(sessionRepo, referralRepo, auditRepo, publisher, cfg, log)
	referralService := services.NewReferralService(referralRepo, userRepo, auditRepo, publisher, cfg, log)
	rewardService := services.NewRewardService(rewardRepo, auditRepo, publisher, cfg, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, auditRepo, cfg, log)
	userHandler := handlers.NewUserHandler(userRepo, cfg, log)
	miningHandler := handlers.NewMiningHandler(miningService, log)
	referralHandler := handlers.NewReferralHandler(referralService, log)
	rewardHandler := handlers.NewRewardHandler(rewardService, log)
	wsHub := handlers.NewWSHub(cfg, subscriber, log)

	// Start WS hub
	wsHub.Start(ctx)

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, authHandler, userHandler, miningHandler, referralHandler, rewardHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
