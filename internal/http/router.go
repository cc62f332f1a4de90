package http

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/config"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/http/handlers"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/middleware"
	"go.uber.org/zap"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	miningHandler *handlers.MiningHandler,
	referralHandler *handlers.ReferralHandler,
	rewardHandler *handlers.RewardHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// Auth (public)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)

	// Rate-limited public endpoints
	api.Use(middleware.RateLimitMiddleware(rdb, cfg.RateLimitPerMin, time.Minute))

	// Leaderboard (public, no auth required)
	api.Get("/leaderboard", userHandler.Leaderboard)

	// Protected endpoints
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))

	// User
	protected.Get("/me", userHandler.GetMe)

	// Mining
	protected.Post("/mining/start", miningHandler.Start)
	protected.Get("/mining/status", miningHandler.Status)
	protected.Post("/mining/:sessionId/upgrade", miningHandler.Upgrade)
	protected.Post("/mining/:sessionId/claim", miningHandler.Claim)

	// Referrals
	protected.Post("/referral/submit", referralHandler.Submit)
	protected.Get("/referral/status", referralHandler.Status)

	// Rewarded ads
	protected.Post("/rewards/watch-ad", rewardHandler.WatchAd)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
