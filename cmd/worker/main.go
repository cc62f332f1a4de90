package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/config"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/db"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/events"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/mining"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/repositories"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/services"
	"go.uber.org/zap"
)

// Worker sweeps for sessions whose planned window has elapsed and
// notifies their owners. Sessions stay in "mining" until the owner
// claims; the sweep only observes and notifies.

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	sessionRepo := repositories.NewSessionRepo(pool)
	publisher := events.NewRedisPublisher(rdb, log)
	pushClient := services.NewPushClient(cfg.PushInternalURL, log)

	log.Info("worker started", zap.Duration("sweep_interval", cfg.SweepInterval))

	sweepTicker := time.NewTicker(cfg.SweepInterval)
	defer sweepTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			runCompletedSweep(ctx, sessionRepo, rdb, publisher, pushClient, log)
		case <-sigCh:
			log.Info("shutting down worker")
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}

func runCompletedSweep(
	ctx context.Context,
	sessionRepo *repositories.SessionRepo,
	rdb *redis.Client,
	publisher events.Publisher,
	pushClient *services.PushClient,
	log *zap.Logger,
) {
	sessions, err := sessionRepo.ListCompleted(ctx)
	if err != nil {
		log.Error("failed to list completed sessions", zap.Error(err))
		return
	}

	for _, session := range sessions {
		// SETNX: один пуш на сессию, даже при нескольких воркерах.
		key := fmt.Sprintf("mining:notified:%s", session.ID)
		ok, err := rdb.SetNX(ctx, key, 1, 48*time.Hour).Result()
		if err != nil {
			log.Error("failed to mark session notified", zap.Error(err))
			continue
		}
		if !ok {
			continue
		}

		earned := mining.PlannedEarnings(session.SelectedHour, session.Multiplier)

		log.Info("mining session completed",
			zap.String("session_id", session.ID.String()),
			zap.String("wallet_id", session.WalletID),
			zap.Float64("earned", earned),
		)

		_ = publisher.Publish(ctx, events.StreamMining, events.Event{
			Type: events.EventSessionCompleted,
			Payload: map[string]any{
				"session_id": session.ID.String(),
				"wallet_id":  session.WalletID,
				"earned":     earned,
			},
		})

		_ = pushClient.Notify(ctx, session.WalletID,
			"Mining complete",
			fmt.Sprintf("Your %dh mining session is done. Claim your %.2f CMT!", session.SelectedHour, earned),
		)
	}
}
