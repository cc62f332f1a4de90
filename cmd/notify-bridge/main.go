package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/config"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/db"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/events"
	"go.uber.org/zap"
)

// Notify Bridge — optional small service that subscribes to Redis
// events and forwards them to the push-notification provider.

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	subscriber := events.NewRedisSubscriber(rdb, log)

	log.Info("notify-bridge started")

	_ = subscriber.Subscribe(ctx, events.StreamMining, func(event events.Event) {
		log.Info("forwarding event", zap.String("type", event.Type))
		forwardToPush(cfg.PushInternalURL, event, log)
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down notify-bridge")
	cancel()
}

func forwardToPush(baseURL string, event events.Event, log *zap.Logger) {
	walletID, ok := event.Payload["wallet_id"].(string)
	if !ok || walletID == "" {
		return
	}

	text, _ := event.Payload["text"].(string)
	if text == "" {
		text = fmt.Sprintf("Event: %s", event.Type)
	}

	body, _ := json.Marshal(map[string]any{
		"wallet_id": walletID,
		"text":      text,
	})

	url := fmt.Sprintf("%s/internal/notify", strings.TrimRight(baseURL, "/"))
	resp, err := http.Post(url, "application/json", strings.NewReader(string(body)))
	if err != nil {
		log.Warn("failed to forward notification", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn("push provider returned non-200", zap.Int("status", resp.StatusCode))
	}
}
