package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// PushClient talks to the push-notification provider's internal API.
// Delivery is fire-and-forget: mining correctness never depends on it.
type PushClient struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

func NewPushClient(baseURL string, log *zap.Logger) *PushClient {
	return &PushClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log,
	}
}

func (c *PushClient) Notify(ctx context.Context, walletID, title, text string) error {
	body, _ := json.Marshal(map[string]any{
		"wallet_id": walletID,
		"title":     title,
		"text":      text,
	})

	url := fmt.Sprintf("%s/internal/notify", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("failed to send push notification", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		c.log.Warn("push notification failed",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(b)),
		)
	}
	return nil
}
