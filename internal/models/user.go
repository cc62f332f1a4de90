package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                uuid.UUID `json:"id"`
	WalletID          string    `json:"wallet_id"`
	TotalToken        float64   `json:"total_token"`
	TotalTokensEarned float64   `json:"total_tokens_earned"`
	// Снимок последней сессии, чтобы /me не ходил в mining_sessions.
	Multiplier   int       `json:"multiplier"`
	MiningStatus string    `json:"mining_status"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

type LeaderboardEntry struct {
	WalletID   string  `json:"wallet_id"`
	TotalToken float64 `json:"total_token"`
}
