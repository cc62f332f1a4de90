package models

import (
	"time"

	"github.com/google/uuid"
)

// AdReward is an append-only log entry; the credit itself goes through
// the balance ledger in the same transaction.
type AdReward struct {
	ID           uuid.UUID `json:"id"`
	WalletID     string    `json:"wallet_id"`
	RewardAmount float64   `json:"reward_amount"`
	WatchedAt    time.Time `json:"watched_at"`
}
