package models

import (
	"time"

	"github.com/google/uuid"
)

// Mining session statuses
const (
	SessionStatusIdle         = "idle"
	SessionStatusMining       = "mining"
	SessionStatusReadyToClaim = "ready_to_claim" // reserved, no code path sets it yet
	SessionStatusClaimed      = "claimed"
)

// Valid state transitions: from -> []to.
// A session is born in "mining" (startMining creates it already running);
// "idle" exists for user snapshots and legacy records.
var ValidSessionTransitions = map[string][]string{
	SessionStatusIdle:         {SessionStatusMining},
	SessionStatusMining:       {SessionStatusClaimed},
	SessionStatusReadyToClaim: {SessionStatusClaimed},
	SessionStatusClaimed:      {},
}

func IsValidTransition(from, to string) bool {
	allowed, ok := ValidSessionTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

type MiningSession struct {
	ID         uuid.UUID `json:"id"`
	WalletID   string    `json:"wallet_id"`
	Status     string    `json:"status"`
	Multiplier int       `json:"multiplier"` // 1..6, only ever increases
	// SelectedHour фиксируется при старте и больше не меняется.
	SelectedHour               int        `json:"selected_hour"`
	MiningStartTime            *time.Time `json:"mining_start_time,omitempty"`
	CurrentMultiplierStartTime *time.Time `json:"current_multiplier_start_time,omitempty"`
	TotalEarned                float64    `json:"total_earned"`
	ClaimedAt                  *time.Time `json:"claimed_at,omitempty"`
	CreatedAt                  time.Time  `json:"created_at"`
	UpdatedAt                  time.Time  `json:"updated_at"`
}

// StartedAt returns the accrual anchor: mining_start_time when present,
// otherwise created_at (old records were saved without it).
func (s *MiningSession) StartedAt() time.Time {
	if s.MiningStartTime != nil && !s.MiningStartTime.IsZero() {
		return *s.MiningStartTime
	}
	return s.CreatedAt
}
