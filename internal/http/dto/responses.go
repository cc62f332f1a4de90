package dto

import (
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/mining"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/models"
)

type AuthResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

// MiningStatusResponse: session is null when the wallet never mined.
type MiningStatusResponse struct {
	Session *models.MiningSession `json:"session"`
	Accrual *mining.Computed      `json:"accrual"`
}

type ReferralStatusResponse struct {
	Redeemed bool   `json:"redeemed"`
	Referrer string `json:"referrer,omitempty"`
}

type LeaderboardResponse struct {
	Entries []models.LeaderboardEntry `json:"entries"`
}
