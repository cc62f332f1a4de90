package models

import (
	"time"

	"github.com/google/uuid"
)

// Referral is written once when a user redeems someone's wallet ID as a
// code. referred_wallet is unique: one redemption per user, ever.
type Referral struct {
	ID             uuid.UUID `json:"id"`
	ReferrerWallet string    `json:"referrer_wallet"`
	ReferredWallet string    `json:"referred_wallet"`
	RewardTokens   float64   `json:"reward_tokens"`
	ClaimedAt      time.Time `json:"claimed_at"`
}
