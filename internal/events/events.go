package events

import "context"

// Stream names
const StreamMining = "events:mining"

// Event types
const (
	EventSessionStarted     = "session_started"
	EventMultiplierUpgraded = "multiplier_upgraded"
	EventSessionCompleted   = "session_completed"
	EventSessionClaimed     = "session_claimed"
	EventReferralRedeemed   = "referral_redeemed"
	EventAdRewardGranted    = "ad_reward_granted"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
