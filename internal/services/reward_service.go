package services

import (
	"context"
	"math/rand/v2"

	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/config"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/events"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/models"
	"go.uber.org/zap"
)

type RewardStore interface {
	Grant(ctx context.Context, walletID string, amount float64) (*models.AdReward, *models.User, error)
}

type RewardService struct {
	rewards   RewardStore
	audit     AuditLogger
	publisher events.Publisher
	cfg       *config.Config
	log       *zap.Logger
	// randInt returns a value in [0, n); swapped out in tests.
	randInt func(n int) int
}

func NewRewardService(
	rewards RewardStore,
	audit AuditLogger,
	publisher events.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) *RewardService {
	return &RewardService{
		rewards:   rewards,
		audit:     audit,
		publisher: publisher,
		cfg:       cfg,
		log:       log,
		randInt:   rand.IntN,
	}
}

// WatchAd credits a random reward for a completed rewarded-ad view.
// The SDK callback is client-side; the server only checks the claimed
// wallet matches the authenticated one.
func (s *RewardService) WatchAd(ctx context.Context, authWallet, claimedWallet string) (*models.AdReward, *models.User, error) {
	if claimedWallet != authWallet {
		return nil, nil, models.ErrWalletMismatch
	}

	amount := float64(s.cfg.AdRewardMin + s.randInt(s.cfg.AdRewardMax-s.cfg.AdRewardMin+1))

	reward, user, err := s.rewards.Grant(ctx, authWallet, amount)
	if err != nil {
		return nil, nil, err
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorWallet: &authWallet,
		ActorType:   "user",
		Action:      "ad_reward_granted",
		EntityType:  "ad_reward",
		EntityID:    &reward.ID,
		Meta:        map[string]any{"amount": amount},
	})
	_ = s.publisher.Publish(ctx, events.StreamMining, events.Event{
		Type: events.EventAdRewardGranted,
		Payload: map[string]any{
			"wallet_id": authWallet,
			"amount":    amount,
		},
	})

	return reward, user, nil
}
