package services

import (
	"context"
	"errors"

	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/config"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/events"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/models"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/wallet"
	"go.uber.org/zap"
)

type UserStore interface {
	GetByWallet(ctx context.Context, walletID string) (*models.User, error)
}

type ReferralStore interface {
	Redeem(ctx context.Context, referrerWallet, referredWallet string, bonus float64) (*models.Referral, *models.User, error)
	HasRedeemed(ctx context.Context, walletID string) (bool, error)
	ReferrerOf(ctx context.Context, walletID string) (string, error)
}

type ReferralService struct {
	referrals ReferralStore
	users     UserStore
	audit     AuditLogger
	publisher events.Publisher
	cfg       *config.Config
	log       *zap.Logger
}

func NewReferralService(
	referrals ReferralStore,
	users UserStore,
	audit AuditLogger,
	publisher events.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) *ReferralService {
	return &ReferralService{
		referrals: referrals,
		users:     users,
		audit:     audit,
		publisher: publisher,
		cfg:       cfg,
		log:       log,
	}
}

type RedemptionResult struct {
	Referral *models.Referral `json:"referral"`
	Referrer *models.User     `json:"referrer"`
	Bonus    float64          `json:"bonus"`
}

// Redeem applies a referral code (another user's wallet ID) once per
// wallet, ever, and pays the referrer the fixed bonus. Concurrent
// duplicates are serialized by the unique constraint on
// referred_wallet, so exactly one attempt wins.
func (s *ReferralService) Redeem(ctx context.Context, walletID, code string) (*RedemptionResult, error) {
	code = wallet.Normalize(code)
	if code == walletID {
		return nil, models.ErrSelfReferral
	}

	// Friendlier pre-check; the constraint inside Redeem backstops races.
	used, err := s.referrals.HasRedeemed(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, models.ErrAlreadyRedeemed
	}

	referrer, err := s.users.GetByWallet(ctx, code)
	if errors.Is(err, models.ErrUserNotFound) {
		return nil, models.ErrInvalidReferralCode
	}
	if err != nil {
		return nil, err
	}

	referral, credited, err := s.referrals.Redeem(ctx, referrer.WalletID, walletID, s.cfg.ReferralBonusTokens)
	if err != nil {
		return nil, err
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorWallet: &walletID,
		ActorType:   "user",
		Action:      "referral_redeemed",
		EntityType:  "referral",
		EntityID:    &referral.ID,
		Meta:        map[string]any{"referrer": referral.ReferrerWallet, "bonus": referral.RewardTokens},
	})
	_ = s.publisher.Publish(ctx, events.StreamMining, events.Event{
		Type: events.EventReferralRedeemed,
		Payload: map[string]any{
			"referrer_wallet": referral.ReferrerWallet,
			"referred_wallet": referral.ReferredWallet,
			"bonus":           referral.RewardTokens,
		},
	})

	s.log.Info("referral redeemed",
		zap.String("referred", walletID),
		zap.String("referrer", referral.ReferrerWallet),
	)

	return &RedemptionResult{
		Referral: referral,
		Referrer: credited,
		Bonus:    referral.RewardTokens,
	}, nil
}

func (s *ReferralService) HasRedeemed(ctx context.Context, walletID string) (bool, error) {
	return s.referrals.HasRedeemed(ctx, walletID)
}

// Status reports whether the wallet has redeemed a code and, if so,
// whose.
func (s *ReferralService) Status(ctx context.Context, walletID string) (bool, string, error) {
	referrer, err := s.referrals.ReferrerOf(ctx, walletID)
	if err != nil {
		return false, "", err
	}
	return referrer != "", referrer, nil
}
