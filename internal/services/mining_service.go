package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/config"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/events"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/mining"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/models"
	"go.uber.org/zap"
)

// SessionStore is the persistence surface the lifecycle manager needs.
// Implemented by repositories.SessionRepo; faked in tests.
type SessionStore interface {
	Create(ctx context.Context, s *models.MiningSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.MiningSession, error)
	LatestByWallet(ctx context.Context, walletID string) (*models.MiningSession, error)
	Upgrade(ctx context.Context, id uuid.UUID) (*models.MiningSession, error)
	Claim(ctx context.Context, id uuid.UUID, earned, payout, commission float64, referrerWallet string) (*models.MiningSession, *models.User, error)
}

// ReferrerLookup answers "who referred this wallet" at claim time.
type ReferrerLookup interface {
	ReferrerOf(ctx context.Context, walletID string) (string, error)
}

type AuditLogger interface {
	Log(ctx context.Context, entry models.AuditLog) error
}

type MiningService struct {
	sessions  SessionStore
	referrals ReferrerLookup
	audit     AuditLogger
	publisher events.Publisher
	cfg       *config.Config
	log       *zap.Logger
	now       func() time.Time
}

func NewMiningService(
	sessions SessionStore,
	referrals ReferrerLookup,
	audit AuditLogger,
	publisher events.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) *MiningService {
	return &MiningService{
		sessions:  sessions,
		referrals: referrals,
		audit:     audit,
		publisher: publisher,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

// Start opens a new session at multiplier 1. The store's partial
// unique index keeps this race-safe: at most one mining session per
// wallet, even for concurrent starts.
func (s *MiningService) Start(ctx context.Context, walletID string, selectedHour int) (*models.MiningSession, error) {
	if selectedHour < 1 {
		return nil, models.ErrInvalidDuration
	}

	now := s.now()
	session := &models.MiningSession{
		WalletID:        walletID,
		Status:          models.SessionStatusMining,
		Multiplier:      mining.MinMultiplier,
		SelectedHour:    selectedHour,
		MiningStartTime: &now,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorWallet: &walletID,
		ActorType:   "user",
		Action:      "mining_started",
		EntityType:  "mining_session",
		EntityID:    &session.ID,
		Meta:        map[string]any{"selected_hour": selectedHour},
	})
	_ = s.publisher.Publish(ctx, events.StreamMining, events.Event{
		Type: events.EventSessionStarted,
		Payload: map[string]any{
			"session_id":    session.ID.String(),
			"wallet_id":     walletID,
			"selected_hour": selectedHour,
		},
	})

	s.log.Info("mining started",
		zap.String("wallet_id", walletID),
		zap.Int("selected_hour", selectedHour),
	)
	return session, nil
}

// Status returns the latest session for the wallet plus the derived
// accrual view. Read-only: polling it every second changes nothing.
// No session ever started → (nil, nil, nil).
func (s *MiningService) Status(ctx context.Context, walletID string) (*models.MiningSession, *mining.Computed, error) {
	session, err := s.sessions.LatestByWallet(ctx, walletID)
	if errors.Is(err, models.ErrSessionNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	computed := mining.ComputeSession(session, s.now())
	return session, &computed, nil
}

// Upgrade bumps the multiplier by one step. The rewarded-ad gate lives
// in the client; the core trusts the caller's assertion that the ad
// was watched.
func (s *MiningService) Upgrade(ctx context.Context, walletID string, sessionID uuid.UUID) (*models.MiningSession, error) {
	current, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if current.WalletID != walletID {
		// Не раскрываем чужие сессии.
		return nil, models.ErrSessionNotFound
	}

	session, err := s.sessions.Upgrade(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorWallet: &walletID,
		ActorType:   "user",
		Action:      "multiplier_upgraded",
		EntityType:  "mining_session",
		EntityID:    &session.ID,
		Meta:        map[string]any{"multiplier": session.Multiplier},
	})
	_ = s.publisher.Publish(ctx, events.StreamMining, events.Event{
		Type: events.EventMultiplierUpgraded,
		Payload: map[string]any{
			"session_id": session.ID.String(),
			"wallet_id":  walletID,
			"multiplier": session.Multiplier,
		},
	})

	return session, nil
}

type ClaimResult struct {
	Session     *models.MiningSession `json:"session"`
	User        *models.User          `json:"user"`
	Earned      float64               `json:"earned"`       // credited to the miner
	TotalEarned float64               `json:"total_earned"` // before commission
	Commission  float64               `json:"commission"`
	Referrer    string                `json:"referrer,omitempty"`
}

// Claim settles a session: earnings per the configured payout policy,
// 10% commission to the referrer when one exists, the rest to the
// miner, and the mining→claimed transition — all in one store
// transaction. Claiming twice fails with ErrAlreadyClaimed.
func (s *MiningService) Claim(ctx context.Context, walletID string, sessionID uuid.UUID) (*ClaimResult, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.WalletID != walletID {
		return nil, models.ErrSessionNotFound
	}
	switch session.Status {
	case models.SessionStatusMining:
	case models.SessionStatusClaimed:
		return nil, models.ErrAlreadyClaimed
	default:
		return nil, models.ErrInvalidState
	}

	var earned float64
	if s.cfg.ClaimPayoutPolicy == config.PayoutElapsed {
		earned = mining.ComputeSession(session, s.now()).CurrentEarned
	} else {
		earned = mining.PlannedEarnings(session.SelectedHour, session.Multiplier)
	}

	referrer, err := s.referrals.ReferrerOf(ctx, session.WalletID)
	if err != nil {
		return nil, err
	}

	var commission float64
	if referrer != "" {
		commission = earned * float64(s.cfg.ReferralCommissionBPS) / 10000
	}
	payout := earned - commission

	claimed, user, err := s.sessions.Claim(ctx, sessionID, earned, payout, commission, referrer)
	if err != nil {
		return nil, err
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorWallet: &walletID,
		ActorType:   "user",
		Action:      "session_claimed",
		EntityType:  "mining_session",
		EntityID:    &claimed.ID,
		Meta: map[string]any{
			"earned":     payout,
			"commission": commission,
			"policy":     s.cfg.ClaimPayoutPolicy,
		},
	})
	_ = s.publisher.Publish(ctx, events.StreamMining, events.Event{
		Type: events.EventSessionClaimed,
		Payload: map[string]any{
			"session_id": claimed.ID.String(),
			"wallet_id":  walletID,
			"earned":     payout,
			"commission": commission,
		},
	})

	s.log.Info("session claimed",
		zap.String("wallet_id", walletID),
		zap.Float64("earned", payout),
		zap.Float64("commission", commission),
	)

	return &ClaimResult{
		Session:     claimed,
		User:        user,
		Earned:      payout,
		TotalEarned: earned,
		Commission:  commission,
		Referrer:    referrer,
	}, nil
}
