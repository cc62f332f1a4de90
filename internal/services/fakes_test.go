package services

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/mining"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/models"
)

// fakeWorld is an in-memory stand-in for the postgres repositories,
// enforcing the same constraints: one mining session per wallet,
// one redemption per referred wallet, guarded claim transition.
type fakeWorld struct {
	mu        sync.Mutex
	users     map[string]*models.User
	sessions  map[uuid.UUID]*models.MiningSession
	order     []uuid.UUID // session insertion order
	referrals map[string]*models.Referral // keyed by referred wallet
	rewards   []*models.AdReward
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		users:     make(map[string]*models.User),
		sessions:  make(map[uuid.UUID]*models.MiningSession),
		referrals: make(map[string]*models.Referral),
	}
}

func (w *fakeWorld) addUser(walletID string) *models.User {
	w.mu.Lock()
	defer w.mu.Unlock()
	u := &models.User{
		ID:           uuid.New(),
		WalletID:     walletID,
		Multiplier:   1,
		MiningStatus: models.SessionStatusIdle,
		CreatedAt:    time.Now(),
	}
	w.users[walletID] = u
	return u
}

func (w *fakeWorld) credit(walletID string, amount float64) (*models.User, error) {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, models.ErrInvalidAmount
	}
	u, ok := w.users[walletID]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	u.TotalToken += amount
	u.TotalTokensEarned += amount
	cp := *u
	return &cp, nil
}

// --- SessionStore ---

func (w *fakeWorld) Create(ctx context.Context, s *models.MiningSession) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, existing := range w.sessions {
		if existing.WalletID == s.WalletID && existing.Status == models.SessionStatusMining {
			return models.ErrActiveSession
		}
	}
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	cp := *s
	w.sessions[s.ID] = &cp
	w.order = append(w.order, s.ID)
	if u, ok := w.users[s.WalletID]; ok {
		u.MiningStatus = s.Status
		u.Multiplier = s.Multiplier
	}
	return nil
}

func (w *fakeWorld) GetByID(ctx context.Context, id uuid.UUID) (*models.MiningSession, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.sessions[id]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (w *fakeWorld) LatestByWallet(ctx context.Context, walletID string) (*models.MiningSession, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := len(w.order) - 1; i >= 0; i-- {
		if s := w.sessions[w.order[i]]; s.WalletID == walletID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, models.ErrSessionNotFound
}

func (w *fakeWorld) Upgrade(ctx context.Context, id uuid.UUID) (*models.MiningSession, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.sessions[id]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	if s.Status != models.SessionStatusMining {
		return nil, models.ErrInvalidState
	}
	if s.Multiplier >= mining.MaxMultiplier {
		return nil, models.ErrMultiplierLimit
	}
	s.Multiplier++
	now := time.Now()
	s.CurrentMultiplierStartTime = &now
	s.UpdatedAt = now
	if u, ok := w.users[s.WalletID]; ok {
		u.Multiplier = s.Multiplier
	}
	cp := *s
	return &cp, nil
}

func (w *fakeWorld) Claim(ctx context.Context, id uuid.UUID, earned, payout, commission float64, referrerWallet string) (*models.MiningSession, *models.User, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.sessions[id]
	if !ok {
		return nil, nil, models.ErrSessionNotFound
	}
	switch s.Status {
	case models.SessionStatusMining:
	case models.SessionStatusClaimed:
		return nil, nil, models.ErrAlreadyClaimed
	default:
		return nil, nil, models.ErrInvalidState
	}

	s.Status = models.SessionStatusClaimed
	s.TotalEarned = earned
	now := time.Now()
	s.ClaimedAt = &now
	s.UpdatedAt = now

	user, err := w.credit(s.WalletID, payout)
	if err != nil {
		return nil, nil, err
	}
	if referrerWallet != "" && commission > 0 {
		if _, err := w.credit(referrerWallet, commission); err != nil {
			return nil, nil, err
		}
	}
	if u, ok := w.users[s.WalletID]; ok {
		u.MiningStatus = models.SessionStatusIdle
	}
	cp := *s
	return &cp, user, nil
}

// --- ReferralStore / ReferrerLookup ---

func (w *fakeWorld) Redeem(ctx context.Context, referrerWallet, referredWallet string, bonus float64) (*models.Referral, *models.User, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.referrals[referredWallet]; exists {
		return nil, nil, models.ErrAlreadyRedeemed
	}
	ref := &models.Referral{
		ID:             uuid.New(),
		ReferrerWallet: referrerWallet,
		ReferredWallet: referredWallet,
		RewardTokens:   bonus,
		ClaimedAt:      time.Now(),
	}
	referrer, err := w.credit(referrerWallet, bonus)
	if err != nil {
		return nil, nil, err
	}
	w.referrals[referredWallet] = ref
	cp := *ref
	return &cp, referrer, nil
}

func (w *fakeWorld) ReferrerOf(ctx context.Context, walletID string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if ref, ok := w.referrals[walletID]; ok {
		return ref.ReferrerWallet, nil
	}
	return "", nil
}

func (w *fakeWorld) HasRedeemed(ctx context.Context, walletID string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.referrals[walletID]
	return ok, nil
}

// --- UserStore ---

func (w *fakeWorld) GetByWallet(ctx context.Context, walletID string) (*models.User, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	u, ok := w.users[walletID]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// --- RewardStore ---

func (w *fakeWorld) Grant(ctx context.Context, walletID string, amount float64) (*models.AdReward, *models.User, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	reward := &models.AdReward{
		ID:           uuid.New(),
		WalletID:     walletID,
		RewardAmount: amount,
		WatchedAt:    time.Now(),
	}
	user, err := w.credit(walletID, amount)
	if err != nil {
		return nil, nil, err
	}
	w.rewards = append(w.rewards, reward)
	cp := *reward
	return &cp, user, nil
}

// --- AuditLogger ---

type noopAudit struct{}

func (noopAudit) Log(ctx context.Context, entry models.AuditLog) error { return nil }
