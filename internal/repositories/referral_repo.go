package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/models"
)

type ReferralRepo struct {
	pool *pgxpool.Pool
}

func NewReferralRepo(pool *pgxpool.Pool) *ReferralRepo {
	return &ReferralRepo{pool: pool}
}

// Redeem records the referral and pays the referrer bonus atomically.
// The unique index on referred_wallet serializes concurrent attempts:
// exactly one insert wins, the rest get ErrAlreadyRedeemed.
func (r *ReferralRepo) Redeem(ctx context.Context, referrerWallet, referredWallet string, bonus float64) (*models.Referral, *models.User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ref := &models.Referral{
		ReferrerWallet: referrerWallet,
		ReferredWallet: referredWallet,
		RewardTokens:   bonus,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO referrals (referrer_wallet, referred_wallet, reward_tokens)
		VALUES ($1, $2, $3)
		RETURNING id, claimed_at
	`, referrerWallet, referredWallet, bonus).Scan(&ref.ID, &ref.ClaimedAt)
	if isUniqueViolation(err) {
		return nil, nil, models.ErrAlreadyRedeemed
	}
	if err != nil {
		return nil, nil, err
	}

	referrer, err := creditBalance(ctx, tx, referrerWallet, bonus)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return ref, referrer, nil
}

// ReferrerOf returns the wallet that referred the given one, or ""
// when the user never redeemed a code.
func (r *ReferralRepo) ReferrerOf(ctx context.Context, walletID string) (string, error) {
	var referrer string
	err := r.pool.QueryRow(ctx, `
		SELECT referrer_wallet FROM referrals WHERE referred_wallet = $1
	`, walletID).Scan(&referrer)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return referrer, err
}

func (r *ReferralRepo) HasRedeemed(ctx context.Context, walletID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM referrals WHERE referred_wallet = $1)
	`, walletID).Scan(&exists)
	return exists, err
}
