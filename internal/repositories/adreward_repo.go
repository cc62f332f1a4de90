package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/models"
)

type AdRewardRepo struct {
	pool *pgxpool.Pool
}

func NewAdRewardRepo(pool *pgxpool.Pool) *AdRewardRepo {
	return &AdRewardRepo{pool: pool}
}

// Grant appends the reward log entry and credits the balance in one
// transaction, so the log and the ledger can never disagree.
func (r *AdRewardRepo) Grant(ctx context.Context, walletID string, amount float64) (*models.AdReward, *models.User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	reward := &models.AdReward{
		WalletID:     walletID,
		RewardAmount: amount,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO ad_rewards (wallet_id, reward_amount)
		VALUES ($1, $2)
		RETURNING id, watched_at
	`, walletID, amount).Scan(&reward.ID, &reward.WatchedAt)
	if err != nil {
		return nil, nil, err
	}

	user, err := creditBalance(ctx, tx, walletID, amount)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return reward, user, nil
}
