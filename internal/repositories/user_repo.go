package repositories

import (
	"context"
	"errors"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/models"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so ledger
// credits can run standalone or inside the caller's transaction.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

const userColumns = `id, wallet_id, total_token, total_tokens_earned, multiplier, mining_status, created_at, last_active_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.WalletID, &u.TotalToken, &u.TotalTokensEarned,
		&u.Multiplier, &u.MiningStatus, &u.CreatedAt, &u.LastActiveAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// creditBalance is the single choke point for every token increase:
// claim payouts, referral bonuses, commissions and ad rewards all go
// through here, inside whatever transaction the caller is running.
func creditBalance(ctx context.Context, q querier, walletID string, amount float64) (*models.User, error) {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, models.ErrInvalidAmount
	}

	u, err := scanUser(q.QueryRow(ctx, `
		UPDATE users
		SET total_token = total_token + $2,
		    total_tokens_earned = total_tokens_earned + $2,
		    last_active_at = now()
		WHERE wallet_id = $1
		RETURNING `+userColumns,
		walletID, amount))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	return u, err
}

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, walletID string) (*models.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `
		INSERT INTO users (wallet_id)
		VALUES ($1)
		RETURNING `+userColumns,
		walletID))
	if isUniqueViolation(err) {
		return nil, models.ErrWalletExists
	}
	return u, err
}

func (r *UserRepo) GetByWallet(ctx context.Context, walletID string) (*models.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE wallet_id = $1
	`, walletID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	return u, err
}

func (r *UserRepo) UpdateLastActive(ctx context.Context, walletID string) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_active_at = now() WHERE wallet_id = $1`, walletID)
	return err
}

// Credit applies a standalone balance credit outside any transaction.
func (r *UserRepo) Credit(ctx context.Context, walletID string, amount float64) (*models.User, error) {
	return creditBalance(ctx, r.pool, walletID, amount)
}

func (r *UserRepo) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT wallet_id, total_token FROM users
		ORDER BY total_token DESC, wallet_id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.WalletID, &e.TotalToken); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
