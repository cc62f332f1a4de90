package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/mining"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/models"
)

type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

const sessionColumns = `id, wallet_id, status, multiplier, selected_hour,
	mining_start_time, current_multiplier_start_time, total_earned, claimed_at, created_at, updated_at`

func scanSession(row pgx.Row) (*models.MiningSession, error) {
	var s models.MiningSession
	err := row.Scan(&s.ID, &s.WalletID, &s.Status, &s.Multiplier, &s.SelectedHour,
		&s.MiningStartTime, &s.CurrentMultiplierStartTime, &s.TotalEarned, &s.ClaimedAt,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new mining session. The partial unique index on
// (wallet_id) WHERE status = 'mining' serializes concurrent starts:
// the loser gets ErrActiveSession instead of a second live session.
func (r *SessionRepo) Create(ctx context.Context, s *models.MiningSession) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO mining_sessions (wallet_id, status, multiplier, selected_hour,
		                             mining_start_time, current_multiplier_start_time)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id, total_earned, claimed_at, created_at, updated_at
	`, s.WalletID, s.Status, s.Multiplier, s.SelectedHour, s.MiningStartTime).
		Scan(&s.ID, &s.TotalEarned, &s.ClaimedAt, &s.CreatedAt, &s.UpdatedAt)
	if isUniqueViolation(err) {
		return models.ErrActiveSession
	}
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE users SET mining_status = $2, multiplier = $3, last_active_at = now()
		WHERE wallet_id = $1
	`, s.WalletID, s.Status, s.Multiplier)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *SessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.MiningSession, error) {
	s, err := scanSession(r.pool.QueryRow(ctx, `
		SELECT `+sessionColumns+` FROM mining_sessions WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrSessionNotFound
	}
	return s, err
}

func (r *SessionRepo) LatestByWallet(ctx context.Context, walletID string) (*models.MiningSession, error) {
	s, err := scanSession(r.pool.QueryRow(ctx, `
		SELECT `+sessionColumns+` FROM mining_sessions
		WHERE wallet_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, walletID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrSessionNotFound
	}
	return s, err
}

// Upgrade bumps the multiplier by exactly one step under a row lock,
// so concurrent upgrades cannot jump past the cap.
func (r *SessionRepo) Upgrade(ctx context.Context, id uuid.UUID) (*models.MiningSession, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var status string
	var multiplier int
	err = tx.QueryRow(ctx, `
		SELECT status, multiplier FROM mining_sessions WHERE id = $1 FOR UPDATE
	`, id).Scan(&status, &multiplier)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if status != models.SessionStatusMining {
		return nil, models.ErrInvalidState
	}
	if multiplier >= mining.MaxMultiplier {
		return nil, models.ErrMultiplierLimit
	}

	s, err := scanSession(tx.QueryRow(ctx, `
		UPDATE mining_sessions
		SET multiplier = multiplier + 1,
		    current_multiplier_start_time = now(),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+sessionColumns,
		id))
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE users SET multiplier = $2, last_active_at = now() WHERE wallet_id = $1
	`, s.WalletID, s.Multiplier)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Claim transitions mining→claimed and credits the payout (and the
// referrer commission, when any) in one transaction. The guarded
// UPDATE lets exactly one concurrent claim win; later calls get
// ErrAlreadyClaimed, so a session can never pay out twice.
func (r *SessionRepo) Claim(ctx context.Context, id uuid.UUID, earned, payout, commission float64, referrerWallet string) (*models.MiningSession, *models.User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	s, err := scanSession(tx.QueryRow(ctx, `
		UPDATE mining_sessions
		SET status = $2, total_earned = $3, claimed_at = now(), updated_at = now()
		WHERE id = $1 AND status = $4
		RETURNING `+sessionColumns,
		id, models.SessionStatusClaimed, earned, models.SessionStatusMining))
	if errors.Is(err, pgx.ErrNoRows) {
		var status string
		err = tx.QueryRow(ctx, `SELECT status FROM mining_sessions WHERE id = $1`, id).Scan(&status)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, nil, models.ErrSessionNotFound
		case err != nil:
			return nil, nil, err
		case status == models.SessionStatusClaimed:
			return nil, nil, models.ErrAlreadyClaimed
		default:
			return nil, nil, models.ErrInvalidState
		}
	}
	if err != nil {
		return nil, nil, err
	}

	user, err := creditBalance(ctx, tx, s.WalletID, payout)
	if err != nil {
		return nil, nil, err
	}

	if referrerWallet != "" && commission > 0 {
		if _, err := creditBalance(ctx, tx, referrerWallet, commission); err != nil {
			return nil, nil, err
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE users SET mining_status = $2 WHERE wallet_id = $1
	`, s.WalletID, models.SessionStatusIdle)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return s, user, nil
}

// ListCompleted returns still-mining sessions whose planned window has
// fully elapsed. Used by the worker sweep; correctness never depends
// on it since accrual is recomputed on demand.
func (r *SessionRepo) ListCompleted(ctx context.Context) ([]models.MiningSession, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+sessionColumns+` FROM mining_sessions
		WHERE status = $1
		  AND COALESCE(mining_start_time, created_at) + (selected_hour || ' hours')::interval <= now()
	`, models.SessionStatusMining)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.MiningSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}
