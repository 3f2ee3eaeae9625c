package sqlite

import (
	"context"
	"time"

	"github.com/lawhelp/lawhelp/internal/domain"
)

type loginChallengesRepo struct {
	db dbtx
}

func (r *loginChallengesRepo) CreateChallenge(ctx context.Context, c domain.LoginChallenge) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO login_challenges (id, user_id, attempts, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Attempts, c.CreatedAt, c.ExpiresAt)
	return mapConstraint(err)
}

func (r *loginChallengesRepo) GetChallenge(ctx context.Context, id string) (domain.LoginChallenge, error) {
	var c domain.LoginChallenge
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, attempts, created_at, expires_at
		FROM login_challenges WHERE id = ?`, id).
		Scan(&c.ID, &c.UserID, &c.Attempts, &c.CreatedAt, &c.ExpiresAt)
	if err != nil {
		return domain.LoginChallenge{}, mapNotFound(err)
	}
	return c, nil
}

func (r *loginChallengesRepo) IncrementChallengeAttempts(ctx context.Context, id string) (domain.LoginChallenge, error) {
	_, err := r.db.ExecContext(ctx, `
		UPDATE login_challenges SET attempts = attempts + 1 WHERE id = ?`, id)
	if err != nil {
		return domain.LoginChallenge{}, err
	}
	return r.GetChallenge(ctx, id)
}

func (r *loginChallengesRepo) DeleteChallenge(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM login_challenges WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *loginChallengesRepo) DeleteExpiredChallenges(ctx context.Context, before time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM login_challenges WHERE expires_at < ?`, before)
	return err
}
