package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/lawhelp/lawhelp/internal/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, email, name, password_hash, lawyer, email_verified,
	two_factor_enabled, two_factor_secret, pending_secret, pending_secret_expires_at,
	created_at, updated_at`

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u             domain.User
		secret        sql.NullString
		pending       sql.NullString
		pendingExpiry sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Lawyer, &u.EmailVerified,
		&u.TwoFactorEnabled, &secret, &pending, &pendingExpiry,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.TwoFactorSecret = mapNullStringPtr(secret)
	u.PendingSecret = mapNullStringPtr(pending)
	u.PendingSecretExpiresAt = mapNullTimePtr(pendingExpiry)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, lawyer, email_verified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.Lawyer, u.EmailVerified,
		u.CreatedAt, u.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *usersRepo) SetEmailVerified(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET email_verified = 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, userID)
	return err
}

func (r *usersRepo) SetPendingTwoFactorSecret(ctx context.Context, userID, secret string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET pending_secret = ?, pending_secret_expires_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, secret, expiresAt, userID)
	return err
}

func (r *usersRepo) ClearPendingTwoFactorSecret(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET pending_secret = NULL, pending_secret_expires_at = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, userID)
	return err
}

func (r *usersRepo) EnableTwoFactor(ctx context.Context, userID, secret string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET two_factor_enabled = 1, two_factor_secret = ?,
			pending_secret = NULL, pending_secret_expires_at = NULL,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, secret, userID)
	return err
}

func (r *usersRepo) DisableTwoFactor(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET two_factor_enabled = 0, two_factor_secret = NULL,
			pending_secret = NULL, pending_secret_expires_at = NULL,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, userID)
	return err
}

func (r *usersRepo) DeleteExpiredPendingSecrets(ctx context.Context, before time.Time) error {
	// Abandoned enrollments leave pre-generated backup codes behind; drop
	// those together with the pending secret.
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM backup_codes WHERE user_id IN (
			SELECT id FROM users
			WHERE two_factor_enabled = 0
			  AND pending_secret_expires_at IS NOT NULL
			  AND pending_secret_expires_at < ?
		)`, before)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		UPDATE users SET pending_secret = NULL, pending_secret_expires_at = NULL
		WHERE pending_secret_expires_at IS NOT NULL AND pending_secret_expires_at < ?`, before)
	return err
}
