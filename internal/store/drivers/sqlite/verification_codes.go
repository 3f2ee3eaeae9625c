package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/lawhelp/lawhelp/internal/domain"
)

type verificationCodesRepo struct {
	db dbtx
}

func (r *verificationCodesRepo) CreateCode(ctx context.Context, c domain.VerificationCode) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO verification_codes (id, user_id, type, code, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, string(c.Type), c.Code, c.ExpiresAt, c.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *verificationCodesRepo) GetActiveCode(ctx context.Context, userID string, typ domain.CodeType) (domain.VerificationCode, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, type, code, expires_at, consumed_at, created_at
		FROM verification_codes
		WHERE user_id = ? AND type = ? AND consumed_at IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, userID, string(typ))

	var (
		c        domain.VerificationCode
		codeType string
		consumed sql.NullTime
	)
	err := row.Scan(&c.ID, &c.UserID, &codeType, &c.Code, &c.ExpiresAt, &consumed, &c.CreatedAt)
	if err != nil {
		return domain.VerificationCode{}, mapNotFound(err)
	}
	c.Type = domain.CodeType(codeType)
	c.ConsumedAt = mapNullTimePtr(consumed)
	return c, nil
}

// MarkCodeConsumed is the single-use gate: the conditional UPDATE means two
// racing consumers cannot both observe rows affected.
func (r *verificationCodesRepo) MarkCodeConsumed(ctx context.Context, codeID string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE verification_codes SET consumed_at = ?
		WHERE id = ? AND consumed_at IS NULL`, at, codeID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *verificationCodesRepo) SupersedeCodes(ctx context.Context, userID string, typ domain.CodeType) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM verification_codes
		WHERE user_id = ? AND type = ? AND consumed_at IS NULL`, userID, string(typ))
	return err
}

func (r *verificationCodesRepo) DeleteExpiredCodes(ctx context.Context, before time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM verification_codes WHERE expires_at < ?`, before)
	return err
}
