package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lawhelp/lawhelp/internal/domain"
	"github.com/lawhelp/lawhelp/internal/notify"
	"github.com/lawhelp/lawhelp/internal/observability/metrics"
	"github.com/lawhelp/lawhelp/internal/store"
	"github.com/lawhelp/lawhelp/pkg/cryptox"
	"github.com/lawhelp/lawhelp/pkg/idx"
)

const (
	codeDigits = 6
	codeTTL    = 15 * time.Minute
)

var (
	ErrCodeNotFound = errors.New("no outstanding verification code")
	ErrCodeExpired  = errors.New("verification code has expired")
	ErrCodeMismatch = errors.New("verification code does not match")
)

// VerificationService issues and consumes one-time codes. Issuing a new
// code supersedes any outstanding code of the same type; a code can be
// consumed at most once even under concurrent submissions.
type VerificationService struct {
	Store    store.Store
	Notifier notify.Notifier
	Metrics  *metrics.Recorder

	// Now is injectable for tests. Defaults to time.Now.
	Now func() time.Time
}

func (s *VerificationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Issue generates a fresh 6-digit code for the user, replaces any
// outstanding code of the same type, and hands it to the notifier for
// delivery. The code is never returned to the caller.
func (s *VerificationService) Issue(ctx context.Context, userID, email string, typ domain.CodeType) error {
	if !typ.Valid() {
		return fmt.Errorf("unknown code type %q", typ)
	}

	code, err := cryptox.GenerateDigits(codeDigits)
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	now := s.now()
	record := domain.VerificationCode{
		ID:        idx.New().String(),
		UserID:    userID,
		Type:      typ,
		Code:      code,
		ExpiresAt: now.Add(codeTTL),
		CreatedAt: now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.VerificationCodes().SupersedeCodes(ctx, userID, typ); err != nil {
			return fmt.Errorf("failed to supersede codes: %w", err)
		}
		return tx.VerificationCodes().CreateCode(ctx, record)
	})
	if err != nil {
		return err
	}

	if s.Metrics != nil {
		s.Metrics.VerificationCodeIssued.WithLabelValues(string(typ)).Inc()
	}

	return s.Notifier.Notify(ctx, userID, email, typ, code)
}

// Consume validates and burns the user's outstanding code of the given
// type. The mismatch check happens before the expiry check so a wrong
// guess never learns whether a real code is still live.
func (s *VerificationService) Consume(ctx context.Context, userID string, typ domain.CodeType, code string) error {
	return s.consume(ctx, s.Store, userID, typ, code)
}

// ConsumeIn is Consume bound to the caller's transaction, so the burn
// commits or rolls back together with the caller's follow-up writes.
func (s *VerificationService) ConsumeIn(ctx context.Context, tx store.Tx, userID string, typ domain.CodeType, code string) error {
	return s.consume(ctx, tx, userID, typ, code)
}

func (s *VerificationService) consume(ctx context.Context, st store.Store, userID string, typ domain.CodeType, code string) error {
	record, err := st.VerificationCodes().GetActiveCode(ctx, userID, typ)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCodeNotFound
		}
		return err
	}

	if record.Code != code {
		return ErrCodeMismatch
	}

	now := s.now()
	if now.After(record.ExpiresAt) {
		return ErrCodeExpired
	}

	ok, err := st.VerificationCodes().MarkCodeConsumed(ctx, record.ID, now)
	if err != nil {
		return err
	}
	if !ok {
		// lost the race to a concurrent consumer
		return ErrCodeNotFound
	}
	return nil
}
