package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lawhelp/lawhelp/internal/domain"
	"github.com/lawhelp/lawhelp/internal/store"
	"github.com/lawhelp/lawhelp/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	s, err := NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedUser(t *testing.T, s *Store, email string) domain.User {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         "Test User",
		PasswordHash: "$argon2id$fake",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func TestUsers_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "alice@example.com")

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, got.Email)
	require.False(t, got.EmailVerified)
	require.False(t, got.TwoFactorEnabled)
	require.Nil(t, got.TwoFactorSecret)

	got, err = s.Users().GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	// email is collated case-insensitively
	got, err = s.Users().GetUserByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
}

func TestUsers_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)

	seedUser(t, s, "dup@example.com")

	now := time.Now().UTC()
	err := s.Users().CreateUser(context.Background(), domain.User{
		ID:           idx.New().String(),
		Email:        "DUP@example.com",
		Name:         "Other",
		PasswordHash: "$argon2id$fake",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUsers_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Users().GetUserByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsers_EmailVerified(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "verify@example.com")
	require.NoError(t, s.Users().SetEmailVerified(ctx, u.ID))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.EmailVerified)
}

func TestUsers_TwoFactorLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "mfa@example.com")
	expiry := time.Now().Add(10 * time.Minute).UTC().Truncate(time.Second)

	require.NoError(t, s.Users().SetPendingTwoFactorSecret(ctx, u.ID, "SECRET1", expiry))
	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PendingSecret)
	require.Equal(t, "SECRET1", *got.PendingSecret)
	require.False(t, got.TwoFactorEnabled)

	require.NoError(t, s.Users().EnableTwoFactor(ctx, u.ID, "SECRET1"))
	got, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.TwoFactorEnabled)
	require.NotNil(t, got.TwoFactorSecret)
	require.Equal(t, "SECRET1", *got.TwoFactorSecret)
	require.Nil(t, got.PendingSecret)
	require.Nil(t, got.PendingSecretExpiresAt)

	require.NoError(t, s.Users().DisableTwoFactor(ctx, u.ID))
	got, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, got.TwoFactorEnabled)
	require.Nil(t, got.TwoFactorSecret)
}

func TestUsers_ExpiredPendingSecretsCleared(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "expired@example.com")
	past := time.Now().Add(-time.Minute).UTC()
	require.NoError(t, s.Users().SetPendingTwoFactorSecret(ctx, u.ID, "OLD", past))
	require.NoError(t, s.BackupCodes().CreateBackupCode(ctx, u.ID, "stale-hash"))

	require.NoError(t, s.Users().DeleteExpiredPendingSecrets(ctx, time.Now().UTC()))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Nil(t, got.PendingSecret)

	// the enrollment's pre-generated backup codes go with it
	n, err := s.BackupCodes().CountBackupCodes(ctx, u.ID)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestVerificationCodes_ConsumeOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "codes@example.com")
	now := time.Now().UTC().Truncate(time.Second)

	code := domain.VerificationCode{
		ID:        idx.New().String(),
		UserID:    u.ID,
		Type:      domain.CodeEmailVerification,
		Code:      "123456",
		ExpiresAt: now.Add(15 * time.Minute),
		CreatedAt: now,
	}
	require.NoError(t, s.VerificationCodes().CreateCode(ctx, code))

	got, err := s.VerificationCodes().GetActiveCode(ctx, u.ID, domain.CodeEmailVerification)
	require.NoError(t, err)
	require.Equal(t, "123456", got.Code)

	ok, err := s.VerificationCodes().MarkCodeConsumed(ctx, code.ID, now)
	require.NoError(t, err)
	require.True(t, ok)

	// second consume loses
	ok, err = s.VerificationCodes().MarkCodeConsumed(ctx, code.ID, now)
	require.NoError(t, err)
	require.False(t, ok)

	// consumed codes are no longer active
	_, err = s.VerificationCodes().GetActiveCode(ctx, u.ID, domain.CodeEmailVerification)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestVerificationCodes_Supersede(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "supersede@example.com")
	now := time.Now().UTC().Truncate(time.Second)

	first := domain.VerificationCode{
		ID:        idx.New().String(),
		UserID:    u.ID,
		Type:      domain.CodeEmailVerification,
		Code:      "111111",
		ExpiresAt: now.Add(15 * time.Minute),
		CreatedAt: now,
	}
	require.NoError(t, s.VerificationCodes().CreateCode(ctx, first))

	require.NoError(t, s.VerificationCodes().SupersedeCodes(ctx, u.ID, domain.CodeEmailVerification))

	second := first
	second.ID = idx.New().String()
	second.Code = "222222"
	second.CreatedAt = now.Add(time.Second)
	require.NoError(t, s.VerificationCodes().CreateCode(ctx, second))

	got, err := s.VerificationCodes().GetActiveCode(ctx, u.ID, domain.CodeEmailVerification)
	require.NoError(t, err)
	require.Equal(t, "222222", got.Code)

	// old code is gone entirely, not just shadowed
	ok, err := s.VerificationCodes().MarkCodeConsumed(ctx, first.ID, now)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerificationCodes_TypesIndependent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "types@example.com")
	now := time.Now().UTC().Truncate(time.Second)

	for i, typ := range []domain.CodeType{domain.CodeEmailVerification, domain.CodePasswordReset} {
		require.NoError(t, s.VerificationCodes().CreateCode(ctx, domain.VerificationCode{
			ID:        idx.New().String(),
			UserID:    u.ID,
			Type:      typ,
			Code:      "00000" + string(rune('0'+i)),
			ExpiresAt: now.Add(15 * time.Minute),
			CreatedAt: now,
		}))
	}

	require.NoError(t, s.VerificationCodes().SupersedeCodes(ctx, u.ID, domain.CodePasswordReset))

	_, err := s.VerificationCodes().GetActiveCode(ctx, u.ID, domain.CodeEmailVerification)
	require.NoError(t, err)
	_, err = s.VerificationCodes().GetActiveCode(ctx, u.ID, domain.CodePasswordReset)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestBackupCodes_SingleUse(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "backup@example.com")

	require.NoError(t, s.BackupCodes().CreateBackupCode(ctx, u.ID, "hash-1"))
	require.NoError(t, s.BackupCodes().CreateBackupCode(ctx, u.ID, "hash-2"))

	count, err := s.BackupCodes().CountBackupCodes(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	ok, err := s.BackupCodes().ConsumeBackupCode(ctx, u.ID, "hash-1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.BackupCodes().ConsumeBackupCode(ctx, u.ID, "hash-1")
	require.NoError(t, err)
	require.False(t, ok)

	count, err = s.BackupCodes().CountBackupCodes(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.NoError(t, s.BackupCodes().DeleteAllBackupCodes(ctx, u.ID))
	count, err = s.BackupCodes().CountBackupCodes(ctx, u.ID)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestLoginChallenges_Lifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "challenge@example.com")
	now := time.Now().UTC().Truncate(time.Second)

	c := domain.LoginChallenge{
		ID:        idx.New().String(),
		UserID:    u.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(5 * time.Minute),
	}
	require.NoError(t, s.LoginChallenges().CreateChallenge(ctx, c))

	got, err := s.LoginChallenges().GetChallenge(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.UserID)
	require.Zero(t, got.Attempts)

	got, err = s.LoginChallenges().IncrementChallengeAttempts(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.Attempts)

	deleted, err := s.LoginChallenges().DeleteChallenge(ctx, c.ID)
	require.NoError(t, err)
	require.True(t, deleted)
	_, err = s.LoginChallenges().GetChallenge(ctx, c.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	// the delete only reports true once; a second caller lost the race
	deleted, err = s.LoginChallenges().DeleteChallenge(ctx, c.ID)
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestLoginChallenges_ExpiredSwept(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "sweep@example.com")
	now := time.Now().UTC().Truncate(time.Second)

	old := domain.LoginChallenge{
		ID:        idx.New().String(),
		UserID:    u.ID,
		CreatedAt: now.Add(-10 * time.Minute),
		ExpiresAt: now.Add(-5 * time.Minute),
	}
	require.NoError(t, s.LoginChallenges().CreateChallenge(ctx, old))
	require.NoError(t, s.LoginChallenges().DeleteExpiredChallenges(ctx, now))

	_, err := s.LoginChallenges().GetChallenge(ctx, old.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestChat_SessionsAndMessages(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "chat@example.com")
	now := time.Now().UTC().Truncate(time.Second)

	sess := domain.ChatSession{
		ID:        idx.New().String(),
		UserID:    u.ID,
		Title:     "Tenancy question",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.ChatSessions().CreateSession(ctx, sess))

	for i, sender := range []string{domain.SenderUser, domain.SenderAssistant} {
		require.NoError(t, s.ChatMessages().CreateMessage(ctx, domain.ChatMessage{
			ID:        idx.New().String(),
			SessionID: sess.ID,
			UserID:    u.ID,
			Sender:    sender,
			Content:   "message",
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		}))
	}

	msgs, err := s.ChatMessages().ListMessagesBySession(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, domain.SenderUser, msgs[0].Sender)
	require.Equal(t, domain.SenderAssistant, msgs[1].Sender)

	sessions, err := s.ChatSessions().ListSessionsByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	// deleting the session cascades to its messages
	require.NoError(t, s.ChatSessions().DeleteSession(ctx, sess.ID))
	msgs, err = s.ChatMessages().ListMessagesBySession(ctx, sess.ID)
	require.NoError(t, err)
	require.Empty(t, msgs)
}

func TestLawyers_UpsertAndFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	a := seedUser(t, s, "lawyer-a@example.com")
	b := seedUser(t, s, "lawyer-b@example.com")

	require.NoError(t, s.Lawyers().UpsertProfile(ctx, domain.LawyerProfile{
		UserID: a.ID, Name: "A", Specialty: "family", Location: "Sydney",
		YearsExperience: 5, Rating: 4.5, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, s.Lawyers().UpsertProfile(ctx, domain.LawyerProfile{
		UserID: b.ID, Name: "B", Specialty: "criminal", Location: "Melbourne",
		YearsExperience: 10, Rating: 4.9, CreatedAt: now, UpdatedAt: now,
	}))

	all, err := s.Lawyers().ListProfiles(ctx, domain.LawyerFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	family, err := s.Lawyers().ListProfiles(ctx, domain.LawyerFilter{Specialty: "family"})
	require.NoError(t, err)
	require.Len(t, family, 1)
	require.Equal(t, a.ID, family[0].UserID)

	// upsert replaces in place
	require.NoError(t, s.Lawyers().UpsertProfile(ctx, domain.LawyerProfile{
		UserID: a.ID, Name: "A", Specialty: "property", Location: "Sydney",
		YearsExperience: 6, Rating: 4.6, CreatedAt: now, UpdatedAt: now.Add(time.Hour),
	}))
	got, err := s.Lawyers().GetProfile(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, "property", got.Specialty)
	require.Equal(t, 6, got.YearsExperience)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "tx@example.com")
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().EnableTwoFactor(ctx, u.ID, "SECRET"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, got.TwoFactorEnabled)
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "tx-ok@example.com")

	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().EnableTwoFactor(ctx, u.ID, "SECRET"); err != nil {
			return err
		}
		return tx.BackupCodes().CreateBackupCode(ctx, u.ID, "hash-1")
	})
	require.NoError(t, err)

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.TwoFactorEnabled)

	count, err := s.BackupCodes().CountBackupCodes(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}
