package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lawhelp/lawhelp/internal/domain"
	"github.com/lawhelp/lawhelp/internal/store"
	"github.com/lawhelp/lawhelp/pkg/idx"
)

func TestHousekeeping_CleanupRemovesExpiredRecords(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.register(t, "janitor@example.com", "correct horse")

	past := time.Now().Add(-time.Hour).UTC()
	require.NoError(t, env.store.VerificationCodes().CreateCode(ctx, domain.VerificationCode{
		ID:        idx.New().String(),
		UserID:    user.ID,
		Type:      domain.CodePasswordReset,
		Code:      "999999",
		ExpiresAt: past,
		CreatedAt: past.Add(-15 * time.Minute),
	}))
	require.NoError(t, env.store.LoginChallenges().CreateChallenge(ctx, domain.LoginChallenge{
		ID:        idx.New().String(),
		UserID:    user.ID,
		CreatedAt: past,
		ExpiresAt: past.Add(5 * time.Minute),
	}))
	require.NoError(t, env.store.Users().SetPendingTwoFactorSecret(ctx, user.ID, "STALESECRET", past))

	hk := NewHousekeepingService(env.store, slog.Default(), time.Hour)
	hk.cleanup()

	_, err := env.store.VerificationCodes().GetActiveCode(ctx, user.ID, domain.CodePasswordReset)
	require.ErrorIs(t, err, store.ErrNotFound)

	got, err := env.store.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Nil(t, got.PendingSecret)
}

func TestHousekeeping_StartStop(t *testing.T) {
	env := newTestEnv(t)

	hk := NewHousekeepingService(env.store, slog.Default(), time.Minute)
	hk.Start()
	hk.Stop()
}
