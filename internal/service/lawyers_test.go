package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lawhelp/lawhelp/internal/domain"
)

func newLawyerService(env *testEnv) *LawyerService {
	return &LawyerService{Store: env.store, Now: env.clock.Now}
}

func registerLawyer(t *testing.T, env *testEnv, email string) domain.User {
	t.Helper()
	user, _, err := env.identity.Register(context.Background(), email, "Counsel", "correct horse", true)
	require.NoError(t, err)
	return user
}

func TestLawyers_PublishRequiresFlag(t *testing.T) {
	env := newTestEnv(t)
	svc := newLawyerService(env)
	ctx := context.Background()

	client := env.register(t, "client@example.com", "correct horse")

	_, err := svc.PublishProfile(ctx, client.ID, domain.LawyerProfile{Specialty: "family"})
	require.ErrorIs(t, err, ErrNotALawyer)
}

func TestLawyers_PublishAndGet(t *testing.T) {
	env := newTestEnv(t)
	svc := newLawyerService(env)
	ctx := context.Background()

	lawyer := registerLawyer(t, env, "lawyer@example.com")

	published, err := svc.PublishProfile(ctx, lawyer.ID, domain.LawyerProfile{
		Specialty:       "family",
		Location:        "Sydney",
		YearsExperience: 8,
		Rating:          4.7,
	})
	require.NoError(t, err)
	require.Equal(t, lawyer.ID, published.UserID)
	// falls back to the account name when none given
	require.Equal(t, "Counsel", published.Name)

	got, err := svc.GetProfile(ctx, lawyer.ID)
	require.NoError(t, err)
	require.Equal(t, "family", got.Specialty)
}

func TestLawyers_RepublishKeepsCreatedAt(t *testing.T) {
	env := newTestEnv(t)
	svc := newLawyerService(env)
	ctx := context.Background()

	lawyer := registerLawyer(t, env, "update@example.com")

	first, err := svc.PublishProfile(ctx, lawyer.ID, domain.LawyerProfile{Specialty: "family", Location: "Sydney"})
	require.NoError(t, err)

	env.clock.Advance(time.Hour)
	second, err := svc.PublishProfile(ctx, lawyer.ID, domain.LawyerProfile{Specialty: "property", Location: "Sydney"})
	require.NoError(t, err)
	require.Equal(t, first.CreatedAt, second.CreatedAt)

	got, err := svc.GetProfile(ctx, lawyer.ID)
	require.NoError(t, err)
	require.Equal(t, "property", got.Specialty)
}

func TestLawyers_ListFilters(t *testing.T) {
	env := newTestEnv(t)
	svc := newLawyerService(env)
	ctx := context.Background()

	a := registerLawyer(t, env, "a@example.com")
	b := registerLawyer(t, env, "b@example.com")

	_, err := svc.PublishProfile(ctx, a.ID, domain.LawyerProfile{Specialty: "family", Location: "Sydney"})
	require.NoError(t, err)
	_, err = svc.PublishProfile(ctx, b.ID, domain.LawyerProfile{Specialty: "criminal", Location: "Melbourne"})
	require.NoError(t, err)

	all, err := svc.List(ctx, domain.LawyerFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	sydney, err := svc.List(ctx, domain.LawyerFilter{Location: "Sydney"})
	require.NoError(t, err)
	require.Len(t, sydney, 1)
	require.Equal(t, a.ID, sydney[0].UserID)

	none, err := svc.List(ctx, domain.LawyerFilter{Specialty: "tax"})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestLawyers_GetProfileNotFound(t *testing.T) {
	env := newTestEnv(t)
	svc := newLawyerService(env)

	lawyer := registerLawyer(t, env, "empty@example.com")
	_, err := svc.GetProfile(context.Background(), lawyer.ID)
	require.ErrorIs(t, err, ErrProfileNotFound)
}
