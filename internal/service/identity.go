package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/lawhelp/lawhelp/internal/domain"
	"github.com/lawhelp/lawhelp/internal/observability/metrics"
	"github.com/lawhelp/lawhelp/internal/store"
	"github.com/lawhelp/lawhelp/pkg/cryptox"
	"github.com/lawhelp/lawhelp/pkg/idx"
	"github.com/lawhelp/lawhelp/pkg/jwtx"
)

const (
	challengeTTL         = 5 * time.Minute
	pendingSecretTTL     = 10 * time.Minute
	maxChallengeAttempts = 5
)

var (
	ErrEmailTaken = errors.New("an account with this email already exists")
	ErrBadEmail   = errors.New("email address is not valid")

	// ErrInvalidCredentials covers both unknown email and wrong password,
	// deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// LoginResult is either a session token (no second factor configured) or a
// challenge the client must complete. Exactly one of Session/Challenge is set.
type LoginResult struct {
	Session   *SessionToken
	User      domain.PublicUser
	Challenge *domain.ChallengeResponse
}

// IdentityService owns registration, login and email verification.
type IdentityService struct {
	Store   store.Store
	Tokens  *TokenService
	Codes   *VerificationService
	Policy  PasswordPolicy
	Metrics *metrics.Recorder

	// Now is injectable for tests. Defaults to time.Now.
	Now func() time.Time
}

func (s *IdentityService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Register creates an account, issues an email verification code, and mints
// a session token right away: verification is informational and gates later
// actions, not login. The email is normalized to lowercase before the
// uniqueness check.
func (s *IdentityService) Register(ctx context.Context, email, name, password string, lawyer bool) (domain.User, SessionToken, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.User{}, SessionToken{}, ErrBadEmail
	}
	if err := s.Policy.Validate(password); err != nil {
		return domain.User{}, SessionToken{}, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, SessionToken{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Lawyer:       lawyer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, SessionToken{}, ErrEmailTaken
		}
		return domain.User{}, SessionToken{}, fmt.Errorf("failed to create user: %w", err)
	}

	if s.Metrics != nil {
		s.Metrics.RegistrationsTotal.Inc()
	}

	if err := s.Codes.Issue(ctx, user.ID, user.Email, domain.CodeEmailVerification); err != nil {
		// the account exists; the user can request a fresh code
		return user, SessionToken{}, fmt.Errorf("failed to issue verification code: %w", err)
	}

	session, err := s.Tokens.IssueSession(user, []string{jwtx.AMRPassword})
	if err != nil {
		return user, SessionToken{}, err
	}

	return user, session, nil
}

// Login checks credentials and either mints a session or opens a
// second-factor challenge. Unknown emails burn the same hashing cost as a
// wrong password so response timing does not reveal which happened.
func (s *IdentityService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			cryptox.DummyVerify(password)
			s.countLogin(metrics.OutcomeFailure)
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			s.countLogin(metrics.OutcomeFailure)
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if user.TwoFactorEnabled {
		challenge, err := s.openChallenge(ctx, user.ID)
		if err != nil {
			return LoginResult{}, err
		}
		s.countLogin(metrics.OutcomeChallenge)
		return LoginResult{User: user.Public(), Challenge: &challenge}, nil
	}

	session, err := s.Tokens.IssueSession(user, []string{jwtx.AMRPassword})
	if err != nil {
		return LoginResult{}, err
	}

	s.countLogin(metrics.OutcomeSuccess)
	return LoginResult{Session: &session, User: user.Public()}, nil
}

func (s *IdentityService) openChallenge(ctx context.Context, userID string) (domain.ChallengeResponse, error) {
	now := s.now()
	challenge := domain.LoginChallenge{
		ID:        idx.New().String(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(challengeTTL),
	}
	if err := s.Store.LoginChallenges().CreateChallenge(ctx, challenge); err != nil {
		return domain.ChallengeResponse{}, fmt.Errorf("failed to create login challenge: %w", err)
	}

	return domain.ChallengeResponse{
		TwoFactorRequired: true,
		ChallengeID:       challenge.ID,
		Methods:           []string{string(domain.MethodTOTP), string(domain.MethodBackupCode)},
	}, nil
}

// VerifyEmail consumes an outstanding email verification code and marks the
// account verified. Verifying an already-verified account is a no-op success
// as long as the code checks out.
func (s *IdentityService) VerifyEmail(ctx context.Context, email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCodeNotFound
		}
		return err
	}

	// the burn and the flag flip commit together: a code is never spent
	// on an account left unverified
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := s.Codes.ConsumeIn(ctx, tx, user.ID, domain.CodeEmailVerification, code); err != nil {
			return err
		}
		return tx.Users().SetEmailVerified(ctx, user.ID)
	})
}

// ResendVerification issues a fresh email verification code, superseding
// any outstanding one.
func (s *IdentityService) ResendVerification(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// do not reveal whether the email exists
			return nil
		}
		return err
	}
	if user.EmailVerified {
		return nil
	}

	return s.Codes.Issue(ctx, user.ID, user.Email, domain.CodeEmailVerification)
}

// GetUserByID fetches a user by id.
func (s *IdentityService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

func (s *IdentityService) countLogin(outcome string) {
	if s.Metrics != nil {
		s.Metrics.LoginsTotal.WithLabelValues(outcome).Inc()
	}
}
