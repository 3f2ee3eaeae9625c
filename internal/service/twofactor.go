package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lawhelp/lawhelp/internal/domain"
	"github.com/lawhelp/lawhelp/internal/observability/metrics"
	"github.com/lawhelp/lawhelp/internal/store"
	"github.com/lawhelp/lawhelp/pkg/cryptox"
	"github.com/lawhelp/lawhelp/pkg/jwtx"
)

const (
	backupCodeCount  = 10
	backupCodeLength = 10 // characters from the unambiguous alphabet
)

var (
	ErrTwoFactorAlreadyEnabled = errors.New("two-factor authentication is already enabled")
	ErrTwoFactorNotEnabled     = errors.New("two-factor authentication is not enabled")
	ErrNoPendingSetup          = errors.New("no pending two-factor setup")
	ErrPendingSetupExpired     = errors.New("two-factor setup has expired; start again")
	ErrInvalidTOTPCode         = errors.New("invalid TOTP code")
	ErrBackupCodeInvalid       = errors.New("invalid backup code")
	ErrBackupCodesExhausted    = errors.New("no backup codes remain; regenerate them")
	ErrChallengeNotFound       = errors.New("login challenge not found or expired")
	ErrTooManyAttempts         = errors.New("too many failed attempts; log in again")
	ErrUnsupportedMethod       = errors.New("unsupported second-factor method")
)

// TwoFactorService owns TOTP enrollment, login challenge completion, and
// backup code management.
type TwoFactorService struct {
	Store   store.Store
	TOTP    *TOTPEngine
	Tokens  *TokenService
	Codes   *VerificationService
	Metrics *metrics.Recorder

	// Now is injectable for tests. Defaults to time.Now.
	Now func() time.Time
}

func (s *TwoFactorService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Setup generates a TOTP secret for the user, stores it as pending, and
// pre-generates the backup codes. The secret and the plaintext codes are
// returned exactly once; the codes are stored only as hashes and stay inert
// until the enrollment is confirmed (challenges only open once 2FA is
// enabled). A two_factor_setup code also goes out via the notifier so the
// user has an out-of-band record of the enrollment attempt. Calling Setup
// again replaces the pending secret and the code set.
func (s *TwoFactorService) Setup(ctx context.Context, userID string) (domain.TwoFactorSetup, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.TwoFactorSetup{}, err
	}
	if user.TwoFactorEnabled {
		return domain.TwoFactorSetup{}, ErrTwoFactorAlreadyEnabled
	}

	key, err := s.TOTP.GenerateKey(user.Email)
	if err != nil {
		return domain.TwoFactorSetup{}, fmt.Errorf("failed to generate TOTP key: %w", err)
	}

	backupCodes, err := s.generateBackupCodes()
	if err != nil {
		return domain.TwoFactorSetup{}, err
	}

	expiresAt := s.now().Add(pendingSecretTTL)
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().SetPendingTwoFactorSecret(ctx, userID, key.Secret(), expiresAt); err != nil {
			return fmt.Errorf("failed to store pending secret: %w", err)
		}
		if err := tx.BackupCodes().DeleteAllBackupCodes(ctx, userID); err != nil {
			return fmt.Errorf("failed to clear old backup codes: %w", err)
		}
		for _, c := range backupCodes {
			if err := tx.BackupCodes().CreateBackupCode(ctx, userID, cryptox.FingerprintToken(c)); err != nil {
				return fmt.Errorf("failed to store backup code: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return domain.TwoFactorSetup{}, err
	}

	if s.Codes != nil {
		if err := s.Codes.Issue(ctx, userID, user.Email, domain.CodeTwoFactorSetup); err != nil {
			return domain.TwoFactorSetup{}, err
		}
	}

	return domain.TwoFactorSetup{
		Secret:      key.Secret(),
		QRCode:      key.URL(),
		BackupCodes: backupCodes,
	}, nil
}

// Confirm validates the user's first TOTP code against the pending secret
// and, if it checks out, commits the secret and flips 2FA on in one
// transaction. A wrong code preserves the pending state so the user can
// retry; an expired pending window clears it along with the pre-generated
// backup codes.
func (s *TwoFactorService) Confirm(ctx context.Context, userID, code string) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.TwoFactorEnabled {
		return ErrTwoFactorAlreadyEnabled
	}
	if user.PendingSecret == nil {
		return ErrNoPendingSetup
	}

	now := s.now()
	if user.PendingSecretExpiresAt != nil && now.After(*user.PendingSecretExpiresAt) {
		_ = s.Store.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Users().ClearPendingTwoFactorSecret(ctx, userID); err != nil {
				return err
			}
			return tx.BackupCodes().DeleteAllBackupCodes(ctx, userID)
		})
		return ErrPendingSetupExpired
	}

	secret := *user.PendingSecret
	if !s.TOTP.Validate(code, secret, now) {
		return ErrInvalidTOTPCode
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().EnableTwoFactor(ctx, userID, secret); err != nil {
			return fmt.Errorf("failed to enable two-factor: %w", err)
		}
		// the setup confirmation code has served its purpose
		return tx.VerificationCodes().SupersedeCodes(ctx, userID, domain.CodeTwoFactorSetup)
	})
}

func (s *TwoFactorService) generateBackupCodes() ([]string, error) {
	codes := make([]string, backupCodeCount)
	for i := range codes {
		c, err := cryptox.GenerateAlphanumeric(backupCodeLength)
		if err != nil {
			return nil, fmt.Errorf("failed to generate backup code: %w", err)
		}
		codes[i] = c
	}
	return codes, nil
}

// CompleteChallenge finishes a two-step login. On success the challenge is
// deleted and a session token carrying the mfa AMR is returned. Failed
// attempts increment a counter; hitting the cap burns the challenge.
func (s *TwoFactorService) CompleteChallenge(ctx context.Context, challengeID string, method domain.TwoFactorMethod, code string) (SessionToken, domain.PublicUser, error) {
	challenge, err := s.Store.LoginChallenges().GetChallenge(ctx, challengeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return SessionToken{}, domain.PublicUser{}, ErrChallengeNotFound
		}
		return SessionToken{}, domain.PublicUser{}, err
	}

	now := s.now()
	if now.After(challenge.ExpiresAt) {
		_, _ = s.Store.LoginChallenges().DeleteChallenge(ctx, challengeID)
		return SessionToken{}, domain.PublicUser{}, ErrChallengeNotFound
	}
	if challenge.Attempts >= maxChallengeAttempts {
		_, _ = s.Store.LoginChallenges().DeleteChallenge(ctx, challengeID)
		return SessionToken{}, domain.PublicUser{}, ErrTooManyAttempts
	}

	user, err := s.Store.Users().GetUserByID(ctx, challenge.UserID)
	if err != nil {
		return SessionToken{}, domain.PublicUser{}, err
	}
	if !user.TwoFactorEnabled || user.TwoFactorSecret == nil {
		// 2FA was disabled while the challenge was outstanding
		_, _ = s.Store.LoginChallenges().DeleteChallenge(ctx, challengeID)
		return SessionToken{}, domain.PublicUser{}, ErrChallengeNotFound
	}

	var verifyErr error
	switch method {
	case domain.MethodTOTP:
		if !s.TOTP.Validate(code, *user.TwoFactorSecret, now) {
			verifyErr = ErrInvalidTOTPCode
		}
	case domain.MethodBackupCode:
		remaining, err := s.Store.BackupCodes().CountBackupCodes(ctx, user.ID)
		if err != nil {
			return SessionToken{}, domain.PublicUser{}, err
		}
		if remaining == 0 {
			// distinct from a bad guess so clients can prompt regeneration
			return SessionToken{}, domain.PublicUser{}, ErrBackupCodesExhausted
		}
		ok, err := s.Store.BackupCodes().ConsumeBackupCode(ctx, user.ID, cryptox.FingerprintToken(code))
		if err != nil {
			return SessionToken{}, domain.PublicUser{}, err
		}
		if !ok {
			verifyErr = ErrBackupCodeInvalid
		}
	default:
		return SessionToken{}, domain.PublicUser{}, ErrUnsupportedMethod
	}

	if verifyErr != nil {
		s.countChallenge(method, metrics.OutcomeFailure)
		updated, err := s.Store.LoginChallenges().IncrementChallengeAttempts(ctx, challengeID)
		if err == nil && updated.Attempts >= maxChallengeAttempts {
			_, _ = s.Store.LoginChallenges().DeleteChallenge(ctx, challengeID)
			return SessionToken{}, domain.PublicUser{}, ErrTooManyAttempts
		}
		return SessionToken{}, domain.PublicUser{}, verifyErr
	}

	// the delete is the single-use gate: only the completion that removes
	// the row gets a session
	deleted, err := s.Store.LoginChallenges().DeleteChallenge(ctx, challengeID)
	if err != nil {
		return SessionToken{}, domain.PublicUser{}, err
	}
	if !deleted {
		return SessionToken{}, domain.PublicUser{}, ErrChallengeNotFound
	}

	session, err := s.Tokens.IssueSession(user, []string{jwtx.AMRPassword, jwtx.AMROTP, jwtx.AMRMFA})
	if err != nil {
		return SessionToken{}, domain.PublicUser{}, err
	}

	s.countChallenge(method, metrics.OutcomeSuccess)
	return session, user.Public(), nil
}

// RegenerateBackupCodes replaces all backup codes after a valid TOTP code.
// Old codes stop working the moment the new set commits.
func (s *TwoFactorService) RegenerateBackupCodes(ctx context.Context, userID, totpCode string) ([]string, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.TwoFactorEnabled || user.TwoFactorSecret == nil {
		return nil, ErrTwoFactorNotEnabled
	}
	if !s.TOTP.Validate(totpCode, *user.TwoFactorSecret, s.now()) {
		return nil, ErrInvalidTOTPCode
	}

	backupCodes, err := s.generateBackupCodes()
	if err != nil {
		return nil, err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.BackupCodes().DeleteAllBackupCodes(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete old backup codes: %w", err)
		}
		for _, c := range backupCodes {
			if err := tx.BackupCodes().CreateBackupCode(ctx, userID, cryptox.FingerprintToken(c)); err != nil {
				return fmt.Errorf("failed to store backup code: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return backupCodes, nil
}

// Disable turns 2FA off after a valid TOTP code and removes the backup
// codes in the same transaction.
func (s *TwoFactorService) Disable(ctx context.Context, userID, totpCode string) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.TwoFactorEnabled || user.TwoFactorSecret == nil {
		return ErrTwoFactorNotEnabled
	}
	if !s.TOTP.Validate(totpCode, *user.TwoFactorSecret, s.now()) {
		return ErrInvalidTOTPCode
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().DisableTwoFactor(ctx, userID); err != nil {
			return fmt.Errorf("failed to disable two-factor: %w", err)
		}
		return tx.BackupCodes().DeleteAllBackupCodes(ctx, userID)
	})
}

// BackupCodesRemaining reports how many unused backup codes the user holds.
func (s *TwoFactorService) BackupCodesRemaining(ctx context.Context, userID string) (int, error) {
	return s.Store.BackupCodes().CountBackupCodes(ctx, userID)
}

func (s *TwoFactorService) countChallenge(method domain.TwoFactorMethod, outcome string) {
	if s.Metrics != nil {
		s.Metrics.TwoFactorChallenges.WithLabelValues(string(method), outcome).Inc()
	}
}
