package store

import (
	"context"
	"errors"
	"time"

	"github.com/lawhelp/lawhelp/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today,
// anything transactional tomorrow) implement this. It exposes sub-repositories
// to keep concerns tidy and testable, and the consistency contract the
// identity invariants depend on: reads observe all previously committed
// writes, and the check-and-set operations below are atomic.
type Store interface {
	Users() Users
	VerificationCodes() VerificationCodes
	BackupCodes() BackupCodes
	LoginChallenges() LoginChallenges
	ChatSessions() ChatSessions
	ChatMessages() ChatMessages
	Lawyers() Lawyers

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to run multi-step operations that must be atomic
	// (e.g., committing a 2FA enrollment).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks a user up by lowercased email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// SetEmailVerified flips the email_verified flag and bumps updated_at.
	SetEmailVerified(ctx context.Context, userID string) error

	// SetPendingTwoFactorSecret stores a not-yet-active TOTP secret with a
	// bounded lifetime. Overwrites any previous pending secret.
	SetPendingTwoFactorSecret(ctx context.Context, userID, secret string, expiresAt time.Time) error

	// ClearPendingTwoFactorSecret drops the pending secret without enabling 2FA.
	ClearPendingTwoFactorSecret(ctx context.Context, userID string) error

	// EnableTwoFactor atomically commits the given secret as active, marks
	// 2FA enabled, and clears the pending state.
	EnableTwoFactor(ctx context.Context, userID, secret string) error

	// DisableTwoFactor clears the active secret and the enabled flag.
	DisableTwoFactor(ctx context.Context, userID string) error

	// DeleteExpiredPendingSecrets clears pending secrets whose confirmation
	// window has passed, along with the backup codes pre-generated for the
	// abandoned enrollment (housekeeping).
	DeleteExpiredPendingSecrets(ctx context.Context, before time.Time) error
}

type VerificationCodes interface {
	// CreateCode stores a freshly issued one-time code.
	CreateCode(ctx context.Context, c domain.VerificationCode) error

	// GetActiveCode returns the most recent unconsumed code of the given
	// type for the user, expired or not; expiry is the caller's check so a
	// clock can be injected. ErrNotFound when none is outstanding.
	GetActiveCode(ctx context.Context, userID string, typ domain.CodeType) (domain.VerificationCode, error)

	// MarkCodeConsumed sets consumed_at if and only if the code is still
	// unconsumed. Returns false when another consumer won the race; two
	// concurrent attempts can never both see true.
	MarkCodeConsumed(ctx context.Context, codeID string, at time.Time) (bool, error)

	// SupersedeCodes removes outstanding unconsumed codes of the given type,
	// used when issuing a replacement code.
	SupersedeCodes(ctx context.Context, userID string, typ domain.CodeType) error

	// DeleteExpiredCodes is housekeeping.
	DeleteExpiredCodes(ctx context.Context, before time.Time) error
}

type BackupCodes interface {
	// CreateBackupCode stores a backup code hash for a user.
	CreateBackupCode(ctx context.Context, userID, codeHash string) error

	// ConsumeBackupCode deletes the matching hash in a single statement and
	// reports whether it existed. The delete is the single-use guarantee:
	// concurrent submissions of the same code cannot both succeed.
	ConsumeBackupCode(ctx context.Context, userID, codeHash string) (bool, error)

	// CountBackupCodes returns the number of unused codes for a user.
	CountBackupCodes(ctx context.Context, userID string) (int, error)

	// DeleteAllBackupCodes removes all codes for a user (regeneration, disable).
	DeleteAllBackupCodes(ctx context.Context, userID string) error
}

type LoginChallenges interface {
	// CreateChallenge creates a new second-factor challenge.
	CreateChallenge(ctx context.Context, c domain.LoginChallenge) error

	// GetChallenge retrieves a challenge by its reference. Expiry is the
	// caller's check.
	GetChallenge(ctx context.Context, id string) (domain.LoginChallenge, error)

	// IncrementChallengeAttempts bumps the failed attempt counter and
	// returns the updated challenge.
	IncrementChallengeAttempts(ctx context.Context, id string) (domain.LoginChallenge, error)

	// DeleteChallenge removes a challenge (successful completion or lockout)
	// and reports whether a row was deleted. The delete is the single-use
	// guarantee for completions: two concurrent winners cannot both see true.
	DeleteChallenge(ctx context.Context, id string) (bool, error)

	// DeleteExpiredChallenges is housekeeping.
	DeleteExpiredChallenges(ctx context.Context, before time.Time) error
}

type ChatSessions interface {
	CreateSession(ctx context.Context, s domain.ChatSession) error
	GetSessionByID(ctx context.Context, id string) (domain.ChatSession, error)
	ListSessionsByUser(ctx context.Context, userID string) ([]domain.ChatSession, error)
	TouchSession(ctx context.Context, id string, at time.Time) error

	// DeleteSession cascades to its messages (per schema).
	DeleteSession(ctx context.Context, id string) error
}

type ChatMessages interface {
	CreateMessage(ctx context.Context, m domain.ChatMessage) error
	ListMessagesBySession(ctx context.Context, sessionID string) ([]domain.ChatMessage, error)
}

type Lawyers interface {
	// UpsertProfile creates or replaces the directory entry for a user.
	UpsertProfile(ctx context.Context, p domain.LawyerProfile) error

	// GetProfile returns the entry for one user.
	GetProfile(ctx context.Context, userID string) (domain.LawyerProfile, error)

	// ListProfiles returns directory entries matching the filter, newest first.
	ListProfiles(ctx context.Context, f domain.LawyerFilter) ([]domain.LawyerProfile, error)
}
