package domain

import "time"

// TwoFactorMethod tags the kind of second factor. Only TOTP is implemented;
// the tag exists so new factors extend cleanly without touching the
// enrollment flow.
type TwoFactorMethod string

const (
	MethodTOTP       TwoFactorMethod = "totp"
	MethodBackupCode TwoFactorMethod = "backup_code"
)

// TwoFactorSetup is returned once when enrollment starts. The secret and
// the plaintext backup codes are shown to the user here and never again;
// only backup code hashes are persisted.
type TwoFactorSetup struct {
	Secret      string   `json:"secret"`  // base32 encoded TOTP secret
	QRCode      string   `json:"qr_code"` // otpauth:// URL for QR code generation
	BackupCodes []string `json:"backup_codes"`
}

// ChallengeResponse is returned by login when a second factor is required.
// The challenge ID is not a session token; it only unlocks the
// complete-two-factor step.
type ChallengeResponse struct {
	TwoFactorRequired bool     `json:"two_factor_required"` // always true
	ChallengeID       string   `json:"challenge_id"`
	Methods           []string `json:"methods"` // e.g. ["totp", "backup_code"]
}

// LoginChallenge is a pending second-factor challenge. Single use, bounded
// lifetime, bounded attempts.
type LoginChallenge struct {
	ID        string // ULID, the challenge reference handed to the client
	UserID    string
	Attempts  int // failed attempts so far; capped to stop brute force
	CreatedAt time.Time
	ExpiresAt time.Time
}
