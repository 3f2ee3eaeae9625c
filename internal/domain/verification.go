package domain

import "time"

// CodeType distinguishes the purposes a one-time code can serve. A user may
// hold outstanding codes of different types at the same time.
type CodeType string

const (
	CodeEmailVerification CodeType = "email_verification"
	CodeTwoFactorSetup    CodeType = "two_factor_setup"
	CodePasswordReset     CodeType = "password_reset"
)

// Valid reports whether t is one of the known code types.
func (t CodeType) Valid() bool {
	switch t {
	case CodeEmailVerification, CodeTwoFactorSetup, CodePasswordReset:
		return true
	}
	return false
}

// VerificationCode is one outstanding one-time code. A code is usable at
// most once (ConsumedAt nil) and only before ExpiresAt. Issuing a new code
// of the same type supersedes any prior outstanding code of that type.
type VerificationCode struct {
	ID         string
	UserID     string
	Type       CodeType
	Code       string // delivered out of band; never logged
	ExpiresAt  time.Time
	ConsumedAt *time.Time
	CreatedAt  time.Time
}
