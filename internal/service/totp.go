package service

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// totpPeriod is the standard 30 second step authenticator apps expect.
const totpPeriod = 30

// TOTPEngine generates and validates time-based one-time codes. Validation
// accepts exactly one step of clock drift either side of the current step,
// no more.
type TOTPEngine struct {
	Issuer string // shown in authenticator apps (e.g., "LawHelp")
}

// GenerateKey creates a fresh TOTP secret for the given account name.
func (e *TOTPEngine) GenerateKey(account string) (*otp.Key, error) {
	return totp.Generate(totp.GenerateOpts{
		Issuer:      e.Issuer,
		AccountName: account,
		Period:      totpPeriod,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
}

// Validate checks code against secret at the given instant.
func (e *TOTPEngine) Validate(code, secret string, at time.Time) bool {
	ok, err := totp.ValidateCustom(code, secret, at, totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}
