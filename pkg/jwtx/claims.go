package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the default lifetime for session tokens. Sessions are
// stateless, so expiry is the only revocation mechanism.
const DefaultSessionTTL = 24 * time.Hour

// Claims are the session-token claims. Additive changes only, to preserve
// compatibility with tokens already in the wild.
type Claims struct {
	jwt.RegisteredClaims

	// Name is the display name for the user.
	Name string `json:"name,omitempty"`

	// Email is the account email, stored lowercased.
	Email string `json:"email,omitempty"`

	// EmailVerified mirrors the account flag at issuance time.
	EmailVerified bool `json:"email_verified,omitempty"`

	// Lawyer marks accounts that appear in the lawyer directory.
	Lawyer bool `json:"lawyer,omitempty"`

	// AMR lists the authentication methods used:
	//   "pwd": password
	//   "otp": TOTP code
	//   "mfa": a second factor was completed
	AMR []string `json:"amr,omitempty"`
}

// AMR values for session tokens.
const (
	AMRPassword = "pwd"
	AMROTP      = "otp"
	AMRMFA      = "mfa"
)

// NewSessionClaims builds minimally-correct claims for a session token.
func NewSessionClaims(
	subject string,
	name, email string,
	emailVerified, lawyer bool,
	amr []string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Name:          name,
		Email:         email,
		EmailVerified: emailVerified,
		Lawyer:        lawyer,
		AMR:           amr,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks if the issuer matches the expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used
// before it is valid (nbf).
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}
