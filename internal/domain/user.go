package domain

import "time"

// User is an account record. Emails are stored lowercased and are unique.
type User struct {
	ID            string
	Email         string
	Name          string
	PasswordHash  string // argon2 encoded
	Lawyer        bool   // listed in the lawyer directory
	EmailVerified bool

	// TwoFactorEnabled is true only after a pending secret has been
	// confirmed with a valid TOTP code.
	TwoFactorEnabled bool

	// TwoFactorSecret is the active TOTP secret (nullable, base32 encoded).
	TwoFactorSecret *string

	// PendingSecret holds a freshly generated TOTP secret awaiting
	// confirmation. It never overlaps with an active secret and expires at
	// PendingSecretExpiresAt.
	PendingSecret          *string
	PendingSecretExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PublicUser is the wire shape of a user. The password hash and 2FA secrets
// never leave the service.
type PublicUser struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	Lawyer           bool   `json:"lawyer"`
	EmailVerified    bool   `json:"email_verified"`
	TwoFactorEnabled bool   `json:"two_factor_enabled"`
}

// Public strips the secret-bearing fields from a User.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		Lawyer:           u.Lawyer,
		EmailVerified:    u.EmailVerified,
		TwoFactorEnabled: u.TwoFactorEnabled,
	}
}
