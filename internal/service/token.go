package service

import (
	"fmt"
	"time"

	"github.com/lawhelp/lawhelp/internal/domain"
	"github.com/lawhelp/lawhelp/pkg/jwtx"
)

// SessionToken is a freshly minted bearer token and its expiry.
type SessionToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenService mints session tokens. Tokens are EdDSA-signed JWTs carrying
// the user's public identity and the authentication methods used (AMR), so
// downstream handlers can tell a password-only session from a 2FA one.
type TokenService struct {
	Signer jwtx.Signer
	Issuer string
	TTL    time.Duration

	// Now is injectable for tests. Defaults to time.Now.
	Now func() time.Time
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// IssueSession signs a session token for the given user.
func (s *TokenService) IssueSession(user domain.User, amr []string) (SessionToken, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}

	now := s.now()
	claims := jwtx.NewSessionClaims(
		user.ID,
		user.Name, user.Email,
		user.EmailVerified, user.Lawyer,
		amr,
		ttl,
		s.Issuer,
		now,
	)

	token, err := s.Signer.Sign(claims)
	if err != nil {
		return SessionToken{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return SessionToken{Token: token, ExpiresAt: now.Add(ttl)}, nil
}
