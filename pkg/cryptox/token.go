package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"math/big"
)

// Token size constants (in bytes before encoding).
const (
	// TokenSize128 provides 128 bits of entropy (22 chars base64url).
	TokenSize128 = 16
	// TokenSize256 provides 256 bits of entropy (43 chars base64url).
	TokenSize256 = 32
)

// GenerateToken creates a cryptographically secure random token of the
// specified byte length, returned as a base64url string without padding.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("cryptox: token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: failed to generate random token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// FingerprintToken returns a deterministic SHA-256 fingerprint of a token,
// base64url encoded. Backup codes and other one-time credentials are stored
// as fingerprints so the database never holds the original value.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// GenerateDigits returns a string of n cryptographically random decimal
// digits, suitable for short-lived verification codes delivered out of band.
func GenerateDigits(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("cryptox: digit count must be positive, got %d", n)
	}

	digits := make([]byte, n)
	for i := range digits {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("cryptox: failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + v.Int64())
	}
	return string(digits), nil
}

// GenerateAlphanumeric returns a string of n random characters drawn from an
// unambiguous uppercase alphanumeric alphabet (no 0/O or 1/I). Used for
// backup codes which users may have to read back or type by hand.
func GenerateAlphanumeric(n int) (string, error) {
	const charset = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
	if n <= 0 {
		return "", fmt.Errorf("cryptox: character count must be positive, got %d", n)
	}

	out := make([]byte, n)
	for i := range out {
		v, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", fmt.Errorf("cryptox: failed to generate random character: %w", err)
		}
		out[i] = charset[v.Int64()]
	}
	return string(out), nil
}
