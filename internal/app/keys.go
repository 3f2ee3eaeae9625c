package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lawhelp/lawhelp/pkg/cryptox"
	"github.com/lawhelp/lawhelp/pkg/jwtx"
)

// InitSessionKey loads the Ed25519 session signing key from disk, generating
// one on first run. Losing the file invalidates every outstanding session,
// which is the intended recovery path after a key compromise.
func InitSessionKey(path string, logger *slog.Logger) (*jwtx.EdDSASigner, error) {
	pemKey, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		pemKey, err = cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, fmt.Errorf("failed to generate session key: %w", err)
		}
		if err := os.WriteFile(path, pemKey, 0o600); err != nil {
			return nil, fmt.Errorf("failed to write session key: %w", err)
		}
		logger.Info("generated new session signing key", "path", path)
	} else if err != nil {
		return nil, fmt.Errorf("failed to read session key: %w", err)
	}

	signer, err := jwtx.NewSignerEdDSA(pemKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse session key: %w", err)
	}

	logger.Info("session signing key loaded", "path", path)
	return signer, nil
}
