// Package secrets loads shared-secret material for grant verification.
package secrets

import (
	"fmt"
	"os"
	"strings"

	goblin "github.com/NickBlow/upload-goblin"
)

// Config selects where a secret comes from. File takes precedence over the
// inline value when both are set.
type Config struct {
	Value string `mapstructure:"value"` // Inline secret from config
	File  string `mapstructure:"file"`  // Path to a file containing the secret
}

// Load resolves the configured secret. Surrounding whitespace (including a
// trailing newline, the usual artifact of secret files) is trimmed. Returns
// "" with no error when neither source is configured; callers treat that as
// "verification disabled".
func Load(cfg Config) (string, error) {
	if cfg.File != "" {
		data, err := os.ReadFile(cfg.File) //nolint:gosec // Path is from trusted config file
		if err != nil {
			return "", fmt.Errorf("read secret file: %w", err)
		}

		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("secret file is empty: %s", cfg.File)
		}
		return secret, nil
	}

	return strings.TrimSpace(cfg.Value), nil
}

// NewVerifier builds the built-in HMAC verifier from configuration.
// Returns nil when no secret is configured, which route groups interpret
// as public access.
func NewVerifier(cfg Config, requireExpiry bool) (goblin.GrantVerifier, error) {
	secret, err := Load(cfg)
	if err != nil {
		return nil, err
	}
	if secret == "" {
		return nil, nil
	}

	verifier := goblin.NewHMACVerifier(secret)
	verifier.RequireExpiry = requireExpiry
	return verifier, nil
}
