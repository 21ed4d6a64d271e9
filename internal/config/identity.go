package config

import (
	"fmt"
	"os"

	"github.com/aquaguardian/aquaguardian/internal/identity"
)

const (
	EnvIdentityIssuer   = "AQUA_IDENTITY_ISSUER"
	EnvIdentityAudience = "AQUA_IDENTITY_AUDIENCE"
)

// FinalizeIdentity applies environment variable overrides and validation to
// an identity config.
func FinalizeIdentity(c *identity.Config) error {
	if v := os.Getenv(EnvIdentityIssuer); v != "" {
		c.Issuer = v
	}
	if v := os.Getenv(EnvIdentityAudience); v != "" {
		c.Audience = v
	}

	if c.Issuer == "" {
		return fmt.Errorf("issuer required")
	}
	return nil
}

func mergeIdentity(c, overlay *identity.Config) {
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.Audience != "" {
		c.Audience = overlay.Audience
	}
}
