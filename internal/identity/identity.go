// Package identity implements the identity collaborator: bearer credential
// verification, role canonicalization, and profile lookup. Every downstream
// gate consumes only the typed Actor produced here.
package identity

import (
	"time"

	"github.com/google/uuid"
)

// Actor is an authenticated caller with a canonicalized role.
type Actor struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}

// Profile is the stored user record backing role fallback and payout lookup.
type Profile struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	Role          string    `json:"role"`
	WalletAddress *string   `json:"wallet_address"`
	CreatedAt     time.Time `json:"created_at"`
}

// DisplayName returns the profile's full name, falling back to email.
func (p *Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Email
}
