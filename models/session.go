package models

import "time"

// TokenClaims is the typed payload of a portal session token.
type TokenClaims struct {
	PartnerID       int       `json:"idPartner"`
	CustomerPrePaid int       `json:"customerPrePaid,omitempty"`
	Roles           []string  `json:"roles,omitempty"`
	Email           string    `json:"email,omitempty"`
	ExpiresAt       time.Time `json:"expiresAt"`
}

// Expired reports whether the claims are past their expiry at the given time.
func (c TokenClaims) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}

// SecondsRemaining returns whole seconds until expiry, floored at 0.
func (c TokenClaims) SecondsRemaining(now time.Time) int {
	left := int(c.ExpiresAt.Sub(now).Seconds())
	if left < 0 {
		return 0
	}
	return left
}
