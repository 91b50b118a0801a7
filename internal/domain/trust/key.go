package trust

import "time"

// SigningKey is one key authorized to sign plugins.
type SigningKey struct {
	ID        string    `json:"id" yaml:"id"`
	Algorithm Algorithm `json:"algorithm" yaml:"algorithm"`

	// PublicKey is the base64-encoded raw public key bytes.
	PublicKey string `json:"public_key" yaml:"public_key"`

	// NotBefore and NotAfter bound the validity window. A nil bound is
	// unbounded on that side.
	NotBefore *time.Time `json:"not_before,omitempty" yaml:"not_before,omitempty"`
	NotAfter  *time.Time `json:"not_after,omitempty" yaml:"not_after,omitempty"`

	// RevokedAt, when set, makes the key permanently invalid regardless
	// of the validity window.
	RevokedAt *time.Time `json:"revoked_at,omitempty" yaml:"revoked_at,omitempty"`
}

// ValidAt reports whether the key may verify signatures at t.
func (k SigningKey) ValidAt(t time.Time) bool {
	if k.RevokedAt != nil {
		return false
	}
	if k.NotBefore != nil && t.Before(*k.NotBefore) {
		return false
	}
	if k.NotAfter != nil && t.After(*k.NotAfter) {
		return false
	}
	return true
}

// KeyBundle is a distributable batch of signing keys fetched from a
// key-distribution source.
type KeyBundle struct {
	IssuedAt time.Time    `json:"issued_at" yaml:"issued_at"`
	Keys     []SigningKey `json:"keys" yaml:"keys"`
}
