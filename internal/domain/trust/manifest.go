// Package trust implements plugin trust evaluation: allow/deny policy with
// strict precedence, Ed25519 signature verification against a set of signing
// keys, and the persisted snapshot that policy reads from. The package
// produces decisions; enforcement is the host's responsibility.
package trust

import (
	"fmt"
	"strings"
)

// Algorithm identifies a signature scheme for plugin manifests.
type Algorithm string

// Supported algorithms.
const (
	AlgorithmEd25519 Algorithm = "ed25519"
)

// ParseAlgorithm parses an algorithm name.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(s) {
	case "ed25519":
		return AlgorithmEd25519, nil
	default:
		return "", fmt.Errorf("unknown signature algorithm: %s", s)
	}
}

// Manifest describes one candidate plugin instance under evaluation.
// The host installer builds a manifest per evaluation call; this package
// never persists one.
type Manifest struct {
	// ID is the stable plugin identifier, shared across versions.
	ID      string `yaml:"id" json:"id"`
	Name    string `yaml:"name,omitempty" json:"name,omitempty"`
	Version string `yaml:"version,omitempty" json:"version,omitempty"`

	// Checksum is the content hash of the plugin package, computed by the
	// host. Empty means no checksum was supplied.
	Checksum string `yaml:"checksum,omitempty" json:"checksum,omitempty"`

	// Signature is the base64-encoded signature over SignaturePayload.
	Signature          string    `yaml:"signature,omitempty" json:"signature,omitempty"`
	SignatureKeyID     string    `yaml:"signature_key_id,omitempty" json:"signature_key_id,omitempty"`
	SignatureAlgorithm Algorithm `yaml:"signature_algorithm,omitempty" json:"signature_algorithm,omitempty"`
}

// SignaturePayload returns the canonical byte sequence a plugin signature
// must cover: id, version, and checksum joined by newlines. It reports
// ok=false when the manifest lacks the fields needed for a stable payload.
func (m Manifest) SignaturePayload() (string, bool) {
	if m.ID == "" || m.Version == "" || m.Checksum == "" {
		return "", false
	}
	return m.ID + "\n" + m.Version + "\n" + m.Checksum, true
}

// IsSigned reports whether the manifest carries a complete signature:
// signature value, key id, algorithm, and a derivable payload.
func (m Manifest) IsSigned() bool {
	if m.Signature == "" || m.SignatureKeyID == "" || m.SignatureAlgorithm == "" {
		return false
	}
	_, ok := m.SignaturePayload()
	return ok
}
