// Package keyimport converts operator-supplied public key files into
// signing key records.
package keyimport

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/ssh"

	"github.com/trustplane/trustplane/internal/domain/trust"
)

// ErrUnsupportedKeyType is returned for public keys that are not ed25519.
var ErrUnsupportedKeyType = errors.New("unsupported public key type")

// FromAuthorizedKey parses an OpenSSH public key line (the id_ed25519.pub
// format) into a signing key. When id is empty, the key's comment is used,
// falling back to a generated UUID.
func FromAuthorizedKey(data []byte, id string) (trust.SigningKey, error) {
	pub, comment, _, _, err := ssh.ParseAuthorizedKey(data)
	if err != nil {
		return trust.SigningKey{}, fmt.Errorf("failed to parse public key: %w", err)
	}

	if pub.Type() != ssh.KeyAlgoED25519 {
		return trust.SigningKey{}, fmt.Errorf("%w: %s", ErrUnsupportedKeyType, pub.Type())
	}

	cryptoPub, ok := pub.(ssh.CryptoPublicKey)
	if !ok {
		return trust.SigningKey{}, fmt.Errorf("%w: %s", ErrUnsupportedKeyType, pub.Type())
	}
	raw, ok := cryptoPub.CryptoPublicKey().(ed25519.PublicKey)
	if !ok {
		return trust.SigningKey{}, fmt.Errorf("%w: %s", ErrUnsupportedKeyType, pub.Type())
	}

	if id == "" {
		id = comment
	}
	if id == "" {
		id = uuid.NewString()
	}

	return trust.SigningKey{
		ID:        id,
		Algorithm: trust.AlgorithmEd25519,
		PublicKey: base64.StdEncoding.EncodeToString(raw),
	}, nil
}
