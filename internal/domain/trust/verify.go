package trust

import (
	"crypto/ed25519"
	"encoding/base64"
)

// Verify checks a signature over the exact payload bytes with the given raw
// public key. Unknown algorithms and malformed key material count as
// verification failures, never errors: the evaluator must always be able to
// return a decision.
func Verify(payload, signature, publicKey []byte, alg Algorithm) bool {
	switch alg {
	case AlgorithmEd25519:
		if len(publicKey) != ed25519.PublicKeySize {
			return false
		}
		if len(signature) != ed25519.SignatureSize {
			return false
		}
		return ed25519.Verify(ed25519.PublicKey(publicKey), payload, signature)
	default:
		return false
	}
}

// VerifyEncoded verifies a base64-encoded signature with a base64-encoded
// public key, the encodings both carry in manifests and key bundles.
// Decoding failures count as verification failures.
func VerifyEncoded(payload, signatureB64, publicKeyB64 string, alg Algorithm) bool {
	signature, err := base64.StdEncoding.DecodeString(signatureB64)
	if err != nil {
		return false
	}
	publicKey, err := base64.StdEncoding.DecodeString(publicKeyB64)
	if err != nil {
		return false
	}
	return Verify([]byte(payload), signature, publicKey, alg)
}
