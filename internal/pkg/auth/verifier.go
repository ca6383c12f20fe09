package auth

import (
	"bytes"
	"crypto/ed25519"

	"golang.org/x/crypto/nacl/sign"

	"github.com/polkiloo/savingsvault/internal/domain/model"
)

// Verifier confirms that a claimed identity authorized the current operation.
type Verifier interface {
	VerifySigner(identity model.Address, proof model.Proof) bool
}

// SignatureVerifier checks ed25519 signatures using the NaCl sign envelope.
type SignatureVerifier struct{}

// NewSignatureVerifier constructs SignatureVerifier.
func NewSignatureVerifier() *SignatureVerifier {
	return &SignatureVerifier{}
}

// VerifySigner reports whether proof was produced by identity's key over proof.Message.
func (SignatureVerifier) VerifySigner(identity model.Address, proof model.Proof) bool {
	if identity.IsZero() || proof.Signer != identity {
		return false
	}
	if len(proof.Signature) != ed25519.SignatureSize {
		return false
	}
	signed := make([]byte, 0, len(proof.Signature)+len(proof.Message))
	signed = append(signed, proof.Signature...)
	signed = append(signed, proof.Message...)

	pub := [32]byte(identity)
	opened, ok := sign.Open(nil, signed, &pub)
	return ok && bytes.Equal(opened, proof.Message)
}

// Sign produces a detached proof for message with a NaCl private key.
func Sign(signer model.Address, key *[64]byte, message []byte) model.Proof {
	signed := sign.Sign(nil, message, key)
	return model.Proof{
		Signer:    signer,
		Message:   append([]byte(nil), message...),
		Signature: signed[:sign.Overhead],
	}
}
