package test

import (
	"crypto/rand"
	"sync"

	"golang.org/x/crypto/nacl/sign"

	"github.com/polkiloo/savingsvault/internal/domain/model"
	"github.com/polkiloo/savingsvault/internal/pkg/auth"
)

// Signer is a throwaway ed25519 identity for tests.
type Signer struct {
	Identity model.Address
	key      *[64]byte
}

// NewSigner generates a fresh identity.
func NewSigner() Signer {
	pub, priv, err := sign.GenerateKey(rand.Reader)
	if err != nil {
		panic(err)
	}
	return Signer{Identity: model.Address(*pub), key: priv}
}

// Sign returns a proof over message.
func (s Signer) Sign(message []byte) model.Proof {
	return auth.Sign(s.Identity, s.key, message)
}

// Prove returns a proof over a fixed message; use it where the message content is irrelevant.
func (s Signer) Prove() model.Proof {
	return s.Sign([]byte("test operation"))
}

// VerifierStub accepts every proof whose signer matches the identity unless Deny is set.
type VerifierStub struct {
	Deny bool
}

// VerifySigner implements auth.Verifier.
func (v VerifierStub) VerifySigner(identity model.Address, proof model.Proof) bool {
	return !v.Deny && !identity.IsZero() && proof.Signer == identity
}

// ObserverStub records deposit outcomes.
type ObserverStub struct {
	mu        sync.Mutex
	Committed []model.Deposit
	Rejected  []error
}

// DepositCommitted records committed deposit.
func (o *ObserverStub) DepositCommitted(d *model.Deposit) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Committed = append(o.Committed, *d)
}

// DepositRejected records rejection reason.
func (o *ObserverStub) DepositRejected(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Rejected = append(o.Rejected, err)
}

var _ auth.Verifier = VerifierStub{}
