package model

// Proof carries a signer's claim that it authorized Message.
type Proof struct {
	Signer    Address
	Message   []byte
	Signature []byte
}
