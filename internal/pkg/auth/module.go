package auth

import "go.uber.org/fx"

// Module provides signer verification via fx.
var Module = fx.Provide(newVerifier)

func newVerifier() Verifier {
	return NewSignatureVerifier()
}
