package errors

import "errors"

// Error categories. Every concrete error below matches exactly one of them via errors.Is.
var (
	ErrAuthorization = errors.New("authorization error")
	ErrState         = errors.New("state error")
	ErrFunds         = errors.New("funds error")
	ErrDerivation    = errors.New("derivation error")
)

var (
	ErrUnauthorized         = categorized(ErrAuthorization, "unauthorized")
	ErrInvalidProof         = categorized(ErrAuthorization, "invalid signer proof")
	ErrAlreadyExists        = categorized(ErrState, "already exists")
	ErrAccountAlreadyExists = categorized(ErrState, "account already exists")
	ErrNotFound             = categorized(ErrState, "not found")
	ErrNonceRequired        = categorized(ErrState, "nonce required")
	ErrInsufficientFunds    = categorized(ErrFunds, "insufficient funds")
	ErrInvalidAccount       = categorized(ErrFunds, "invalid account")
	ErrMintMismatch         = categorized(ErrFunds, "mint mismatch")
	ErrInvalidAmount        = categorized(ErrFunds, "invalid amount")
	ErrSeedTooLong          = categorized(ErrDerivation, "seed too long")
	ErrTooManySeeds         = categorized(ErrDerivation, "too many seeds")
	ErrDerivationExhausted  = categorized(ErrDerivation, "derivation exhausted")
)

type categoryError struct {
	category error
	msg      string
}

func categorized(category error, msg string) error {
	return &categoryError{category: category, msg: msg}
}

func (e *categoryError) Error() string { return e.msg }

func (e *categoryError) Is(target error) bool {
	return target == e.category
}
