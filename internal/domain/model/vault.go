package model

import "time"

// VaultAccount is the pooled custody account for one admin and one mint.
// Authority is the program-derived identity that owns Holding.
type VaultAccount struct {
	Address   Address
	Admin     Address
	Mint      Address
	Authority Address
	Holding   Address
	Bump      uint8
	Reserve   uint64
	CreatedAt time.Time
}

// IsAdmin reports whether identity holds the admin role for the vault.
func (v *VaultAccount) IsAdmin(identity Address) bool {
	return v != nil && !identity.IsZero() && v.Admin == identity
}

// VaultSummary compares the vault's ledger balance with the claims recorded against it.
type VaultSummary struct {
	Vault         VaultAccount
	LedgerBalance uint64
	UserClaims    uint64
	Accounts      int64
}

// Claims is the total recognized entitlement against the vault.
func (s VaultSummary) Claims() uint64 {
	return s.Vault.Reserve + s.UserClaims
}

// Drift is ledger balance minus claims; zero when the books balance.
func (s VaultSummary) Drift() int64 {
	return int64(s.LedgerBalance) - int64(s.Claims())
}

// Balanced reports whether the conservation invariant holds.
func (s VaultSummary) Balanced() bool {
	return s.LedgerBalance == s.Claims()
}
