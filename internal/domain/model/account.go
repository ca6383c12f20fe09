package model

import "time"

// UserAccount is the per-owner entitlement record held against one vault.
type UserAccount struct {
	Address   Address
	Owner     Address
	Vault     Address
	Mint      Address
	Holding   Address
	Balance   uint64
	Bump      uint8
	CreatedAt time.Time
}
