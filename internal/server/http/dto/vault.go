package dto

import (
	"time"

	"github.com/polkiloo/savingsvault/internal/domain/model"
)

// OpenVaultRequest describes the payload for opening a vault.
type OpenVaultRequest struct {
	Admin model.Address `json:"admin" binding:"required"`
	Mint  model.Address `json:"mint" binding:"required"`
}

// VaultResponse describes a vault account.
type VaultResponse struct {
	Address   model.Address `json:"address"`
	Admin     model.Address `json:"admin"`
	Mint      model.Address `json:"mint"`
	Authority model.Address `json:"authority"`
	Holding   model.Address `json:"holding"`
	Bump      uint8         `json:"bump"`
	Reserve   uint64        `json:"reserve"`
	CreatedAt time.Time     `json:"created_at"`
}

// VaultSummaryResponse compares the vault's ledger balance with recorded claims.
type VaultSummaryResponse struct {
	Vault         VaultResponse `json:"vault"`
	LedgerBalance uint64        `json:"ledger_balance"`
	Reserve       uint64        `json:"reserve"`
	UserClaims    uint64        `json:"user_claims"`
	Accounts      int64         `json:"accounts"`
	Drift         int64         `json:"drift"`
	Balanced      bool          `json:"balanced"`
}

// ErrorResponse carries a client-facing error message.
type ErrorResponse struct {
	Error string `json:"error"`
}
