package dto

import (
	"time"

	"github.com/polkiloo/savingsvault/internal/domain/model"
)

// AdminDepositRequest moves Amount from the admin's Source holding into Vault.
// The signed request body is the deposit intent, so Vault must repeat the path vault.
type AdminDepositRequest struct {
	Vault  model.Address `json:"vault" binding:"required"`
	Admin  model.Address `json:"admin" binding:"required"`
	Source model.Address `json:"source" binding:"required"`
	Amount uint64        `json:"amount"`
	Nonce  string        `json:"nonce" binding:"required"`
}

// DepositResponse describes a deposit journal entry.
type DepositResponse struct {
	ID          string        `json:"id"`
	Vault       model.Address `json:"vault"`
	Admin       model.Address `json:"admin"`
	Source      model.Address `json:"source"`
	Amount      uint64        `json:"amount"`
	Nonce       string        `json:"nonce,omitempty"`
	Status      string        `json:"status"`
	CommittedAt time.Time     `json:"committed_at"`
}
