package dto

import (
	"time"

	"github.com/polkiloo/savingsvault/internal/domain/model"
)

// InitializeAccountRequest registers owner against the vault of admin and mint.
type InitializeAccountRequest struct {
	Owner model.Address `json:"owner" binding:"required"`
	Admin model.Address `json:"admin" binding:"required"`
	Mint  model.Address `json:"mint" binding:"required"`
}

// AccountResponse describes a user entitlement record.
type AccountResponse struct {
	Address   model.Address `json:"address"`
	Owner     model.Address `json:"owner"`
	Vault     model.Address `json:"vault"`
	Mint      model.Address `json:"mint"`
	Holding   model.Address `json:"holding"`
	Balance   uint64        `json:"balance"`
	Bump      uint8         `json:"bump"`
	CreatedAt time.Time     `json:"created_at"`
}
