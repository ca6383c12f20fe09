package repository

import (
	"context"

	"github.com/polkiloo/savingsvault/internal/domain/model"
)

// Ledger is the token-ledger collaborator. Every call succeeds or fails atomically.
type Ledger interface {
	// CreateHoldingAccount is idempotent: an existing holding is returned with created=false.
	CreateHoldingAccount(ctx context.Context, holding model.Holding) (*model.Holding, bool, error)
	Holding(ctx context.Context, address model.Address) (*model.Holding, error)
	Balance(ctx context.Context, address model.Address) (uint64, error)
	Transfer(ctx context.Context, transfer model.Transfer) error
}
