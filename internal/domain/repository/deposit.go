package repository

import (
	"context"

	"github.com/polkiloo/savingsvault/internal/domain/model"
)

// DepositRepository commits admin deposits and exposes their journal.
type DepositRepository interface {
	// Commit moves funds from deposit.Source into the vault holding, credits the vault reserve
	// and appends the journal entry inside one transaction.
	Commit(ctx context.Context, deposit *model.Deposit, vaultHolding model.Address) (*model.Deposit, error)
	ListByVault(ctx context.Context, vault model.Address) ([]model.Deposit, error)
}
