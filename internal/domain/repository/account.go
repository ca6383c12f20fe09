package repository

import (
	"context"

	"github.com/polkiloo/savingsvault/internal/domain/model"
)

// UserAccountRepository describes persistence operations for user entitlement records.
type UserAccountRepository interface {
	Create(ctx context.Context, account *model.UserAccount) (*model.UserAccount, error)
	GetByOwner(ctx context.Context, owner, vault model.Address) (*model.UserAccount, error)
	ListByVault(ctx context.Context, vault model.Address) ([]model.UserAccount, error)
	// SumByVault returns the total entitlement and number of accounts held against vault.
	SumByVault(ctx context.Context, vault model.Address) (uint64, int64, error)
}
