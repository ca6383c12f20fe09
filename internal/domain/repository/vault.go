package repository

import (
	"context"

	"github.com/polkiloo/savingsvault/internal/domain/model"
)

// VaultRepository manages pooled custody accounts.
type VaultRepository interface {
	// CreateIfAbsent stores vault unless a record with the same address exists; it reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, vault *model.VaultAccount) (*model.VaultAccount, bool, error)
	GetByAddress(ctx context.Context, address model.Address) (*model.VaultAccount, error)
	List(ctx context.Context) ([]model.VaultAccount, error)
}
