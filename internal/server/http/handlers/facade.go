package handlers

import (
	"context"

	"github.com/polkiloo/savingsvault/internal/domain/model"
	"github.com/polkiloo/savingsvault/internal/usecase"
)

// VaultFacade exposes vault custody operations over HTTP.
type VaultFacade interface {
	OpenVault(ctx context.Context, admin, mint model.Address, proof model.Proof) (*model.VaultAccount, bool, error)
	Vaults(ctx context.Context) ([]model.VaultAccount, error)
	VaultSummary(ctx context.Context, vault model.Address) (*model.VaultSummary, error)
	Audit(ctx context.Context) ([]model.VaultSummary, error)
	VaultAccounts(ctx context.Context, vault model.Address) ([]model.UserAccount, error)
}

// DepositFacade provides admin deposits and the deposit journal.
type DepositFacade interface {
	AdminDeposit(ctx context.Context, req usecase.AdminDeposit) (*model.Deposit, error)
	Deposits(ctx context.Context, vault model.Address) ([]model.Deposit, error)
}

// AccountFacade provides user entitlement records.
type AccountFacade interface {
	InitializeAccount(ctx context.Context, owner, admin, mint model.Address, proof model.Proof) (*model.UserAccount, error)
	Account(ctx context.Context, owner, admin, mint model.Address) (*model.UserAccount, error)
}

// HealthFacade reports readiness of backing services.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// SavingsFacade aggregates the full set of operations used across handlers.
type SavingsFacade interface {
	VaultFacade
	DepositFacade
	AccountFacade
	HealthFacade
}
