package app

import (
	"context"

	"github.com/polkiloo/savingsvault/internal/domain/model"
	"github.com/polkiloo/savingsvault/internal/usecase"
)

// HealthChecker reports whether backing storage is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// VaultFacade is the single application surface used by HTTP handlers and the reconciler.
type VaultFacade struct {
	custodian *usecase.VaultCustodian
	registry  *usecase.AccountRegistry
	deposits  *usecase.DepositEngine
	health    HealthChecker
}

func NewVaultFacade(custodian *usecase.VaultCustodian, registry *usecase.AccountRegistry, deposits *usecase.DepositEngine, health HealthChecker) *VaultFacade {
	return &VaultFacade{custodian: custodian, registry: registry, deposits: deposits, health: health}
}

func (f *VaultFacade) OpenVault(ctx context.Context, admin, mint model.Address, proof model.Proof) (*model.VaultAccount, bool, error) {
	return f.custodian.OpenVault(ctx, admin, mint, proof)
}

// BootstrapVault opens the deployment admin's vault for mint when one is configured.
func (f *VaultFacade) BootstrapVault(ctx context.Context, mint model.Address) (*model.VaultAccount, bool, error) {
	return f.custodian.Bootstrap(ctx, mint)
}

func (f *VaultFacade) Vaults(ctx context.Context) ([]model.VaultAccount, error) {
	return f.custodian.Vaults(ctx)
}

func (f *VaultFacade) VaultSummary(ctx context.Context, vault model.Address) (*model.VaultSummary, error) {
	return f.custodian.Summary(ctx, vault)
}

func (f *VaultFacade) Audit(ctx context.Context) ([]model.VaultSummary, error) {
	return f.custodian.Audit(ctx)
}

func (f *VaultFacade) VaultAccounts(ctx context.Context, vault model.Address) ([]model.UserAccount, error) {
	return f.custodian.Accounts(ctx, vault)
}

func (f *VaultFacade) InitializeAccount(ctx context.Context, owner, admin, mint model.Address, proof model.Proof) (*model.UserAccount, error) {
	return f.registry.Initialize(ctx, owner, admin, mint, proof)
}

func (f *VaultFacade) Account(ctx context.Context, owner, admin, mint model.Address) (*model.UserAccount, error) {
	return f.registry.Account(ctx, owner, admin, mint)
}

func (f *VaultFacade) AdminDeposit(ctx context.Context, req usecase.AdminDeposit) (*model.Deposit, error) {
	return f.deposits.AdminDepositUSDC(ctx, req)
}

func (f *VaultFacade) Deposits(ctx context.Context, vault model.Address) ([]model.Deposit, error) {
	return f.deposits.Deposits(ctx, vault)
}

func (f *VaultFacade) HealthCheck(ctx context.Context) error {
	if f.health == nil {
		return nil
	}
	return f.health.HealthCheck(ctx)
}
