package handlers

import (
	"context"

	"github.com/polkiloo/savingsvault/internal/domain/model"
	"github.com/polkiloo/savingsvault/internal/usecase"
)

// facadeStub is a configurable HTTP facade. Nil functions return empty successful results.
type facadeStub struct {
	OpenVaultFn         func(ctx context.Context, admin, mint model.Address, proof model.Proof) (*model.VaultAccount, bool, error)
	VaultsFn            func(ctx context.Context) ([]model.VaultAccount, error)
	VaultSummaryFn      func(ctx context.Context, vault model.Address) (*model.VaultSummary, error)
	AuditFn             func(ctx context.Context) ([]model.VaultSummary, error)
	VaultAccountsFn     func(ctx context.Context, vault model.Address) ([]model.UserAccount, error)
	AdminDepositFn      func(ctx context.Context, req usecase.AdminDeposit) (*model.Deposit, error)
	DepositsFn          func(ctx context.Context, vault model.Address) ([]model.Deposit, error)
	InitializeAccountFn func(ctx context.Context, owner, admin, mint model.Address, proof model.Proof) (*model.UserAccount, error)
	AccountFn           func(ctx context.Context, owner, admin, mint model.Address) (*model.UserAccount, error)
	HealthErr           error
}

func (s facadeStub) OpenVault(ctx context.Context, admin, mint model.Address, proof model.Proof) (*model.VaultAccount, bool, error) {
	if s.OpenVaultFn != nil {
		return s.OpenVaultFn(ctx, admin, mint, proof)
	}
	return &model.VaultAccount{Admin: admin, Mint: mint}, true, nil
}

func (s facadeStub) Vaults(ctx context.Context) ([]model.VaultAccount, error) {
	if s.VaultsFn != nil {
		return s.VaultsFn(ctx)
	}
	return nil, nil
}

func (s facadeStub) VaultSummary(ctx context.Context, vault model.Address) (*model.VaultSummary, error) {
	if s.VaultSummaryFn != nil {
		return s.VaultSummaryFn(ctx, vault)
	}
	return &model.VaultSummary{Vault: model.VaultAccount{Address: vault}}, nil
}

func (s facadeStub) Audit(ctx context.Context) ([]model.VaultSummary, error) {
	if s.AuditFn != nil {
		return s.AuditFn(ctx)
	}
	return nil, nil
}

func (s facadeStub) VaultAccounts(ctx context.Context, vault model.Address) ([]model.UserAccount, error) {
	if s.VaultAccountsFn != nil {
		return s.VaultAccountsFn(ctx, vault)
	}
	return nil, nil
}

func (s facadeStub) AdminDeposit(ctx context.Context, req usecase.AdminDeposit) (*model.Deposit, error) {
	if s.AdminDepositFn != nil {
		return s.AdminDepositFn(ctx, req)
	}
	return &model.Deposit{Vault: req.Vault, Admin: req.Admin, Source: req.Source, Amount: req.Amount, Status: model.DepositStatusCommitted}, nil
}

func (s facadeStub) Deposits(ctx context.Context, vault model.Address) ([]model.Deposit, error) {
	if s.DepositsFn != nil {
		return s.DepositsFn(ctx, vault)
	}
	return nil, nil
}

func (s facadeStub) InitializeAccount(ctx context.Context, owner, admin, mint model.Address, proof model.Proof) (*model.UserAccount, error) {
	if s.InitializeAccountFn != nil {
		return s.InitializeAccountFn(ctx, owner, admin, mint, proof)
	}
	return &model.UserAccount{Owner: owner, Mint: mint}, nil
}

func (s facadeStub) Account(ctx context.Context, owner, admin, mint model.Address) (*model.UserAccount, error) {
	if s.AccountFn != nil {
		return s.AccountFn(ctx, owner, admin, mint)
	}
	return &model.UserAccount{Owner: owner, Mint: mint}, nil
}

func (s facadeStub) HealthCheck(context.Context) error {
	return s.HealthErr
}
