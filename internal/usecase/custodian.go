package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domainErrors "github.com/polkiloo/savingsvault/internal/domain/errors"
	"github.com/polkiloo/savingsvault/internal/domain/model"
	"github.com/polkiloo/savingsvault/internal/domain/repository"
	"github.com/polkiloo/savingsvault/internal/pkg/auth"
	"github.com/polkiloo/savingsvault/internal/pkg/pda"
)

// VaultCustodian owns pooled vaults. Vault holdings belong to the derived vault authority,
// so the ledger refuses any transfer out of them that is not issued by the program.
type VaultCustodian struct {
	vaults   repository.VaultRepository
	accounts repository.UserAccountRepository
	ledger   repository.Ledger
	deriver  *pda.Deriver
	verifier auth.Verifier
	admin    model.Address
	logger   *slog.Logger
}

// CustodianParams groups VaultCustodian dependencies.
type CustodianParams struct {
	Vaults   repository.VaultRepository
	Accounts repository.UserAccountRepository
	Ledger   repository.Ledger
	Deriver  *pda.Deriver
	Verifier auth.Verifier
	// Admin restricts vault creation to a single deployment admin when non-zero.
	Admin  model.Address
	Logger *slog.Logger
}

// NewVaultCustodian constructs VaultCustodian.
func NewVaultCustodian(p CustodianParams) *VaultCustodian {
	return &VaultCustodian{
		vaults:   p.Vaults,
		accounts: p.Accounts,
		ledger:   p.Ledger,
		deriver:  p.Deriver,
		verifier: p.Verifier,
		admin:    p.Admin,
		logger:   p.Logger,
	}
}

// OpenVault creates the vault for admin and mint unless it already exists.
func (c *VaultCustodian) OpenVault(ctx context.Context, admin, mint model.Address, proof model.Proof) (*model.VaultAccount, bool, error) {
	if !c.verifier.VerifySigner(admin, proof) {
		return nil, false, domainErrors.ErrInvalidProof
	}
	return c.ensureVault(ctx, admin, mint)
}

// Bootstrap opens the configured deployment admin's vault for mint without a signed request.
// It returns a nil vault when no deployment admin or mint is configured.
func (c *VaultCustodian) Bootstrap(ctx context.Context, mint model.Address) (*model.VaultAccount, bool, error) {
	if c.admin.IsZero() || mint.IsZero() {
		return nil, false, nil
	}
	return c.ensureVault(ctx, c.admin, mint)
}

func (c *VaultCustodian) ensureVault(ctx context.Context, admin, mint model.Address) (*model.VaultAccount, bool, error) {
	if admin.IsZero() || mint.IsZero() {
		return nil, false, domainErrors.ErrInvalidAccount
	}
	if !c.admin.IsZero() && admin != c.admin {
		return nil, false, domainErrors.ErrUnauthorized
	}

	address, bump, err := c.deriver.Vault(admin, mint)
	if err != nil {
		return nil, false, fmt.Errorf("derive vault: %w", err)
	}
	holdingAddress, err := c.deriver.Holding(address, mint)
	if err != nil {
		return nil, false, fmt.Errorf("derive vault holding: %w", err)
	}

	holding, _, err := c.ledger.CreateHoldingAccount(ctx, model.Holding{Address: holdingAddress, Owner: address, Mint: mint})
	if err != nil {
		return nil, false, err
	}

	vault, created, err := c.vaults.CreateIfAbsent(ctx, &model.VaultAccount{
		Address:   address,
		Admin:     admin,
		Mint:      mint,
		Authority: address,
		Holding:   holding.Address,
		Bump:      bump,
	})
	if err != nil {
		return nil, false, err
	}
	if created {
		c.logger.Info("vault opened",
			slog.String("vault", vault.Address.String()),
			slog.String("admin", admin.String()),
			slog.String("mint", mint.String()),
			slog.Int("bump", int(bump)),
		)
	}
	return vault, created, nil
}

// Vault returns stored vault by address.
func (c *VaultCustodian) Vault(ctx context.Context, address model.Address) (*model.VaultAccount, error) {
	return c.vaults.GetByAddress(ctx, address)
}

// Vaults lists every stored vault.
func (c *VaultCustodian) Vaults(ctx context.Context) ([]model.VaultAccount, error) {
	return c.vaults.List(ctx)
}

// Summary compares the vault's ledger balance with the claims held against it.
func (c *VaultCustodian) Summary(ctx context.Context, address model.Address) (*model.VaultSummary, error) {
	vault, err := c.vaults.GetByAddress(ctx, address)
	if err != nil {
		return nil, err
	}
	return c.summarize(ctx, vault)
}

func (c *VaultCustodian) summarize(ctx context.Context, vault *model.VaultAccount) (*model.VaultSummary, error) {
	balance, err := c.ledger.Balance(ctx, vault.Holding)
	if err != nil {
		return nil, err
	}
	claims, count, err := c.accounts.SumByVault(ctx, vault.Address)
	if err != nil {
		return nil, err
	}
	return &model.VaultSummary{Vault: *vault, LedgerBalance: balance, UserClaims: claims, Accounts: count}, nil
}

// Accounts lists entitlement records held against the vault.
func (c *VaultCustodian) Accounts(ctx context.Context, address model.Address) ([]model.UserAccount, error) {
	if _, err := c.vaults.GetByAddress(ctx, address); err != nil {
		return nil, err
	}
	return c.accounts.ListByVault(ctx, address)
}

// Audit summarizes every vault. A vault that cannot be summarized is skipped and its error joined.
func (c *VaultCustodian) Audit(ctx context.Context) ([]model.VaultSummary, error) {
	vaults, err := c.vaults.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]model.VaultSummary, 0, len(vaults))
	var errs []error
	for i := range vaults {
		summary, err := c.summarize(ctx, &vaults[i])
		if err != nil {
			errs = append(errs, fmt.Errorf("vault %s: %w", vaults[i].Address, err))
			continue
		}
		result = append(result, *summary)
	}
	return result, errors.Join(errs...)
}
