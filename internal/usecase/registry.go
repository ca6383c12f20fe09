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

// AccountRegistry creates and looks up per-owner entitlement records.
type AccountRegistry struct {
	accounts  repository.UserAccountRepository
	ledger    repository.Ledger
	custodian *VaultCustodian
	deriver   *pda.Deriver
	verifier  auth.Verifier
	logger    *slog.Logger
}

// NewAccountRegistry constructs AccountRegistry.
func NewAccountRegistry(accounts repository.UserAccountRepository, ledger repository.Ledger, custodian *VaultCustodian, deriver *pda.Deriver, verifier auth.Verifier, logger *slog.Logger) *AccountRegistry {
	return &AccountRegistry{
		accounts:  accounts,
		ledger:    ledger,
		custodian: custodian,
		deriver:   deriver,
		verifier:  verifier,
		logger:    logger,
	}
}

// Initialize registers owner against the vault of admin and mint with a zero balance.
// The vault and the owner's token holding are created when absent.
func (r *AccountRegistry) Initialize(ctx context.Context, owner, admin, mint model.Address, proof model.Proof) (*model.UserAccount, error) {
	if owner.IsZero() {
		return nil, domainErrors.ErrInvalidAccount
	}
	if !r.verifier.VerifySigner(owner, proof) {
		return nil, domainErrors.ErrInvalidProof
	}

	vault, _, err := r.custodian.ensureVault(ctx, admin, mint)
	if err != nil {
		return nil, err
	}

	address, bump, err := r.deriver.UserAccount(owner, vault.Address)
	if err != nil {
		return nil, fmt.Errorf("derive user account: %w", err)
	}
	holdingAddress, err := r.deriver.Holding(owner, mint)
	if err != nil {
		return nil, fmt.Errorf("derive user holding: %w", err)
	}
	holding, _, err := r.ledger.CreateHoldingAccount(ctx, model.Holding{Address: holdingAddress, Owner: owner, Mint: mint})
	if err != nil {
		return nil, err
	}

	account, err := r.accounts.Create(ctx, &model.UserAccount{
		Address: address,
		Owner:   owner,
		Vault:   vault.Address,
		Mint:    mint,
		Holding: holding.Address,
		Bump:    bump,
	})
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, domainErrors.ErrAccountAlreadyExists
		}
		return nil, err
	}

	r.logger.Info("account initialized",
		slog.String("account", account.Address.String()),
		slog.String("owner", owner.String()),
		slog.String("vault", vault.Address.String()),
	)
	return account, nil
}

// Account returns the entitlement record of owner in the vault of admin and mint.
func (r *AccountRegistry) Account(ctx context.Context, owner, admin, mint model.Address) (*model.UserAccount, error) {
	vault, _, err := r.deriver.Vault(admin, mint)
	if err != nil {
		return nil, err
	}
	return r.accounts.GetByOwner(ctx, owner, vault)
}
