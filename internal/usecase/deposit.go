package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/savingsvault/internal/domain/errors"
	"github.com/polkiloo/savingsvault/internal/domain/model"
	"github.com/polkiloo/savingsvault/internal/domain/repository"
	"github.com/polkiloo/savingsvault/internal/pkg/auth"
)

// DepositObserver is notified about the outcome of every deposit request.
type DepositObserver interface {
	DepositCommitted(deposit *model.Deposit)
	DepositRejected(err error)
}

// AdminDeposit describes a request to fund a vault from the admin's own holding.
type AdminDeposit struct {
	Amount uint64
	Admin  model.Address
	Source model.Address
	Vault  model.Address
	Nonce  string
	Proof  model.Proof
}

// DepositIntent is the statement an admin signs to authorize exactly one deposit.
// Its JSON encoding is what Proof.Message must carry.
type DepositIntent struct {
	Vault  model.Address `json:"vault"`
	Admin  model.Address `json:"admin"`
	Source model.Address `json:"source"`
	Amount uint64        `json:"amount"`
	Nonce  string        `json:"nonce"`
}

// Intent returns the statement the admin has to sign for r.
func (r AdminDeposit) Intent() DepositIntent {
	return DepositIntent{Vault: r.Vault, Admin: r.Admin, Source: r.Source, Amount: r.Amount, Nonce: r.Nonce}
}

// Message encodes the intent for signing.
func (i DepositIntent) Message() []byte {
	// Addresses marshal as base58 text, which never fails.
	msg, _ := json.Marshal(i)
	return msg
}

// signedIntent reports whether proof carries exactly the given intent.
func signedIntent(proof model.Proof, want DepositIntent) bool {
	var got DepositIntent
	if err := json.Unmarshal(proof.Message, &got); err != nil {
		return false
	}
	return got == want
}

// DepositEngine validates and commits admin deposits into vaults.
type DepositEngine struct {
	vaults   repository.VaultRepository
	ledger   repository.Ledger
	deposits repository.DepositRepository
	verifier auth.Verifier
	observer DepositObserver
	logger   *slog.Logger
}

// NewDepositEngine constructs DepositEngine.
func NewDepositEngine(vaults repository.VaultRepository, ledger repository.Ledger, deposits repository.DepositRepository, verifier auth.Verifier, observer DepositObserver, logger *slog.Logger) *DepositEngine {
	return &DepositEngine{
		vaults:   vaults,
		ledger:   ledger,
		deposits: deposits,
		verifier: verifier,
		observer: observer,
		logger:   logger,
	}
}

// AdminDepositUSDC moves req.Amount from the admin's holding into the vault holding and credits
// the vault reserve. Either every balance changes or none does.
func (e *DepositEngine) AdminDepositUSDC(ctx context.Context, req AdminDeposit) (*model.Deposit, error) {
	deposit := &model.Deposit{
		ID:     uuid.New(),
		Vault:  req.Vault,
		Admin:  req.Admin,
		Source: req.Source,
		Amount: req.Amount,
		Nonce:  req.Nonce,
		Status: model.DepositStatusRequested,
	}

	vault, err := e.validate(ctx, req)
	if err != nil {
		return nil, e.reject(deposit, err)
	}
	deposit.Status = model.DepositStatusValidated

	committed, err := e.deposits.Commit(ctx, deposit, vault.Holding)
	if err != nil {
		return nil, e.reject(deposit, err)
	}

	e.logger.Info("admin deposit committed",
		slog.String("deposit", committed.ID.String()),
		slog.String("vault", committed.Vault.String()),
		slog.String("source", committed.Source.String()),
		slog.Uint64("amount", committed.Amount),
	)
	if e.observer != nil {
		e.observer.DepositCommitted(committed)
	}
	return committed, nil
}

func (e *DepositEngine) validate(ctx context.Context, req AdminDeposit) (*model.VaultAccount, error) {
	if req.Amount == 0 || req.Amount > math.MaxInt64 {
		return nil, domainErrors.ErrInvalidAmount
	}
	if req.Nonce == "" {
		return nil, domainErrors.ErrNonceRequired
	}
	if !e.verifier.VerifySigner(req.Admin, req.Proof) || !signedIntent(req.Proof, req.Intent()) {
		return nil, domainErrors.ErrInvalidProof
	}

	vault, err := e.vaults.GetByAddress(ctx, req.Vault)
	if err != nil {
		return nil, err
	}
	if !vault.IsAdmin(req.Admin) {
		return nil, domainErrors.ErrUnauthorized
	}

	source, err := e.ledger.Holding(ctx, req.Source)
	if err != nil {
		return nil, asInvalidAccount(err)
	}
	if source.Owner != req.Admin || source.Address == vault.Holding {
		return nil, domainErrors.ErrInvalidAccount
	}
	if source.Mint != vault.Mint {
		return nil, domainErrors.ErrMintMismatch
	}
	return vault, nil
}

func (e *DepositEngine) reject(deposit *model.Deposit, err error) error {
	deposit.Status = model.DepositStatusRejected
	e.logger.Warn("admin deposit rejected",
		slog.String("deposit", deposit.ID.String()),
		slog.String("vault", deposit.Vault.String()),
		slog.Uint64("amount", deposit.Amount),
		slog.String("error", err.Error()),
	)
	if e.observer != nil {
		e.observer.DepositRejected(err)
	}
	return err
}

// Deposits returns the vault's deposit journal, newest first.
func (e *DepositEngine) Deposits(ctx context.Context, vault model.Address) ([]model.Deposit, error) {
	if _, err := e.vaults.GetByAddress(ctx, vault); err != nil {
		return nil, err
	}
	return e.deposits.ListByVault(ctx, vault)
}

// asInvalidAccount reports a missing ledger holding as an invalid account rather than a state error.
func asInvalidAccount(err error) error {
	if errors.Is(err, domainErrors.ErrNotFound) {
		return domainErrors.ErrInvalidAccount
	}
	return err
}
