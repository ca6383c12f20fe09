package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/savingsvault/internal/config"
	"github.com/polkiloo/savingsvault/internal/domain/repository"
	"github.com/polkiloo/savingsvault/internal/pkg/auth"
	"github.com/polkiloo/savingsvault/internal/pkg/pda"
)

// Module provides core vault use cases to the fx container.
var Module = fx.Provide(
	newDeriver,
	newVaultCustodian,
	NewAccountRegistry,
	NewDepositEngine,
)

func newDeriver(cfg *config.Config) *pda.Deriver {
	return pda.NewDeriver(cfg.ProgramID, cfg.LedgerProgramID)
}

type custodianParams struct {
	fx.In

	Config   *config.Config
	Vaults   repository.VaultRepository
	Accounts repository.UserAccountRepository
	Ledger   repository.Ledger
	Deriver  *pda.Deriver
	Verifier auth.Verifier
	Logger   *slog.Logger
}

func newVaultCustodian(p custodianParams) *VaultCustodian {
	return NewVaultCustodian(CustodianParams{
		Vaults:   p.Vaults,
		Accounts: p.Accounts,
		Ledger:   p.Ledger,
		Deriver:  p.Deriver,
		Verifier: p.Verifier,
		Admin:    p.Config.AdminIdentity,
		Logger:   p.Logger,
	})
}
