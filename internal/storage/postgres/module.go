package postgres

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/savingsvault/internal/config"
	"github.com/polkiloo/savingsvault/internal/domain/repository"
)

// Module wires PostgreSQL storage and the ledger, vault, account and deposit repositories.
var Module = fx.Options(
	fx.Provide(newStorage),
	fx.Provide(
		func(s *Storage) repository.Factory { return s },
		func(s *Storage) repository.Ledger { return s.Ledger() },
		func(s *Storage) repository.VaultRepository { return s.Vaults() },
		func(s *Storage) repository.UserAccountRepository { return s.Accounts() },
		func(s *Storage) repository.DepositRepository { return s.Deposits() },
	),
	fx.Invoke(registerLifecycle),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStorage(p storageParams) (*Storage, error) {
	return New(p.Ctx, p.Config.DatabaseURI, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, storage *Storage) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			storage.Close()
			return nil
		},
	})
}
