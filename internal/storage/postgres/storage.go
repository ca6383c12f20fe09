package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/savingsvault/internal/domain/errors"
	"github.com/polkiloo/savingsvault/internal/domain/model"
	"github.com/polkiloo/savingsvault/internal/domain/repository"
)

const uniqueViolation = "23505"

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type ledgerRepository struct {
	storage *Storage
}

type vaultRepository struct {
	storage *Storage
}

type accountRepository struct {
	storage *Storage
}

type depositRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Debug("storage schema ready")

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Ledger() repository.Ledger {
	return &ledgerRepository{storage: s}
}

func (s *Storage) Vaults() repository.VaultRepository {
	return &vaultRepository{storage: s}
}

func (s *Storage) Accounts() repository.UserAccountRepository {
	return &accountRepository{storage: s}
}

func (s *Storage) Deposits() repository.DepositRepository {
	return &depositRepository{storage: s}
}

var _ repository.Factory = (*Storage)(nil)

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS holdings (
            address TEXT PRIMARY KEY,
            owner TEXT NOT NULL,
            mint TEXT NOT NULL,
            amount BIGINT NOT NULL DEFAULT 0 CHECK (amount >= 0),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS vaults (
            address TEXT PRIMARY KEY,
            admin TEXT NOT NULL,
            mint TEXT NOT NULL,
            authority TEXT NOT NULL,
            holding TEXT NOT NULL REFERENCES holdings(address),
            bump SMALLINT NOT NULL,
            reserve BIGINT NOT NULL DEFAULT 0 CHECK (reserve >= 0),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE (admin, mint)
        )`,
		`CREATE TABLE IF NOT EXISTS user_accounts (
            address TEXT PRIMARY KEY,
            owner TEXT NOT NULL,
            vault TEXT NOT NULL REFERENCES vaults(address),
            mint TEXT NOT NULL,
            holding TEXT NOT NULL REFERENCES holdings(address),
            balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
            bump SMALLINT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE (owner, vault)
        )`,
		`CREATE TABLE IF NOT EXISTS deposits (
            id UUID PRIMARY KEY,
            vault TEXT NOT NULL REFERENCES vaults(address),
            admin TEXT NOT NULL,
            source TEXT NOT NULL,
            amount BIGINT NOT NULL CHECK (amount > 0),
            nonce TEXT NOT NULL CHECK (nonce <> ''),
            committed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_user_accounts_vault ON user_accounts(vault)`,
		`CREATE INDEX IF NOT EXISTS idx_deposits_vault ON deposits(vault, committed_at DESC)`,
		`DROP INDEX IF EXISTS idx_deposits_nonce`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_deposits_admin_nonce ON deposits(admin, nonce)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// decodeAddresses parses base58 columns into their destinations pairwise.
func decodeAddresses(values []string, targets ...*model.Address) error {
	for i, value := range values {
		addr, err := model.ParseAddress(value)
		if err != nil {
			return fmt.Errorf("decode address column %q: %w", value, err)
		}
		*targets[i] = addr
	}
	return nil
}

// --- Ledger implementation ---

func (r *ledgerRepository) CreateHoldingAccount(ctx context.Context, holding model.Holding) (*model.Holding, bool, error) {
	const query = `INSERT INTO holdings (address, owner, mint) VALUES ($1, $2, $3)
                   ON CONFLICT (address) DO NOTHING
                   RETURNING amount`
	var amount int64
	err := r.storage.pool.QueryRow(ctx, query, holding.Address.String(), holding.Owner.String(), holding.Mint.String()).Scan(&amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			existing, err := r.Holding(ctx, holding.Address)
			if err != nil {
				return nil, false, err
			}
			if existing.Owner != holding.Owner || existing.Mint != holding.Mint {
				return nil, false, domainErrors.ErrInvalidAccount
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	created := model.Holding{Address: holding.Address, Owner: holding.Owner, Mint: holding.Mint, Amount: uint64(amount)}
	return &created, true, nil
}

func (r *ledgerRepository) Holding(ctx context.Context, address model.Address) (*model.Holding, error) {
	const query = `SELECT address, owner, mint, amount FROM holdings WHERE address=$1`
	var (
		addr, owner, mint string
		amount            int64
	)
	err := r.storage.pool.QueryRow(ctx, query, address.String()).Scan(&addr, &owner, &mint, &amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	var h model.Holding
	if err := decodeAddresses([]string{addr, owner, mint}, &h.Address, &h.Owner, &h.Mint); err != nil {
		return nil, err
	}
	h.Amount = uint64(amount)
	return &h, nil
}

func (r *ledgerRepository) Balance(ctx context.Context, address model.Address) (uint64, error) {
	const query = `SELECT amount FROM holdings WHERE address=$1`
	var amount int64
	err := r.storage.pool.QueryRow(ctx, query, address.String()).Scan(&amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domainErrors.ErrNotFound
		}
		return 0, err
	}
	return uint64(amount), nil
}

func (r *ledgerRepository) Transfer(ctx context.Context, transfer model.Transfer) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		return r.storage.transferTx(ctx, tx, transfer)
	})
}

// transferTx locks both holdings in address order, checks the transfer policy and moves the amount
// with relative updates.
func (s *Storage) transferTx(ctx context.Context, tx pgx.Tx, t model.Transfer) error {
	if t.Amount == 0 || t.Amount > math.MaxInt64 {
		return domainErrors.ErrInvalidAmount
	}
	if t.Source == t.Destination {
		return domainErrors.ErrInvalidAccount
	}

	const lockQuery = `SELECT address, owner, mint, amount FROM holdings
                       WHERE address = ANY($1) ORDER BY address FOR UPDATE`
	rows, err := tx.Query(ctx, lockQuery, []string{t.Source.String(), t.Destination.String()})
	if err != nil {
		return err
	}
	defer rows.Close()

	locked := make(map[model.Address]model.Holding, 2)
	for rows.Next() {
		var (
			addr, owner, mint string
			amount            int64
		)
		if err := rows.Scan(&addr, &owner, &mint, &amount); err != nil {
			return err
		}
		var h model.Holding
		if err := decodeAddresses([]string{addr, owner, mint}, &h.Address, &h.Owner, &h.Mint); err != nil {
			return err
		}
		h.Amount = uint64(amount)
		locked[h.Address] = h
	}
	if err := rows.Err(); err != nil {
		return err
	}

	src, ok := locked[t.Source]
	if !ok {
		return domainErrors.ErrInvalidAccount
	}
	dst, ok := locked[t.Destination]
	if !ok {
		return domainErrors.ErrInvalidAccount
	}
	if t.Authority != src.Owner {
		return domainErrors.ErrUnauthorized
	}
	if src.Mint != dst.Mint {
		return domainErrors.ErrMintMismatch
	}
	if src.Amount < t.Amount {
		return domainErrors.ErrInsufficientFunds
	}
	if dst.Amount > math.MaxInt64-t.Amount {
		return domainErrors.ErrInvalidAmount
	}

	amount := int64(t.Amount)
	if _, err := tx.Exec(ctx, `UPDATE holdings SET amount = amount - $2 WHERE address=$1`, t.Source.String(), amount); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE holdings SET amount = amount + $2 WHERE address=$1`, t.Destination.String(), amount); err != nil {
		return err
	}
	return nil
}

// --- VaultRepository implementation ---

const vaultColumns = `address, admin, mint, authority, holding, bump, reserve, created_at`

func scanVault(row pgx.Row) (*model.VaultAccount, error) {
	var (
		addr, admin, mint, authority, holding string
		bump                                  int16
		reserve                               int64
		createdAt                             time.Time
	)
	if err := row.Scan(&addr, &admin, &mint, &authority, &holding, &bump, &reserve, &createdAt); err != nil {
		return nil, err
	}
	var v model.VaultAccount
	if err := decodeAddresses([]string{addr, admin, mint, authority, holding}, &v.Address, &v.Admin, &v.Mint, &v.Authority, &v.Holding); err != nil {
		return nil, err
	}
	v.Bump = uint8(bump)
	v.Reserve = uint64(reserve)
	v.CreatedAt = createdAt
	return &v, nil
}

func (r *vaultRepository) CreateIfAbsent(ctx context.Context, vault *model.VaultAccount) (*model.VaultAccount, bool, error) {
	const query = `INSERT INTO vaults (address, admin, mint, authority, holding, bump) VALUES ($1, $2, $3, $4, $5, $6)
                   ON CONFLICT (address) DO NOTHING
                   RETURNING reserve, created_at`
	var (
		reserve   int64
		createdAt time.Time
	)
	err := r.storage.pool.QueryRow(ctx, query,
		vault.Address.String(), vault.Admin.String(), vault.Mint.String(),
		vault.Authority.String(), vault.Holding.String(), int16(vault.Bump),
	).Scan(&reserve, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			existing, err := r.GetByAddress(ctx, vault.Address)
			if err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		if isUniqueViolation(err) {
			return nil, false, domainErrors.ErrAlreadyExists
		}
		return nil, false, err
	}
	created := *vault
	created.Reserve = uint64(reserve)
	created.CreatedAt = createdAt
	return &created, true, nil
}

func (r *vaultRepository) GetByAddress(ctx context.Context, address model.Address) (*model.VaultAccount, error) {
	query := `SELECT ` + vaultColumns + ` FROM vaults WHERE address=$1`
	vault, err := scanVault(r.storage.pool.QueryRow(ctx, query, address.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return vault, nil
}

func (r *vaultRepository) List(ctx context.Context) ([]model.VaultAccount, error) {
	query := `SELECT ` + vaultColumns + ` FROM vaults ORDER BY address`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.VaultAccount
	for rows.Next() {
		vault, err := scanVault(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *vault)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- UserAccountRepository implementation ---

const accountColumns = `address, owner, vault, mint, holding, balance, bump, created_at`

func scanAccount(row pgx.Row) (*model.UserAccount, error) {
	var (
		addr, owner, vault, mint, holding string
		balance                           int64
		bump                              int16
		createdAt                         time.Time
	)
	if err := row.Scan(&addr, &owner, &vault, &mint, &holding, &balance, &bump, &createdAt); err != nil {
		return nil, err
	}
	var a model.UserAccount
	if err := decodeAddresses([]string{addr, owner, vault, mint, holding}, &a.Address, &a.Owner, &a.Vault, &a.Mint, &a.Holding); err != nil {
		return nil, err
	}
	a.Balance = uint64(balance)
	a.Bump = uint8(bump)
	a.CreatedAt = createdAt
	return &a, nil
}

func (r *accountRepository) Create(ctx context.Context, account *model.UserAccount) (*model.UserAccount, error) {
	const query = `INSERT INTO user_accounts (address, owner, vault, mint, holding, bump) VALUES ($1, $2, $3, $4, $5, $6)
                   RETURNING balance, created_at`
	var (
		balance   int64
		createdAt time.Time
	)
	err := r.storage.pool.QueryRow(ctx, query,
		account.Address.String(), account.Owner.String(), account.Vault.String(),
		account.Mint.String(), account.Holding.String(), int16(account.Bump),
	).Scan(&balance, &createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	created := *account
	created.Balance = uint64(balance)
	created.CreatedAt = createdAt
	return &created, nil
}

func (r *accountRepository) GetByOwner(ctx context.Context, owner, vault model.Address) (*model.UserAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM user_accounts WHERE owner=$1 AND vault=$2`
	account, err := scanAccount(r.storage.pool.QueryRow(ctx, query, owner.String(), vault.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return account, nil
}

func (r *accountRepository) ListByVault(ctx context.Context, vault model.Address) ([]model.UserAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM user_accounts WHERE vault=$1 ORDER BY created_at`
	rows, err := r.storage.pool.Query(ctx, query, vault.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.UserAccount
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *accountRepository) SumByVault(ctx context.Context, vault model.Address) (uint64, int64, error) {
	const query = `SELECT COALESCE(SUM(balance), 0)::BIGINT, COUNT(*) FROM user_accounts WHERE vault=$1`
	var total, count int64
	if err := r.storage.pool.QueryRow(ctx, query, vault.String()).Scan(&total, &count); err != nil {
		return 0, 0, err
	}
	return uint64(total), count, nil
}

// --- DepositRepository implementation ---

func (r *depositRepository) Commit(ctx context.Context, deposit *model.Deposit, vaultHolding model.Address) (*model.Deposit, error) {
	if deposit.Amount == 0 || deposit.Amount > math.MaxInt64 {
		return nil, domainErrors.ErrInvalidAmount
	}
	if deposit.Nonce == "" {
		return nil, domainErrors.ErrNonceRequired
	}
	committed := *deposit
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const lockVault = `SELECT holding FROM vaults WHERE address=$1 FOR UPDATE`
		var holding string
		if err := tx.QueryRow(ctx, lockVault, deposit.Vault.String()).Scan(&holding); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		if holding != vaultHolding.String() {
			return domainErrors.ErrInvalidAccount
		}

		const insertDeposit = `INSERT INTO deposits (id, vault, admin, source, amount, nonce) VALUES ($1, $2, $3, $4, $5, $6)
                               RETURNING committed_at`
		err := tx.QueryRow(ctx, insertDeposit,
			deposit.ID.String(), deposit.Vault.String(), deposit.Admin.String(),
			deposit.Source.String(), int64(deposit.Amount), deposit.Nonce,
		).Scan(&committed.CommittedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return domainErrors.ErrAlreadyExists
			}
			return err
		}

		err = r.storage.transferTx(ctx, tx, model.Transfer{
			Source:      deposit.Source,
			Destination: vaultHolding,
			Amount:      deposit.Amount,
			Authority:   deposit.Admin,
		})
		if err != nil {
			return err
		}

		const creditReserve = `UPDATE vaults SET reserve = reserve + $2 WHERE address=$1`
		if _, err := tx.Exec(ctx, creditReserve, deposit.Vault.String(), int64(deposit.Amount)); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	committed.Status = model.DepositStatusCommitted
	return &committed, nil
}

func (r *depositRepository) ListByVault(ctx context.Context, vault model.Address) ([]model.Deposit, error) {
	const query = `SELECT id, vault, admin, source, amount, nonce, committed_at
                   FROM deposits WHERE vault=$1 ORDER BY committed_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, vault.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Deposit
	for rows.Next() {
		var (
			id, vaultAddr, admin, source string
			amount                       int64
			d                            model.Deposit
		)
		if err := rows.Scan(&id, &vaultAddr, &admin, &source, &amount, &d.Nonce, &d.CommittedAt); err != nil {
			return nil, err
		}
		if d.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("decode deposit id: %w", err)
		}
		if err := decodeAddresses([]string{vaultAddr, admin, source}, &d.Vault, &d.Admin, &d.Source); err != nil {
			return nil, err
		}
		d.Amount = uint64(amount)
		d.Status = model.DepositStatusCommitted
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
