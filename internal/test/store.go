package test

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/savingsvault/internal/domain/errors"
	"github.com/polkiloo/savingsvault/internal/domain/model"
	"github.com/polkiloo/savingsvault/internal/domain/repository"
)

type accountKey struct {
	owner model.Address
	vault model.Address
}

// MemoryStore keeps ledger, vault, account and deposit state in memory.
// Each call holds one lock for its whole duration, so calls are atomic like storage transactions.
type MemoryStore struct {
	mu       sync.Mutex
	holdings map[model.Address]*model.Holding
	vaults   map[model.Address]*model.VaultAccount
	accounts map[accountKey]*model.UserAccount
	deposits []model.Deposit
	nonces   map[string]struct{}

	// Err, when set, is returned by every call before any state is touched.
	Err error
	// CommitErr is returned by Deposits().Commit after validation but before mutation.
	CommitErr error
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		holdings: make(map[model.Address]*model.Holding),
		vaults:   make(map[model.Address]*model.VaultAccount),
		accounts: make(map[accountKey]*model.UserAccount),
		nonces:   make(map[string]struct{}),
	}
}

// Fund mints amount into an existing holding, creating it for owner and mint when missing.
func (s *MemoryStore) Fund(address, owner, mint model.Address, amount uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.holdings[address]
	if !ok {
		h = &model.Holding{Address: address, Owner: owner, Mint: mint}
		s.holdings[address] = h
	}
	h.Amount += amount
}

// HoldingCount returns the number of ledger holdings.
func (s *MemoryStore) HoldingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.holdings)
}

// AccountCount returns the number of stored user accounts.
func (s *MemoryStore) AccountCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts)
}

// SetUserBalance overrides an account's entitlement balance for conservation scenarios.
func (s *MemoryStore) SetUserBalance(owner, vault model.Address, balance uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accounts[accountKey{owner, vault}]; ok {
		a.Balance = balance
	}
}

func (s *MemoryStore) Ledger() repository.Ledger                  { return memoryLedger{s} }
func (s *MemoryStore) Vaults() repository.VaultRepository         { return memoryVaults{s} }
func (s *MemoryStore) Accounts() repository.UserAccountRepository { return memoryAccounts{s} }
func (s *MemoryStore) Deposits() repository.DepositRepository     { return memoryDeposits{s} }

var _ repository.Factory = (*MemoryStore)(nil)

type memoryLedger struct{ s *MemoryStore }

func (l memoryLedger) CreateHoldingAccount(_ context.Context, h model.Holding) (*model.Holding, bool, error) {
	s := l.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, false, s.Err
	}
	if existing, ok := s.holdings[h.Address]; ok {
		if existing.Owner != h.Owner || existing.Mint != h.Mint {
			return nil, false, domainErrors.ErrInvalidAccount
		}
		cp := *existing
		return &cp, false, nil
	}
	stored := model.Holding{Address: h.Address, Owner: h.Owner, Mint: h.Mint}
	s.holdings[h.Address] = &stored
	cp := stored
	return &cp, true, nil
}

func (l memoryLedger) Holding(_ context.Context, address model.Address) (*model.Holding, error) {
	s := l.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	h, ok := s.holdings[address]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	cp := *h
	return &cp, nil
}

func (l memoryLedger) Balance(ctx context.Context, address model.Address) (uint64, error) {
	h, err := l.Holding(ctx, address)
	if err != nil {
		return 0, err
	}
	return h.Amount, nil
}

func (l memoryLedger) Transfer(_ context.Context, t model.Transfer) error {
	s := l.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	return s.transferLocked(t)
}

func (s *MemoryStore) transferLocked(t model.Transfer) error {
	if t.Amount == 0 || t.Amount > math.MaxInt64 {
		return domainErrors.ErrInvalidAmount
	}
	src, ok := s.holdings[t.Source]
	if !ok {
		return domainErrors.ErrInvalidAccount
	}
	dst, ok := s.holdings[t.Destination]
	if !ok || dst.Address == src.Address {
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
	src.Amount -= t.Amount
	dst.Amount += t.Amount
	return nil
}

type memoryVaults struct{ s *MemoryStore }

func (v memoryVaults) CreateIfAbsent(_ context.Context, vault *model.VaultAccount) (*model.VaultAccount, bool, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, false, s.Err
	}
	if existing, ok := s.vaults[vault.Address]; ok {
		cp := *existing
		return &cp, false, nil
	}
	stored := *vault
	stored.Reserve = 0
	stored.CreatedAt = time.Now()
	s.vaults[vault.Address] = &stored
	cp := stored
	return &cp, true, nil
}

func (v memoryVaults) GetByAddress(_ context.Context, address model.Address) (*model.VaultAccount, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	vault, ok := s.vaults[address]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	cp := *vault
	return &cp, nil
}

func (v memoryVaults) List(context.Context) ([]model.VaultAccount, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]model.VaultAccount, 0, len(s.vaults))
	for _, vault := range s.vaults {
		result = append(result, *vault)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Address.String() < result[j].Address.String() })
	return result, nil
}

type memoryAccounts struct{ s *MemoryStore }

func (a memoryAccounts) Create(_ context.Context, account *model.UserAccount) (*model.UserAccount, error) {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	key := accountKey{account.Owner, account.Vault}
	if _, ok := s.accounts[key]; ok {
		return nil, domainErrors.ErrAlreadyExists
	}
	stored := *account
	stored.Balance = 0
	stored.CreatedAt = time.Now()
	s.accounts[key] = &stored
	cp := stored
	return &cp, nil
}

func (a memoryAccounts) GetByOwner(_ context.Context, owner, vault model.Address) (*model.UserAccount, error) {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	account, ok := s.accounts[accountKey{owner, vault}]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	cp := *account
	return &cp, nil
}

func (a memoryAccounts) ListByVault(_ context.Context, vault model.Address) ([]model.UserAccount, error) {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var result []model.UserAccount
	for key, account := range s.accounts {
		if key.vault == vault {
			result = append(result, *account)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Owner.String() < result[j].Owner.String() })
	return result, nil
}

func (a memoryAccounts) SumByVault(_ context.Context, vault model.Address) (uint64, int64, error) {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, 0, s.Err
	}
	var total uint64
	var count int64
	for key, account := range s.accounts {
		if key.vault == vault {
			total += account.Balance
			count++
		}
	}
	return total, count, nil
}

type memoryDeposits struct{ s *MemoryStore }

func (d memoryDeposits) Commit(_ context.Context, deposit *model.Deposit, vaultHolding model.Address) (*model.Deposit, error) {
	s := d.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	vault, ok := s.vaults[deposit.Vault]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if vault.Holding != vaultHolding {
		return nil, domainErrors.ErrInvalidAccount
	}
	if deposit.Nonce == "" {
		return nil, domainErrors.ErrNonceRequired
	}
	nonceKey := deposit.Admin.String() + "/" + deposit.Nonce
	if _, seen := s.nonces[nonceKey]; seen {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.CommitErr != nil {
		return nil, s.CommitErr
	}
	err := s.transferLocked(model.Transfer{
		Source:      deposit.Source,
		Destination: vaultHolding,
		Amount:      deposit.Amount,
		Authority:   deposit.Admin,
	})
	if err != nil {
		return nil, err
	}
	vault.Reserve += deposit.Amount
	s.nonces[nonceKey] = struct{}{}
	committed := *deposit
	committed.Status = model.DepositStatusCommitted
	committed.CommittedAt = time.Now()
	s.deposits = append(s.deposits, committed)
	return &committed, nil
}

func (d memoryDeposits) ListByVault(_ context.Context, vault model.Address) ([]model.Deposit, error) {
	s := d.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var result []model.Deposit
	for i := len(s.deposits) - 1; i >= 0; i-- {
		if s.deposits[i].Vault == vault {
			result = append(result, s.deposits[i])
		}
	}
	return result, nil
}
