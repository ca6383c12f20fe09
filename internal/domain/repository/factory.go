package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Accounts() UserAccountRepository
	Vaults() VaultRepository
	Ledger() Ledger
	Deposits() DepositRepository
}
