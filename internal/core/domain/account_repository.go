package domain

import "context"

// AccountRepository is the abstraction for any kind of store intended to hold
// Accounts.
type AccountRepository interface {
	// GetAccount returns the account with the given address, or
	// ErrAccountNotExist.
	GetAccount(ctx context.Context, address string) (*Account, error)
	// GetAllAccounts returns all accounts.
	GetAllAccounts(ctx context.Context) ([]Account, error)
	// GetAccountsForWallet returns the accounts owned by the given wallet.
	GetAccountsForWallet(ctx context.Context, walletID string) ([]Account, error)
	// UpsertAccount inserts the account if absent, otherwise overwrites all
	// identity fields while preserving a previously reported balance.
	// The owning wallet must exist.
	UpsertAccount(ctx context.Context, account Account) error
	// UpdateAccountLabel updates the label of the account with the given
	// address. Unknown addresses are ignored.
	UpdateAccountLabel(ctx context.Context, address, label string) error
	// UpdateBalances merges the given address to balance mapping into the
	// matching accounts. Addresses not present in the store are ignored.
	UpdateBalances(ctx context.Context, balances map[string]uint64) error
}
