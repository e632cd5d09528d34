package domain

import "context"

// WalletRepository is the abstraction for any kind of store intended to hold
// Wallets, the active-wallet selection and, for the operations spanning both
// aggregates, their Accounts. Cross-aggregate writes are atomic: readers never
// observe a wallet without its accounts or vice versa.
type WalletRepository interface {
	// GetWallet returns the wallet with the given id, or ErrWalletNotExist.
	GetWallet(ctx context.Context, walletID string) (*Wallet, error)
	// GetAllWallets returns all wallets.
	GetAllWallets(ctx context.Context) ([]Wallet, error)
	// UpdateWallet updates the state of a wallet. The closure function lets
	// the caller commit multiple changes in a transactional way.
	UpdateWallet(
		ctx context.Context,
		walletID string, updateFn func(w *Wallet) (*Wallet, error),
	) error
	// ReplaceAll atomically replaces the full wallet and account sets. Every
	// account must reference one of the given wallets.
	ReplaceAll(ctx context.Context, wallets []Wallet, accounts []Account) error
	// UpsertWalletWithAccounts inserts or overwrites the wallet and upserts
	// the given accounts in one atomic step.
	UpsertWalletWithAccounts(
		ctx context.Context, wallet Wallet, accounts []Account,
	) error
	// DeleteWallet removes the wallet and all accounts owned by it.
	DeleteWallet(ctx context.Context, walletID string) error
	// GetActiveWallet returns the current active-wallet selection.
	GetActiveWallet(ctx context.Context) (ActiveWalletID, error)
	// SetActiveWallet updates the active-wallet selection.
	SetActiveWallet(ctx context.Context, active ActiveWalletID) error
}
