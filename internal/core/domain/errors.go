package domain

import "errors"

var (
	// ErrWalletNotExist is thrown when a wallet is not found in the store
	ErrWalletNotExist = errors.New("wallet does not exist")
	// ErrAccountNotExist is thrown when an account is not found in the store
	ErrAccountNotExist = errors.New("account does not exist")
	// ErrTransactionNotExist is thrown when a transaction is not found in the store
	ErrTransactionNotExist = errors.New("transaction does not exist")
	// ErrReferentialViolation is thrown when an account references a wallet
	// that is not present in the store. The merge discipline of the writers
	// makes this unreachable; seeing it means a programming error.
	ErrReferentialViolation = errors.New("account references unknown wallet")
	// ErrDuplicateLegacyWallet is thrown when a second wallet with the legacy
	// type would enter the store
	ErrDuplicateLegacyWallet = errors.New("store already holds a legacy wallet")
	// ErrStaleHead is thrown when a head update would regress the chain
	// height. Height is monotonically non-decreasing.
	ErrStaleHead = errors.New("head height regressed")
)
