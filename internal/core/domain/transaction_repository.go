package domain

import "context"

// TransactionRepository is the abstraction for any kind of store intended to
// hold Transactions.
type TransactionRepository interface {
	// GetTransaction returns the transaction with the given hash, or
	// ErrTransactionNotExist.
	GetTransaction(ctx context.Context, hash string) (*Transaction, error)
	// GetAllTransactions returns all transactions, removed ones included.
	GetAllTransactions(ctx context.Context) ([]Transaction, error)
	// UpsertTransaction inserts the transaction if absent, otherwise
	// overwrites it keyed by hash.
	UpsertTransaction(ctx context.Context, tx Transaction) error
	// MarkRemoved marks the transactions with the given hashes as removed at
	// the given height and flips their state to expired. Unknown hashes are
	// ignored.
	MarkRemoved(ctx context.Context, hashes []string, height uint64) error
	// PruneRemoved physically deletes transactions whose removal height is at
	// or below the given height and returns how many were deleted.
	PruneRemoved(ctx context.Context, height uint64) (int, error)
}
