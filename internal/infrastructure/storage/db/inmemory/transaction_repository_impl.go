package inmemory

import (
	"context"

	"github.com/keysafe-network/keysafe-daemon/internal/core/domain"
)

// TransactionRepositoryImpl represents an in memory storage for transactions.
type TransactionRepositoryImpl struct {
	db *storeDb
}

// NewTransactionRepositoryImpl returns a transaction repository backed by the
// given store.
func NewTransactionRepositoryImpl(db *storeDb) *TransactionRepositoryImpl {
	return &TransactionRepositoryImpl{db: db}
}

func (r TransactionRepositoryImpl) GetTransaction(
	_ context.Context, hash string,
) (*domain.Transaction, error) {
	r.db.lock.RLock()
	defer r.db.lock.RUnlock()

	tx, ok := r.db.transactions[hash]
	if !ok {
		return nil, domain.ErrTransactionNotExist
	}
	return &tx, nil
}

func (r TransactionRepositoryImpl) GetAllTransactions(
	_ context.Context,
) ([]domain.Transaction, error) {
	r.db.lock.RLock()
	defer r.db.lock.RUnlock()

	txs := make([]domain.Transaction, 0, len(r.db.transactions))
	for _, tx := range r.db.transactions {
		txs = append(txs, tx)
	}
	return txs, nil
}

func (r TransactionRepositoryImpl) UpsertTransaction(
	_ context.Context, tx domain.Transaction,
) error {
	r.db.lock.Lock()
	defer r.db.lock.Unlock()

	r.db.transactions[tx.Hash] = tx
	return nil
}

func (r TransactionRepositoryImpl) MarkRemoved(
	_ context.Context, hashes []string, height uint64,
) error {
	r.db.lock.Lock()
	defer r.db.lock.Unlock()

	for _, hash := range hashes {
		tx, ok := r.db.transactions[hash]
		if !ok {
			continue
		}
		tx.State = domain.TxStateExpired
		tx.RemovedAtHeight = height
		r.db.transactions[hash] = tx
	}
	return nil
}

func (r TransactionRepositoryImpl) PruneRemoved(
	_ context.Context, height uint64,
) (int, error) {
	r.db.lock.Lock()
	defer r.db.lock.Unlock()

	pruned := 0
	for hash, tx := range r.db.transactions {
		if tx.IsRemoved() && tx.RemovedAtHeight <= height {
			delete(r.db.transactions, hash)
			pruned++
		}
	}
	return pruned, nil
}
