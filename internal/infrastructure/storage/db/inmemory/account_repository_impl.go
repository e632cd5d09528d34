package inmemory

import (
	"context"

	"github.com/keysafe-network/keysafe-daemon/internal/core/domain"
)

// AccountRepositoryImpl represents an in memory storage for accounts.
type AccountRepositoryImpl struct {
	db *storeDb
}

// NewAccountRepositoryImpl returns an account repository backed by the given
// store.
func NewAccountRepositoryImpl(db *storeDb) *AccountRepositoryImpl {
	return &AccountRepositoryImpl{db: db}
}

func (r AccountRepositoryImpl) GetAccount(
	_ context.Context, address string,
) (*domain.Account, error) {
	r.db.lock.RLock()
	defer r.db.lock.RUnlock()

	account, ok := r.db.accounts[address]
	if !ok {
		return nil, domain.ErrAccountNotExist
	}
	account = copyAccount(account)
	return &account, nil
}

func (r AccountRepositoryImpl) GetAllAccounts(
	_ context.Context,
) ([]domain.Account, error) {
	r.db.lock.RLock()
	defer r.db.lock.RUnlock()

	accounts := make([]domain.Account, 0, len(r.db.accounts))
	for _, a := range r.db.accounts {
		accounts = append(accounts, copyAccount(a))
	}
	return accounts, nil
}

func (r AccountRepositoryImpl) GetAccountsForWallet(
	_ context.Context, walletID string,
) ([]domain.Account, error) {
	r.db.lock.RLock()
	defer r.db.lock.RUnlock()

	accounts := make([]domain.Account, 0)
	for _, a := range r.db.accounts {
		if a.WalletID == walletID {
			accounts = append(accounts, copyAccount(a))
		}
	}
	return accounts, nil
}

func (r AccountRepositoryImpl) UpsertAccount(
	_ context.Context, account domain.Account,
) error {
	r.db.lock.Lock()
	defer r.db.lock.Unlock()

	if _, ok := r.db.wallets[account.WalletID]; !ok {
		return domain.ErrReferentialViolation
	}

	r.db.accounts[account.Address] = upsertedAccount(r.db.accounts, account)
	return nil
}

func (r AccountRepositoryImpl) UpdateAccountLabel(
	_ context.Context, address, label string,
) error {
	r.db.lock.Lock()
	defer r.db.lock.Unlock()

	account, ok := r.db.accounts[address]
	if !ok {
		return nil
	}
	account.Label = label
	r.db.accounts[address] = account
	return nil
}

func (r AccountRepositoryImpl) UpdateBalances(
	_ context.Context, balances map[string]uint64,
) error {
	r.db.lock.Lock()
	defer r.db.lock.Unlock()

	for address, balance := range balances {
		account, ok := r.db.accounts[address]
		if !ok {
			continue
		}
		balance := balance
		account.Balance = &balance
		r.db.accounts[address] = account
	}
	return nil
}
