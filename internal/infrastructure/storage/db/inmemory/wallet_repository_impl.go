package inmemory

import (
	"context"

	"github.com/keysafe-network/keysafe-daemon/internal/core/domain"
)

// WalletRepositoryImpl represents an in memory storage for wallets and the
// active-wallet selection. Writes spanning wallets and accounts happen under
// one lock acquisition so partial application is never observable.
type WalletRepositoryImpl struct {
	db *storeDb
}

// NewWalletRepositoryImpl returns a wallet repository backed by the given
// store.
func NewWalletRepositoryImpl(db *storeDb) *WalletRepositoryImpl {
	return &WalletRepositoryImpl{db: db}
}

func (r WalletRepositoryImpl) GetWallet(
	_ context.Context, walletID string,
) (*domain.Wallet, error) {
	r.db.lock.RLock()
	defer r.db.lock.RUnlock()

	wallet, ok := r.db.wallets[walletID]
	if !ok {
		return nil, domain.ErrWalletNotExist
	}
	return &wallet, nil
}

func (r WalletRepositoryImpl) GetAllWallets(
	_ context.Context,
) ([]domain.Wallet, error) {
	r.db.lock.RLock()
	defer r.db.lock.RUnlock()

	wallets := make([]domain.Wallet, 0, len(r.db.wallets))
	for _, w := range r.db.wallets {
		wallets = append(wallets, w)
	}
	return wallets, nil
}

func (r WalletRepositoryImpl) UpdateWallet(
	_ context.Context,
	walletID string, updateFn func(w *domain.Wallet) (*domain.Wallet, error),
) error {
	r.db.lock.Lock()
	defer r.db.lock.Unlock()

	currentWallet, ok := r.db.wallets[walletID]
	if !ok {
		return domain.ErrWalletNotExist
	}

	updatedWallet, err := updateFn(&currentWallet)
	if err != nil {
		return err
	}

	r.db.wallets[walletID] = *updatedWallet
	return nil
}

func (r WalletRepositoryImpl) ReplaceAll(
	_ context.Context, wallets []domain.Wallet, accounts []domain.Account,
) error {
	r.db.lock.Lock()
	defer r.db.lock.Unlock()

	walletSet := make(map[string]domain.Wallet, len(wallets))
	legacySeen := false
	for _, w := range wallets {
		if w.IsLegacy() {
			if legacySeen {
				return domain.ErrDuplicateLegacyWallet
			}
			legacySeen = true
		}
		walletSet[w.ID] = w
	}

	accountSet := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		if _, ok := walletSet[a.WalletID]; !ok {
			return domain.ErrReferentialViolation
		}
		accountSet[a.Address] = copyAccount(a)
	}

	r.db.wallets = walletSet
	r.db.accounts = accountSet
	return nil
}

func (r WalletRepositoryImpl) UpsertWalletWithAccounts(
	_ context.Context, wallet domain.Wallet, accounts []domain.Account,
) error {
	r.db.lock.Lock()
	defer r.db.lock.Unlock()

	for _, a := range accounts {
		if a.WalletID != wallet.ID {
			return domain.ErrReferentialViolation
		}
	}
	if wallet.IsLegacy() {
		for id, w := range r.db.wallets {
			if w.IsLegacy() && id != wallet.ID {
				return domain.ErrDuplicateLegacyWallet
			}
		}
	}

	r.db.wallets[wallet.ID] = wallet
	for _, a := range accounts {
		r.db.accounts[a.Address] = upsertedAccount(r.db.accounts, a)
	}
	return nil
}

func (r WalletRepositoryImpl) DeleteWallet(
	_ context.Context, walletID string,
) error {
	r.db.lock.Lock()
	defer r.db.lock.Unlock()

	if _, ok := r.db.wallets[walletID]; !ok {
		return domain.ErrWalletNotExist
	}

	delete(r.db.wallets, walletID)
	for address, account := range r.db.accounts {
		if account.WalletID == walletID {
			delete(r.db.accounts, address)
		}
	}
	return nil
}

func (r WalletRepositoryImpl) GetActiveWallet(
	_ context.Context,
) (domain.ActiveWalletID, error) {
	r.db.lock.RLock()
	defer r.db.lock.RUnlock()

	return r.db.activeWallet, nil
}

func (r WalletRepositoryImpl) SetActiveWallet(
	_ context.Context, active domain.ActiveWalletID,
) error {
	r.db.lock.Lock()
	defer r.db.lock.Unlock()

	r.db.activeWallet = active
	return nil
}

// upsertedAccount overwrites all identity fields of an account while keeping
// a balance the network already reported for the same address.
func upsertedAccount(
	existing map[string]domain.Account, account domain.Account,
) domain.Account {
	account = copyAccount(account)
	if current, ok := existing[account.Address]; ok && account.Balance == nil {
		account.Balance = current.Balance
	}
	return account
}
