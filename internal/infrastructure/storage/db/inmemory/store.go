package inmemory

import (
	"sync"

	"github.com/keysafe-network/keysafe-daemon/internal/core/domain"
	"github.com/keysafe-network/keysafe-daemon/internal/core/ports"
)

// storeDb is the single shared state behind every repository of this package.
// Each repository method is one critical section under the same lock, so a
// fold is never observable half-applied.
type storeDb struct {
	lock *sync.RWMutex

	wallets      map[string]domain.Wallet
	accounts     map[string]domain.Account
	transactions map[string]domain.Transaction
	network      domain.NetworkStatus
	activeWallet domain.ActiveWalletID
}

func newStoreDb() *storeDb {
	return &storeDb{
		lock:         &sync.RWMutex{},
		wallets:      map[string]domain.Wallet{},
		accounts:     map[string]domain.Account{},
		transactions: map[string]domain.Transaction{},
		network:      domain.NetworkStatus{Consensus: domain.ConsensusConnecting},
		activeWallet: domain.LegacyActiveWallet(),
	}
}

// RepoManager exposes all repositories backed by one in-memory store.
type RepoManager struct {
	walletRepository      domain.WalletRepository
	accountRepository     domain.AccountRepository
	transactionRepository domain.TransactionRepository
	networkRepository     domain.NetworkRepository
	snapshotRepository    domain.SnapshotRepository
}

// NewRepoManager returns a RepoManager with an empty store.
func NewRepoManager() ports.RepoManager {
	db := newStoreDb()

	return &RepoManager{
		walletRepository:      NewWalletRepositoryImpl(db),
		accountRepository:     NewAccountRepositoryImpl(db),
		transactionRepository: NewTransactionRepositoryImpl(db),
		networkRepository:     NewNetworkRepositoryImpl(db),
		snapshotRepository:    db,
	}
}

func (d *RepoManager) WalletRepository() domain.WalletRepository {
	return d.walletRepository
}

func (d *RepoManager) AccountRepository() domain.AccountRepository {
	return d.accountRepository
}

func (d *RepoManager) TransactionRepository() domain.TransactionRepository {
	return d.transactionRepository
}

func (d *RepoManager) NetworkRepository() domain.NetworkRepository {
	return d.networkRepository
}

func (d *RepoManager) SnapshotRepository() domain.SnapshotRepository {
	return d.snapshotRepository
}

func (d *RepoManager) Close() {}

// Snapshot returns a consistent copy of the whole store.
func (db *storeDb) Snapshot() domain.Snapshot {
	db.lock.RLock()
	defer db.lock.RUnlock()

	snapshot := domain.Snapshot{
		Wallets:      make([]domain.Wallet, 0, len(db.wallets)),
		Accounts:     make([]domain.Account, 0, len(db.accounts)),
		Transactions: make([]domain.Transaction, 0, len(db.transactions)),
		Network:      db.network,
		ActiveWallet: db.activeWallet,
	}
	for _, w := range db.wallets {
		snapshot.Wallets = append(snapshot.Wallets, w)
	}
	for _, a := range db.accounts {
		snapshot.Accounts = append(snapshot.Accounts, copyAccount(a))
	}
	for _, t := range db.transactions {
		snapshot.Transactions = append(snapshot.Transactions, t)
	}
	return snapshot
}

// Restore replaces the whole store content with the given snapshot.
func (db *storeDb) Restore(snapshot domain.Snapshot) {
	db.lock.Lock()
	defer db.lock.Unlock()

	db.wallets = make(map[string]domain.Wallet, len(snapshot.Wallets))
	for _, w := range snapshot.Wallets {
		db.wallets[w.ID] = w
	}
	db.accounts = make(map[string]domain.Account, len(snapshot.Accounts))
	for _, a := range snapshot.Accounts {
		db.accounts[a.Address] = copyAccount(a)
	}
	db.transactions = make(map[string]domain.Transaction, len(snapshot.Transactions))
	for _, t := range snapshot.Transactions {
		db.transactions[t.Hash] = t
	}
	db.network = snapshot.Network
	db.activeWallet = snapshot.ActiveWallet
}

// copyAccount deep-copies an account so callers never share the balance
// pointer with the store.
func copyAccount(a domain.Account) domain.Account {
	if a.Balance != nil {
		balance := *a.Balance
		a.Balance = &balance
	}
	return a
}
