package domain

// Snapshot is a full, internally consistent copy of the store taken in one
// critical section. It is what gets persisted on shutdown and served to
// read-only consumers.
type Snapshot struct {
	Wallets      []Wallet       `json:"wallets"`
	Accounts     []Account      `json:"accounts"`
	Transactions []Transaction  `json:"transactions"`
	Network      NetworkStatus  `json:"network"`
	ActiveWallet ActiveWalletID `json:"activeWalletId"`
}

// SnapshotRepository is implemented by stores that can export and re-import
// their full state.
type SnapshotRepository interface {
	// Snapshot returns a consistent copy of the whole store.
	Snapshot() Snapshot
	// Restore replaces the whole store content with the given snapshot.
	Restore(snapshot Snapshot)
}
