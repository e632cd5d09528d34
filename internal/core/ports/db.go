package ports

import "github.com/keysafe-network/keysafe-daemon/internal/core/domain"

// RepoManager gives access to all repositories of the canonical store.
// Implementations back every repository with the same underlying state so
// that cross-aggregate invariants hold.
type RepoManager interface {
	WalletRepository() domain.WalletRepository
	AccountRepository() domain.AccountRepository
	TransactionRepository() domain.TransactionRepository
	NetworkRepository() domain.NetworkRepository
	SnapshotRepository() domain.SnapshotRepository
	Close()
}
