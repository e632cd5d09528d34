package ports

import (
	"context"

	"github.com/keysafe-network/keysafe-daemon/internal/core/domain"
)

// KeyManager is the contract of the external key-management service. Every
// method blocks until the underlying request settles, either with its result
// or with one of the structured errors of this package.
//
// Implementations hold a single secure channel and therefore allow at most
// one in-flight request per operation; a concurrent call with the same
// operation is rejected with a busy ServiceError.
type KeyManager interface {
	// List returns one record per key stored by the service. It is the only
	// operation that may fail with ErrMigrationRequired or ErrDataLost.
	List(ctx context.Context) ([]KeyRecord, error)
	// Migrate triggers the one-shot migration flow on the service.
	Migrate(ctx context.Context) error
	// Onboard starts the service-driven onboarding flow and returns the
	// resulting key record.
	Onboard(ctx context.Context) (*KeyRecord, error)
	// Signup creates a new key on the service.
	Signup(ctx context.Context) (*KeyRecord, error)
	// Login imports an existing key into the service.
	Login(ctx context.Context) (*KeyRecord, error)
	// Logout asks the service to delete the key. A false return value is an
	// explicit negative answer, distinct from a transport-level failure.
	Logout(ctx context.Context, walletID string) (bool, error)
	// Rename changes the wallet label and optionally account labels.
	Rename(ctx context.Context, walletID, address string) (*RenameResult, error)
	// Export runs the backup flow and reports the updated backup flags.
	Export(ctx context.Context, walletID string) (*ExportResult, error)
	// ChangePassphrase runs the passphrase-change flow. No local state is
	// affected by its outcome.
	ChangePassphrase(ctx context.Context, walletID string) error
	// AddAccount derives one additional account for the wallet.
	AddAccount(ctx context.Context, walletID string) (*KeyAccount, error)
	// Close tears down the channel to the service.
	Close()
}

// KeyAccount is a single address entry of a key record.
type KeyAccount struct {
	Address string
	Label   string
}

// KeyRecord is the wallet-level result shape shared by the listing, onboard,
// signup and login operations. Accounts preserves the order the service
// reported them in.
type KeyRecord struct {
	ID       string
	Label    string
	Type     domain.WalletType
	HasFile  bool
	HasWords bool
	Accounts []KeyAccount
}

// RenameResult carries the relabelled wallet and accounts.
type RenameResult struct {
	WalletID string
	Label    string
	Accounts []KeyAccount
}

// ExportResult carries the backup flags after an export flow.
type ExportResult struct {
	WalletID string
	HasFile  bool
	HasWords bool
}
