package inmemory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keysafe-network/keysafe-daemon/internal/core/domain"
	"github.com/keysafe-network/keysafe-daemon/internal/core/ports"
	"github.com/keysafe-network/keysafe-daemon/internal/infrastructure/storage/db/inmemory"
)

var ctx = context.Background()

func seedWallets(t *testing.T) ports.RepoManager {
	t.Helper()

	repoManager := inmemory.NewRepoManager()
	require.NoError(t, repoManager.WalletRepository().ReplaceAll(ctx,
		[]domain.Wallet{
			{ID: domain.LegacyWalletID, Type: domain.WalletTypeLegacy},
			{ID: "w1", Label: "Blue Wallet", Type: domain.WalletTypeBIP39},
		},
		[]domain.Account{
			{Address: "legacy1", WalletID: domain.LegacyWalletID, IsLegacy: true},
			{Address: "addr1", WalletID: "w1"},
			{Address: "addr2", WalletID: "w1"},
		},
	))
	return repoManager
}

func TestReplaceAllRejectsOrphanAccounts(t *testing.T) {
	repoManager := inmemory.NewRepoManager()

	err := repoManager.WalletRepository().ReplaceAll(ctx,
		[]domain.Wallet{{ID: "w1", Type: domain.WalletTypeBIP39}},
		[]domain.Account{{Address: "addr1", WalletID: "other"}},
	)
	assert.Equal(t, domain.ErrReferentialViolation, err)

	wallets, err := repoManager.WalletRepository().GetAllWallets(ctx)
	require.NoError(t, err)
	assert.Empty(t, wallets)
}

func TestReplaceAllRejectsSecondLegacyWallet(t *testing.T) {
	repoManager := inmemory.NewRepoManager()

	err := repoManager.WalletRepository().ReplaceAll(ctx,
		[]domain.Wallet{
			{ID: domain.LegacyWalletID, Type: domain.WalletTypeLegacy},
			{ID: "other-legacy", Type: domain.WalletTypeLegacy},
		},
		nil,
	)
	assert.Equal(t, domain.ErrDuplicateLegacyWallet, err)
}

func TestUpsertWalletWithAccountsRejectsForeignAccounts(t *testing.T) {
	repoManager := seedWallets(t)

	err := repoManager.WalletRepository().UpsertWalletWithAccounts(ctx,
		domain.Wallet{ID: "w2", Type: domain.WalletTypeBIP39},
		[]domain.Account{{Address: "addr3", WalletID: "w1"}},
	)
	assert.Equal(t, domain.ErrReferentialViolation, err)

	_, err = repoManager.WalletRepository().GetWallet(ctx, "w2")
	assert.Equal(t, domain.ErrWalletNotExist, err)
}

func TestUpsertWalletWithAccountsRejectsSecondLegacyWallet(t *testing.T) {
	repoManager := seedWallets(t)

	err := repoManager.WalletRepository().UpsertWalletWithAccounts(ctx,
		domain.Wallet{ID: "other-legacy", Type: domain.WalletTypeLegacy}, nil,
	)
	assert.Equal(t, domain.ErrDuplicateLegacyWallet, err)
}

func TestUpsertPreservesReportedBalance(t *testing.T) {
	repoManager := seedWallets(t)

	require.NoError(t, repoManager.AccountRepository().UpdateBalances(ctx,
		map[string]uint64{"addr1": 1000},
	))

	// Identity fields come from the key service which knows nothing about
	// balances; re-upserting must not reset what the network reported.
	require.NoError(t, repoManager.WalletRepository().UpsertWalletWithAccounts(ctx,
		domain.Wallet{ID: "w1", Label: "Renamed", Type: domain.WalletTypeBIP39},
		[]domain.Account{{Address: "addr1", Label: "Main", WalletID: "w1"}},
	))

	account, err := repoManager.AccountRepository().GetAccount(ctx, "addr1")
	require.NoError(t, err)
	assert.Equal(t, "Main", account.Label)
	require.True(t, account.HasBalance())
	assert.Equal(t, uint64(1000), *account.Balance)
}

func TestDeleteWalletCascadesToAccounts(t *testing.T) {
	repoManager := seedWallets(t)

	require.NoError(t, repoManager.WalletRepository().DeleteWallet(ctx, "w1"))

	_, err := repoManager.WalletRepository().GetWallet(ctx, "w1")
	assert.Equal(t, domain.ErrWalletNotExist, err)

	accounts, err := repoManager.AccountRepository().GetAllAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "legacy1", accounts[0].Address)
}

func TestDeleteUnknownWallet(t *testing.T) {
	repoManager := seedWallets(t)

	err := repoManager.WalletRepository().DeleteWallet(ctx, "nope")
	assert.Equal(t, domain.ErrWalletNotExist, err)
}

func TestActiveWalletDefaultsToLegacy(t *testing.T) {
	repoManager := inmemory.NewRepoManager()

	active, err := repoManager.WalletRepository().GetActiveWallet(ctx)
	require.NoError(t, err)
	assert.True(t, active.IsLegacy())

	require.NoError(t, repoManager.WalletRepository().SetActiveWallet(
		ctx, domain.ActiveWallet("w1"),
	))
	active, err = repoManager.WalletRepository().GetActiveWallet(ctx)
	require.NoError(t, err)
	assert.False(t, active.IsLegacy())
	assert.Equal(t, "w1", active.ID())
}

func TestUpdateWalletRollsBackOnClosureError(t *testing.T) {
	repoManager := seedWallets(t)

	expectedErr := assert.AnError
	err := repoManager.WalletRepository().UpdateWallet(ctx, "w1",
		func(w *domain.Wallet) (*domain.Wallet, error) {
			w.Label = "Changed"
			return nil, expectedErr
		},
	)
	assert.Equal(t, expectedErr, err)

	wallet, err := repoManager.WalletRepository().GetWallet(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, "Blue Wallet", wallet.Label)
}

func TestSnapshotRoundTrip(t *testing.T) {
	repoManager := seedWallets(t)
	require.NoError(t, repoManager.AccountRepository().UpdateBalances(ctx,
		map[string]uint64{"addr1": 42},
	))
	require.NoError(t, repoManager.NetworkRepository().SetHead(ctx, 100, 7))

	snapshot := repoManager.SnapshotRepository().Snapshot()

	restored := inmemory.NewRepoManager()
	restored.SnapshotRepository().Restore(snapshot)

	wallets, err := restored.WalletRepository().GetAllWallets(ctx)
	require.NoError(t, err)
	assert.Len(t, wallets, 2)

	account, err := restored.AccountRepository().GetAccount(ctx, "addr1")
	require.NoError(t, err)
	require.True(t, account.HasBalance())
	assert.Equal(t, uint64(42), *account.Balance)

	status, err := restored.NetworkRepository().GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), status.Height)
}
