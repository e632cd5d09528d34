package application

import (
	"github.com/keysafe-network/keysafe-daemon/internal/core/domain"
	"github.com/keysafe-network/keysafe-daemon/internal/core/ports"
)

// FallbackDefaultWallet picks a replacement active wallet after the initial
// load. A user without legacy funds should not land on an empty legacy view:
// if the active wallet is the legacy sentinel and no loaded account is a
// legacy one, the wallet holding the most accounts wins, first encountered in
// the listing order on ties. The second return value reports whether a
// replacement was picked.
func FallbackDefaultWallet(
	active domain.ActiveWalletID,
	accounts []domain.Account,
	records []ports.KeyRecord,
) (domain.ActiveWalletID, bool) {
	if !active.IsLegacy() {
		return active, false
	}

	for _, account := range accounts {
		if account.IsLegacy {
			return active, false
		}
	}

	var best *ports.KeyRecord
	for i := range records {
		if best == nil || len(records[i].Accounts) > len(best.Accounts) {
			best = &records[i]
		}
	}
	if best == nil {
		return active, false
	}
	return domain.ActiveWallet(best.ID), true
}
