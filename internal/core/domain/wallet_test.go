package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveWalletSelects(t *testing.T) {
	legacyAccount := Account{Address: "a1", WalletID: LegacyWalletID, IsLegacy: true}
	bip39Account := Account{Address: "a2", WalletID: "w1"}

	active := LegacyActiveWallet()
	assert.True(t, active.Selects(legacyAccount))
	assert.False(t, active.Selects(bip39Account))

	active = ActiveWallet("w1")
	assert.False(t, active.Selects(legacyAccount))
	assert.True(t, active.Selects(bip39Account))
}

func TestActiveWalletJSONRoundTrip(t *testing.T) {
	for _, active := range []ActiveWalletID{
		LegacyActiveWallet(),
		ActiveWallet("w1"),
	} {
		data, err := json.Marshal(active)
		require.NoError(t, err)

		var decoded ActiveWalletID
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, active, decoded)
	}
}

func TestParseWalletType(t *testing.T) {
	for _, walletType := range []WalletType{
		WalletTypeLegacy, WalletTypeBIP39, WalletTypeLedger,
	} {
		parsed, err := ParseWalletType(walletType.String())
		require.NoError(t, err)
		assert.Equal(t, walletType, parsed)
	}

	_, err := ParseWalletType("carrier-pigeon")
	assert.Error(t, err)
}

func TestZeroWalletIsNotLegacy(t *testing.T) {
	assert.False(t, Wallet{}.IsLegacy())
	assert.Equal(t, "unknown", WalletType(0).String())
}
