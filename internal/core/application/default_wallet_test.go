package application_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/keysafe-network/keysafe-daemon/internal/core/application"
	"github.com/keysafe-network/keysafe-daemon/internal/core/domain"
	"github.com/keysafe-network/keysafe-daemon/internal/core/ports"
)

func TestFallbackDefaultWallet(t *testing.T) {
	three := ports.KeyRecord{
		ID: "w3",
		Accounts: []ports.KeyAccount{
			{Address: "a"}, {Address: "b"}, {Address: "c"},
		},
	}
	five := ports.KeyRecord{
		ID: "w5",
		Accounts: []ports.KeyAccount{
			{Address: "d"}, {Address: "e"}, {Address: "f"},
			{Address: "g"}, {Address: "h"},
		},
	}

	active, changed := application.FallbackDefaultWallet(
		domain.LegacyActiveWallet(),
		nil,
		[]ports.KeyRecord{three, five},
	)
	assert.True(t, changed)
	assert.Equal(t, "w5", active.ID())
}

func TestFallbackDefaultWalletTieBreaksOnListingOrder(t *testing.T) {
	first := ports.KeyRecord{
		ID:       "first",
		Accounts: []ports.KeyAccount{{Address: "a"}, {Address: "b"}},
	}
	second := ports.KeyRecord{
		ID:       "second",
		Accounts: []ports.KeyAccount{{Address: "c"}, {Address: "d"}},
	}

	active, changed := application.FallbackDefaultWallet(
		domain.LegacyActiveWallet(),
		nil,
		[]ports.KeyRecord{first, second},
	)
	assert.True(t, changed)
	assert.Equal(t, "first", active.ID())
}

func TestFallbackDefaultWalletNoOpCases(t *testing.T) {
	records := []ports.KeyRecord{
		{ID: "w1", Accounts: []ports.KeyAccount{{Address: "a"}}},
	}

	// Active wallet is not the legacy sentinel.
	active, changed := application.FallbackDefaultWallet(
		domain.ActiveWallet("w1"), nil, records,
	)
	assert.False(t, changed)
	assert.Equal(t, "w1", active.ID())

	// Legacy accounts exist.
	active, changed = application.FallbackDefaultWallet(
		domain.LegacyActiveWallet(),
		[]domain.Account{{Address: "x", IsLegacy: true}},
		records,
	)
	assert.False(t, changed)
	assert.True(t, active.IsLegacy())

	// Nothing to fall back to.
	_, changed = application.FallbackDefaultWallet(
		domain.LegacyActiveWallet(), nil, nil,
	)
	assert.False(t, changed)
}
