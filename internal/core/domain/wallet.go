package domain

import (
	"encoding/json"
	"fmt"
)

// LegacyWalletID is the well-known id grouping all single-address accounts
// that predate multi-account wallets.
const LegacyWalletID = "LEGACY"

const (
	// The zero value is deliberately no valid wallet type.
	WalletTypeLegacy WalletType = iota + 1
	WalletTypeBIP39
	WalletTypeLedger
)

// WalletType discriminates how the keys of a wallet are held.
type WalletType int

func (t WalletType) String() string {
	switch t {
	case WalletTypeLegacy:
		return "legacy"
	case WalletTypeBIP39:
		return "bip39"
	case WalletTypeLedger:
		return "ledger"
	default:
		return "unknown"
	}
}

// ParseWalletType maps the wire representation of a wallet type to its
// domain value.
func ParseWalletType(walletType string) (WalletType, error) {
	switch walletType {
	case "legacy":
		return WalletTypeLegacy, nil
	case "bip39":
		return WalletTypeBIP39, nil
	case "ledger":
		return WalletTypeLedger, nil
	default:
		return 0, fmt.Errorf("unknown wallet type %s", walletType)
	}
}

func (t WalletType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *WalletType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseWalletType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Wallet defines one key container managed by the key service. The backup
// flags report whether the user holds a login file and the recovery words.
type Wallet struct {
	ID       string     `json:"id"`
	Label    string     `json:"label"`
	Type     WalletType `json:"type"`
	HasFile  bool       `json:"hasFile"`
	HasWords bool       `json:"hasWords"`
}

// IsLegacy returns whether the wallet is the single legacy container.
func (w Wallet) IsLegacy() bool {
	return w.Type == WalletTypeLegacy
}

// ActiveWalletID is the current wallet selection. It is either the legacy
// sentinel, selecting every legacy account across wallets, or the id of one
// concrete wallet.
type ActiveWalletID struct {
	legacy bool
	id     string
}

// LegacyActiveWallet returns the selection of all legacy accounts.
func LegacyActiveWallet() ActiveWalletID {
	return ActiveWalletID{legacy: true}
}

// ActiveWallet returns the selection of the wallet with the given id.
func ActiveWallet(walletID string) ActiveWalletID {
	return ActiveWalletID{id: walletID}
}

// IsLegacy returns whether the selection is the legacy sentinel.
func (a ActiveWalletID) IsLegacy() bool {
	return a.legacy
}

// ID returns the selected wallet id, empty for the legacy sentinel.
func (a ActiveWalletID) ID() string {
	if a.legacy {
		return ""
	}
	return a.id
}

// Selects returns whether the given account belongs to the selection.
func (a ActiveWalletID) Selects(account Account) bool {
	if a.legacy {
		return account.IsLegacy
	}
	return account.WalletID == a.id
}

func (a ActiveWalletID) String() string {
	if a.legacy {
		return LegacyWalletID
	}
	return a.id
}

func (a ActiveWalletID) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *ActiveWalletID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == LegacyWalletID {
		*a = LegacyActiveWallet()
		return nil
	}
	*a = ActiveWallet(s)
	return nil
}
