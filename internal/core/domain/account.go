package domain

import (
	"encoding/json"
	"fmt"
)

const (
	// AccountTypeKeyguardHigh is an account whose keys the key service holds
	// with full checkout rights.
	AccountTypeKeyguardHigh AccountType = iota + 1
	// AccountTypeKeyguardLow is an account the key service only holds the
	// public key of.
	AccountTypeKeyguardLow
	// AccountTypeHardware is an account backed by a hardware device.
	AccountTypeHardware
	// AccountTypeContract is an on-chain contract observed as an account.
	AccountTypeContract
)

// AccountType discriminates how an account is controlled.
type AccountType int

func (t AccountType) String() string {
	switch t {
	case AccountTypeKeyguardHigh:
		return "keyguard-high"
	case AccountTypeKeyguardLow:
		return "keyguard-low"
	case AccountTypeHardware:
		return "hardware"
	case AccountTypeContract:
		return "contract"
	default:
		return "unknown"
	}
}

// ParseAccountType maps the wire representation of an account type to its
// domain value.
func ParseAccountType(accountType string) (AccountType, error) {
	switch accountType {
	case "keyguard-high":
		return AccountTypeKeyguardHigh, nil
	case "keyguard-low":
		return AccountTypeKeyguardLow, nil
	case "hardware":
		return AccountTypeHardware, nil
	case "contract":
		return AccountTypeContract, nil
	default:
		return 0, fmt.Errorf("unknown account type %s", accountType)
	}
}

func (t AccountType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *AccountType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAccountType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Account defines one address of a wallet. The balance is nil until the
// network reported one, so an unknown balance is distinguishable from an
// empty one.
type Account struct {
	Address  string      `json:"address"`
	Label    string      `json:"label"`
	Type     AccountType `json:"type"`
	WalletID string      `json:"walletId"`
	IsLegacy bool        `json:"isLegacy"`
	Balance  *uint64     `json:"balance,omitempty"`
}

// HasBalance returns whether the network already reported a balance.
func (a Account) HasBalance() bool {
	return a.Balance != nil
}
