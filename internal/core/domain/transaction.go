package domain

import (
	"encoding/json"
	"fmt"
)

const (
	TxStatePending TxState = iota
	TxStateMined
	TxStateRelayed
	TxStateExpired
)

// TxState tracks a transaction through the mempool and the chain.
type TxState int

func (s TxState) String() string {
	switch s {
	case TxStatePending:
		return "pending"
	case TxStateMined:
		return "mined"
	case TxStateRelayed:
		return "relayed"
	case TxStateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// ParseTxState maps the wire representation of a transaction state to its
// domain value.
func ParseTxState(state string) (TxState, error) {
	switch state {
	case "pending":
		return TxStatePending, nil
	case "mined":
		return TxStateMined, nil
	case "relayed":
		return TxStateRelayed, nil
	case "expired":
		return TxStateExpired, nil
	default:
		return 0, fmt.Errorf("unknown transaction state %s", state)
	}
}

func (s TxState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *TxState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseTxState(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Transaction defines a transaction touching at least one known account.
// A removed transaction stays in the store, flagged with the height it fell
// out at, until it is garbage collected.
type Transaction struct {
	Hash            string  `json:"hash"`
	Sender          string  `json:"sender"`
	Recipient       string  `json:"recipient"`
	Value           uint64  `json:"value"`
	Fee             uint64  `json:"fee"`
	State           TxState `json:"state"`
	BlockHeight     uint64  `json:"blockHeight,omitempty"`
	RemovedAtHeight uint64  `json:"removedAtHeight,omitempty"`
}

// IsRemoved returns whether the transaction fell out of the mempool.
func (t Transaction) IsRemoved() bool {
	return t.RemovedAtHeight > 0
}
