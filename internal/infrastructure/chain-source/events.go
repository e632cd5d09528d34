package chainsource

import (
	"encoding/json"
	"fmt"

	"github.com/keysafe-network/keysafe-daemon/internal/core/domain"
	"github.com/keysafe-network/keysafe-daemon/internal/core/ports"
)

// envelope is the frame every event of the network client arrives in.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type balanceEntry struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
}

type transactionPayload struct {
	Hash        string `json:"hash"`
	Sender      string `json:"sender"`
	Recipient   string `json:"recipient"`
	Value       uint64 `json:"value"`
	Fee         uint64 `json:"fee"`
	BlockHeight uint64 `json:"blockHeight"`
}

type headPayload struct {
	Height         uint64 `json:"height"`
	GlobalHashrate uint64 `json:"globalHashrate"`
}

// parseEvent translates one wire frame into its typed event.
func parseEvent(env envelope) (ports.ChainEvent, error) {
	switch env.Event {
	case "consensus-syncing":
		return ports.ConsensusEvent{
			EventType: ports.ConsensusSyncing,
			State:     domain.ConsensusSyncing,
		}, nil
	case "consensus-established":
		return ports.ConsensusEvent{
			EventType: ports.ConsensusEstablished,
			State:     domain.ConsensusEstablished,
		}, nil
	case "consensus-lost":
		return ports.ConsensusEvent{
			EventType: ports.ConsensusLost,
			State:     domain.ConsensusLost,
		}, nil
	case "balances":
		var entries []balanceEntry
		if err := json.Unmarshal(env.Data, &entries); err != nil {
			return nil, err
		}
		balances := make(map[string]uint64, len(entries))
		for _, entry := range entries {
			balances[entry.Address] = entry.Balance
		}
		return ports.BalancesEvent{Balances: balances}, nil
	case "transaction-pending":
		return parseTransaction(env.Data, ports.TransactionPending)
	case "transaction-mined":
		return parseTransaction(env.Data, ports.TransactionMined)
	case "transaction-relayed":
		return parseTransaction(env.Data, ports.TransactionRelayed)
	case "transaction-expired":
		var hash string
		if err := json.Unmarshal(env.Data, &hash); err != nil {
			return nil, err
		}
		return ports.TransactionExpiredEvent{Hash: hash}, nil
	case "head-change":
		var head headPayload
		if err := json.Unmarshal(env.Data, &head); err != nil {
			return nil, err
		}
		return ports.HeadChangedEvent{
			Height:         head.Height,
			GlobalHashrate: head.GlobalHashrate,
		}, nil
	case "peer-count":
		var count int
		if err := json.Unmarshal(env.Data, &count); err != nil {
			return nil, err
		}
		return ports.PeerCountEvent{Count: count}, nil
	case "api-fail":
		return parseAdvisory(env.Data, ports.APIFailed)
	case "different-tab-error":
		return parseAdvisory(env.Data, ports.DuplicateClient)
	default:
		return nil, fmt.Errorf("unknown chain event %q", env.Event)
	}
}

func parseTransaction(
	data json.RawMessage, eventType ports.ChainEventType,
) (ports.ChainEvent, error) {
	var tx transactionPayload
	if err := json.Unmarshal(data, &tx); err != nil {
		return nil, err
	}
	if tx.Hash == "" {
		return nil, fmt.Errorf("transaction event without hash")
	}
	return ports.TransactionEvent{
		EventType:   eventType,
		Hash:        tx.Hash,
		Sender:      tx.Sender,
		Recipient:   tx.Recipient,
		Value:       tx.Value,
		Fee:         tx.Fee,
		BlockHeight: tx.BlockHeight,
	}, nil
}

func parseAdvisory(
	data json.RawMessage, eventType ports.ChainEventType,
) (ports.ChainEvent, error) {
	var message string
	if len(data) > 0 {
		if err := json.Unmarshal(data, &message); err != nil {
			return nil, err
		}
	}
	return ports.AdvisoryEvent{EventType: eventType, Message: message}, nil
}
