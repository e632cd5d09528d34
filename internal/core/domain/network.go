package domain

import (
	"encoding/json"
	"fmt"
)

const (
	ConsensusConnecting ConsensusState = iota
	ConsensusSyncing
	ConsensusEstablished
	ConsensusLost
)

// ConsensusState tracks the connection of the network client to the chain.
type ConsensusState int

func (s ConsensusState) String() string {
	switch s {
	case ConsensusConnecting:
		return "connecting"
	case ConsensusSyncing:
		return "syncing"
	case ConsensusEstablished:
		return "established"
	case ConsensusLost:
		return "lost"
	default:
		return "unknown"
	}
}

// ParseConsensusState maps the wire representation of a consensus state to
// its domain value.
func ParseConsensusState(state string) (ConsensusState, error) {
	switch state {
	case "connecting":
		return ConsensusConnecting, nil
	case "syncing":
		return ConsensusSyncing, nil
	case "established":
		return ConsensusEstablished, nil
	case "lost":
		return ConsensusLost, nil
	default:
		return 0, fmt.Errorf("unknown consensus state %s", state)
	}
}

func (s ConsensusState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ConsensusState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseConsensusState(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// NetworkStatus is the last known view of the chain. Height is monotonically
// non-decreasing, everything else is last writer wins.
type NetworkStatus struct {
	Consensus      ConsensusState `json:"consensus"`
	Height         uint64         `json:"height"`
	GlobalHashrate uint64         `json:"globalHashrate"`
	PeerCount      int            `json:"peerCount"`
}
