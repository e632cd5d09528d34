package domain

import "context"

// NetworkRepository is the abstraction for the store of the last known
// network status.
type NetworkRepository interface {
	// GetStatus returns the current network status.
	GetStatus(ctx context.Context) (NetworkStatus, error)
	// SetConsensus sets the consensus state, last writer wins.
	SetConsensus(ctx context.Context, state ConsensusState) error
	// SetHead sets the chain height and global hashrate.
	SetHead(ctx context.Context, height, globalHashrate uint64) error
	// SetPeerCount sets the number of connected peers.
	SetPeerCount(ctx context.Context, count int) error
}
