package inmemory

import (
	"context"

	"github.com/keysafe-network/keysafe-daemon/internal/core/domain"
)

// NetworkRepositoryImpl represents an in memory storage for the last known
// network status.
type NetworkRepositoryImpl struct {
	db *storeDb
}

// NewNetworkRepositoryImpl returns a network repository backed by the given
// store.
func NewNetworkRepositoryImpl(db *storeDb) *NetworkRepositoryImpl {
	return &NetworkRepositoryImpl{db: db}
}

func (r NetworkRepositoryImpl) GetStatus(
	_ context.Context,
) (domain.NetworkStatus, error) {
	r.db.lock.RLock()
	defer r.db.lock.RUnlock()

	return r.db.network, nil
}

func (r NetworkRepositoryImpl) SetConsensus(
	_ context.Context, state domain.ConsensusState,
) error {
	r.db.lock.Lock()
	defer r.db.lock.Unlock()

	r.db.network.Consensus = state
	return nil
}

// SetHead rejects height regressions with ErrStaleHead, the height of the
// store is monotonically non-decreasing.
func (r NetworkRepositoryImpl) SetHead(
	_ context.Context, height, globalHashrate uint64,
) error {
	r.db.lock.Lock()
	defer r.db.lock.Unlock()

	if height < r.db.network.Height {
		return domain.ErrStaleHead
	}
	r.db.network.Height = height
	r.db.network.GlobalHashrate = globalHashrate
	return nil
}

func (r NetworkRepositoryImpl) SetPeerCount(
	_ context.Context, count int,
) error {
	r.db.lock.Lock()
	defer r.db.lock.Unlock()

	r.db.network.PeerCount = count
	return nil
}
