package application

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/keysafe-network/keysafe-daemon/internal/core/domain"
	"github.com/keysafe-network/keysafe-daemon/internal/core/ports"
)

// BlockchainListener folds the streaming chain events into the canonical
// store. It is the only writer of network status, transaction and balance
// fields. Events are consumed by one loop in delivery order, so no two folds
// ever interleave.
type BlockchainListener interface {
	// ObserveChain connects the chain source and starts the consumer loop.
	ObserveChain()
	// StopObserveChain disconnects the chain source; the consumer loop ends
	// once the final quit event is drained.
	StopObserveChain()
	// WhenRelayed returns a channel closed once the transaction with the
	// given hash has been reported as relayed. At most one waiter channel
	// exists per hash.
	WhenRelayed(hash string) <-chan struct{}
}

type blockchainListener struct {
	chainSvc        ports.ChainSource
	repoManager     ports.RepoManager
	notifier        ports.Notifier
	gcConfirmations uint64

	waitersLock  sync.Mutex
	relayWaiters map[string]chan struct{}
}

// NewBlockchainListener returns a BlockchainListener folding events from the
// given source. Expired transactions are pruned once the head has advanced
// gcConfirmations blocks past their removal height.
func NewBlockchainListener(
	chainSvc ports.ChainSource,
	repoManager ports.RepoManager,
	notifier ports.Notifier,
	gcConfirmations uint64,
) BlockchainListener {
	return &blockchainListener{
		chainSvc:        chainSvc,
		repoManager:     repoManager,
		notifier:        notifier,
		gcConfirmations: gcConfirmations,
		relayWaiters:    map[string]chan struct{}{},
	}
}

func (b *blockchainListener) ObserveChain() {
	go func() {
		if err := b.chainSvc.Start(); err != nil {
			log.WithError(err).Error("chain source terminated")
			b.notifier.Error(err)
		}
	}()
	go b.handleChainEvents()
}

func (b *blockchainListener) StopObserveChain() {
	b.chainSvc.Stop()
}

func (b *blockchainListener) WhenRelayed(hash string) <-chan struct{} {
	b.waitersLock.Lock()
	defer b.waitersLock.Unlock()

	if ch, ok := b.relayWaiters[hash]; ok {
		return ch
	}
	ch := make(chan struct{})
	b.relayWaiters[hash] = ch
	return ch
}

func (b *blockchainListener) resolveRelayWaiter(hash string) {
	b.waitersLock.Lock()
	defer b.waitersLock.Unlock()

	if ch, ok := b.relayWaiters[hash]; ok {
		close(ch)
		delete(b.relayWaiters, hash)
	}
}

func (b *blockchainListener) handleChainEvents() {
	for event := range b.chainSvc.EventChannel() {
		chainEventsCounter.WithLabelValues(event.Type().String()).Inc()
		ctx := context.Background()

		var err error
		switch e := event.(type) {
		case ports.QuitEvent:
			return
		case ports.ConsensusEvent:
			err = b.onConsensus(ctx, e)
		case ports.BalancesEvent:
			err = b.onBalances(ctx, e)
		case ports.TransactionEvent:
			err = b.onTransaction(ctx, e)
		case ports.TransactionExpiredEvent:
			err = b.onTransactionExpired(ctx, e)
		case ports.HeadChangedEvent:
			err = b.onHeadChanged(ctx, e)
		case ports.PeerCountEvent:
			err = b.repoManager.NetworkRepository().SetPeerCount(ctx, e.Count)
		case ports.AdvisoryEvent:
			b.onAdvisory(e)
		default:
			log.Warnf("dropping chain event of unknown type %s", event.Type())
		}

		// A failed fold never kills the subscription.
		if err != nil {
			log.WithError(err).Warnf(
				"trying to fold chain event %s", event.Type(),
			)
		}
	}
}

func (b *blockchainListener) onConsensus(
	ctx context.Context, event ports.ConsensusEvent,
) error {
	log.Debugf("consensus %s", event.State)
	return b.repoManager.NetworkRepository().SetConsensus(ctx, event.State)
}

func (b *blockchainListener) onBalances(
	ctx context.Context, event ports.BalancesEvent,
) error {
	return b.repoManager.AccountRepository().UpdateBalances(ctx, event.Balances)
}

// onTransaction ingests pending, mined and relayed transactions. Only
// transactions touching a known account are retained; everything else is
// chain noise and dropped here to keep the store bounded.
func (b *blockchainListener) onTransaction(
	ctx context.Context, event ports.TransactionEvent,
) error {
	// The relay waiter settles on the event itself, not on ingestion: the
	// parties may already be unknown when the relay lands (the owning wallet
	// logged out in between) and the waiter must not hang on that.
	if event.Type() == ports.TransactionRelayed {
		defer b.resolveRelayWaiter(event.Hash)
	}

	relevant, err := b.isRelevant(ctx, event.Sender, event.Recipient)
	if err != nil {
		return err
	}
	if !relevant {
		log.Debugf(
			"dropping transaction %s, sender and recipient are unknown",
			event.Hash,
		)
		return nil
	}

	tx := domain.Transaction{
		Hash:        event.Hash,
		Sender:      event.Sender,
		Recipient:   event.Recipient,
		Value:       event.Value,
		Fee:         event.Fee,
		BlockHeight: event.BlockHeight,
	}
	switch event.Type() {
	case ports.TransactionMined:
		tx.State = domain.TxStateMined
	case ports.TransactionRelayed:
		tx.State = domain.TxStateRelayed
	default:
		tx.State = domain.TxStatePending
	}

	return b.repoManager.TransactionRepository().UpsertTransaction(ctx, tx)
}

func (b *blockchainListener) onTransactionExpired(
	ctx context.Context, event ports.TransactionExpiredEvent,
) error {
	status, err := b.repoManager.NetworkRepository().GetStatus(ctx)
	if err != nil {
		return err
	}
	return b.repoManager.TransactionRepository().MarkRemoved(
		ctx, []string{event.Hash}, status.Height+1,
	)
}

func (b *blockchainListener) onHeadChanged(
	ctx context.Context, event ports.HeadChangedEvent,
) error {
	networkRepo := b.repoManager.NetworkRepository()
	if err := networkRepo.SetHead(
		ctx, event.Height, event.GlobalHashrate,
	); err != nil {
		if errors.Is(err, domain.ErrStaleHead) {
			log.Warnf("dropping stale head change to height %d", event.Height)
			return nil
		}
		return err
	}

	if event.Height <= b.gcConfirmations {
		return nil
	}
	pruned, err := b.repoManager.TransactionRepository().PruneRemoved(
		ctx, event.Height-b.gcConfirmations,
	)
	if err != nil {
		return err
	}
	if pruned > 0 {
		log.Debugf("pruned %d expired transactions", pruned)
	}
	return nil
}

func (b *blockchainListener) onAdvisory(event ports.AdvisoryEvent) {
	switch event.Type() {
	case ports.APIFailed:
		b.notifier.Error(errors.New(event.Message))
	default:
		b.notifier.Warn(event.Message)
	}
}

func (b *blockchainListener) isRelevant(
	ctx context.Context, sender, recipient string,
) (bool, error) {
	accountRepo := b.repoManager.AccountRepository()
	for _, address := range []string{sender, recipient} {
		if _, err := accountRepo.GetAccount(ctx, address); err == nil {
			return true, nil
		} else if err != domain.ErrAccountNotExist {
			return false, err
		}
	}
	return false, nil
}
