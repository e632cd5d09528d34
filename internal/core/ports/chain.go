package ports

import "github.com/keysafe-network/keysafe-daemon/internal/core/domain"

const (
	QuitSignal ChainEventType = iota
	ConsensusSyncing
	ConsensusEstablished
	ConsensusLost
	BalancesChanged
	TransactionPending
	TransactionMined
	TransactionRelayed
	TransactionExpired
	HeadChanged
	PeerCountChanged
	APIFailed
	DuplicateClient
)

// ChainEventType discriminates the events a chain source can emit.
type ChainEventType int

func (et ChainEventType) String() string {
	switch et {
	case QuitSignal:
		return "QuitSignal"
	case ConsensusSyncing:
		return "ConsensusSyncing"
	case ConsensusEstablished:
		return "ConsensusEstablished"
	case ConsensusLost:
		return "ConsensusLost"
	case BalancesChanged:
		return "BalancesChanged"
	case TransactionPending:
		return "TransactionPending"
	case TransactionMined:
		return "TransactionMined"
	case TransactionRelayed:
		return "TransactionRelayed"
	case TransactionExpired:
		return "TransactionExpired"
	case HeadChanged:
		return "HeadChanged"
	case PeerCountChanged:
		return "PeerCountChanged"
	case APIFailed:
		return "APIFailed"
	case DuplicateClient:
		return "DuplicateClient"
	default:
		return "Unknown"
	}
}

// ChainEvent is the contract of everything flowing out of a chain source.
type ChainEvent interface {
	Type() ChainEventType
}

// ChainSource is the contract of the streaming network client. Events are
// delivered in arrival order on a single channel; there is no backpressure,
// the consumer must keep up.
type ChainSource interface {
	// Start connects the source and begins emitting events. It blocks until
	// Stop is called or the connection fails beyond recovery.
	Start() error
	// Stop disconnects the source and emits a final QuitEvent.
	Stop()
	// EventChannel returns the channel events are delivered on.
	EventChannel() chan ChainEvent
}

type QuitEvent struct{}

func (q QuitEvent) Type() ChainEventType { return QuitSignal }

// ConsensusEvent reports a change of the consensus connection state.
type ConsensusEvent struct {
	EventType ChainEventType
	State     domain.ConsensusState
}

func (e ConsensusEvent) Type() ChainEventType { return e.EventType }

// BalancesEvent reports the current balance of a set of addresses.
type BalancesEvent struct {
	Balances map[string]uint64
}

func (e BalancesEvent) Type() ChainEventType { return BalancesChanged }

// TransactionEvent reports a pending, mined or relayed transaction.
type TransactionEvent struct {
	EventType   ChainEventType
	Hash        string
	Sender      string
	Recipient   string
	Value       uint64
	Fee         uint64
	BlockHeight uint64
}

func (e TransactionEvent) Type() ChainEventType { return e.EventType }

// TransactionExpiredEvent reports that a pending transaction fell out of the
// mempool without being mined.
type TransactionExpiredEvent struct {
	Hash string
}

func (e TransactionExpiredEvent) Type() ChainEventType { return TransactionExpired }

// HeadChangedEvent reports a new chain head.
type HeadChangedEvent struct {
	Height         uint64
	GlobalHashrate uint64
}

func (e HeadChangedEvent) Type() ChainEventType { return HeadChanged }

// PeerCountEvent reports the current number of connected peers.
type PeerCountEvent struct {
	Count int
}

func (e PeerCountEvent) Type() ChainEventType { return PeerCountChanged }

// AdvisoryEvent carries a fatal or advisory condition of the source itself.
// It is never folded into the store, only surfaced to the notifier.
type AdvisoryEvent struct {
	EventType ChainEventType
	Message   string
}

func (e AdvisoryEvent) Type() ChainEventType { return e.EventType }
