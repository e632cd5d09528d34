package chainsource

import (
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/keysafe-network/keysafe-daemon/internal/core/ports"
)

const eventQueueMaxSize = 100

// service implements ports.ChainSource over a websocket subscription to the
// network client. Malformed frames are dropped with a diagnostic, they never
// terminate the subscription.
type service struct {
	addr string

	lock *sync.Mutex
	conn *websocket.Conn

	eventChan chan ports.ChainEvent
	quitChan  chan struct{}
}

// NewService returns a ChainSource streaming from the network client at the
// given address. The connection is established by Start.
func NewService(addr string) ports.ChainSource {
	return &service{
		addr:      addr,
		lock:      &sync.Mutex{},
		eventChan: make(chan ports.ChainEvent, eventQueueMaxSize),
		quitChan:  make(chan struct{}, 1),
	}
}

func (s *service) EventChannel() chan ports.ChainEvent {
	return s.eventChan
}

// Start connects and reads events until Stop is called. A dropped connection
// is re-established and reading resumes.
func (s *service) Start() error {
	if err := s.connect(); err != nil {
		return err
	}

	mustReconnect, err := s.readEvents()
	for mustReconnect {
		log.WithError(err).Warn(
			"chain connection dropped unexpectedly. Trying to reconnect...",
		)
		if err = s.connect(); err != nil {
			s.eventChan <- ports.QuitEvent{}
			return err
		}
		log.Debug("chain connection re-established. Restarting...")
		mustReconnect, err = s.readEvents()
	}
	return err
}

func (s *service) Stop() {
	s.quitChan <- struct{}{}
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.conn != nil {
		s.conn.Close()
	}
}

func (s *service) connect() error {
	conn, _, err := websocket.DefaultDialer.Dial(s.addr, nil)
	if err != nil {
		return err
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.conn = conn
	return nil
}

func (s *service) readEvents() (mustReconnect bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			mustReconnect = true
		}
	}()

	for {
		select {
		case <-s.quitChan:
			s.eventChan <- ports.QuitEvent{}
			return false, nil
		default:
		}

		var env envelope
		if err := s.conn.ReadJSON(&env); err != nil {
			// Stop closes the connection; a read error after that is a
			// clean shutdown, not a drop.
			select {
			case <-s.quitChan:
				s.eventChan <- ports.QuitEvent{}
				return false, nil
			default:
				return true, err
			}
		}

		event, err := parseEvent(env)
		if err != nil {
			log.WithError(err).Warnf("dropping malformed chain event %q", env.Event)
			continue
		}
		s.eventChan <- event
	}
}
