package keymanagerclient

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sony/gobreaker"

	"github.com/keysafe-network/keysafe-daemon/internal/core/ports"
	"github.com/keysafe-network/keysafe-daemon/pkg/circuitbreaker"
)

// wire kinds the key service answers structured failures with.
const (
	wireKindCanceled          = "CANCELED"
	wireKindMigrationRequired = "MIGRATION_REQUIRED"
	wireKindWalletsLost       = "WALLETS_LOST"
)

type request struct {
	ID        string      `json:"id"`
	Operation string      `json:"operation"`
	Params    interface{} `json:"params,omitempty"`
}

type wireError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type response struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *wireError      `json:"error,omitempty"`
}

// service implements ports.KeyManager over a single websocket connection.
// The connection is the one secure channel towards the key service and cannot
// multiplex two requests for the same logical operation: invoke rejects a
// concurrent call with the same operation name with a busy ServiceError.
type service struct {
	addr    string
	appName string
	conn    *websocket.Conn
	cb      *gobreaker.CircuitBreaker

	writeLock sync.Mutex

	stateLock sync.Mutex
	inflight  map[string]struct{}
	pending   map[string]chan response

	// send performs one request/response round trip. Swapped out in tests.
	send func(ctx context.Context, req request) (response, error)
}

// NewService connects to the key-management service at the given address.
// The appName travels with every request so the service can display who is
// asking.
func NewService(addr, appName string) (ports.KeyManager, error) {
	conn, _, err := websocket.DefaultDialer.Dial(addr, nil)
	if err != nil {
		return nil, err
	}

	svc := newService(appName)
	svc.addr = addr
	svc.conn = conn
	svc.send = svc.roundTrip
	go svc.readPump()

	return svc, nil
}

func newService(appName string) *service {
	return &service{
		appName:  appName,
		cb:       circuitbreaker.NewCircuitBreaker("keymanager"),
		inflight: map[string]struct{}{},
		pending:  map[string]chan response{},
	}
}

func (s *service) Close() {
	if s.conn != nil {
		s.conn.Close()
	}
}

// invoke runs one operation against the service and returns its raw result.
// Transport faults trip the circuit breaker; structured wire errors do not,
// the channel itself worked.
func (s *service) invoke(
	ctx context.Context, operation string, params interface{},
) (json.RawMessage, error) {
	if !s.acquire(operation) {
		return nil, &ports.ServiceError{
			Op:      operation,
			Code:    ports.Busy,
			Message: "a request for this operation is already in flight",
		}
	}
	defer s.release(operation)

	req := request{
		ID:        uuid.NewString(),
		Operation: operation,
		Params:    params,
	}

	res, err := s.cb.Execute(func() (interface{}, error) {
		return s.send(ctx, req)
	})
	if err != nil {
		return nil, &ports.ServiceError{
			Op:      operation,
			Code:    "transport",
			Message: err.Error(),
		}
	}

	resp := res.(response)
	if resp.Error != nil {
		return nil, mapWireError(operation, resp.Error)
	}
	return resp.Result, nil
}

func (s *service) acquire(operation string) bool {
	s.stateLock.Lock()
	defer s.stateLock.Unlock()
	if _, ok := s.inflight[operation]; ok {
		return false
	}
	s.inflight[operation] = struct{}{}
	return true
}

func (s *service) release(operation string) {
	s.stateLock.Lock()
	defer s.stateLock.Unlock()
	delete(s.inflight, operation)
}

func (s *service) roundTrip(
	ctx context.Context, req request,
) (response, error) {
	ch := make(chan response, 1)
	s.stateLock.Lock()
	s.pending[req.ID] = ch
	s.stateLock.Unlock()
	defer func() {
		s.stateLock.Lock()
		delete(s.pending, req.ID)
		s.stateLock.Unlock()
	}()

	s.writeLock.Lock()
	err := s.conn.WriteJSON(req)
	s.writeLock.Unlock()
	if err != nil {
		return response{}, err
	}

	select {
	case resp := <-ch:
		return resp, nil
	case <-ctx.Done():
		return response{}, ctx.Err()
	}
}

// readPump dispatches responses to their pending request by id. A read
// failure settles every pending request; the requests cannot complete on a
// dead channel.
func (s *service) readPump() {
	for {
		var resp response
		if err := s.conn.ReadJSON(&resp); err != nil {
			s.failPending(err)
			return
		}

		s.stateLock.Lock()
		ch, ok := s.pending[resp.ID]
		s.stateLock.Unlock()
		if ok {
			// A duplicate answer for an already settled request must not
			// stall the pump on the full buffer.
			select {
			case ch <- resp:
			default:
			}
		}
	}
}

func (s *service) failPending(err error) {
	s.stateLock.Lock()
	defer s.stateLock.Unlock()
	for id, ch := range s.pending {
		// A request that already settled, or whose waiter gave up on its
		// context, has a full buffer; skip it rather than block under the
		// lock.
		select {
		case ch <- response{ID: id, Error: &wireError{
			Kind:    "CHANNEL_CLOSED",
			Message: err.Error(),
		}}:
		default:
		}
	}
}

func mapWireError(operation string, we *wireError) error {
	switch we.Kind {
	case wireKindCanceled:
		return ports.ErrCanceled
	case wireKindMigrationRequired:
		return ports.ErrMigrationRequired
	case wireKindWalletsLost:
		return ports.ErrDataLost
	default:
		return &ports.ServiceError{
			Op:      operation,
			Code:    we.Kind,
			Message: we.Message,
		}
	}
}
