package application_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/keysafe-network/keysafe-daemon/internal/core/ports"
)

// **** KeyManager ****

type mockKeyManager struct {
	mock.Mock
}

func (m *mockKeyManager) List(ctx context.Context) ([]ports.KeyRecord, error) {
	args := m.Called(ctx)

	var res []ports.KeyRecord
	if a := args.Get(0); a != nil {
		res = a.([]ports.KeyRecord)
	}
	return res, args.Error(1)
}

func (m *mockKeyManager) Migrate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockKeyManager) Onboard(ctx context.Context) (*ports.KeyRecord, error) {
	args := m.Called(ctx)

	var res *ports.KeyRecord
	if a := args.Get(0); a != nil {
		res = a.(*ports.KeyRecord)
	}
	return res, args.Error(1)
}

func (m *mockKeyManager) Signup(ctx context.Context) (*ports.KeyRecord, error) {
	args := m.Called(ctx)

	var res *ports.KeyRecord
	if a := args.Get(0); a != nil {
		res = a.(*ports.KeyRecord)
	}
	return res, args.Error(1)
}

func (m *mockKeyManager) Login(ctx context.Context) (*ports.KeyRecord, error) {
	args := m.Called(ctx)

	var res *ports.KeyRecord
	if a := args.Get(0); a != nil {
		res = a.(*ports.KeyRecord)
	}
	return res, args.Error(1)
}

func (m *mockKeyManager) Logout(
	ctx context.Context, walletID string,
) (bool, error) {
	args := m.Called(ctx, walletID)
	return args.Bool(0), args.Error(1)
}

func (m *mockKeyManager) Rename(
	ctx context.Context, walletID, address string,
) (*ports.RenameResult, error) {
	args := m.Called(ctx, walletID, address)

	var res *ports.RenameResult
	if a := args.Get(0); a != nil {
		res = a.(*ports.RenameResult)
	}
	return res, args.Error(1)
}

func (m *mockKeyManager) Export(
	ctx context.Context, walletID string,
) (*ports.ExportResult, error) {
	args := m.Called(ctx, walletID)

	var res *ports.ExportResult
	if a := args.Get(0); a != nil {
		res = a.(*ports.ExportResult)
	}
	return res, args.Error(1)
}

func (m *mockKeyManager) ChangePassphrase(
	ctx context.Context, walletID string,
) error {
	args := m.Called(ctx, walletID)
	return args.Error(0)
}

func (m *mockKeyManager) AddAccount(
	ctx context.Context, walletID string,
) (*ports.KeyAccount, error) {
	args := m.Called(ctx, walletID)

	var res *ports.KeyAccount
	if a := args.Get(0); a != nil {
		res = a.(*ports.KeyAccount)
	}
	return res, args.Error(1)
}

func (m *mockKeyManager) Close() {}

// **** Notifier ****

type mockNotifier struct {
	lock     sync.Mutex
	warnings []string
	errors   []error
}

func (m *mockNotifier) Warn(message string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.warnings = append(m.warnings, message)
}

func (m *mockNotifier) Error(err error) {
	if err == nil || ports.IsCanceled(err) {
		return
	}
	m.lock.Lock()
	defer m.lock.Unlock()
	m.errors = append(m.errors, err)
}

func (m *mockNotifier) warned() []string {
	m.lock.Lock()
	defer m.lock.Unlock()
	return append([]string{}, m.warnings...)
}

func (m *mockNotifier) errored() []error {
	m.lock.Lock()
	defer m.lock.Unlock()
	return append([]error{}, m.errors...)
}

// **** ChainSource ****

type mockChainSource struct {
	eventChan chan ports.ChainEvent
}

func newMockChainSource() *mockChainSource {
	return &mockChainSource{eventChan: make(chan ports.ChainEvent, 100)}
}

func (m *mockChainSource) Start() error {
	return nil
}

func (m *mockChainSource) Stop() {
	m.eventChan <- ports.QuitEvent{}
}

func (m *mockChainSource) EventChannel() chan ports.ChainEvent {
	return m.eventChan
}
